package handlers

// Константы валидации диалогов
const (
	// Название услуги
	ServiceNameMinLength = 2
	ServiceNameMaxLength = 100

	// Длительность услуги (в минутах)
	ServiceMinDuration = 5
	ServiceMaxDuration = 480 // 8 часов

	// Цена услуги (в центах)
	ServiceMaxPrice = 100_000_000

	// Клиент
	ClientNameMinLength  = 2
	ClientNameMaxLength  = 100
	ClientPhoneMaxLength = 30
	ClientEmailMaxLength = 254
	ClientNotesMaxLength = 500
)

// Ключи данных сессии
const (
	dataServiceName     = "service_name"
	dataServiceDuration = "service_duration"
	dataClientName      = "client_name"
)

// skipValue пропуск необязательного шага
const skipValue = "-"
