package common

// ========================
// Callback Data Patterns
// ========================
// Telegram ограничивает callback data 64 байтами, поэтому префиксы короткие

// Агенда
const (
	AgendaDay = "agenda:" // agenda:2024-06-03 | agenda:today
)

// Сценарий записи клиента
const (
	AppointmentNew     = "ap_new"
	AppointmentDates   = "ap_dates:"  // ap_dates:page
	AppointmentDate    = "ap_date:"   // ap_date:2024-06-03
	AppointmentService = "ap_svc:"    // ap_svc:service_id
	AppointmentSlot    = "ap_slot:"   // ap_slot:09:30
	AppointmentClient  = "ap_client:" // ap_client:client_id, 0 - без клиента
	AppointmentConfirm = "ap_confirm"

	AppointmentView   = "ap_view:"   // ap_view:appointment_id
	AppointmentEdit   = "ap_edit:"   // ap_edit:appointment_id
	AppointmentCancel = "ap_cancel:" // ap_cancel:appointment_id
	AppointmentDelete = "ap_delete:" // ap_delete:appointment_id
)

// Сценарий блокировки времени
const (
	BlockNew     = "bl_new"
	BlockDates   = "bl_dates:" // bl_dates:page
	BlockDate    = "bl_date:"  // bl_date:2024-06-03
	BlockStart   = "bl_start:" // bl_start:09:30
	BlockEnd     = "bl_end:"   // bl_end:11:00
	BlockTitle   = "bl_title"
	BlockConfirm = "bl_confirm"

	BlockView   = "bl_view:"   // bl_view:block_id
	BlockEdit   = "bl_edit:"   // bl_edit:block_id
	BlockDelete = "bl_delete:" // bl_delete:block_id
)

// FlowAbort прерывает любой сценарий
const FlowAbort = "flow_abort"

// Недельное расписание
const (
	ScheduleView     = "sch_view"
	ScheduleDay      = "sch_day:"    // sch_day:MON
	ScheduleToggle   = "sch_toggle:" // sch_toggle:MON
	ScheduleHours    = "sch_hours:"  // sch_hours:MON
	ScheduleBreak    = "sch_break:"  // sch_break:MON
	ScheduleClear    = "sch_clear:"  // sch_clear:MON
	ScheduleTimezone = "sch_tz"
)

// Услуги и клиенты
const (
	ServiceList   = "svc_list"
	ServiceNew    = "svc_new"
	ServiceView   = "svc_view:"   // svc_view:service_id
	ServiceToggle = "svc_toggle:" // svc_toggle:service_id
	ServiceDelete = "svc_delete:" // svc_delete:service_id
	ServiceEdit   = "svc_edit:"   // svc_edit:field:service_id
	ServiceHist   = "svc_hist:"   // svc_hist:service_id

	ClientList   = "cl_list"
	ClientNew    = "cl_new"
	ClientView   = "cl_view:"   // cl_view:client_id
	ClientDelete = "cl_delete:" // cl_delete:client_id
	ClientEdit   = "cl_edit:"   // cl_edit:field:client_id
	ClientHist   = "cl_hist:"   // cl_hist:client_id
)

// Редактируемые поля услуг и клиентов
const (
	FieldName     = "name"
	FieldDuration = "duration"
	FieldPrice    = "price"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldNotes    = "notes"
)
