package formatting

import "fmt"

// FormatPrice форматирует цену из центов
func FormatPrice(priceInCents int) string {
	price := float64(priceInCents) / 100
	return fmt.Sprintf("$%.2f", price)
}

// FormatPriceShort форматирует цену без центов если они равны 0
func FormatPriceShort(priceInCents int) string {
	if priceInCents == 0 {
		return "Sin costo"
	}
	price := float64(priceInCents) / 100
	if priceInCents%100 == 0 {
		return fmt.Sprintf("$%.0f", price)
	}
	return fmt.Sprintf("$%.2f", price)
}
