package handlers

import (
	"errors"
	"strconv"
	"strings"
)

var errInvalidPrice = errors.New("invalid price")

// ParsePrice разбирает цену вида "350", "350.50", "$350,5" в центы
func ParsePrice(text string) (int, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, errInvalidPrice
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	units, err := strconv.Atoi(whole)
	if err != nil || units < 0 {
		return 0, errInvalidPrice
	}

	cents := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, errInvalidPrice
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.Atoi(frac)
		if err != nil || cents < 0 {
			return 0, errInvalidPrice
		}
	}

	return units*100 + cents, nil
}

// textLength длина строки в символах
func textLength(s string) int {
	return len([]rune(s))
}
