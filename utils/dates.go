package utils

import (
	"fmt"
	"strings"
	"time"
)

var monthNames = map[string][12]string{
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
}

var hourUnits = map[string]string{
	"es": "horas",
	"en": "hours",
	"pt": "horas",
}

func localeKey(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	if _, ok := monthNames[locale]; !ok {
		return "es"
	}
	return locale
}

// FormatDiplomaDate renders the issue date printed on diplomas.
// es/pt: "05 de marzo, 2024"; en: "March 05, 2024".
func FormatDiplomaDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	key := localeKey(locale)
	month := monthNames[key][t.Month()-1]
	if key == "en" {
		return fmt.Sprintf("%s %02d, %d", month, t.Day(), t.Year())
	}
	return fmt.Sprintf("%02d de %s, %d", t.Day(), month, t.Year())
}

// FormatDurationHours renders "<n> horas" (or the locale's unit). A missing duration reads as zero.
func FormatDurationHours(hours int, locale string) string {
	if hours < 0 {
		hours = 0
	}
	return fmt.Sprintf("%d %s", hours, hourUnits[localeKey(locale)])
}
