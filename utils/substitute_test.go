package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteVariables(t *testing.T) {
	vars := map[string]string{
		"recipient_name": "Ana <b>López</b>",
		"course_name":    "{{recipient_name}}",
	}

	assert.Equal(t, "Hola Ana <b>López</b>, curso {{recipient_name}}. {{unknown}} { {course_name}}",
		SubstituteVariables("Hola {{recipient_name}}, curso {{course_name}}. {{unknown}} { {course_name}}", vars))
	assert.Equal(t, "", SubstituteVariables("", vars))
	assert.Equal(t, "{{recipient_name}}", SubstituteVariables("{{recipient_name}}", nil))
	assert.Equal(t, "{{ recipient_name }}", SubstituteVariables("{{ recipient_name }}", vars))
}

func TestFormatDiplomaDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "05 de marzo, 2024", FormatDiplomaDate(d, "es"))
	assert.Equal(t, "05 de marzo, 2024", FormatDiplomaDate(d, "xx"))
	assert.Equal(t, "March 05, 2024", FormatDiplomaDate(d, "en-US"))
	assert.Equal(t, "05 de março, 2024", FormatDiplomaDate(d, "pt_BR"))
	assert.Equal(t, "", FormatDiplomaDate(time.Time{}, "es"))
}

func TestFormatDurationHours(t *testing.T) {
	assert.Equal(t, "40 horas", FormatDurationHours(40, "es"))
	assert.Equal(t, "8 hours", FormatDurationHours(8, "en"))
	assert.Equal(t, "0 horas", FormatDurationHours(0, "es"))
	assert.Equal(t, "0 hours", FormatDurationHours(-3, "en"))
}
