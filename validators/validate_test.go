package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Color string `json:"color" validate:"hexcolor_or_transparent"`
	Hours int    `json:"hours" validate:"gte=0"`
}

func TestStructMessagesUseJSONNames(t *testing.T) {
	errs := Struct(&sample{Email: "nope", Color: "red", Hours: -1})

	assert.Equal(t, map[string]string{
		"name":  "name is required!",
		"email": "Invalid email!",
		"color": "Invalid color, use #RGB, #RRGGBB or transparent!",
		"hours": "hours must be greater than or equal to 0!",
	}, errs)
}

func TestHexColorOrTransparent(t *testing.T) {
	for _, c := range []string{"", "#fff", "#A1B2C3", "transparent", "Transparent"} {
		assert.Nil(t, Struct(&sample{Name: "x", Color: c}), c)
	}
	for _, c := range []string{"fff", "#ffff", "#GGGGGG", "rgb(0,0,0)"} {
		assert.Contains(t, Struct(&sample{Name: "x", Color: c}), "color", c)
	}
}
