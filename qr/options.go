package qr

import (
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// Transparent is the background sentinel that removes the background fill
const Transparent = "transparent"

// ErrInvalidColor is returned when a fill or background color is not a hex color
var ErrInvalidColor = errors.New("invalid color format")

// CornerStyle selects the rendering path: square corners are rasterized, rounded ones are drawn as SVG
type CornerStyle string

const (
	CornerSquare  CornerStyle = "square"
	CornerRounded CornerStyle = "rounded"
)

// DotStyle controls module rounding on the vector path
type DotStyle string

const (
	DotSquares DotStyle = "squares"
	DotDots    DotStyle = "dots"
	DotRounded DotStyle = "rounded"
)

// Options describes how a verification code is drawn
type Options struct {
	FillColor       string      `json:"fill_color"`
	BackgroundColor string      `json:"background_color"`
	CornerStyle     CornerStyle `json:"corner_style"`
	DotStyle        DotStyle    `json:"dot_style"`
	ErrorLevel      string      `json:"error_level"`
	Size            int         `json:"size"`
}

// DefaultOptions is the styling used for the QR stored on every issued diploma
func DefaultOptions() Options {
	return Options{
		FillColor:       "#000000",
		BackgroundColor: Transparent,
		CornerStyle:     CornerSquare,
		DotStyle:        DotSquares,
		ErrorLevel:      "M",
		Size:            100,
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsHexColor reports whether s is #RGB or #RRGGBB
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// ParseColor converts #RGB or #RRGGBB into an opaque color
func ParseColor(s string) (color.NRGBA, error) {
	if !IsHexColor(s) {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, errors.Wrapf(ErrInvalidColor, "%q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// RecoveryLevel maps L/M/Q/H to the encoder's level; anything else is M
func RecoveryLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "L":
		return qrcode.Low
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}

// normalize fills empty values and folds unknown styles back to the square defaults
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.FillColor == "" {
		o.FillColor = def.FillColor
	}
	if o.BackgroundColor == "" {
		o.BackgroundColor = def.BackgroundColor
	}
	if strings.EqualFold(o.BackgroundColor, Transparent) {
		o.BackgroundColor = Transparent
	}
	switch o.CornerStyle {
	case CornerSquare, CornerRounded:
	default:
		o.CornerStyle = CornerSquare
	}
	switch o.DotStyle {
	case DotSquares, DotDots, DotRounded:
	default:
		o.DotStyle = DotSquares
	}
	switch strings.ToUpper(o.ErrorLevel) {
	case "L", "M", "Q", "H":
		o.ErrorLevel = strings.ToUpper(o.ErrorLevel)
	default:
		o.ErrorLevel = def.ErrorLevel
	}
	if o.Size <= 0 {
		o.Size = def.Size
	}
	return o
}

// Validate checks both colors up front so callers get ErrInvalidColor instead of a parse failure later
func (o Options) Validate() error {
	o = o.normalize()
	if _, err := ParseColor(o.FillColor); err != nil {
		return errors.Wrap(err, "fill color")
	}
	if o.BackgroundColor != Transparent {
		if _, err := ParseColor(o.BackgroundColor); err != nil {
			return errors.Wrap(err, "background color")
		}
	}
	return nil
}
