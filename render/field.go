package render

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"diplomas/qr"
)

// Kind discriminates the four field variants a template can hold
type Kind string

const (
	KindVariable Kind = "variable"
	KindText     Kind = "text"
	KindImage    Kind = "image"
	KindQRCode   Kind = "qr_code"
)

// Variable names resolvable at render time
const (
	VarRecipientName    = "recipient_name"
	VarCourseName       = "course_name"
	VarCompletionDate   = "completion_date"
	VarIssueDate        = "issue_date"
	VarInstructorName   = "instructor_name"
	VarDurationHours    = "duration_hours"
	VarCertificateID    = "certificate_id"
	VarOrganizationName = "organization_name"
	VarQRCode           = "qr_code"
)

// Field defaults applied to partial definitions
const (
	DefaultFontFamily  = "Urbanist"
	DefaultFontSize    = 24
	DefaultFontColor   = "#000000"
	DefaultAlign       = "left"
	DefaultImageWidth  = 150.0
	DefaultImageHeight = 150.0
)

// TextStyle applies to variable and static text fields
type TextStyle struct {
	FontFamily string
	FontSize   int
	FontColor  string
	Bold       bool
	Italic     bool
	Underline  bool
	Align      string
}

// ImageSpec is the payload of an image field
type ImageSpec struct {
	URL    string
	Width  float64
	Height float64
}

// Field is one positioned element of a template. Exactly one of Variable, Text,
// Image or QR is meaningful, selected by Kind.
type Field struct {
	ID       string
	Kind     Kind
	X        float64
	Y        float64
	Width    *float64
	Height   *float64
	Rotation float64
	Opacity  float64
	Style    TextStyle

	Variable string
	Text     string
	Image    *ImageSpec
	QR       *qr.Options
}

// fieldJSON is the wire shape; pointers mark attributes that have defaults
type fieldJSON struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Width      *float64 `json:"width,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Text       string   `json:"text,omitempty"`
	Variable   string   `json:"variable,omitempty"`
	FontFamily string   `json:"fontFamily,omitempty"`
	FontSize   int      `json:"fontSize,omitempty"`
	FontColor  string   `json:"fontColor,omitempty"`
	Bold       bool     `json:"bold"`
	Italic     bool     `json:"italic"`
	Underline  bool     `json:"underline"`
	Align      string   `json:"align,omitempty"`
	Rotation   float64  `json:"rotation"`
	Opacity    *float64 `json:"opacity,omitempty"`

	ImageURL    string   `json:"imageUrl,omitempty"`
	ImageWidth  *float64 `json:"imageWidth,omitempty"`
	ImageHeight *float64 `json:"imageHeight,omitempty"`

	QRColor       string `json:"qrColor,omitempty"`
	QRSize        int    `json:"qrSize,omitempty"`
	QRBgColor     string `json:"qrBgColor,omitempty"`
	QRCornerStyle string `json:"qrCornerStyle,omitempty"`
	QRDotStyle    string `json:"qrDotStyle,omitempty"`
	QRErrorLevel  string `json:"qrErrorLevel,omitempty"`
}

// UnmarshalJSON accepts partial definitions and the legacy shapes where the QR
// code was a variable and image sizes lived in imageWidth/imageHeight.
func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*f = Field{
		ID:       w.ID,
		X:        w.X,
		Y:        w.Y,
		Width:    w.Width,
		Height:   w.Height,
		Rotation: w.Rotation,
		Opacity:  1,
		Style: TextStyle{
			FontFamily: orDefault(w.FontFamily, DefaultFontFamily),
			FontSize:   w.FontSize,
			FontColor:  orDefault(w.FontColor, DefaultFontColor),
			Bold:       w.Bold,
			Italic:     w.Italic,
			Underline:  w.Underline,
			Align:      orDefault(w.Align, DefaultAlign),
		},
	}
	if f.Style.FontSize <= 0 {
		f.Style.FontSize = DefaultFontSize
	}
	if w.Opacity != nil {
		f.Opacity = clamp01(*w.Opacity)
	}

	typ := Kind(strings.ToLower(strings.TrimSpace(w.Type)))
	switch {
	case typ == KindQRCode || w.Variable == VarQRCode:
		f.Kind = KindQRCode
		f.QR = &qr.Options{
			FillColor:       orDefault(w.QRColor, "#000000"),
			BackgroundColor: orDefault(w.QRBgColor, qr.Transparent),
			CornerStyle:     qr.CornerStyle(orDefault(w.QRCornerStyle, string(qr.CornerSquare))),
			DotStyle:        qr.DotStyle(orDefault(w.QRDotStyle, string(qr.DotSquares))),
			ErrorLevel:      orDefault(w.QRErrorLevel, "M"),
			Size:            w.QRSize,
		}
		if f.QR.Size <= 0 {
			f.QR.Size = 100
		}
	case typ == KindImage:
		f.Kind = KindImage
		f.Image = &ImageSpec{
			URL:    w.ImageURL,
			Width:  firstSize(DefaultImageWidth, w.ImageWidth, w.Width),
			Height: firstSize(DefaultImageHeight, w.ImageHeight, w.Height),
		}
	case typ == KindVariable, typ == KindText && w.Text == "" && w.Variable != "":
		f.Kind = KindVariable
		f.Variable = w.Variable
	case typ == KindText:
		f.Kind = KindText
		f.Text = w.Text
	default:
		// unknown types degrade to whatever payload they carry
		if w.Variable != "" {
			f.Kind = KindVariable
			f.Variable = w.Variable
		} else {
			f.Kind = KindText
			f.Text = w.Text
		}
	}
	return nil
}

// MarshalJSON writes the canonical shape
func (f Field) MarshalJSON() ([]byte, error) {
	opacity := f.Opacity
	w := fieldJSON{
		ID:         f.ID,
		Type:       string(f.Kind),
		X:          f.X,
		Y:          f.Y,
		Width:      f.Width,
		Height:     f.Height,
		FontFamily: f.Style.FontFamily,
		FontSize:   f.Style.FontSize,
		FontColor:  f.Style.FontColor,
		Bold:       f.Style.Bold,
		Italic:     f.Style.Italic,
		Underline:  f.Style.Underline,
		Align:      f.Style.Align,
		Rotation:   f.Rotation,
		Opacity:    &opacity,
	}
	switch f.Kind {
	case KindVariable:
		w.Variable = f.Variable
	case KindText:
		w.Text = f.Text
	case KindImage:
		if f.Image != nil {
			w.ImageURL = f.Image.URL
			width, height := f.Image.Width, f.Image.Height
			w.Width, w.Height = &width, &height
		}
	case KindQRCode:
		if f.QR != nil {
			w.QRColor = f.QR.FillColor
			w.QRBgColor = f.QR.BackgroundColor
			w.QRCornerStyle = string(f.QR.CornerStyle)
			w.QRDotStyle = string(f.QR.DotStyle)
			w.QRErrorLevel = f.QR.ErrorLevel
			w.QRSize = f.QR.Size
		}
	}
	return json.Marshal(w)
}

// ValidateFields reports the first field whose QR colors cannot be parsed
func ValidateFields(fields []Field) error {
	for i, f := range fields {
		if f.Kind != KindQRCode || f.QR == nil {
			continue
		}
		if err := f.QR.Validate(); err != nil {
			return errors.Wrapf(err, "field %d (%s)", i, f.ID)
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func firstSize(def float64, candidates ...*float64) float64 {
	for _, c := range candidates {
		if c != nil && *c > 0 {
			return *c
		}
	}
	return def
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
