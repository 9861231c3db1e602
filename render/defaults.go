package render

import (
	"strings"

	"diplomas/qr"
)

type defaultCopy struct {
	Title     string
	Presented string
	Completed string
}

var defaultCopies = map[string]defaultCopy{
	"es": {Title: "CERTIFICADO", Presented: "Se otorga el presente certificado a", Completed: "por haber completado satisfactoriamente el curso"},
	"en": {Title: "CERTIFICATE", Presented: "This certificate is presented to", Completed: "for successfully completing the course"},
	"pt": {Title: "CERTIFICADO", Presented: "Certificamos que", Completed: "concluiu com sucesso o curso"},
}

// DefaultFields is the built-in certificate layout used when a template declares no fields
func DefaultFields(locale string) []Field {
	copyText, ok := defaultCopies[strings.ToLower(strings.SplitN(locale, "-", 2)[0])]
	if !ok {
		copyText = defaultCopies["es"]
	}

	full := float64(CanvasWidth)
	centered := func(id string, y float64, size int, bold bool, color string) Field {
		w := full
		return Field{
			ID:      id,
			Kind:    KindVariable,
			X:       0,
			Y:       y,
			Width:   &w,
			Opacity: 1,
			Style: TextStyle{
				FontFamily: DefaultFontFamily,
				FontSize:   size,
				FontColor:  color,
				Bold:       bold,
				Align:      "center",
			},
		}
	}
	text := func(f Field, s string) Field {
		f.Kind = KindText
		f.Text = s
		return f
	}
	variable := func(f Field, name string) Field {
		f.Variable = name
		return f
	}

	qrOpts := qr.DefaultOptions()
	certID := centered("default-certificate-id", 730, 14, false, "#6b7280")
	certID.X, certID.Width, certID.Style.Align = 60, nil, "left"

	return []Field{
		text(centered("default-title", 100, 56, true, "#1f2937"), copyText.Title),
		text(centered("default-presented", 200, 20, false, "#4b5563"), copyText.Presented),
		variable(centered("default-recipient", 245, 44, true, "#111827"), VarRecipientName),
		text(centered("default-completed", 330, 20, false, "#4b5563"), copyText.Completed),
		variable(centered("default-course", 370, 32, true, "#1f2937"), VarCourseName),
		variable(centered("default-instructor", 450, 18, false, "#374151"), VarInstructorName),
		variable(centered("default-duration", 480, 18, false, "#374151"), VarDurationHours),
		variable(centered("default-date", 510, 18, false, "#374151"), VarCompletionDate),
		variable(centered("default-organization", 600, 24, true, "#1f2937"), VarOrganizationName),
		variable(certID, VarCertificateID),
		{ID: "default-qr", Kind: KindQRCode, X: float64(CanvasWidth) - 60 - float64(qrOpts.Size), Y: 634, Opacity: 1, QR: &qrOpts},
	}
}

// EffectiveFields returns the layout fields, or the built-in layout when there are none
func (l Layout) EffectiveFields(locale string) []Field {
	if len(l.Fields) > 0 {
		return l.Fields
	}
	return DefaultFields(locale)
}
