package render

import (
	log "github.com/sirupsen/logrus"

	"diplomas/qr"
	"diplomas/utils"
)

// Context is the denormalized diploma data a template is resolved against
type Context struct {
	RecipientName    string
	CourseName       string
	IssueDate        string // already formatted for the diploma locale
	Instructor       string
	DurationHours    int
	CertificateID    string
	OrganizationName string
}

// ResolvedField is a field reduced to its final value: display text for
// variable/text fields, a data URI for QR codes, the image URL for images.
type ResolvedField struct {
	Field
	Value string
}

// IsImage reports whether the value is drawn as an <img>
func (r ResolvedField) IsImage() bool {
	return r.Kind == KindImage || r.Kind == KindQRCode
}

// Resolver turns template fields into a render list
type Resolver struct {
	// VerifyBaseURL prefixes /verify/<certificate_id> in QR payloads
	VerifyBaseURL string
	// ImagesOnTop layers image fields after every other field
	ImagesOnTop bool
	Locale      string
}

func NewResolver(verifyBaseURL string, imagesOnTop bool, locale string) *Resolver {
	return &Resolver{VerifyBaseURL: verifyBaseURL, ImagesOnTop: imagesOnTop, Locale: locale}
}

// Resolve never fails: fields without a value are dropped, image fields are always kept.
func (r *Resolver) Resolve(fields []Field, ctx Context) []ResolvedField {
	out := make([]ResolvedField, 0, len(fields))
	var images []ResolvedField

	for _, f := range fields {
		if f.Kind == KindImage {
			rf := resolveImage(f)
			if r.ImagesOnTop {
				images = append(images, rf)
			} else {
				out = append(out, rf)
			}
			continue
		}

		rf, ok := r.resolveOne(f, ctx)
		if !ok {
			continue
		}
		out = append(out, rf)
	}

	return append(out, images...)
}

func (r *Resolver) resolveOne(f Field, ctx Context) (ResolvedField, bool) {
	switch f.Kind {
	case KindQRCode:
		return r.resolveQR(f, ctx)
	case KindText:
		if f.Text == "" {
			return ResolvedField{}, false
		}
		return ResolvedField{Field: f, Value: f.Text}, true
	default:
		if f.Variable == VarQRCode {
			return r.resolveQR(f, ctx)
		}
		value := r.lookup(f.Variable, ctx)
		if value == "" {
			return ResolvedField{}, false
		}
		return ResolvedField{Field: f, Value: value}, true
	}
}

func (r *Resolver) lookup(name string, ctx Context) string {
	switch name {
	case VarRecipientName:
		return ctx.RecipientName
	case VarCourseName:
		return ctx.CourseName
	case VarCompletionDate, VarIssueDate:
		return ctx.IssueDate
	case VarInstructorName:
		return ctx.Instructor
	case VarDurationHours:
		return utils.FormatDurationHours(ctx.DurationHours, r.Locale)
	case VarCertificateID:
		return ctx.CertificateID
	case VarOrganizationName:
		return ctx.OrganizationName
	}
	return ""
}

func (r *Resolver) resolveQR(f Field, ctx Context) (ResolvedField, bool) {
	if ctx.CertificateID == "" {
		return ResolvedField{}, false
	}
	opts := qr.DefaultOptions()
	if f.QR != nil {
		opts = *f.QR
	}
	if opts.Size <= 0 {
		opts.Size = qr.DefaultOptions().Size
	}

	uri, err := qr.Generate(utils.VerificationURL(r.VerifyBaseURL, ctx.CertificateID), opts)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"field_id":       f.ID,
			"certificate_id": ctx.CertificateID,
		}).Warn("[RENDERER] dropping qr field")
		return ResolvedField{}, false
	}

	size := float64(opts.Size)
	f.Kind = KindQRCode
	f.QR = &opts
	f.Width, f.Height = &size, &size
	return ResolvedField{Field: f, Value: uri}, true
}

func resolveImage(f Field) ResolvedField {
	if f.Image == nil {
		f.Image = &ImageSpec{Width: DefaultImageWidth, Height: DefaultImageHeight}
	}
	w, h := f.Image.Width, f.Image.Height
	f.Width, f.Height = &w, &h
	return ResolvedField{Field: f, Value: f.Image.URL}
}
