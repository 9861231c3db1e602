package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"diplomas/qr"
)

// Canvas size of an A4 landscape page at 96 DPI
const (
	CanvasWidth  = 1123
	CanvasHeight = 794
)

//go:embed templates/diploma.html
var templateFS embed.FS

var diplomaTemplate = template.Must(template.ParseFS(templateFS, "templates/diploma.html"))

// Layout is the template data the document is built from
type Layout struct {
	Name          string
	BackgroundURL string
	Width         int
	Height        int
	Fields        []Field
}

// Document is the render-ready page: background, canvas size and the ordered render list
type Document struct {
	Title         string
	BackgroundURL string
	Width         int
	Height        int
	Fields        []ResolvedField
}

// BuildDocument positions the resolved fields over the layout canvas
func BuildDocument(layout Layout, resolved []ResolvedField) *Document {
	w, h := layout.Width, layout.Height
	if w <= 0 {
		w = CanvasWidth
	}
	if h <= 0 {
		h = CanvasHeight
	}
	return &Document{
		Title:         layout.Name,
		BackgroundURL: layout.BackgroundURL,
		Width:         w,
		Height:        h,
		Fields:        resolved,
	}
}

type element struct {
	ID      string
	IsImage bool
	Src     template.URL
	Text    string
	Style   template.CSS
}

type pageData struct {
	Title       string
	FontLinks   []string
	CanvasStyle template.CSS
	Background  template.URL
	Elements    []element
}

// HTML renders the document into a standalone page
func (d *Document) HTML() (string, error) {
	p := pageData{
		Title:       d.Title,
		FontLinks:   fontLinks(d.Fields),
		CanvasStyle: template.CSS(fmt.Sprintf("width:%dpx;height:%dpx;", d.Width, d.Height)),
		Background:  safeURL(d.BackgroundURL),
		Elements:    make([]element, 0, len(d.Fields)),
	}
	for _, f := range d.Fields {
		p.Elements = append(p.Elements, toElement(f))
	}

	var buf bytes.Buffer
	if err := diplomaTemplate.Execute(&buf, p); err != nil {
		return "", errors.Wrap(err, "could not execute diploma template")
	}
	return buf.String(), nil
}

func toElement(f ResolvedField) element {
	el := element{ID: f.ID, IsImage: f.IsImage()}
	var css strings.Builder
	fmt.Fprintf(&css, "left:%spx;top:%spx;", px(f.X), px(f.Y))

	if el.IsImage {
		el.Src = safeURL(f.Value)
		if f.Width != nil {
			fmt.Fprintf(&css, "width:%spx;", px(*f.Width))
		}
		if f.Height != nil {
			fmt.Fprintf(&css, "height:%spx;", px(*f.Height))
		}
		css.WriteString("object-fit:contain;")
	} else {
		el.Text = f.Value
		writeTextStyle(&css, f.Field)
	}

	if f.Rotation != 0 {
		fmt.Fprintf(&css, "transform:rotate(%sdeg);", px(f.Rotation))
	}
	if f.Opacity < 1 {
		fmt.Fprintf(&css, "opacity:%s;", px(f.Opacity))
	}
	el.Style = template.CSS(css.String())
	return el
}

func writeTextStyle(css *strings.Builder, f Field) {
	s := f.Style
	if f.Width != nil {
		fmt.Fprintf(css, "width:%spx;", px(*f.Width))
	} else {
		css.WriteString("white-space:nowrap;")
	}
	if f.Height != nil {
		fmt.Fprintf(css, "height:%spx;", px(*f.Height))
	}
	fmt.Fprintf(css, "font-family:'%s',sans-serif;", cssIdent(orDefault(s.FontFamily, DefaultFontFamily)))
	size := s.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	fmt.Fprintf(css, "font-size:%dpx;", size)
	color := s.FontColor
	if !qr.IsHexColor(color) {
		color = DefaultFontColor
	}
	fmt.Fprintf(css, "color:%s;", color)
	if s.Bold {
		css.WriteString("font-weight:700;")
	}
	if s.Italic {
		css.WriteString("font-style:italic;")
	}
	if s.Underline {
		css.WriteString("text-decoration:underline;")
	}
	fmt.Fprintf(css, "text-align:%s;", textAlign(s.Align))
}

func textAlign(a string) string {
	switch a {
	case "center", "right", "justify":
		return a
	}
	return DefaultAlign
}

// cssIdent keeps font names from breaking out of the quoted declaration
func cssIdent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\'', '"', ';', '{', '}', '<', '>', '\\', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// safeURL passes data URIs and http(s) or root-relative references, anything else is dropped
func safeURL(s string) template.URL {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "data:image/"):
		return template.URL(s)
	case strings.HasPrefix(s, "/"):
		return template.URL(s)
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return template.URL(s)
}

func fontLinks(fields []ResolvedField) []string {
	families := map[string]struct{}{}
	for _, f := range fields {
		if f.IsImage() {
			continue
		}
		families[cssIdent(orDefault(f.Style.FontFamily, DefaultFontFamily))] = struct{}{}
	}
	if len(families) == 0 {
		return nil
	}
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)

	q := make([]string, 0, len(names)+1)
	for _, name := range names {
		q = append(q, "family="+url.QueryEscape(name)+":ital,wght@0,400;0,700;1,400;1,700")
	}
	q = append(q, "display=swap")
	return []string{"https://fonts.googleapis.com/css2?" + strings.Join(q, "&")}
}
