package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentHTMLPositions(t *testing.T) {
	fields := parseFields(t, `[
		{"id":"name","type":"variable","variable":"recipient_name","x":100,"y":120.5,"rotation":-12,"opacity":0.8,
		 "fontFamily":"Playfair Display","fontSize":40,"fontColor":"#336699","bold":true,"italic":true,"underline":true,"align":"center","width":600},
		{"id":"logo","type":"image","x":50,"y":60,"imageUrl":"https://cdn.example.com/logo.png","width":90,"height":45}
	]`)
	resolved := NewResolver(testBase, true, "es").Resolve(fields, testContext())
	doc := BuildDocument(Layout{Name: "Main", BackgroundURL: "/api/uploads/bg.png"}, resolved)

	assert.Equal(t, CanvasWidth, doc.Width)
	assert.Equal(t, CanvasHeight, doc.Height)

	html, err := doc.HTML()
	require.NoError(t, err)

	assert.Contains(t, html, `width:1123px;height:794px;`)
	assert.Contains(t, html, `src="/api/uploads/bg.png"`)

	assert.Contains(t, html, `left:100px;top:120.5px;`)
	assert.Contains(t, html, `width:600px;`)
	assert.Contains(t, html, `font-size:40px;`)
	assert.Contains(t, html, `color:#336699;`)
	assert.Contains(t, html, `font-weight:700;`)
	assert.Contains(t, html, `font-style:italic;`)
	assert.Contains(t, html, `text-decoration:underline;`)
	assert.Contains(t, html, `text-align:center;`)
	assert.Contains(t, html, `transform:rotate(-12deg);`)
	assert.Contains(t, html, `opacity:0.8;`)
	assert.Contains(t, html, `>Ana López</div>`)

	assert.Contains(t, html, `src="https://cdn.example.com/logo.png"`)
	assert.Contains(t, html, `left:50px;top:60px;width:90px;height:45px;`)

	assert.Contains(t, html, "fonts.googleapis.com/css2?family=Playfair")

	// image fields come after text fields in the markup
	assert.Less(t, strings.Index(html, `data-field="name"`), strings.Index(html, `data-field="logo"`))
}

func TestDocumentHTMLEscapesValues(t *testing.T) {
	doc := BuildDocument(Layout{Width: 800, Height: 600}, []ResolvedField{
		{Field: Field{ID: "t", Kind: KindText, Opacity: 1, Style: TextStyle{FontFamily: "x';}body{display:none", FontColor: "red"}}, Value: "<script>alert(1)</script>"},
		{Field: Field{ID: "i", Kind: KindImage, Opacity: 1}, Value: "javascript:alert(1)"},
	})

	html, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `width:800px;height:600px;`)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "body{display:none")
	assert.Contains(t, html, "color:#000000;")
	assert.NotContains(t, html, `class="bg"`)
}

func TestDocumentQRDataURI(t *testing.T) {
	fields := parseFields(t, `[{"id":"qr","type":"qr_code","x":900,"y":600,"qrSize":110}]`)
	resolved := NewResolver(testBase, true, "es").Resolve(fields, testContext())
	html, err := BuildDocument(Layout{}, resolved).HTML()
	require.NoError(t, err)

	assert.Contains(t, html, `src="data:image/png;base64,`)
	assert.Contains(t, html, `left:900px;top:600px;width:110px;height:110px;`)
}

func TestDefaultFields(t *testing.T) {
	layout := Layout{}
	fields := layout.EffectiveFields("es")
	require.NotEmpty(t, fields)

	out := NewResolver(testBase, true, "es").Resolve(fields, testContext())
	var values []string
	var hasQR bool
	for _, f := range out {
		if f.Kind == KindQRCode {
			hasQR = true
			continue
		}
		values = append(values, f.Value)
	}
	assert.True(t, hasQR)
	assert.Contains(t, values, "CERTIFICADO")
	assert.Contains(t, values, "Ana López")
	assert.Contains(t, values, "40 horas")
	assert.Contains(t, values, "CERT-AB12CD-34EF")

	english := DefaultFields("en-US")
	assert.Equal(t, "CERTIFICATE", english[0].Text)

	custom := Layout{Fields: []Field{{ID: "only", Kind: KindText, Text: "x"}}}
	assert.Len(t, custom.EffectiveFields("es"), 1)
}
