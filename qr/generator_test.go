package qr

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifyURL = "https://diplomas.example.com/verify/CERT-AB12CD-34EF"

var svgModuleRect = regexp.MustCompile(`<rect x="(\d+)" y="(\d+)" width="4" height="4"`)
var svgViewBox = regexp.MustCompile(`viewBox="0 0 (\d+) (\d+)"`)

func decodeImage(t *testing.T, img image.Image) string {
	t.Helper()
	// flatten onto white with a margin so transparent symbols keep their quiet zone
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx()+40, b.Dy()+40))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, b.Sub(b.Min).Add(image.Pt(20, 20)), img, b.Min, draw.Over)

	bmp, err := gozxing.NewBinaryBitmapFromImage(canvas)
	require.NoError(t, err)
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return res.GetText()
}

// rasterizeSVG paints every module rect found in the document, 2px per SVG unit
func rasterizeSVG(t *testing.T, data []byte) image.Image {
	t.Helper()
	vb := svgViewBox.FindSubmatch(data)
	require.NotNil(t, vb, "viewBox missing")
	side, _ := strconv.Atoi(string(vb[1]))

	const scale = 2
	img := image.NewRGBA(image.Rect(0, 0, side*scale, side*scale))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	matches := svgModuleRect.FindAllSubmatch(data, -1)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		x, _ := strconv.Atoi(string(m[1]))
		y, _ := strconv.Atoi(string(m[2]))
		r := image.Rect(x*scale, y*scale, (x+svgModule)*scale, (y+svgModule)*scale)
		draw.Draw(img, r, image.Black, image.Point{}, draw.Src)
	}
	return img
}

func TestGenerateDataURIPrefixes(t *testing.T) {
	uri, err := Generate(verifyURL, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	opts := DefaultOptions()
	opts.CornerStyle = CornerRounded
	uri, err = Generate(verifyURL, opts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/svg+xml;base64,"))

	payload := strings.TrimPrefix(uri, "data:image/svg+xml;base64,")
	raw, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<svg")
}

func TestRasterRoundTrip(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H"} {
		for _, bg := range []string{Transparent, "#FFFFFF", "#fef3c7"} {
			t.Run(level+"/"+bg, func(t *testing.T) {
				opts := DefaultOptions()
				opts.ErrorLevel = level
				opts.BackgroundColor = bg
				opts.Size = 256

				img, err := Encode(verifyURL, opts)
				require.NoError(t, err)
				require.Equal(t, FormatPNG, img.Format)

				decoded, err := png.Decode(bytes.NewReader(img.Data))
				require.NoError(t, err)
				assert.Equal(t, verifyURL, decodeImage(t, decoded))
			})
		}
	}
}

func TestVectorRoundTrip(t *testing.T) {
	for _, level := range []string{"L", "M", "Q", "H"} {
		for _, dots := range []DotStyle{DotSquares, DotDots, DotRounded} {
			t.Run(level+"/"+string(dots), func(t *testing.T) {
				opts := DefaultOptions()
				opts.CornerStyle = CornerRounded
				opts.DotStyle = dots
				opts.ErrorLevel = level

				img, err := Encode(verifyURL, opts)
				require.NoError(t, err)
				require.Equal(t, FormatSVG, img.Format)
				assert.Equal(t, verifyURL, decodeImage(t, rasterizeSVG(t, img.Data)))
			})
		}
	}
}

func TestVectorDotRadius(t *testing.T) {
	cases := map[DotStyle]string{
		DotDots:    `rx="2" ry="2"`,
		DotRounded: `rx="1" ry="1"`,
	}
	for style, want := range cases {
		opts := DefaultOptions()
		opts.CornerStyle = CornerRounded
		opts.DotStyle = style
		img, err := Encode(verifyURL, opts)
		require.NoError(t, err)
		assert.Contains(t, string(img.Data), want, style)
	}

	opts := DefaultOptions()
	opts.CornerStyle = CornerRounded
	img, err := Encode(verifyURL, opts)
	require.NoError(t, err)
	assert.NotContains(t, string(img.Data), "rx=")
}

func TestVectorBackground(t *testing.T) {
	opts := DefaultOptions()
	opts.CornerStyle = CornerRounded
	img, err := Encode(verifyURL, opts)
	require.NoError(t, err)
	assert.NotContains(t, string(img.Data), "fill:#ffffff")

	opts.BackgroundColor = "#ffffff"
	img, err = Encode(verifyURL, opts)
	require.NoError(t, err)
	assert.Contains(t, string(img.Data), "fill:#ffffff")
}

func TestTransparentMaskIsExact(t *testing.T) {
	fill := "#1A7F3C"
	want, err := ParseColor(fill)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.FillColor = fill
	opts.Size = 200
	img, err := Encode(verifyURL, opts)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)

	var opaque, clear int
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(decoded.At(x, y)).(color.NRGBA)
			switch c.A {
			case 0:
				clear++
			case 0xff:
				opaque++
				require.Equal(t, want, c, "foreground pixel at %d,%d", x, y)
			default:
				t.Fatalf("partial alpha %d at %d,%d", c.A, x, y)
			}
		}
	}
	assert.Positive(t, opaque)
	assert.Positive(t, clear)
}

func TestMaskBackgroundThreshold(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 1))
	src.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(1, 0, color.RGBA{R: 241, G: 250, B: 245, A: 255})
	src.Set(2, 0, color.RGBA{R: 240, G: 255, B: 255, A: 255}) // one channel at the threshold is foreground
	src.Set(3, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	fill := color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xff}
	out := maskBackground(src, fill)

	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), out.NRGBAAt(1, 0).A)
	assert.Equal(t, fill, out.NRGBAAt(2, 0))
	assert.Equal(t, fill, out.NRGBAAt(3, 0))
}

func TestInvalidColors(t *testing.T) {
	cases := []Options{
		{FillColor: "red"},
		{FillColor: "#12345"},
		{FillColor: "#000000", BackgroundColor: "#GGGGGG"},
		{FillColor: "#000000", BackgroundColor: "white", CornerStyle: CornerRounded},
	}
	for _, opts := range cases {
		_, err := Generate(verifyURL, opts)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidColor)
	}
}

func TestFallbacks(t *testing.T) {
	opts := Options{ErrorLevel: "Z", CornerStyle: "hexagon", DotStyle: "stars", BackgroundColor: "TRANSPARENT"}
	n := opts.normalize()
	assert.Equal(t, "M", n.ErrorLevel)
	assert.Equal(t, CornerSquare, n.CornerStyle)
	assert.Equal(t, DotSquares, n.DotStyle)
	assert.Equal(t, Transparent, n.BackgroundColor)
	assert.Equal(t, 100, n.Size)
	assert.Equal(t, "#000000", n.FillColor)

	img, err := Encode(verifyURL, opts)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, img.Format)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#abc")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, c)

	c, err = ParseColor("#FF8000")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}, c)
}
