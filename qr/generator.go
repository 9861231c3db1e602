// Package qr draws styled verification codes as embeddable data URIs.
//
// Square corners produce a PNG whose colors are applied by the encoder; rounded
// corners produce an SVG with per-module rounding. A "transparent" background on
// the PNG path is obtained by masking a white render, which keeps module edges
// crisp over any background artwork.
package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"

	svg "github.com/ajstarks/svgo"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// whiteThreshold classifies a pixel as background when every channel is above it
	whiteThreshold = 240
	// svgModule is the side of one module in SVG user units
	svgModule = 4
	// svgQuietZone is the margin around the symbol in modules
	svgQuietZone = 2
)

// Format of an encoded code
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg+xml"
)

// Image is an encoded code before it is wrapped into a data URI
type Image struct {
	Format Format
	Data   []byte
}

// DataURI returns data:image/<fmt>;base64,<payload>
func (i Image) DataURI() string {
	return fmt.Sprintf("data:image/%s;base64,%s", i.Format, base64.StdEncoding.EncodeToString(i.Data))
}

// Generate encodes content with the given styling and returns a data URI
func Generate(content string, opts Options) (string, error) {
	img, err := Encode(content, opts)
	if err != nil {
		return "", err
	}
	return img.DataURI(), nil
}

// Encode encodes content into PNG or SVG depending on the corner style
func Encode(content string, opts Options) (Image, error) {
	opts = opts.normalize()
	if err := opts.Validate(); err != nil {
		return Image{}, err
	}

	code, err := qrcode.New(content, RecoveryLevel(opts.ErrorLevel))
	if err != nil {
		return Image{}, errors.Wrap(err, "could not encode qr symbol")
	}

	if opts.CornerStyle == CornerRounded {
		data, err := encodeSVG(code, opts)
		if err != nil {
			return Image{}, err
		}
		return Image{Format: FormatSVG, Data: data}, nil
	}

	data, err := encodePNG(code, opts)
	if err != nil {
		return Image{}, err
	}
	return Image{Format: FormatPNG, Data: data}, nil
}

func encodePNG(code *qrcode.QRCode, opts Options) ([]byte, error) {
	fill, _ := ParseColor(opts.FillColor)
	code.ForegroundColor = fill

	var img image.Image
	if opts.BackgroundColor == Transparent {
		code.BackgroundColor = color.White
		img = maskBackground(code.Image(opts.Size), fill)
	} else {
		bg, _ := ParseColor(opts.BackgroundColor)
		code.BackgroundColor = bg
		img = code.Image(opts.Size)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "could not encode png")
	}
	return buf.Bytes(), nil
}

// maskBackground turns near-white pixels fully transparent and forces all others to fill at full opacity
func maskBackground(src image.Image, fill color.NRGBA) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			if r>>8 > whiteThreshold && g>>8 > whiteThreshold && bl>>8 > whiteThreshold {
				dst.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0})
				continue
			}
			dst.SetNRGBA(x, y, fill)
		}
	}
	return dst
}

func encodeSVG(code *qrcode.QRCode, opts Options) ([]byte, error) {
	code.DisableBorder = true
	modules := code.Bitmap()
	side := (len(modules) + 2*svgQuietZone) * svgModule

	// squares under rounded corners is accepted and draws plain modules
	radius := 0
	switch opts.DotStyle {
	case DotDots:
		radius = svgModule / 2
	case DotRounded:
		radius = svgModule / 4
	}
	fill := "fill:" + opts.FillColor

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(opts.Size, opts.Size, 0, 0, side, side)
	if opts.BackgroundColor != Transparent {
		canvas.Rect(0, 0, side, side, "fill:"+opts.BackgroundColor)
	}
	for y, row := range modules {
		for x, dark := range row {
			if !dark {
				continue
			}
			px := (x + svgQuietZone) * svgModule
			py := (y + svgQuietZone) * svgModule
			if radius > 0 {
				canvas.Roundrect(px, py, svgModule, svgModule, radius, radius, fill)
			} else {
				canvas.Rect(px, py, svgModule, svgModule, fill)
			}
		}
	}
	canvas.End()
	return buf.Bytes(), nil
}
