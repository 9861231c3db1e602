package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diplomas/qr"
)

func TestFieldDefaults(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"id":"f1","type":"variable","variable":"course_name","x":12.5,"y":40}`), &f))

	assert.Equal(t, KindVariable, f.Kind)
	assert.Equal(t, "course_name", f.Variable)
	assert.Equal(t, 12.5, f.X)
	assert.Equal(t, 1.0, f.Opacity)
	assert.Equal(t, 0.0, f.Rotation)
	assert.Nil(t, f.Width)
	assert.Equal(t, TextStyle{
		FontFamily: "Urbanist",
		FontSize:   24,
		FontColor:  "#000000",
		Align:      "left",
	}, f.Style)
}

func TestFieldQRDefaults(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","type":"qr_code","x":0,"y":0}`), &f))
	require.NotNil(t, f.QR)
	assert.Equal(t, qr.DefaultOptions(), *f.QR)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"q","type":"qr_code","x":0,"y":0,
		"qrColor":"#112233","qrBgColor":"#ffffff","qrCornerStyle":"rounded","qrDotStyle":"dots","qrErrorLevel":"Q","qrSize":180}`), &f))
	assert.Equal(t, qr.Options{
		FillColor:       "#112233",
		BackgroundColor: "#ffffff",
		CornerStyle:     qr.CornerRounded,
		DotStyle:        qr.DotDots,
		ErrorLevel:      "Q",
		Size:            180,
	}, *f.QR)
}

func TestFieldLegacyShapes(t *testing.T) {
	var fields []Field
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"a","type":"variable","variable":"qr_code","x":0,"y":0,"qrSize":90},
		{"id":"b","type":"image","x":0,"y":0,"imageUrl":"/api/uploads/seal.png","imageWidth":80,"imageHeight":60},
		{"id":"c","type":"image","x":0,"y":0,"imageUrl":"/api/uploads/seal.png","width":200,"height":100},
		{"id":"d","type":"text","variable":"recipient_name","x":0,"y":0}
	]`), &fields))

	assert.Equal(t, KindQRCode, fields[0].Kind)
	assert.Equal(t, 90, fields[0].QR.Size)

	assert.Equal(t, KindImage, fields[1].Kind)
	assert.Equal(t, &ImageSpec{URL: "/api/uploads/seal.png", Width: 80, Height: 60}, fields[1].Image)
	assert.Equal(t, &ImageSpec{URL: "/api/uploads/seal.png", Width: 200, Height: 100}, fields[2].Image)

	assert.Equal(t, KindVariable, fields[3].Kind)
	assert.Equal(t, VarRecipientName, fields[3].Variable)
}

func TestFieldOpacityClamped(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t","type":"text","text":"x","x":0,"y":0,"opacity":3}`), &f))
	assert.Equal(t, 1.0, f.Opacity)
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t","type":"text","text":"x","x":0,"y":0,"opacity":-1}`), &f))
	assert.Equal(t, 0.0, f.Opacity)
	require.NoError(t, json.Unmarshal([]byte(`{"id":"t","type":"text","text":"x","x":0,"y":0,"opacity":0}`), &f))
	assert.Equal(t, 0.0, f.Opacity)
}

func TestFieldMarshalCanonical(t *testing.T) {
	var f Field
	require.NoError(t, json.Unmarshal([]byte(`{"id":"b","type":"image","x":5,"y":6,"imageUrl":"/api/uploads/a.png","imageWidth":80,"imageHeight":60}`), &f))

	data, err := json.Marshal(f)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "image", wire["type"])
	assert.Equal(t, "/api/uploads/a.png", wire["imageUrl"])
	assert.Equal(t, 80.0, wire["width"])
	assert.Equal(t, 60.0, wire["height"])
	assert.NotContains(t, wire, "imageWidth")

	var again Field
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, f.Image, again.Image)
}

func TestValidateFieldsRejectsBadQRColor(t *testing.T) {
	var fields []Field
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id":"a","type":"text","text":"hello","x":0,"y":0,"fontColor":"not-a-color"},
		{"id":"q","type":"qr_code","x":0,"y":0,"qrColor":"#12345G"}
	]`), &fields))

	err := ValidateFields(fields)
	require.Error(t, err)
	assert.ErrorIs(t, err, qr.ErrInvalidColor)
	assert.Contains(t, err.Error(), "(q)")

	fields[1].QR.FillColor = "#123456"
	assert.NoError(t, ValidateFields(fields))
}
