package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderErrorMatchesSentinel(t *testing.T) {
	cause := errors.New("target closed")
	err := renderFailed(cause)

	assert.ErrorIs(t, err, ErrRenderFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "target closed")
	assert.Nil(t, renderFailed(nil))
}

func browserRenderer(t *testing.T) *BrowserRenderer {
	t.Helper()
	if os.Getenv("RUN_BROWSER_TESTS") != "true" {
		t.Skip("set RUN_BROWSER_TESTS=true to run headless browser tests")
	}
	r := NewBrowserRenderer(BrowserOptions{
		ExecPath:    os.Getenv("CHROME_PATH"),
		Timeout:     20 * time.Second,
		Concurrency: 2,
	})
	t.Cleanup(r.Close)
	return r
}

func TestBrowserRendererPDF(t *testing.T) {
	r := browserRenderer(t)

	fields := Layout{}.EffectiveFields("es")
	doc := BuildDocument(Layout{}, NewResolver(testBase, true, "es").Resolve(fields, testContext()))

	pdf, err := r.RenderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	// the browser is reused across calls
	again, err := r.RenderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, again)
}

func TestBrowserRendererPNG(t *testing.T) {
	r := browserRenderer(t)

	doc := BuildDocument(Layout{}, NewResolver(testBase, true, "es").Resolve(DefaultFields("es"), testContext()))
	data, err := r.RenderPNG(context.Background(), doc)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, CanvasWidth, img.Bounds().Dx())
	assert.Equal(t, CanvasHeight, img.Bounds().Dy())
}

func TestBrowserRendererCancelled(t *testing.T) {
	r := browserRenderer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.RenderPDF(ctx, BuildDocument(Layout{}, nil))
	assert.ErrorIs(t, err, ErrRenderFailed)
}
