package utils

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(10<<20))
	return req.MultipartForm.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.NRGBA{B: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSaveUploadedFileSniffsContent(t *testing.T) {
	dir := t.TempDir()

	// the declared extension is ignored in favour of the sniffed type
	stored, err := SaveUploadedFile(multipartFile(t, "background.jpg", pngBytes(t, 800, 400)), dir)
	require.NoError(t, err)

	assert.Equal(t, "image/png", stored.ContentType)
	assert.True(t, strings.HasSuffix(stored.Filename, ".png"))
	assert.Equal(t, UploadsURLPrefix+stored.Filename, stored.URL)
	assert.FileExists(t, filepath.Join(dir, stored.Filename))

	require.NotEmpty(t, stored.ThumbnailURL)
	thumbPath := filepath.Join(dir, strings.TrimPrefix(stored.ThumbnailURL, UploadsURLPrefix))
	f, err := os.Open(thumbPath)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 160, cfg.Height)
}

func TestSaveUploadedFileRejectsNonImages(t *testing.T) {
	_, err := SaveUploadedFile(multipartFile(t, "logo.png", []byte("#!/bin/sh\necho hi\n")), t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedUpload)
}

func TestUploadPath(t *testing.T) {
	p, err := UploadPath("/srv/uploads", "a.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/uploads", "a.png"), p)

	for _, bad := range []string{"", "../a.png", "x/a.png", ".env"} {
		_, err := UploadPath("/srv/uploads", bad)
		assert.Error(t, err, bad)
	}
}

func TestCleanupGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)

	for _, name := range []string{"old.pdf", "old.png", "old.txt", "fresh.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	for _, name := range []string{"old.pdf", "old.png", "old.txt"} {
		require.NoError(t, os.Chtimes(filepath.Join(dir, name), old, old))
	}

	assert.Equal(t, 2, CleanupGeneratedFiles(dir, 24*time.Hour))
	assert.NoFileExists(t, filepath.Join(dir, "old.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "old.png"))
	assert.FileExists(t, filepath.Join(dir, "old.txt"))
	assert.FileExists(t, filepath.Join(dir, "fresh.pdf"))

	assert.Equal(t, 0, CleanupGeneratedFiles(filepath.Join(dir, "missing"), time.Hour))
}

func TestInitializeCleanupSchedulerRejectsBadSpec(t *testing.T) {
	_, err := InitializeCleanupScheduler("every tuesday", t.TempDir(), time.Hour)
	assert.Error(t, err)

	c, err := InitializeCleanupScheduler("0 * * * *", t.TempDir(), time.Hour)
	require.NoError(t, err)
	c.Stop()
}
