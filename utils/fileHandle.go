package utils

import (
	"bytes"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	UploadsURLPrefix = "/api/uploads/"
	thumbnailPrefix  = "thumb_"
	thumbnailSize    = 320
)

var ErrUnsupportedUpload = errors.New("unsupported file type")

var allowedUploadTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"}

// StoredFile describes an upload written to the uploads directory
type StoredFile struct {
	Filename     string `json:"filename"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
}

// SaveUploadedFile sniffs the content, stores it under a random name and writes a thumbnail for raster images
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (*StoredFile, error) {
	// Open the uploaded file
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "read upload")
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedUploadTypes...) {
		return nil, errors.Wrapf(ErrUnsupportedUpload, "%s", mime.String())
	}

	// Create destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, err
	}

	name := uuid.NewString() + mime.Extension()
	if err := os.WriteFile(filepath.Join(destDir, name), data, 0644); err != nil {
		return nil, errors.Wrap(err, "write upload")
	}

	stored := &StoredFile{
		Filename:    name,
		URL:         GetFileURL(name),
		ContentType: mime.String(),
		Size:        int64(len(data)),
	}

	if thumb, err := writeThumbnail(data, destDir, name); err != nil {
		log.WithError(err).WithField("file", name).Warn("could not create thumbnail")
	} else if thumb != "" {
		stored.ThumbnailURL = GetFileURL(thumb)
	}
	return stored, nil
}

func writeThumbnail(data []byte, dir, name string) (string, error) {
	if strings.HasSuffix(name, ".svg") || strings.HasSuffix(name, ".webp") {
		return "", nil
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	thumb := thumbnailPrefix + strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	if err := imaging.Save(imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos), filepath.Join(dir, thumb)); err != nil {
		return "", err
	}
	return thumb, nil
}

// GetFileURL is the public path an uploaded file is served from
func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return UploadsURLPrefix + filename
}

// UploadPath resolves a served file name inside dir, rejecting anything that is not a plain file name
func UploadPath(dir, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", errors.Errorf("invalid file name %q", filename)
	}
	return filepath.Join(dir, filename), nil
}
