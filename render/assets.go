package render

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maxAssetSize bounds a single inlined background or image
const maxAssetSize = 15 << 20

var uploadPrefixes = []string{"/api/uploads/", "/uploads/"}

// AssetInliner replaces image references in a document with data URIs so the
// browser never waits on the network while printing.
type AssetInliner struct {
	client     *resty.Client
	uploadsDir string
	maxSize    int
}

func NewAssetInliner(uploadsDir string, timeout time.Duration) *AssetInliner {
	return newAssetInliner(uploadsDir, timeout, maxAssetSize)
}

func newAssetInliner(uploadsDir string, timeout time.Duration, maxSize int) *AssetInliner {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1).
		SetResponseBodyLimit(maxSize).
		SetHeader("User-Agent", "diplomas-renderer/1.0")
	return &AssetInliner{client: client, uploadsDir: uploadsDir, maxSize: maxSize}
}

// Inline rewrites the background and every image field in place. References
// that cannot be fetched are left untouched and logged.
func (a *AssetInliner) Inline(ctx context.Context, doc *Document) {
	cache := map[string]string{}
	resolve := func(ref string) string {
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return ref
		}
		if uri, ok := cache[ref]; ok {
			return uri
		}
		uri, err := a.DataURI(ctx, ref)
		if err != nil {
			log.WithError(err).WithField("asset", ref).Warn("[RENDERER] could not inline asset")
			uri = ref
		}
		cache[ref] = uri
		return uri
	}

	doc.BackgroundURL = resolve(doc.BackgroundURL)
	for i := range doc.Fields {
		if doc.Fields[i].Kind == KindImage {
			doc.Fields[i].Value = resolve(doc.Fields[i].Value)
		}
	}
}

// DataURI loads ref from the uploads directory or over http(s)
func (a *AssetInliner) DataURI(ctx context.Context, ref string) (string, error) {
	data, err := a.load(ctx, ref)
	if err != nil {
		return "", err
	}
	if len(data) > a.maxSize {
		return "", errors.Errorf("asset exceeds %d bytes", a.maxSize)
	}
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", errors.Errorf("asset is %s, not an image", mime.String())
	}
	return "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (a *AssetInliner) load(ctx context.Context, ref string) ([]byte, error) {
	for _, prefix := range uploadPrefixes {
		if strings.HasPrefix(ref, prefix) {
			path := filepath.Join(a.uploadsDir, filepath.Base(strings.TrimPrefix(ref, prefix)))
			if info, err := os.Stat(path); err == nil && info.Size() > int64(a.maxSize) {
				return nil, errors.Errorf("asset exceeds %d bytes", a.maxSize)
			}
			data, err := os.ReadFile(path)
			return data, errors.Wrap(err, "read upload")
		}
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, errors.Errorf("unsupported asset reference %q", ref)
	}

	resp, err := a.client.R().SetContext(ctx).Get(ref)
	if err != nil {
		if errors.Is(err, resty.ErrResponseBodyTooLarge) {
			return nil, errors.Errorf("asset exceeds %d bytes", a.maxSize)
		}
		return nil, errors.Wrap(err, "fetch asset")
	}
	if resp.IsError() {
		return nil, errors.Errorf("fetch asset: status %d", resp.StatusCode())
	}
	return resp.Body(), nil
}
