// Package downloader fetches image URLs, validates and normalizes the
// payload, and stores the result under a content-derived name.
package downloader

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"imageharvest/pkg/errors"
	"imageharvest/pkg/logger"
	"imageharvest/pkg/retry"
	"imageharvest/pkg/storage"
)

const (
	// jpegQuality is the encoding quality for normalized images
	jpegQuality = 85
	// hashPrefixLen is how many hex digits of the content hash name the file
	hashPrefixLen = 10
)

// DownloadedImage describes one successfully stored image
type DownloadedImage struct {
	SourceURL   string
	ContentHash string
	StoragePath string
	ByteSize    int
}

// Config holds downloader settings
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Retry     *retry.Config
}

// Downloader fetches, validates, and stores images
type Downloader struct {
	client    *http.Client
	userAgent string
	retryCfg  *retry.Config
	store     *storage.Manager
	log       logger.Logger
}

// New creates a downloader writing into the given storage manager
func New(cfg Config, store *storage.Manager, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Downloader{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		retryCfg:  cfg.Retry,
		store:     store,
		log:       log,
	}
}

// Download fetches the image at url, verifies it decodes as an image,
// re-encodes it as JPEG, and stores it under the first ten hex digits of
// the SHA-1 of the raw response body.
//
// A body that fails to decode comes back as a typed error: the unexpected
// HTML kind when the server sent an HTML page in place of image bytes,
// the generic download kind otherwise.
func (d *Downloader) Download(url string) (*DownloadedImage, error) {
	raw, contentType, err := d.fetch(url)
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		if strings.Contains(strings.ToLower(contentType), "text/html") {
			return nil, errors.Wrap(errors.KindUnexpectedHTML, err,
				fmt.Sprintf("server returned an HTML page instead of image bytes for %s", url))
		}
		return nil, errors.Wrap(errors.KindGenericDownload, err,
			fmt.Sprintf("response from %s is not a decodable image", url))
	}

	sum := sha1.Sum(raw)
	contentHash := hex.EncodeToString(sum[:])[:hashPrefixLen]

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, errors.Wrap(errors.KindGenericDownload, err,
			fmt.Sprintf("failed to re-encode image from %s", url))
	}

	path, err := d.store.Save(bytes.NewReader(buf.Bytes()), contentHash)
	if err != nil {
		return nil, errors.Wrap(errors.KindGenericDownload, err,
			fmt.Sprintf("failed to store image from %s", url))
	}

	d.log.DebugWithFields("stored image", map[string]interface{}{
		"url":    url,
		"hash":   contentHash,
		"format": format,
		"bytes":  buf.Len(),
	})

	return &DownloadedImage{
		SourceURL:   url,
		ContentHash: contentHash,
		StoragePath: path,
		ByteSize:    buf.Len(),
	}, nil
}

// fetch retrieves the raw response body, retrying transient failures
func (d *Downloader) fetch(url string) ([]byte, string, error) {
	var raw []byte
	var contentType string

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			return errors.Wrap(errors.KindGenericDownload, err, "failed to build request")
		}
		if d.userAgent != "" {
			req.Header.Set("User-Agent", d.userAgent)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			return errors.Wrap(errors.KindGenericDownload, err,
				fmt.Sprintf("request to %s failed", url))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &errors.Error{
				Kind:    errors.KindGenericDownload,
				Message: fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, url),
				Code:    resp.StatusCode,
			}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return errors.Wrap(errors.KindGenericDownload, err, "failed to read response body")
		}

		raw = body
		contentType = resp.Header.Get("Content-Type")
		return nil
	}

	cfg := d.retryCfg
	if cfg == nil {
		cfg = &retry.Config{
			MaxAttempts: 3,
			Backoff:     retry.DefaultExponentialBackoff(),
			RetryIf:     errors.IsRetryable,
			Logger:      d.log,
		}
	}

	if err := retry.Do(op, cfg); err != nil {
		return nil, "", err
	}
	return raw, contentType, nil
}

// flatten composites the decoded image over a white background so
// transparent regions survive the JPEG encoding sensibly.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}
