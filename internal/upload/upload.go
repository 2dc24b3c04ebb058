// Package upload reads files posted by the browser so they can be
// forwarded to the backend.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxSize is the largest file accepted.
const MaxSize = 5 << 20

var (
	ErrMissing     = errors.New("file is required")
	ErrTooLarge    = fmt.Errorf("file exceeds %d MB", MaxSize>>20)
	ErrContentType = errors.New("unsupported file type")
)

// File is an in-memory copy of one uploaded file.
type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

var (
	Images    = []string{"image/jpeg", "image/png", "image/webp"}
	Documents = []string{"application/pdf", "image/jpeg", "image/png"}
)

// FromForm reads field from a multipart request. A missing file returns
// (nil, nil) unless required is set.
func FromForm(c *fiber.Ctx, field string, required bool, allowed []string) (*File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if required {
			return nil, fmt.Errorf("%s: %w", field, ErrMissing)
		}
		return nil, nil
	}
	if fh.Size > MaxSize {
		return nil, fmt.Errorf("%s: %w", field, ErrTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, MaxSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > MaxSize {
		return nil, fmt.Errorf("%s: %w", field, ErrTooLarge)
	}

	ct := http.DetectContentType(content)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !contains(allowed, ct) {
		return nil, fmt.Errorf("%s: %w %s", field, ErrContentType, ct)
	}
	return &File{Field: field, Name: fh.Filename, ContentType: ct, Content: content}, nil
}

// IsClientError reports whether err came from a bad upload rather than I/O.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissing) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrContentType)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
