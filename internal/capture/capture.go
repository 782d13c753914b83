// Package capture turns user image input into data URLs: pasted text,
// an explicitly chosen file, or files dropped into a watched folder.
package capture

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultMaxBytes caps captured images when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrEmpty    = errors.New("no image data")
	ErrNotImage = errors.New("not an image")
)

// ErrTooLarge reports an image over the configured limit.
type ErrTooLarge struct {
	Size  int64
	Limit int64
}

func (e ErrTooLarge) Error() string {
	return fmt.Sprintf("image is %s, limit is %s", humanize.Bytes(uint64(e.Size)), humanize.Bytes(uint64(e.Limit)))
}

// EncodeDataURL validates raw bytes as an image and wraps them in a
// base64 data URL.
func EncodeDataURL(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge{Size: int64(len(data)), Limit: maxBytes}
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// LoadFile reads an image file chosen by the user.
func LoadFile(path string, maxBytes int64) (string, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return "", ErrEmpty
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("open image: %s is a directory", path)
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if info.Size() > maxBytes {
		return "", ErrTooLarge{Size: info.Size(), Limit: maxBytes}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return EncodeDataURL(data, maxBytes)
}

// DecodePaste interprets pasted text. Accepted forms, in order: a data URL,
// a path to an image file (terminals paste dragged files as paths), or bare
// base64 image bytes.
func DecodePaste(text string, maxBytes int64) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	if strings.HasPrefix(text, "data:") {
		return decodeDataURL(text, maxBytes)
	}
	if path, ok := pastedPath(text); ok {
		return LoadFile(path, maxBytes)
	}
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", ErrNotImage
	}
	return EncodeDataURL(raw, maxBytes)
}

func decodeDataURL(text string, maxBytes int64) (string, error) {
	_, raw, err := ParseDataURL(text)
	if err != nil {
		return "", err
	}
	// Re-encode so the declared type always matches the bytes.
	return EncodeDataURL(raw, maxBytes)
}

// ParseDataURL splits a base64 data URL into its declared content type and
// decoded bytes.
func ParseDataURL(text string) (string, []byte, error) {
	header, payload, ok := strings.Cut(text, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", nil, fmt.Errorf("%w: unsupported data URL", ErrNotImage)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bad base64", ErrNotImage)
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	return contentType, raw, nil
}

// pastedPath recognises file paths, including file:// URLs and the quoted or
// backslash-escaped forms terminals produce for drag and drop.
func pastedPath(text string) (string, bool) {
	if strings.ContainsAny(text, "\n") {
		return "", false
	}
	text = strings.TrimPrefix(text, "file://")
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	text = strings.ReplaceAll(text, `\ `, " ")
	if !strings.HasPrefix(text, "/") && !strings.HasPrefix(text, "~") && !strings.HasPrefix(text, ".") {
		return "", false
	}
	if _, err := os.Stat(expandHome(text)); err != nil {
		return "", false
	}
	return text, true
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// IsImageName reports whether a file name has a common image extension.
func IsImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}
