package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Provider persists uploaded binary blobs and hands back generated filenames.
type Provider interface {
	SaveImage(kind string, data string) (string, error)
	SavePDF(kind string, data string) (string, error)
	Remove(filename string) error
}

var (
	ErrInvalidImage = errors.New("invalid_image")
	ErrInvalidPDF   = errors.New("invalid_pdf")
)

// Local writes blobs to a directory on disk.
type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// SaveImage decodes a base64 image payload (optionally a data URI) and
// stores it as {kind}-image-{uuid}.{ext}.
func (l *Local) SaveImage(kind string, data string) (string, error) {
	payload, ext, err := decodeDataURI(data, map[string]string{
		"image/png":  "png",
		"image/jpeg": "jpg",
		"image/gif":  "gif",
		"image/webp": "webp",
	}, "png")
	if err != nil {
		return "", ErrInvalidImage
	}

	name := fmt.Sprintf("%s-image-%s.%s", kind, uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(l.dir, name), payload, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// SavePDF decodes a base64 PDF payload and stores it as {kind}-pdf-{uuid}.pdf.
func (l *Local) SavePDF(kind string, data string) (string, error) {
	payload, _, err := decodeDataURI(data, map[string]string{
		"application/pdf": "pdf",
	}, "pdf")
	if err != nil {
		return "", ErrInvalidPDF
	}

	name := fmt.Sprintf("%s-pdf-%s.pdf", kind, uuid.NewString())
	if err := os.WriteFile(filepath.Join(l.dir, name), payload, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func (l *Local) Remove(filename string) error {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decodeDataURI(data string, extByMime map[string]string, defaultExt string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	ext := defaultExt

	if strings.HasPrefix(data, "data:") {
		semi := strings.Index(data, ";base64,")
		if semi < 0 {
			return nil, "", errors.New("not a base64 data uri")
		}
		mime := data[len("data:"):semi]
		if mapped, ok := extByMime[mime]; ok {
			ext = mapped
		} else {
			return nil, "", fmt.Errorf("unsupported mime type %q", mime)
		}
		data = data[semi+len(";base64,"):]
	}

	payload, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	if len(payload) == 0 {
		return nil, "", errors.New("empty payload")
	}
	return payload, ext, nil
}
