package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// File is what asset services see of an uploaded file. Handlers adapt
// whatever transport they received the bytes over.
type File interface {
	Filename() string
	ContentType() string
	SizeBytes() int64
	ReadAll() ([]byte, error)
}

// ValidateImage enforces the image content-type family and the size cap.
func ValidateImage(f File, maxBytes int64) error {
	if f == nil {
		return fmt.Errorf("file is required")
	}
	if !strings.HasPrefix(f.ContentType(), "image/") {
		return fmt.Errorf("unsupported content type %q", f.ContentType())
	}
	if maxBytes > 0 && f.SizeBytes() > maxBytes {
		return fmt.Errorf("file exceeds %d byte limit", maxBytes)
	}
	return nil
}

// multipartFile adapts a multipart form part.
type multipartFile struct {
	header *multipart.FileHeader
}

// FromMultipart wraps a multipart file header.
func FromMultipart(header *multipart.FileHeader) File {
	return &multipartFile{header: header}
}

func (f *multipartFile) Filename() string {
	return f.header.Filename
}

func (f *multipartFile) ContentType() string {
	return f.header.Header.Get("Content-Type")
}

func (f *multipartFile) SizeBytes() int64 {
	return f.header.Size
}

func (f *multipartFile) ReadAll() ([]byte, error) {
	src, err := f.header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening uploaded file: %w", err)
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading uploaded file: %w", err)
	}
	return data, nil
}
