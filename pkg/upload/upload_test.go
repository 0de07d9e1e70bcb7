package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

type memFile struct {
	name        string
	contentType string
	data        []byte
}

func (f *memFile) Filename() string        { return f.name }
func (f *memFile) ContentType() string     { return f.contentType }
func (f *memFile) SizeBytes() int64        { return int64(len(f.data)) }
func (f *memFile) ReadAll() ([]byte, error) { return f.data, nil }

func TestValidateImage(t *testing.T) {
	ok := &memFile{name: "poster.jpg", contentType: "image/jpeg", data: make([]byte, 100)}
	if err := ValidateImage(ok, 1024); err != nil {
		t.Fatalf("expected valid image, got %v", err)
	}

	if err := ValidateImage(nil, 1024); err == nil {
		t.Fatal("expected error for nil file")
	}

	pdf := &memFile{name: "script.pdf", contentType: "application/pdf", data: make([]byte, 100)}
	if err := ValidateImage(pdf, 1024); err == nil {
		t.Fatal("expected error for non-image content type")
	}

	big := &memFile{name: "huge.png", contentType: "image/png", data: make([]byte, 2048)}
	if err := ValidateImage(big, 1024); err == nil {
		t.Fatal("expected error for oversized file")
	}
	if err := ValidateImage(big, 0); err != nil {
		t.Fatalf("zero cap should disable the size check, got %v", err)
	}
}

func TestFromMultipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "poster.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("pngdata")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}

	header := req.MultipartForm.File["file"][0]
	f := FromMultipart(header)

	if f.Filename() != "poster.png" {
		t.Fatalf("unexpected filename %q", f.Filename())
	}
	if f.SizeBytes() != int64(len("pngdata")) {
		t.Fatalf("unexpected size %d", f.SizeBytes())
	}
	data, err := f.ReadAll()
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if string(data) != "pngdata" {
		t.Fatalf("unexpected data %q", data)
	}
}
