package templates

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"testing"
)

func TestLoadTemplates(t *testing.T) {
	pages := loadPages(t)

	if pages.index == nil {
		t.Error("index template not loaded")
	}
	if pages.error == nil {
		t.Error("error template not loaded")
	}
}

func TestTemplateError(t *testing.T) {
	cause := errors.New("original error")
	err := &TemplateError{
		Cause:   cause,
		Message: "template failed",
	}

	want := "template error: template failed: original error"
	if got := err.Error(); got != want {
		t.Errorf("TemplateError.Error() = %q, want %q", got, want)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("errors.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestGenerateQRCode(t *testing.T) {
	t.Run("encodes png data uri", func(t *testing.T) {
		uri, err := GenerateQRCode("https://www.tiktok.com/v2/auth/authorize/?client_key=k&state=s")
		if err != nil {
			t.Fatalf("GenerateQRCode() error = %v", err)
		}

		const prefix = "data:image/png;base64,"
		if !strings.HasPrefix(string(uri), prefix) {
			t.Fatalf("GenerateQRCode() = %.40s..., want %s prefix", uri, prefix)
		}

		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(string(uri), prefix))
		if err != nil {
			t.Fatalf("payload not base64: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("payload not a PNG: %v", err)
		}
		if b := img.Bounds(); b.Dx() != QRCodeSize || b.Dy() != QRCodeSize {
			t.Errorf("image is %dx%d, want %dx%d", b.Dx(), b.Dy(), QRCodeSize, QRCodeSize)
		}
	})

	t.Run("rejects empty content", func(t *testing.T) {
		if _, err := GenerateQRCode(""); err == nil {
			t.Error("GenerateQRCode(\"\") expected error")
		}
	})
}
