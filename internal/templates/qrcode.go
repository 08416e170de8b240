package templates

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
)

// QRCodeSize is the width and height of generated QR codes in pixels
const QRCodeSize = 256

// GenerateQRCode encodes content as a PNG QR code and returns it as a data
// URI that can be used as an img src
func GenerateQRCode(content string) (template.URL, error) {
	if content == "" {
		return "", errors.New("empty QR code content")
	}

	png, err := qrcode.Encode(content, qrcode.Medium, QRCodeSize)
	if err != nil {
		return "", fmt.Errorf("encoding QR code: %w", err)
	}

	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
