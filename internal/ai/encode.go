package ai

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
)

// encodeImage converts an item photograph to a data URI for vision calls.
// Content type selects the image format; PNG is the default since item
// photos are normalized to PNG at capture.
func encodeImage(img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	format := document.PNG
	if strings.Contains(strings.ToLower(img.ContentType), "jpeg") ||
		strings.Contains(strings.ToLower(img.ContentType), "jpg") {
		format = document.JPEG
	}

	dataURI, err := encoding.EncodeImageDataURI(img.Data, format)
	if err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	return dataURI, nil
}
