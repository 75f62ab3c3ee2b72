package service

import (
	"bytes"
	"encoding/base64"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"

	"amumal/internal/models"
)

// MaxImageSize caps avatar and post image uploads at 2MB.
const MaxImageSize = 2 * 1024 * 1024

// ImageService turns uploaded image bytes into inline data URLs the backend
// stores verbatim.
type ImageService struct{}

func NewImageService() *ImageService {
	return &ImageService{}
}

// DataURL validates the upload and encodes it as a base64 data URL. Oversized
// or non-image payloads fail with a user-facing message.
func (s *ImageService) DataURL(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if len(data) > MaxImageSize {
		return "", models.NewValidationError("이미지 크기는 2MB 이하여야 합니다.")
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", models.NewValidationError("이미지 파일만 업로드할 수 있습니다.")
	}
	// DetectContentType only reads magic bytes; make sure the full header
	// actually decodes before shipping it to the backend.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", models.NewValidationError("이미지를 읽는 중 오류가 발생했습니다.")
	}

	var b strings.Builder
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String(), nil
}
