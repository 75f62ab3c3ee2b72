package service

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amumal/internal/models"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDataURLEncodesPNG(t *testing.T) {
	svc := NewImageService()

	url, err := svc.DataURL(pngBytes(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"), url)
}

func TestDataURLEmptyUpload(t *testing.T) {
	svc := NewImageService()

	url, err := svc.DataURL(nil)
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestDataURLRejectsOversized(t *testing.T) {
	svc := NewImageService()

	_, err := svc.DataURL(make([]byte, MaxImageSize+1))
	require.Error(t, err)
	assert.Equal(t, "이미지 크기는 2MB 이하여야 합니다.", models.ErrorMessage(err))
}

func TestDataURLRejectsNonImage(t *testing.T) {
	svc := NewImageService()

	_, err := svc.DataURL([]byte("%PDF-1.7 definitely not a picture"))
	require.Error(t, err)
	assert.Equal(t, "이미지 파일만 업로드할 수 있습니다.", models.ErrorMessage(err))
}

func TestCommentValidation(t *testing.T) {
	comments := NewCommentService(nil)

	err := comments.Create(t.Context(), "token", 5, "   ")
	require.Error(t, err)
	assert.Equal(t, "댓글 내용을 입력해주세요.", models.ErrorMessage(err))

	err = comments.Update(t.Context(), "token", 5, 1, "")
	require.Error(t, err)
	assert.Equal(t, "댓글 내용을 입력해주세요.", models.ErrorMessage(err))
}
