package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"imgcompress/internal/core/domain"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHeader = []byte("\xFF\xD8\xFF\xE0\x00\x10JFIF\x00")
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
)

type mockConverter struct {
	dims       domain.Dimensions
	dimsErr    error
	encoded    []byte
	encodeErr  error
	gotSize    domain.Dimensions
	gotData    []byte
	encodeCall int
}

func (m *mockConverter) Dimensions(_ context.Context, _ []byte) (domain.Dimensions, error) {
	return m.dims, m.dimsErr
}

func (m *mockConverter) Encode(_ context.Context, data []byte, size domain.Dimensions) ([]byte, error) {
	m.encodeCall++
	m.gotData = data
	m.gotSize = size
	return m.encoded, m.encodeErr
}

type failingReader struct{}

func (failingReader) Read(_ []byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestProcessSuccessful(t *testing.T) {
	mc := &mockConverter{dims: domain.Dimensions{Width: 3000, Height: 1500}, encoded: []byte("webp-bytes")}
	c := NewCompressor(mc)

	res, err := c.Process(context.Background(), &domain.Upload{
		Filename: "holiday.JPG",
		Size:     int64(len(jpegHeader)),
		Body:     bytes.NewReader(jpegHeader),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, mc.encodeCall)
	assert.Equal(t, jpegHeader, mc.gotData)
	assert.Equal(t, domain.Dimensions{Width: 1920, Height: 960}, mc.gotSize)

	assert.Equal(t, len(jpegHeader), res.OriginalSize)
	assert.Equal(t, len("webp-bytes"), res.CompressedSize)
	assert.Equal(t, "holiday.JPG", res.Filename)

	payload, ok := strings.CutPrefix(res.DataURL, "data:image/webp;base64,")
	require.True(t, ok)
	decoded, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("webp-bytes"), decoded)
}

func TestProcessKeepsDimensionsWithinBounds(t *testing.T) {
	mc := &mockConverter{dims: domain.Dimensions{Width: 640, Height: 480}, encoded: []byte("x")}
	c := NewCompressor(mc)

	_, err := c.Process(context.Background(), &domain.Upload{
		Filename: "small.png",
		Size:     int64(len(pngHeader)),
		Body:     bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Dimensions{Width: 640, Height: 480}, mc.gotSize)
}

func TestProcessUnknownDimensions(t *testing.T) {
	mc := &mockConverter{encoded: []byte("x")}
	c := NewCompressor(mc)

	_, err := c.Process(context.Background(), &domain.Upload{
		Filename: "small.png",
		Size:     int64(len(pngHeader)),
		Body:     bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, mc.encodeCall)
	assert.Equal(t, domain.Dimensions{}, mc.gotSize)
}

func TestProcessEscapesAndSanitizesFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "script tag", filename: "<script>alert(1)</script>.png", want: "&lt;script&gt;alert(1)&lt;/script&gt;.png"},
		{name: "quotes", filename: `"it's".png`, want: "&quot;it&#039;s&quot;.png"},
		{name: "path traversal", filename: "../../secret.png", want: "secret.png"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCompressor(&mockConverter{dims: domain.Dimensions{Width: 10, Height: 10}, encoded: []byte("x")})

			res, err := c.Process(context.Background(), &domain.Upload{
				Filename: tc.filename,
				Size:     int64(len(pngHeader)),
				Body:     bytes.NewReader(pngHeader),
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Filename)
			assert.NotContains(t, res.Filename, "<")
			assert.NotContains(t, res.Filename, `"`)
		})
	}
}

func TestProcessRejects(t *testing.T) {
	oversized := make([]byte, domain.MaxFileSize+1)
	copy(oversized, pngHeader)

	tests := []struct {
		name    string
		upload  *domain.Upload
		wantErr error
	}{
		{
			name:    "nil upload",
			upload:  nil,
			wantErr: domain.ErrNoFile,
		},
		{
			name:    "missing body",
			upload:  &domain.Upload{Filename: "a.png"},
			wantErr: domain.ErrNoFile,
		},
		{
			name: "declared size over limit",
			upload: &domain.Upload{Filename: "a.png", Size: domain.MaxFileSize + 1,
				Body: bytes.NewReader(pngHeader)},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name: "content over limit despite small declared size",
			upload: &domain.Upload{Filename: "a.png", Size: 10,
				Body: bytes.NewReader(oversized)},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name: "text renamed to png",
			upload: &domain.Upload{Filename: "notes.png", Size: 20,
				Body: strings.NewReader("these are my notes, not an image")},
			wantErr: domain.ErrInvalidFileType,
		},
		{
			name: "image with wrong extension",
			upload: &domain.Upload{Filename: "image.txt", Size: int64(len(pngHeader)),
				Body: bytes.NewReader(pngHeader)},
			wantErr: domain.ErrInvalidFileType,
		},
		{
			name: "image without extension",
			upload: &domain.Upload{Filename: "image", Size: int64(len(pngHeader)),
				Body: bytes.NewReader(pngHeader)},
			wantErr: domain.ErrInvalidFileType,
		},
		{
			name:    "empty file",
			upload:  &domain.Upload{Filename: "empty.png", Size: 0, Body: bytes.NewReader(nil)},
			wantErr: domain.ErrInvalidFileType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := &mockConverter{encoded: []byte("x")}
			c := NewCompressor(mc)

			res, err := c.Process(context.Background(), tc.upload)
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, domain.IsClientError(err))
			assert.Nil(t, res)
			assert.Equal(t, 0, mc.encodeCall)
		})
	}
}

func TestProcessFailures(t *testing.T) {
	tests := []struct {
		name      string
		converter *mockConverter
		body      io.Reader
		wantErr   string
	}{
		{
			name:      "read error",
			converter: &mockConverter{},
			body:      failingReader{},
			wantErr:   "error reading upload: connection reset",
		},
		{
			name:      "decode error",
			converter: &mockConverter{dimsErr: errors.New("corrupt header")},
			body:      bytes.NewReader(jpegHeader),
			wantErr:   "error reading image dimensions: corrupt header",
		},
		{
			name: "encode error",
			converter: &mockConverter{dims: domain.Dimensions{Width: 10, Height: 10},
				encodeErr: errors.New("vips failed")},
			body:    bytes.NewReader(jpegHeader),
			wantErr: "error encoding image: vips failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCompressor(tc.converter)

			res, err := c.Process(context.Background(), &domain.Upload{Filename: "a.jpg", Size: 12, Body: tc.body})
			require.EqualError(t, err, tc.wantErr)
			assert.False(t, domain.IsClientError(err))
			assert.Nil(t, res)
		})
	}
}

func TestReadLimited(t *testing.T) {
	buf, err := readLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345"), buf)

	_, err = readLimited(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}
