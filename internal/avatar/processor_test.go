package avatar_test

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/MohammadTashkandi/task-manager-app/internal/avatar"

	"github.com/stretchr/testify/require"
)

func TestAllowedExtension(t *testing.T) {
	cases := []struct {
		filename string
		allowed  bool
	}{
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.JPEG", true},
		{"animation.gif", false},
		{"document.pdf", false},
		{"no-extension", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.allowed, avatar.AllowedExtension(tc.filename), tc.filename)
	}
}

func TestProcess_ResizesToFixedPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480)), nil))

	out, err := avatar.Process(buf.Bytes())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 250, img.Bounds().Dx())
	require.Equal(t, 250, img.Bounds().Dy())
}

func TestProcess_RejectsNonImage(t *testing.T) {
	_, err := avatar.Process([]byte("definitely not an image"))
	require.Error(t, err)
}
