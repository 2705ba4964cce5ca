package avatar

import (
	"bytes"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxUploadBytes caps the raw upload size before the image is transformed.
const MaxUploadBytes = 1_000_000

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedExtension reports whether the uploaded file name has one of the
// accepted image extensions (jpg, jpeg, png).
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Process decodes the uploaded image, resizes it to a fixed 250x250 and
// re-encodes it as PNG. The result is what gets stored and later served.
func Process(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	resized := imaging.Resize(img, 250, 250, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
