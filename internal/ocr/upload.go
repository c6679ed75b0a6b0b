package ocr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	MaxFiles    = 2
	MaxFileSize = 10 << 20
	// MaxSide is the longest image side sent to the model.
	MaxSide = 2000
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Upload is one photographed side of an ID document.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size is the upload size in bytes.
func (u Upload) Size() int { return len(u.Data) }

// mimeType returns the declared type, sniffing the content when the client
// sent none.
func (u Upload) mimeType() string {
	ct := strings.ToLower(strings.TrimSpace(u.ContentType))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(u.Data)
	}
	ct, _, _ = strings.Cut(ct, ";")
	return ct
}

// Validate checks count, size and type of uploads.
func Validate(uploads []Upload) error {
	if len(uploads) == 0 {
		return NoFileError()
	}
	if len(uploads) > MaxFiles {
		return validationErr(CodeMaxFiles, msgMaxFiles)
	}
	for _, u := range uploads {
		if u.Size() > MaxFileSize {
			return validationErr(CodeFileTooLarge, fmt.Sprintf("File %s too large (max 10MB)", u.Name))
		}
		if !allowedTypes[u.mimeType()] {
			return validationErr(CodeInvalidType, fmt.Sprintf("Invalid file type for %s", u.Name))
		}
	}
	return nil
}

// DataURL returns the image as a base64 data URL. Images larger than MaxSide
// are shrunk and re-encoded as JPEG; anything that fails to decode is sent
// as uploaded.
func (u Upload) DataURL() string {
	mime, data := u.mimeType(), u.Data
	if img, err := imaging.Decode(bytes.NewReader(u.Data), imaging.AutoOrientation(true)); err == nil {
		b := img.Bounds()
		if b.Dx() > MaxSide || b.Dy() > MaxSide {
			var buf bytes.Buffer
			fitted := imaging.Fit(img, MaxSide, MaxSide, imaging.Lanczos)
			if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(85)); err == nil {
				mime, data = "image/jpeg", buf.Bytes()
			}
		}
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
