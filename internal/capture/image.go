package capture

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/gabriel-vasile/mimetype"
)

// Image is a captured photo. Its bytes are never modified after creation.
type Image struct {
	data        []byte
	filename    string
	contentType string
	extension   string
	preview     string
}

// NewImage sniffs the content type of data and builds its preview.
// Anything that does not sniff as image/* is rejected.
func NewImage(data []byte, filename string) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrEmpty
	}

	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return Image{}, fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	preview, err := dataURI(buf, contentType)
	if err != nil {
		return Image{}, err
	}

	return Image{
		data:        buf,
		filename:    filepath.Base(filename),
		contentType: contentType,
		extension:   mt.Extension(),
		preview:     preview,
	}, nil
}

// Data returns a copy of the image bytes.
func (i Image) Data() []byte {
	out := make([]byte, len(i.data))
	copy(out, i.data)
	return out
}

// Size is the image length in bytes.
func (i Image) Size() int { return len(i.data) }

func (i Image) Filename() string    { return i.filename }
func (i Image) ContentType() string { return i.contentType }

// Extension is the sniffed file extension including the leading dot.
func (i Image) Extension() string { return i.extension }

// Preview is a base64 data URI suitable for display and vision requests.
func (i Image) Preview() string { return i.preview }

// IsZero reports whether the image is the zero value.
func (i Image) IsZero() bool { return len(i.data) == 0 }

func isImage(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}

func dataURI(data []byte, contentType string) (string, error) {
	switch contentType {
	case "image/png":
		return encodeDataURI(data, document.PNG)
	case "image/jpeg":
		return encodeDataURI(data, document.JPEG)
	default:
		return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
	}
}

func encodeDataURI(data []byte, format document.ImageFormat) (string, error) {
	uri, err := encoding.EncodeImageDataURI(data, format)
	if err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return uri, nil
}
