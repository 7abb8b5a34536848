package capture_test

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/JaimeStill/shoreline/internal/capture"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestNewImageSniffsType(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		ext         string
	}{
		{"png", encodePNG(t), "image/png", ".png"},
		{"jpeg", encodeJPEG(t), "image/jpeg", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := capture.NewImage(tt.data, "upload.bin")
			if err != nil {
				t.Fatalf("NewImage: %v", err)
			}
			if img.ContentType() != tt.contentType {
				t.Errorf("content type = %q, want %q", img.ContentType(), tt.contentType)
			}
			if img.Extension() != tt.ext {
				t.Errorf("extension = %q, want %q", img.Extension(), tt.ext)
			}
			if !strings.HasPrefix(img.Preview(), "data:image/") || !strings.Contains(img.Preview(), ";base64,") {
				t.Errorf("preview = %.40q", img.Preview())
			}
		})
	}
}

func TestNewImageRejects(t *testing.T) {
	if _, err := capture.NewImage(nil, "a.png"); !errors.Is(err, capture.ErrEmpty) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := capture.NewImage([]byte("%PDF-1.4 not a photo"), "a.png"); !errors.Is(err, capture.ErrNotImage) {
		t.Errorf("pdf: err = %v", err)
	}
	if _, err := capture.NewImage([]byte("hello"), "a.jpg"); !errors.Is(err, capture.ErrNotImage) {
		t.Errorf("text: err = %v", err)
	}
}

func TestImageDataIsCopied(t *testing.T) {
	data := encodePNG(t)
	img, err := capture.NewImage(data, "a.png")
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	data[0] = 0
	got := img.Data()
	got[1] = 0

	if again := img.Data(); again[0] == 0 || again[1] == 0 {
		t.Error("image bytes must not be shared with callers")
	}
}

func TestImagesImmutable(t *testing.T) {
	img, err := capture.NewImage(encodePNG(t), "a.png")
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	var empty capture.Images
	withProduct := empty.With(capture.SlotProduct, img)

	if empty.Has(capture.SlotProduct) {
		t.Error("With mutated the receiver")
	}
	if !withProduct.Has(capture.SlotProduct) {
		t.Error("With did not set the slot")
	}

	cleared := withProduct.Without(capture.SlotProduct)
	if !withProduct.Has(capture.SlotProduct) {
		t.Error("Without mutated the receiver")
	}
	if cleared.Has(capture.SlotProduct) {
		t.Error("Without did not clear the slot")
	}
	if cleared.Preview(capture.SlotProduct) != "" {
		t.Error("empty slot must have an empty preview")
	}
}

func TestImagesPresentOrder(t *testing.T) {
	img, err := capture.NewImage(encodePNG(t), "a.png")
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	set := capture.Images{}.
		With(capture.SlotManufacturer, img).
		With(capture.SlotProduct, img).
		With(capture.SlotRecycling, img)

	got := set.Present()
	want := []capture.Slot{capture.SlotProduct, capture.SlotRecycling, capture.SlotManufacturer}
	if len(got) != len(want) {
		t.Fatalf("present = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("present[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseSlot(t *testing.T) {
	for _, s := range capture.Slots {
		if got, err := capture.ParseSlot(string(s)); err != nil || got != s {
			t.Errorf("ParseSlot(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := capture.ParseSlot("side"); !errors.Is(err, capture.ErrUnknownSlot) {
		t.Errorf("err = %v, want ErrUnknownSlot", err)
	}
	if !capture.SlotProduct.Required() || capture.SlotBack.Required() {
		t.Error("only the product slot is required")
	}
}
