package intake

import (
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
)

func TestValidateImage(t *testing.T) {
	v := NewFileValidator(Limits{MaxImages: 2, MaxImageBytes: 100, MaxAudioBytes: 100})

	tests := []struct {
		name    string
		in      Attachment
		wantErr bool
	}{
		{name: "png", in: image("image/png", 50)},
		{name: "uppercase type", in: image("IMAGE/JPEG", 50)},
		{name: "with params", in: image("image/webp; q=1", 50)},
		{name: "exact ceiling", in: image("image/gif", 100)},
		{name: "missing type", in: image("", 10), wantErr: true},
		{name: "not an image", in: image("application/pdf", 10), wantErr: true},
		{name: "too large", in: image("image/png", 101), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateImage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateImage() err=%v wantErr=%v", err, tt.wantErr)
			}
			if err != nil && pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", pkgerrors.As(err).Code())
			}
		})
	}
}

func TestValidateImagesCountAndIndex(t *testing.T) {
	v := NewFileValidator(Limits{MaxImages: 2, MaxImageBytes: 100, MaxAudioBytes: 100})

	err := v.ValidateImages([]Attachment{image("image/png", 10), image("image/png", 10), image("image/png", 10)})
	if err == nil || !strings.Contains(err.Error(), "too many images") {
		t.Fatalf("expected count rejection, got %v", err)
	}

	err = v.ValidateImages([]Attachment{image("image/png", 10), image("text/plain", 10)})
	if err == nil {
		t.Fatal("expected rejection for second image")
	}
	details, _ := pkgerrors.As(err).Details().(map[string]any)
	if details["field"] != "images[1]" {
		t.Fatalf("expected offending index in details, got %v", details)
	}
}

func TestValidateAudio(t *testing.T) {
	v := NewFileValidator(Limits{MaxImages: 2, MaxImageBytes: 100, MaxAudioBytes: 100})

	tests := []struct {
		name    string
		in      *Attachment
		wantErr bool
	}{
		{name: "mpeg", in: audio("take1.mp3", "audio/mpeg", 10)},
		{name: "case insensitive type", in: audio("take1.mp3", "AUDIO/MPEG", 10)},
		{name: "case insensitive extension", in: audio("TAKE1.MP3", "audio/mp3", 10)},
		{name: "no filename", in: audio("", "audio/x-mpeg", 10)},
		{name: "mp4 audio", in: audio("clip.mp3", "audio/mp4", 10)},
		{name: "missing type", in: audio("a.mp3", "", 10), wantErr: true},
		{name: "wav", in: audio("a.mp3", "audio/wav", 10), wantErr: true},
		{name: "wrong extension", in: audio("a.wav", "audio/mpeg", 10), wantErr: true},
		{name: "too large", in: audio("a.mp3", "audio/mpeg", 101), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateAudio(*tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAudio() err=%v wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestImageExtension(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":    "jpg",
		"image/jpg":     "jpg",
		"image/png":     "png",
		"IMAGE/GIF":     "gif",
		"image/webp":    "webp",
		"image/heic":    "jpg",
		"image/svg+xml": "jpg",
	}
	for in, want := range cases {
		if got := imageExtension(in); got != want {
			t.Fatalf("imageExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewFileValidatorAppliesDefaults(t *testing.T) {
	v := NewFileValidator(Limits{})
	if v.limits != DefaultLimits() {
		t.Fatalf("expected defaults, got %+v", v.limits)
	}
}
