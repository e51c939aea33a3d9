package intake

import (
	"fmt"
	"mime"
	"strings"

	pkgerrors "github.com/angelmondragon/castcall-backend/pkg/errors"
)

const (
	imageFieldName = "images"
	audioFieldName = "voiceSample"
)

// FileValidator runs the type and size checks on candidate attachments.
// It holds no state beyond its limits.
type FileValidator struct {
	limits Limits
}

func NewFileValidator(limits Limits) FileValidator {
	return FileValidator{limits: limits.withDefaults()}
}

func (v FileValidator) ValidateImage(a Attachment) error {
	return v.validateImage(imageFieldName, a)
}

// ValidateImages checks the count first, then every image. The first failure names its index.
func (v FileValidator) ValidateImages(images []Attachment) error {
	if len(images) > v.limits.MaxImages {
		return pkgerrors.Validation(imageFieldName,
			fmt.Sprintf("too many images: %d submitted, at most %d allowed", len(images), v.limits.MaxImages))
	}
	for i, img := range images {
		if err := v.validateImage(fmt.Sprintf("%s[%d]", imageFieldName, i), img); err != nil {
			return err
		}
	}
	return nil
}

func (v FileValidator) validateImage(field string, a Attachment) error {
	mimeType := normalizeMimeType(a.MimeType)
	if mimeType == "" {
		return pkgerrors.Validation(field, field+": mime type is required")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return pkgerrors.Validation(field, fmt.Sprintf("%s: %s is not an image", field, mimeType))
	}
	if a.Size() > v.limits.MaxImageBytes {
		return pkgerrors.Validation(field,
			fmt.Sprintf("%s: image exceeds %d bytes", field, v.limits.MaxImageBytes))
	}
	return nil
}

func (v FileValidator) ValidateAudio(a Attachment) error {
	mimeType := normalizeMimeType(a.MimeType)
	if mimeType == "" {
		return pkgerrors.Validation(audioFieldName, "voiceSample: mime type is required")
	}
	if !isAllowedAudio(mimeType) {
		return pkgerrors.Validation(audioFieldName,
			fmt.Sprintf("voiceSample: %s is not an accepted audio type, use MP3", mimeType))
	}
	if name := strings.TrimSpace(a.Name); name != "" && !strings.HasSuffix(strings.ToLower(name), audioExtension) {
		return pkgerrors.Validation(audioFieldName, "voiceSample: file name must end in .mp3")
	}
	if a.Size() > v.limits.MaxAudioBytes {
		return pkgerrors.Validation(audioFieldName,
			fmt.Sprintf("voiceSample: audio exceeds %d bytes", v.limits.MaxAudioBytes))
	}
	return nil
}

// normalizeMimeType lowercases and strips parameters. Unparseable values are kept as-is so the
// caller's prefix and allow-list checks reject them.
func normalizeMimeType(value string) string {
	clean := strings.ToLower(strings.TrimSpace(value))
	if clean == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(clean); err == nil && mediaType != "" {
		return mediaType
	}
	return clean
}

var imageExtensions = map[string]string{
	"jpeg": "jpg",
	"jpg":  "jpg",
	"png":  "png",
	"gif":  "gif",
	"webp": "webp",
}

func imageExtension(mimeType string) string {
	subtype := strings.TrimPrefix(normalizeMimeType(mimeType), "image/")
	if ext, ok := imageExtensions[subtype]; ok {
		return ext
	}
	return "jpg"
}
