package intake

import (
	"encoding/json"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const sidecarContentType = "application/json"

// sidecar is the metadata blob stored next to every persisted attachment.
type sidecar struct {
	OriginalName string    `json:"originalName"`
	StoredAs     string    `json:"storedAs"`
	MimeType     string    `json:"mimeType"`
	DetectedType string    `json:"detectedType"`
	Size         int64     `json:"size"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func sidecarName(filename string) string {
	return filename + ".json"
}

func buildSidecar(storedAs string, a Attachment, submittedAt time.Time) ([]byte, error) {
	return json.Marshal(sidecar{
		OriginalName: a.Name,
		StoredAs:     storedAs,
		MimeType:     a.MimeType,
		DetectedType: mimetype.Detect(a.Data).String(),
		Size:         a.Size(),
		SubmittedAt:  submittedAt.UTC(),
	})
}
