package intake

import (
	"context"

	"github.com/angelmondragon/castcall-backend/pkg/mailer"
)

// Attachment is one uploaded file as received from the client.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// Size returns the decoded payload length.
func (a Attachment) Size() int64 {
	return int64(len(a.Data))
}

// Submission models a casting application. Consent flags must all be true.
type Submission struct {
	Email                  string `json:"email" validate:"required"`
	Name                   string `json:"name" validate:"required"`
	VoluntaryParticipation bool   `json:"voluntaryParticipation" validate:"required"`
	UsageRights            bool   `json:"usageRights" validate:"required"`
	DataProcessing         bool   `json:"dataProcessing" validate:"required"`
	SocialHandle           string `json:"socialHandle"`

	Images []Attachment `json:"-"`
	Audio  *Attachment  `json:"-"`
}

// SponsorInquiry models a sponsorship contact request.
type SponsorInquiry struct {
	Company      string `json:"company"`
	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail" validate:"required"`
	Message      string `json:"message"`
}

// Result is what the submission endpoints hand back to the caller.
type Result struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	FilesProcessed int      `json:"filesProcessed"`
	FilesSubmitted int      `json:"filesSubmitted"`
	FilesFailed    int      `json:"filesFailed"`
	FileLinks      []string `json:"fileLinks"`

	FolderKey string `json:"-"`
}

// BlobStore durably writes named bytes under a folder key and returns an addressable reference.
// Writing the same (folderKey, filename) twice overwrites.
type BlobStore interface {
	Put(ctx context.Context, folderKey, filename, contentType string, data []byte) (string, error)
}

// Notifier sends one message. Each call succeeds or fails on its own.
type Notifier interface {
	Send(ctx context.Context, msg mailer.Message) error
}
