package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/castcall-backend/pkg/logger"
	"github.com/angelmondragon/castcall-backend/pkg/mailer"
	"github.com/angelmondragon/castcall-backend/pkg/metrics"
)

const (
	KindCasting = "casting"
	KindSponsor = "sponsor"

	voiceSampleFilename = "VoiceSample.mp3"
	defaultConcurrency  = 4

	castingMessage          = "Application submitted successfully! We'll be in touch soon."
	castingWithVoiceMessage = "Application and voice sample submitted successfully! We'll be in touch soon."
	sponsorSuccessMessage   = "Thank you for your interest in sponsoring! We'll get back to you soon."
)

// Params wires a Pipeline. Store, Notifier, Logger and AdminEmail are required.
type Params struct {
	Limits      Limits
	AdminEmail  string
	Store       BlobStore
	Notifier    Notifier
	Logger      *logger.Logger
	Metrics     *metrics.IntakeMetrics
	Now         func() time.Time
	Concurrency int
}

// Pipeline validates submissions, stores their attachments and relays them by email.
// Validation is a hard gate. Storage and notification failures are logged and skipped.
type Pipeline struct {
	files       FileValidator
	store       BlobStore
	notifier    Notifier
	adminEmail  string
	logg        *logger.Logger
	metrics     *metrics.IntakeMetrics
	now         func() time.Time
	concurrency int
}

func NewPipeline(p Params) (*Pipeline, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	adminEmail := strings.TrimSpace(p.AdminEmail)
	if adminEmail == "" {
		return nil, fmt.Errorf("admin email required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pipeline{
		files:       NewFileValidator(p.Limits),
		store:       p.Store,
		notifier:    p.Notifier,
		adminEmail:  adminEmail,
		logg:        p.Logger,
		metrics:     p.Metrics,
		now:         now,
		concurrency: concurrency,
	}, nil
}

// Limits reports the effective limits after defaults.
func (p *Pipeline) Limits() Limits {
	return p.files.limits
}

func (p *Pipeline) SubmitCasting(ctx context.Context, sub Submission) (*Result, error) {
	sub = normalizeSubmission(sub)
	if err := p.validateCasting(sub); err != nil {
		p.metrics.Submission(KindCasting, metrics.OutcomeRejected)
		return nil, err
	}

	submittedAt := p.now()
	folderKey := DeriveFolderKey(sub.SocialHandle, sub.Name, submittedAt)
	ctx = p.logg.WithFolderKey(ctx, folderKey)

	// A client hanging up after upload must not drop stored files or mails.
	work := context.WithoutCancel(ctx)
	links := p.persistAttachments(work, folderKey, sub, submittedAt)
	p.notifyCasting(work, sub, folderKey, links, submittedAt)

	submitted := len(sub.Images)
	message := castingMessage
	if sub.Audio != nil {
		submitted++
		message = castingWithVoiceMessage
	}

	p.metrics.Submission(KindCasting, metrics.OutcomeAccepted)
	p.metrics.ObserveDuration(KindCasting, p.now().Sub(submittedAt))
	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"files_processed": len(links),
		"files_submitted": submitted,
	}), "intake.casting.accepted")

	return &Result{
		Success:        true,
		Message:        message,
		FilesProcessed: len(links),
		FilesSubmitted: submitted,
		FilesFailed:    submitted - len(links),
		FileLinks:      links,
		FolderKey:      folderKey,
	}, nil
}

func (p *Pipeline) validateCasting(sub Submission) error {
	if err := validateFields(sub); err != nil {
		return err
	}
	if len(sub.Images) > 0 {
		if err := p.files.ValidateImages(sub.Images); err != nil {
			return err
		}
	}
	if sub.Audio != nil {
		if err := p.files.ValidateAudio(*sub.Audio); err != nil {
			return err
		}
	}
	return nil
}

type pendingFile struct {
	filename    string
	contentType string
	attachment  Attachment
}

// persistAttachments stores every attachment concurrently. The returned references keep
// submission order and omit the ones that failed.
func (p *Pipeline) persistAttachments(ctx context.Context, folderKey string, sub Submission, submittedAt time.Time) []string {
	files := make([]pendingFile, 0, len(sub.Images)+1)
	for i, img := range sub.Images {
		files = append(files, pendingFile{
			filename:    fmt.Sprintf("Photo_%d.%s", i+1, imageExtension(img.MimeType)),
			contentType: normalizeMimeType(img.MimeType),
			attachment:  img,
		})
	}
	if sub.Audio != nil {
		files = append(files, pendingFile{
			filename:    voiceSampleFilename,
			contentType: normalizeMimeType(sub.Audio.MimeType),
			attachment:  *sub.Audio,
		})
	}
	if len(files) == 0 {
		return []string{}
	}

	refs := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, file := range files {
		g.Go(func() error {
			refs[i] = p.persistOne(ctx, folderKey, file, submittedAt)
			return nil
		})
	}
	_ = g.Wait()

	links := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != "" {
			links = append(links, ref)
		}
	}
	return links
}

func (p *Pipeline) persistOne(ctx context.Context, folderKey string, file pendingFile, submittedAt time.Time) string {
	ctx = p.logg.WithField(ctx, "file", file.filename)

	ref, err := p.store.Put(ctx, folderKey, file.filename, file.contentType, file.attachment.Data)
	if err != nil {
		p.metrics.AttachmentFailure(metrics.StageSave)
		p.logg.WarnErr(ctx, "intake.attachment.save_failed", err)
		return ""
	}

	meta, err := buildSidecar(file.filename, file.attachment, submittedAt)
	if err == nil {
		_, err = p.store.Put(ctx, folderKey, sidecarName(file.filename), sidecarContentType, meta)
	}
	if err != nil {
		p.metrics.AttachmentFailure(metrics.StageSidecar)
		p.logg.WarnErr(ctx, "intake.attachment.sidecar_failed", err)
	}
	return ref
}

func (p *Pipeline) notifyCasting(ctx context.Context, sub Submission, folderKey string, links []string, submittedAt time.Time) {
	data := newCastingMail(sub, folderKey, links, submittedAt)

	admin, err := adminCastingMessage(p.adminEmail, data)
	p.dispatch(ctx, metrics.RecipientAdmin, admin, err)

	applicant, err := applicantMessage(data)
	p.dispatch(ctx, metrics.RecipientApplicant, applicant, err)
}

// dispatch sends msg unless composing it already failed. Failures are recorded, never returned.
func (p *Pipeline) dispatch(ctx context.Context, recipient string, msg mailer.Message, composeErr error) {
	ctx = p.logg.WithField(ctx, "recipient", recipient)
	err := composeErr
	if err == nil {
		err = p.notifier.Send(ctx, msg)
	}
	if err != nil {
		p.metrics.NotificationFailure(recipient)
		p.logg.Error(ctx, "intake.notify.failed", err)
		return
	}
	p.logg.Debug(ctx, "intake.notify.sent")
}
