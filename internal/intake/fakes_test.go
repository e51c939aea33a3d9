package intake

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/castcall-backend/pkg/logger"
	"github.com/angelmondragon/castcall-backend/pkg/mailer"
)

type storedBlob struct {
	folderKey   string
	filename    string
	contentType string
	data        []byte
}

type fakeStore struct {
	mu    sync.Mutex
	puts  []storedBlob
	fails map[string]bool
}

func (s *fakeStore) Put(ctx context.Context, folderKey, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fails[filename] {
		return "", errors.New("disk full")
	}
	s.puts = append(s.puts, storedBlob{folderKey: folderKey, filename: filename, contentType: contentType, data: data})
	return "mem://" + folderKey + "/" + filename, nil
}

func (s *fakeStore) filenames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.puts))
	for _, p := range s.puts {
		out = append(out, p.filename)
	}
	return out
}

func (s *fakeStore) get(filename string) (storedBlob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.puts {
		if p.filename == filename {
			return p, true
		}
	}
	return storedBlob{}, false
}

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []mailer.Message
	attempt int
	failTo  string
}

func (n *fakeNotifier) Send(ctx context.Context, msg mailer.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attempt++
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.failTo != "" && len(msg.To) > 0 && msg.To[0] == n.failTo {
		return errors.New("smtp relay unavailable")
	}
	n.sent = append(n.sent, msg)
	return nil
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func newTestPipeline(store BlobStore, notifier Notifier) (*Pipeline, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	p, err := NewPipeline(Params{
		Limits:     DefaultLimits(),
		AdminEmail: "casting@studio.test",
		Store:      store,
		Notifier:   notifier,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: buf}),
		Now:        func() time.Time { return fixedNow },
	})
	if err != nil {
		panic(err)
	}
	return p, buf
}

func validSubmission() Submission {
	return Submission{
		Email:                  "jane@example.com",
		Name:                   "Jane Doe",
		VoluntaryParticipation: true,
		UsageRights:            true,
		DataProcessing:         true,
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func image(mimeType string, size int) Attachment {
	data := append([]byte{}, pngHeader...)
	if size > len(data) {
		data = append(data, bytes.Repeat([]byte{0}, size-len(data))...)
	}
	return Attachment{Name: "photo", MimeType: mimeType, Data: data}
}

func audio(name, mimeType string, size int) *Attachment {
	return &Attachment{Name: name, MimeType: mimeType, Data: []byte(strings.Repeat("a", size))}
}
