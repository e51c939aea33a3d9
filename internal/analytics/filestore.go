package analytics

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/angelmondragon/castcall-backend/pkg/db/models"
)

const maxEventLineBytes = 1 << 20

// FileStore keeps events as JSON lines in a single file. Appends are serialized.
// Lines longer than maxEventLineBytes or not valid JSON are skipped on read.
type FileStore struct {
	mu     sync.Mutex
	path   string
	nextID int64
	// torn is set when the file may end mid-line; the next append starts on a fresh line.
	torn bool
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("analytics file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}
	count, torn, err := inspectFile(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path, nextID: count + 1, torn: torn}, nil
}

func (s *FileStore) Append(ctx context.Context, event *models.AnalyticsEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextID
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	record := make([]byte, 0, len(line)+2)
	if s.torn {
		record = append(record, '\n')
	}
	record = append(append(record, line...), '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open analytics file: %w", err)
	}
	if _, err := f.Write(record); err != nil {
		_ = f.Close()
		s.torn = true
		return fmt.Errorf("append event: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close analytics file: %w", err)
	}
	s.torn = false
	s.nextID++
	return nil
}

// Recent scans the whole file and keeps the last n well-formed events.
func (s *FileStore) Recent(ctx context.Context, n int) ([]models.AnalyticsEvent, error) {
	events := []models.AnalyticsEvent{}
	if n <= 0 {
		return events, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return events, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open analytics file: %w", err)
	}
	defer f.Close()

	err = forEachLine(f, func(line []byte) {
		var event models.AnalyticsEvent
		if json.Unmarshal(line, &event) != nil {
			return
		}
		events = append(events, event)
		if len(events) > n {
			events = events[1:]
		}
	})
	if err != nil {
		return nil, fmt.Errorf("read analytics file: %w", err)
	}
	return events, nil
}

// inspectFile counts readable lines and reports whether the file ends mid-line.
func inspectFile(path string) (int64, bool, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("open analytics file: %w", err)
	}
	defer f.Close()

	var count int64
	if err := forEachLine(f, func([]byte) { count++ }); err != nil {
		return 0, false, fmt.Errorf("read analytics file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		return 0, false, fmt.Errorf("stat analytics file: %w", err)
	}
	if info.Size() == 0 {
		return count, false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return 0, false, fmt.Errorf("read analytics file tail: %w", err)
	}
	return count, last[0] != '\n', nil
}

// forEachLine calls fn with every non-blank line up to maxEventLineBytes. Longer lines are
// discarded without buffering them whole. fn must not retain the slice.
func forEachLine(r io.Reader, fn func(line []byte)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	line := make([]byte, 0, 64*1024)
	overlong := false
	for {
		chunk, err := br.ReadSlice('\n')
		if !overlong {
			if len(line)+len(chunk) > maxEventLineBytes {
				overlong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if !overlong {
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				fn(trimmed)
			}
		}
		line = line[:0]
		overlong = false
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
