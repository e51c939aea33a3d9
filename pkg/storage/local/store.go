package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/angelmondragon/castcall-backend/pkg/storage"
)

// Store writes blobs under a root directory on the local filesystem.
type Store struct {
	root          string
	publicBaseURL string
}

func NewStore(root, publicBaseURL string) (*Store, error) {
	if root == "" {
		return nil, errors.New("local storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: abs, publicBaseURL: publicBaseURL}, nil
}

// Put writes through a temp file and rename so readers never see a partial blob.
func (s *Store) Put(ctx context.Context, folderKey, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := storage.ObjectKey("", folderKey, filename)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, folderKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filename+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	dest := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("rename %s: %w", key, err)
	}

	if s.publicBaseURL != "" {
		return storage.PublicURL(s.publicBaseURL, key), nil
	}
	return dest, nil
}

// Ping checks that the root is still a writable directory.
func (s *Store) Ping(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root %s is not a directory", s.root)
	}
	f, err := os.CreateTemp(s.root, ".ping-*")
	if err != nil {
		return err
	}
	_ = f.Close()
	return os.Remove(f.Name())
}
