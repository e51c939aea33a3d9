// Package storage holds helpers shared by the blob store backends.
package storage

import (
	"errors"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidName is returned for folder keys or filenames that could escape their folder.
var ErrInvalidName = errors.New("invalid blob name")

// ObjectKey joins prefix, folder key and filename into a slash-separated object key.
func ObjectKey(prefix, folderKey, filename string) (string, error) {
	if err := checkSegment(folderKey); err != nil {
		return "", err
	}
	if err := checkSegment(filename); err != nil {
		return "", err
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return folderKey + "/" + filename, nil
	}
	return path.Join(prefix, folderKey, filename), nil
}

// PublicURL appends the escaped key to base. Empty base yields "".
func PublicURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	parts := strings.Split(key, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return base + "/" + strings.Join(parts, "/")
}

func checkSegment(segment string) error {
	switch {
	case strings.TrimSpace(segment) == "",
		segment == ".", segment == "..",
		strings.ContainsAny(segment, `/\`),
		strings.ContainsRune(segment, 0):
		return ErrInvalidName
	}
	return nil
}
