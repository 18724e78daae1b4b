package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileMessageDAO keeps every message in a single JSON array on disk. Each
// insert reads the whole file and rewrites it. Inserts are serialised so
// overlapping requests cannot drop each other's records.
type FileMessageDAO struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type FileOption func(*FileMessageDAO)

func WithFileClock(now func() time.Time) FileOption {
	return func(d *FileMessageDAO) { d.now = now }
}

func NewFileMessageDAO(path string, opts ...FileOption) *FileMessageDAO {
	d := &FileMessageDAO{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *FileMessageDAO) Path() string {
	return d.path
}

func (d *FileMessageDAO) Insert(ctx context.Context, msg ContactMessage) (ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return ContactMessage{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	messages, err := d.read()
	if err != nil {
		return ContactMessage{}, err
	}

	var lastID int64
	if n := len(messages); n > 0 {
		lastID = messages[n-1].MessageID
	}
	msg = stamp(msg, d.now(), lastID)

	messages = append(messages, msg)
	if err = d.write(messages); err != nil {
		return ContactMessage{}, err
	}

	return msg, nil
}

func (d *FileMessageDAO) FindAll(ctx context.Context) ([]ContactMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.read()
}

// read treats a missing or blank file as an empty store.
func (d *FileMessageDAO) read() ([]ContactMessage, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ContactMessage{}, nil
		}
		return nil, fmt.Errorf("os.ReadFile -> %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []ContactMessage{}, nil
	}

	var messages []ContactMessage
	if err = json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedStore, d.path, err)
	}
	if messages == nil {
		messages = []ContactMessage{}
	}

	return messages, nil
}

// write replaces the file through a temp file in the same directory so a
// failed write never leaves a truncated store behind.
func (d *FileMessageDAO) write(messages []ContactMessage) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent -> %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp -> %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Write -> %w", err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("tmp.Chmod -> %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close -> %w", err)
	}

	if err = os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("os.Rename -> %w", err)
	}

	return nil
}
