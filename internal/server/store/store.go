// Package store owns the single shared document on durable storage.
//
// The unit of consistency is the entire document: callers load the whole
// document, mutate it in memory and save it back. Update serializes every
// load-mutate-save sequence behind one process-wide mutex so concurrent
// writers can never interleave and lose updates.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/asmolyar/webpen/internal/common"
	"github.com/asmolyar/webpen/internal/logging"
	"github.com/asmolyar/webpen/internal/server/models"
)

type FileStore struct {
	path   string
	logger logging.Logger

	// mu guards every load-mutate-save sequence.
	mu sync.Mutex
}

func NewFileStore(path string, logger logging.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.With("module", "store"),
	}
}

// Load reads the persisted document. A missing file yields an empty
// document. A file that is not well-formed JSON also yields an empty
// document: corruption is treated as "nothing yet", with a warning so
// operators can notice.
func (s *FileStore) Load(ctx context.Context) (models.Document, error) {

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Document{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", common.ErrStorage, s.path, err)
	}

	doc := models.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.logger.Warn(ctx, "document is not valid JSON, starting empty", "path", s.path, "error", err.Error())
		return models.Document{}, nil
	}

	return doc, nil
}

// Save serializes the full document pretty-printed and replaces the file
// atomically (write to a temp file in the same directory, then rename), so a
// concurrent Load never observes a partially written document. The containing
// directory is created if absent.
func (s *FileStore) Save(ctx context.Context, doc models.Document) error {

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", common.ErrStorage, dir, err)
	}

	raw, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: marshal document: %v", common.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", common.ErrStorage, err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", common.ErrStorage, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", common.ErrStorage, tmp.Name(), err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: rename to %s: %v", common.ErrStorage, s.path, err)
	}

	return nil
}

// Update runs one atomic load-mutate-save cycle. The callback receives the
// freshly loaded document and may mutate it in place; if it returns an error
// the document is not saved and the error is passed through unchanged.
func (s *FileStore) Update(ctx context.Context, fn func(doc models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Load(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.Save(ctx, doc)
}
