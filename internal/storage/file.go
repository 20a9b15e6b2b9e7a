package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "wellbot/pkg/logx"
)

// fileStore is a dependency-free persistence backend: a single JSON
// snapshot rewritten atomically (tmp + rename) on every mutation. The
// data set is tiny (a handful of flags and preferences), so rewriting
// beats journal replay in complexity.
type fileStore struct {
	log logx.Logger

	mu     sync.Mutex
	path   string
	kv     map[string]string
	closed bool
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	kv := map[string]string{}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jerr := json.Unmarshal(b, &kv); jerr != nil {
			// Corrupt snapshot: start fresh rather than fail startup.
			log.Warn("storage snapshot unreadable, starting empty", logx.String("path", path), logx.Err(jerr))
			kv = map[string]string{}
		}
	case os.IsNotExist(err):
		// first run
	default:
		return nil, err
	}

	return &fileStore{log: log, path: path, kv: kv}, nil
}

func (s *fileStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *fileStore) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.kv[key] = value
	return s.persistLocked()
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.kv[key]; !ok {
		return nil
	}
	delete(s.kv, key)
	return s.persistLocked()
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// persistLocked writes the snapshot via tmp + rename so a crash mid-write
// never leaves a truncated file. Call with s.mu held.
func (s *fileStore) persistLocked() error {
	b, err := json.MarshalIndent(s.kv, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
