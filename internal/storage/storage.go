// Package storage provides the durable client-side key/value store backing
// the auth session, plus a process-scoped layer for one-shot values. Keys
// are namespaced strings ("topevent:auth_token"); each durable key maps to
// its own file under the state directory, and external writes to that
// directory are surfaced as key-change notifications, so a logout performed
// by another process propagates into this one.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Namespace prefixes every key owned by this application.
const Namespace = "topevent"

// Key builds a namespaced key.
func Key(name string) string {
	return Namespace + ":" + name
}

type Store struct {
	dir string

	mu      sync.RWMutex
	session map[string]string

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Open prepares the state directory and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &Store{
		dir:     dir,
		session: make(map[string]string),
	}, nil
}

// Get reads the durable value for key. The read is synchronous so callers
// can hydrate state at construction time.
func (s *Store) Get(key string) (string, bool) {
	b, err := os.ReadFile(s.fileFor(key))
	if err != nil {
		return "", false
	}

	return string(b), true
}

// Set writes the durable value for key, last write wins.
func (s *Store) Set(key, value string) error {
	if err := os.WriteFile(s.fileFor(key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("os.WriteFile -> %w", err)
	}

	return nil
}

// Delete removes the durable value for key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.fileFor(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}

// Watch invokes onChange with the affected key whenever a durable value
// changes on disk, including changes made by other processes. Only one
// watcher per store; Close stops it.
func (s *Store) Watch(onChange func(key string)) error {
	if s.watcher != nil {
		return fmt.Errorf("storage: watch already active")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher -> %w", err)
	}
	if err = w.Add(s.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("w.Add -> %w", err)
	}

	s.watcher = w
	s.done = make(chan struct{})

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if key, ok := s.keyFor(ev.Name); ok {
					onChange(key)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				zap.L().Warn("storage watcher error", zap.Error(err))
			case <-s.done:
				return
			}
		}
	}()

	return nil
}

func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}

	close(s.done)
	err := s.watcher.Close()
	s.watcher = nil
	if err != nil {
		return fmt.Errorf("s.watcher.Close -> %w", err)
	}

	return nil
}

// SetSession stores a process-lifetime value that never touches disk.
func (s *Store) SetSession(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session[key] = value
}

// TakeSession returns and removes a process-lifetime value, so queued
// one-shot payloads are consumed at most once.
func (s *Store) TakeSession(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.session[key]
	if ok {
		delete(s.session, key)
	}

	return v, ok
}

// Keys contain ':' which is awkward in file names; '~' never appears in a
// key, so the mapping stays invertible for watcher events.
func (s *Store) fileFor(key string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key, ":", "~"))
}

func (s *Store) keyFor(path string) (string, bool) {
	name := filepath.Base(path)
	key := strings.ReplaceAll(name, "~", ":")
	if !strings.HasPrefix(key, Namespace+":") {
		return "", false
	}

	return key, true
}
