// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package server serves the resource files below a directory over HTTP.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/elliotnunn/resourceform/internal/forks"
	"github.com/elliotnunn/resourceform/internal/resourcefork"
)

type Config struct {
	Root      string
	OpenFiles int // resource files kept open at once
	Fork      forks.Fork
	Options   []resourcefork.Option
	Logger    *slog.Logger
}

// A Server is safe for concurrent use by multiple goroutines.
type Server struct {
	root string
	fork forks.Fork
	opts []resourcefork.Option
	log  *slog.Logger

	mu    sync.Mutex // held across lookup-or-open, and so across every eviction
	files *lru.Cache[string, *openFile]
}

var errOutsideRoot = errors.New("path is not below the served directory")

func New(cfg Config) (*Server, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(root); err != nil {
		return nil, err
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	s := &Server{
		root: root,
		fork: cfg.Fork,
		opts: cfg.Options,
		log:  cfg.Logger,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.files, err = lru.NewWithEvict(max(cfg.OpenFiles, 1), func(name string, f *openFile) {
		f.evict()
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes every resource file once it is no longer in use.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files.Purge()
	return nil
}

// openFile stays open until it is both evicted and released.
type openFile struct {
	*resourcefork.File
	stat fs.FileInfo

	mu      sync.Mutex
	refs    int
	evicted bool
}

func (f *openFile) release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs--
	if f.refs == 0 && f.evicted {
		f.Close()
	}
}

func (f *openFile) evict() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicted = true
	if f.refs == 0 {
		f.Close()
	}
}

// local converts a slash-separated path from a request to one below the root.
func (s *Server) local(rel string) (string, error) {
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%q: %w", rel, errOutsideRoot)
	}
	return filepath.Join(s.root, rel), nil
}

// acquire opens a resource file or shares an open one. Call release after.
func (s *Server) acquire(rel string) (*openFile, error) {
	name, err := s.local(rel)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.files.Get(name); ok {
		f.mu.Lock()
		f.refs++
		f.mu.Unlock()
		return f, nil
	}

	stat, err := os.Stat(name)
	if err != nil {
		return nil, err
	}
	rf, err := forks.Open(name, s.fork, s.opts...)
	if err != nil {
		return nil, err
	}
	s.log.Debug("resourceFileOpened", "path", name, "types", rf.Len())
	f := &openFile{File: rf, stat: stat, refs: 1}
	s.files.Add(name, f)
	return f, nil
}
