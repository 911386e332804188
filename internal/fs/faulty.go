package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// Fault defines failure behavior for files whose name matches a rule.
type Fault struct {
	FailAfterBytes int64 // Fail writes after this many bytes written to the file. -1 to disable.
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// FaultyFS is a FileSystem wrapper that injects errors, used to exercise
// failure paths such as a descriptor persist failing mid-grow.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS creates a FaultyFS wrapping fsys (or Default if nil).
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
	}
}

// AddRule adds a fault injection rule for file names containing pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fault.Err == nil {
		fault.Err = errors.New("injected fault error")
	}
	f.rules[pattern] = fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	fault := Fault{FailAfterBytes: -1}
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	f.mu.Unlock()

	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error             { return f.FS.Remove(name) }
func (f *FaultyFS) Rename(oldpath, newpath string) error { return f.FS.Rename(oldpath, newpath) }
func (f *FaultyFS) Stat(name string) (os.FileInfo, error) {
	return f.FS.Stat(name)
}
func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.Err
	}
	n, err := ff.File.Write(p)
	if n > 0 {
		ff.written += int64(n)
	}
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.Err
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		ff.File.Close()
		return ff.fault.Err
	}
	return ff.File.Close()
}
