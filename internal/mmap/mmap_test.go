package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestOpenReadOnly(t *testing.T) {
	path := writeTempFile(t, []byte("hello world"))

	m, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	if m.Size() != 11 {
		t.Errorf("Size() = %d, want 11", m.Size())
	}
	if m.Writable() {
		t.Error("Writable() = true, want false")
	}

	buf := make([]byte, 5)
	n, err := m.ReadAt(buf, 6)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if n != 5 || string(buf) != "world" {
		t.Errorf("ReadAt() = %q (%d bytes), want %q", buf, n, "world")
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), ReadOnly)
	if !os.IsNotExist(err) {
		t.Errorf("Open() error = %v, want not-exist", err)
	}
}

func TestReadAtBounds(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))

	m, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	if _, err := m.ReadAt(make([]byte, 1), -1); err != ErrInvalidOffset {
		t.Errorf("ReadAt(-1) error = %v, want ErrInvalidOffset", err)
	}
	if n, err := m.ReadAt(make([]byte, 1), 3); err != io.EOF || n != 0 {
		t.Errorf("ReadAt(past end) = %d, %v, want 0, io.EOF", n, err)
	}
	if n, err := m.ReadAt(make([]byte, 4), 1); err != io.EOF || n != 2 {
		t.Errorf("ReadAt(short) = %d, %v, want 2, io.EOF", n, err)
	}
}

func TestWriteAtReachesFile(t *testing.T) {
	path := writeTempFile(t, []byte("xxxx"))

	m, err := Open(path, ReadWrite)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if n, err := m.WriteAt([]byte("ab"), 1); err != nil || n != 2 {
		t.Fatalf("WriteAt() = %d, %v", n, err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "xabx" {
		t.Errorf("file content = %q, want %q", got, "xabx")
	}
}

func TestWriteAtReadOnly(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))

	m, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	if _, err := m.WriteAt([]byte("x"), 0); err != ErrReadOnly {
		t.Errorf("WriteAt() error = %v, want ErrReadOnly", err)
	}
}

func TestWriteAtBounds(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))

	m, err := Open(path, ReadWrite)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	if _, err := m.WriteAt([]byte("xy"), 2); err != ErrOutOfBounds {
		t.Errorf("WriteAt(partial past end) error = %v, want ErrOutOfBounds", err)
	}
	// Nothing was written.
	buf := make([]byte, 3)
	if _, err := m.ReadAt(buf, 0); err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if string(buf) != "abc" {
		t.Errorf("content after failed write = %q, want %q", buf, "abc")
	}
}

func TestCloseIdempotent(t *testing.T) {
	path := writeTempFile(t, []byte("abc"))

	m, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := m.ReadAt(make([]byte, 1), 0); err != ErrClosed {
		t.Errorf("ReadAt() after close error = %v, want ErrClosed", err)
	}
}

func TestAdvise(t *testing.T) {
	path := writeTempFile(t, []byte("abcdef"))

	m, err := Open(path, ReadOnly)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer m.Close()

	for _, p := range []AccessPattern{AccessDefault, AccessSequential, AccessRandom} {
		if err := m.Advise(p); err != nil {
			t.Errorf("Advise(%v) error = %v", p, err)
		}
	}
}
