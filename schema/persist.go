package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/rawstore/internal/fs"
)

const (
	// FileName is the descriptor side-car file within a store directory.
	FileName = "schema.json"

	// CurrentVersion is the descriptor file format version.
	CurrentVersion = 1
)

// ErrNotFound is returned when the store directory or its descriptor file
// does not exist.
var ErrNotFound = errors.New("schema: descriptor not found")

type fileColumn struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Width int    `json:"width,omitempty"`
}

type fileFormat struct {
	Version  int          `json:"version"`
	RowWidth int          `json:"row_width"`
	RowCount int64        `json:"row_count"`
	Columns  []fileColumn `json:"columns"`
}

// Save writes the descriptor to dir, fully replacing any previous file.
// The write goes through a temp file and a rename so a reader never
// observes a partially written descriptor.
func (d *Descriptor) Save(fsys fs.FileSystem, dir string) error {
	ff := fileFormat{
		Version:  CurrentVersion,
		RowWidth: d.RowWidth,
		RowCount: d.RowCount,
		Columns:  make([]fileColumn, len(d.Columns)),
	}
	for i, c := range d.Columns {
		fc := fileColumn{Name: c.Name, Kind: c.Type.Kind.String()}
		if c.Type.Kind == KindBytes {
			fc.Width = c.Type.Width
		}
		ff.Columns[i] = fc
	}

	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, FileName)
	tmpPath := path + ".tmp"

	f, err := fsys.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		fsys.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		fsys.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		fsys.Remove(tmpPath)
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return err
	}

	return syncDir(fsys, dir)
}

// Load reads the descriptor from dir. It fails with ErrNotFound when the
// directory or the descriptor file is absent, and rejects unknown format
// versions and layouts whose row width does not match the column widths.
func Load(fsys fs.FileSystem, dir string) (*Descriptor, error) {
	f, err := fsys.OpenFile(filepath.Join(dir, FileName), os.O_RDONLY, 0)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("schema: decode descriptor: %w", err)
	}
	if ff.Version != CurrentVersion {
		return nil, fmt.Errorf("schema: unsupported descriptor version: %d (expected %d)", ff.Version, CurrentVersion)
	}

	cols := make([]Column, len(ff.Columns))
	for i, fc := range ff.Columns {
		kind, ok := kindFromString(fc.Kind)
		if !ok {
			return nil, fmt.Errorf("schema: unknown column kind %q", fc.Kind)
		}
		cols[i] = Column{Name: fc.Name, Type: Type{Kind: kind, Width: fc.Width}}
	}

	d, err := Derive(cols)
	if err != nil {
		return nil, err
	}
	if d.RowWidth != ff.RowWidth {
		return nil, fmt.Errorf("schema: row width %d does not match column widths (%d)", ff.RowWidth, d.RowWidth)
	}
	d.RowCount = ff.RowCount

	return d, nil
}

func syncDir(fsys fs.FileSystem, dir string) error {
	f, err := fsys.OpenFile(dir, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
