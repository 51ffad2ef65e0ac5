package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/stocklots"
	"github.com/rs/zerolog/log"
)

const ext = ".jsonl"

// Dir stores each portfolio as a JSONL file named after it.
type Dir struct {
	path string
}

// NewDir returns a Dir store rooted at path. The directory is created on first save.
func NewDir(path string) *Dir { return &Dir{path: path} }

func (d *Dir) file(name string) string { return filepath.Join(d.path, name+ext) }

// Save writes r to its file, replacing any previous version atomically.
func (d *Dir) Save(r stocklots.Record) error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("cannot create portfolio directory: %w", err)
	}
	var buf bytes.Buffer
	if err := stocklots.EncodeRecord(&buf, r); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.path, r.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	if err := os.Rename(tmp.Name(), d.file(r.Name)); err != nil {
		return fmt.Errorf("cannot save portfolio %q: %w", r.Name, err)
	}
	log.Debug().Str("portfolio", r.Name).Int("lots", len(r.Lots)).Str("path", d.file(r.Name)).Msg("portfolio saved")
	return nil
}

// Load reads the portfolio named name.
func (d *Dir) Load(name string) (stocklots.Record, error) {
	if err := ValidateName(name); err != nil {
		return stocklots.Record{}, err
	}
	f, err := os.Open(d.file(name))
	if errors.Is(err, fs.ErrNotExist) {
		return stocklots.Record{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return stocklots.Record{}, fmt.Errorf("cannot load portfolio %q: %w", name, err)
	}
	defer f.Close()
	r, err := stocklots.DecodeRecord(f)
	if err != nil {
		return stocklots.Record{}, fmt.Errorf("cannot load portfolio %q: %w", name, err)
	}
	if r.Name != name {
		return stocklots.Record{}, fmt.Errorf("cannot load portfolio %q: file holds %q", name, r.Name)
	}
	return r, nil
}

// List returns the names of the portfolio files in the directory.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot list portfolios: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes the portfolio file.
func (d *Dir) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(d.file(name))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return err
}

// Close does nothing.
func (d *Dir) Close() error { return nil }
