// Package localfiles keeps programs as listing files in a directory
package localfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/navionguy/c64basic/ast"
	"github.com/navionguy/c64basic/object"
)

// Ext is added to a program name that doesn't have an extension
const Ext = ".bas"

// Dir stores each program as <Path>/<name>.bas
type Dir struct {
	Path string
}

// Load reads the named program
func (d Dir) Load(name string) ([]ast.SourceLine, error) {
	fn := d.file(name)
	slog.Debug("local load", "file", fn)

	f, err := os.Open(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, object.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	return ast.ReadListing(f)
}

// Save writes the program, replacing any earlier copy
func (d Dir) Save(name string, lines []ast.SourceLine) error {
	fn := d.file(name)
	slog.Debug("local save", "file", fn, "lines", len(lines))

	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}

	if err := ast.WriteListing(f, lines); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Programs names the programs in the directory
func (d Dir) Programs() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.Path, "*"+Ext))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", d.Path, err)
	}

	var names []string
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(filepath.Base(m), Ext))
	}
	sort.Strings(names)

	return names, nil
}

// file keeps the name inside the directory and adds the extension
func (d Dir) file(name string) string {
	name = filepath.Base(name)
	if len(filepath.Ext(name)) == 0 {
		name += Ext
	}
	return filepath.Join(d.Path, name)
}
