package scanner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/dhamidi/javatree/java"
)

var importPattern = regexp.MustCompile(`^[ \t]*(package|import)[ \t]+([A-Za-z0-9_.]+)[ \t]*;[ \t]*$`)

// ImportOptions filter what ScanImports keeps.
type ImportOptions struct {
	// Prefix keeps only imports starting with it. Empty keeps all.
	Prefix    string
	FileLabel func(path string) string
}

func (o ImportOptions) label(path string) string {
	return Options{FileLabel: o.FileLabel}.label(path)
}

// ScanImportFile is ScanImports on a file on disk.
func ScanImportFile(path string, opts ImportOptions) (java.ImportSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return java.ImportSet{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ScanImports(f, path, opts)
}

// ScanImports collects the package and import declarations of one file.
// Imports of the file's own package are dropped.
func ScanImports(r io.Reader, path string, opts ImportOptions) (java.ImportSet, error) {
	set := java.ImportSet{File: opts.label(path), Path: path}
	reader := NewReader(r)
	for {
		line, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return set, nil
		}
		if err != nil {
			return set, fmt.Errorf("read %s: %w", path, err)
		}
		if len(line.Text) == 0 || len(line.Text) >= MaxLineLength {
			continue
		}
		m := importPattern.FindStringSubmatch(line.Text)
		if m == nil {
			continue
		}
		name := m[2]
		if m[1] == "package" {
			set.Package = name
			continue
		}
		if set.Package != "" && strings.HasPrefix(name, set.Package) {
			continue
		}
		if opts.Prefix != "" && !strings.HasPrefix(name, opts.Prefix) {
			continue
		}
		set.Imports = append(set.Imports, name)
	}
}
