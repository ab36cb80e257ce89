// Package assets bundles small public Intcode programs.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.creack.net/intcode/program"
)

// Example programs from the puzzle statements, one image per file.
//
//go:embed programs/*.txt
var Programs embed.FS

const (
	programsDir = "programs"
	programExt  = ".txt"
)

// Names lists the bundled programs, sorted.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(Programs, programsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, elem := range entries {
		if elem.IsDir() || !strings.HasSuffix(elem.Name(), programExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(elem.Name(), programExt))
	}
	return names, nil
}

// Load parses the bundled program name.
func Load(name string) ([]int64, error) {
	p := path.Join(programsDir, name+programExt)
	data, err := Programs.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read program %q: %w", name, err)
	}
	cells, err := program.Parse(p, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse program %q: %w", name, err)
	}
	return cells, nil
}
