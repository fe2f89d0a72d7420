// Package archive reads archive lists: plain text files naming one channel
// group per line, each group being the whitespace separated paths of its
// channel files.
package archive

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Parse returns the groups of r in order. Blank lines are skipped.
func Parse(r io.Reader) ([][]string, error) {
	var groups [][]string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		groups = append(groups, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	return groups, nil
}

// ParseFile parses the list at path. Relative entries are resolved against
// dir when it is not empty.
func ParseFile(path, dir string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer f.Close()

	groups, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return groups, nil
	}
	for _, g := range groups {
		for i, p := range g {
			if !filepath.IsAbs(p) {
				g[i] = filepath.Join(dir, p)
			}
		}
	}
	return groups, nil
}
