// Package scan discovers compressed line-delimited data files under an
// input directory.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// suffix is the data-file naming convention.
const suffix = ".jsonl.gz"

// Discover walks root recursively and returns every data file path,
// sorted for deterministic scheduling. A missing or unreadable root is an
// error; an empty result is not.
func Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
