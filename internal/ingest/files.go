// Package ingest turns a folder of monthly billing workbooks into clean rows
// ready to be persisted.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the only file type picked up from the billing folder.
const Extension = ".xlsx"

var (
	ErrNoFolder       = errors.New("no_folder_selected")
	ErrFolderNotFound = errors.New("folder_not_found")
	ErrNoFiles        = errors.New("no_files_found")
)

// FindFiles lists the workbooks directly inside dir, sorted by name.
// Office lock files (~$name.xlsx) are skipped.
func FindFiles(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoFolder
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, dir)
		}
		return nil, err
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), Extension) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, dir)
	}
	sort.Strings(files)
	return files, nil
}

// IsInputError reports whether err means the folder gave nothing to work on.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoFolder) || errors.Is(err, ErrFolderNotFound) || errors.Is(err, ErrNoFiles)
}
