// Package corpus lists serialized slice files on disk for batch and
// HTTP use.
package corpus

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// File is one serialized slice file found in a corpus directory.
type File struct {
	Id   string
	Path string
	Name string
}

// Scan walks root and collects every .tsv and .csv file, assigning each
// a fresh ID for use in API responses.
func Scan(root string) ([]File, error) {
	var res []File
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".tsv") || strings.HasSuffix(path, ".csv") {
			res = append(res, File{
				Id:   uuid.New().String(),
				Path: path,
				Name: d.Name(),
			})
		}
		return nil
	}
	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, fmt.Errorf("scanning corpus %v: %w", root, err)
	}
	return res, nil
}

// ById finds a scanned file by its ID.
func ById(files []File, id string) (File, bool) {
	for _, f := range files {
		if f.Id == id {
			return f, true
		}
	}
	return File{}, false
}
