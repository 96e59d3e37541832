// Package batch provides input discovery for --all mode.
// It walks a directory for clipboard HTML files and pairs each one with
// its slice clip sidecar, keeping discovery separate from the conversion
// pipeline.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Job is one HTML input of a batch.
type Job struct {
	Path     string // HTML file
	Rel      string // Path relative to the batch root
	Metadata string // slice clip sidecar, empty when there is none
}

// Discover walks root and queues every HTML file in lexical order.
// Hidden files and directories are skipped.
func Discover(ctx context.Context, root string) (*Queue, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading batch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("batch root %s is not a directory", root)
	}

	queue := NewQueue()
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsHidden(d.Name()) || !IsHTML(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		queue.Add(Job{Path: path, Rel: rel, Metadata: FindSidecar(path)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return queue, nil
}
