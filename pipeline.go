package canvas

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/canvas/errs"
	"github.com/samber/lo"
)

const workers = 10

var bitmapExtensions = []string{".bmp", ".dib"}

func isBitmap(file string) bool {
	return lo.Contains(bitmapExtensions, strings.ToLower(filepath.Ext(file)))
}

func gifFilename(file string) string {
	return strings.TrimSuffix(file, filepath.Ext(file)) + ".gif"
}

func (c *Canvas) findBitmaps(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return errs.E(errs.IO, op, err)
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if file != base && info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Ignore anything that isn't a normal file
			if !info.Mode().IsRegular() || !isBitmap(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (c *Canvas) bitmapWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			if err := ctx.Err(); err != nil {
				return
			}

			if err := c.Convert(file, gifFilename(file)); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc, nil
}

// firstError fans in every stage's error channel and returns the first
// non-nil error, or nil once all stages have finished cleanly. Stages send
// at most one error each.
func firstError(stages ...<-chan error) error {
	merged := make(chan error, len(stages))

	var wg sync.WaitGroup
	for _, stage := range stages {
		wg.Add(1)
		go func(stage <-chan error) {
			defer wg.Done()
			for err := range stage {
				merged <- err
			}
		}(stage)
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	for err := range merged {
		if err != nil {
			return err
		}
	}

	return nil
}

// Scan walks the directory tree at path and converts every bitmap found
// into a GIF alongside it. Hidden files and directories are skipped.
func (c *Canvas) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return errs.E(errs.IO, op, err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return errs.E(errs.IO, op, err)
	}
	if !info.IsDir() {
		return errs.Errorf(errs.Config, op, "%s is not a directory", path)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	files, errc, err := c.findBitmaps(ctx, dir)
	if err != nil {
		return err
	}
	stages := []<-chan error{errc}

	for i := 0; i < workers; i++ {
		errc, err := c.bitmapWorker(ctx, files)
		if err != nil {
			return err
		}
		stages = append(stages, errc)
	}

	return firstError(stages...)
}
