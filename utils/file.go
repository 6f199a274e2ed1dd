package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/facette/natsort"

	"github.com/camden-git/printprep/media"
)

// CollectImages expands each argument into a list of image files: plain
// files are taken as-is, directories are walked recursively. The combined
// list is naturally sorted so batch order is stable across runs regardless
// of filesystem enumeration order.
func CollectImages(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if !media.IsRasterImage(arg) {
				return nil, fmt.Errorf("unsupported file type: %s", arg)
			}
			add(arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && media.IsRasterImage(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", arg, err)
		}
	}

	natsort.Sort(paths)
	return paths, nil
}
