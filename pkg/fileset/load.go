package fileset

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/dirgraph/pkg/errors"
)

// LoadDir walks root and loads every text file under it. Directories on the
// skip list are not descended into. Paths in the result are relative to root
// and slash-separated.
func LoadDir(ctx context.Context, root string, limits Limits) (FileSet, Stats, error) {
	var stats Stats

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, errs.Wrap(errs.ErrCodeFileNotFound, err, "cannot open %s", root)
	}
	if !info.IsDir() {
		return nil, stats, errs.New(errs.ErrCodeInvalidInput, "%s is not a directory", root)
	}

	var found []entry
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		found = append(found, entry{path: filepath.ToSlash(rel), size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk %s: %w", root, err)
	}

	files := FileSet{}
	for _, e := range selectEntries(found, limits, &stats) {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		if limits.oversized(e.size) {
			files[e.path] = ""
			stats.Oversized++
			continue
		}
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.path)))
		if err != nil {
			return nil, stats, fmt.Errorf("read %s: %w", e.path, err)
		}
		files[e.path] = string(data)
	}
	stats.Files = len(files)
	return files, stats, nil
}

// LoadZip loads text files from a zip archive. When every entry shares a
// single top-level directory (as in GitHub source archives) that directory
// is stripped from the paths.
func LoadZip(r io.ReaderAt, size int64, limits Limits) (FileSet, Stats, error) {
	var stats Stats

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, stats, errs.Wrap(errs.ErrCodeInvalidInput, err, "not a zip archive")
	}

	byPath := make(map[string]*zip.File)
	var names []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if err := errs.ValidatePath(f.Name); err != nil {
			return nil, stats, err
		}
		names = append(names, f.Name)
		byPath[f.Name] = f
	}

	prefix := commonRoot(names)
	found := make([]entry, 0, len(names))
	for _, name := range names {
		found = append(found, entry{
			path: strings.TrimPrefix(name, prefix),
			size: int64(byPath[name].UncompressedSize64),
		})
	}

	files := FileSet{}
	for _, e := range selectEntries(found, limits, &stats) {
		if limits.oversized(e.size) {
			files[e.path] = ""
			stats.Oversized++
			continue
		}
		content, err := readZipFile(byPath[prefix+e.path])
		if err != nil {
			return nil, stats, fmt.Errorf("read %s: %w", e.path, err)
		}
		files[e.path] = content
	}
	stats.Files = len(files)
	return files, stats, nil
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// commonRoot returns "dir/" if every name lives under the same top-level
// directory, or "" otherwise.
func commonRoot(names []string) string {
	if len(names) == 0 {
		return ""
	}
	first, _, ok := strings.Cut(names[0], "/")
	if !ok {
		return ""
	}
	prefix := first + "/"
	for _, n := range names[1:] {
		if !strings.HasPrefix(n, prefix) {
			return ""
		}
	}
	return prefix
}
