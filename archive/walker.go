// Package archive walks stylesheets stored in zip based containers (zip,
// epub). Reading is done with github.com/hidez8891/zip which is tolerant to
// archives produced by various ebook tools.
package archive

import (
	"fmt"
	"io"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// WalkFunc is called for each matching file in archive visited by Walk. The
// archive argument contains path to archive passed to Walk, name is the entry
// name and r reads entry content. If an error is returned, processing stops.
type WalkFunc func(archive, name string, r io.Reader) error

// MatchFunc selects archive entries to visit.
type MatchFunc func(name string) bool

// Suffix returns MatchFunc accepting names ending with any of suffixes,
// comparison is case insensitive.
func Suffix(suffixes ...string) MatchFunc {
	return func(name string) bool {
		name = strings.ToLower(name)
		for _, s := range suffixes {
			if strings.HasSuffix(name, strings.ToLower(s)) {
				return true
			}
		}
		return false
	}
}

// IsArchive reports whether file name looks like supported container.
func IsArchive(name string) bool {
	return Suffix(".zip", ".epub", ".kepub")(name)
}

// Walk visits files in the archive which satisfy match condition in archive
// order. Archives with entries using absolute paths or ".." components are
// rejected.
func Walk(archive string, match MatchFunc, walkFn WalkFunc) error {

	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if strings.HasSuffix(name, "/") || (match != nil && !match(name)) {
			continue
		}
		if err := visit(archive, f, walkFn); err != nil {
			return err
		}
	}
	return nil
}

func visit(archive string, f *fixzip.File, walkFn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("unable to open %q in %s: %w", f.Name, archive, err)
	}
	defer rc.Close()
	return walkFn(archive, f.Name, rc)
}

// isSafePath returns false for absolute paths and paths with ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
