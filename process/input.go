package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssexpr/archive"
)

var isStylesheet = archive.Suffix(".css")

// source is a single stylesheet read from a file, directory or archive.
type source struct {
	name string
	data []byte
}

// readSources reads stylesheets from every path in order. Path could be a css
// file, a directory (processed recursively) or zip based container. Paths
// which cannot be read are reported together, the rest is still returned.
func readSources(ctx context.Context, paths []string, log *zap.Logger) ([]source, error) {
	var (
		sources []source
		errs    error
	)
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := readPath(ctx, p)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("unable to read %q: %w", p, err))
			continue
		}
		if len(found) == 0 {
			log.Warn("No stylesheets found", zap.String("path", p))
		}
		sources = append(sources, found...)
	}
	return sources, errs
}

func readPath(ctx context.Context, p string) ([]source, error) {
	fi, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	switch {
	case fi.IsDir():
		return readDir(ctx, p)
	case archive.IsArchive(p):
		return readArchive(p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return []source{{name: p, data: data}}, nil
}

// readDir collects stylesheets and containers under dir in natural order of
// their paths. Symbolic links are not followed.
func readDir(ctx context.Context, dir string) ([]source, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.Type().IsRegular() && (isStylesheet(p) || archive.IsArchive(p)) {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Sort(natural.StringSlice(names))

	var sources []source
	for _, name := range names {
		var (
			found []source
			err   error
		)
		if archive.IsArchive(name) {
			found, err = readArchive(name)
		} else {
			var data []byte
			data, err = os.ReadFile(name)
			found = []source{{name: name, data: data}}
		}
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}
	return sources, nil
}

func readArchive(p string) ([]source, error) {
	var sources []source
	err := archive.Walk(p, isStylesheet, func(arc, name string, r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("unable to read %q: %w", name, err)
		}
		sources = append(sources, source{name: filepath.Join(arc, filepath.FromSlash(name)), data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sources, func(i, j int) bool {
		return natural.Less(sources[i].name, sources[j].name)
	})
	return sources, nil
}

var errNoSource = errors.New("no input source has been specified")
