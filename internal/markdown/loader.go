package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Source is a raw article file plus the identifier derived from its location.
type Source struct {
	ID       string
	Path     string
	Text     []byte
	Checksum []byte
	Modified time.Time
}

// LoaderConfig configures how article files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader discovers article sources inside a filesystem.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:        filesystem,
		pattern:   pattern,
		recursive: cfg.Recursive,
	}
}

// SourceID derives the stable article id for a slash separated path: the
// path without its extension, e.g. "notes/go-generics.md" -> "notes/go-generics".
func SourceID(rel string) string {
	rel = path.Clean(filepath.ToSlash(rel))
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// LoadFile reads a single article source.
func (l *Loader) LoadFile(ctx context.Context, rel string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel = path.Clean(filepath.ToSlash(rel))

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	sum := sha256.Sum256(data)
	return &Source{
		ID:       SourceID(rel),
		Path:     rel,
		Text:     data,
		Checksum: sum[:],
		Modified: info.ModTime(),
	}, nil
}

// LoadDirectory returns every matching source under dir, ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string) ([]*Source, error) {
	root := path.Clean(filepath.ToSlash(dir))
	if root == "" {
		root = "."
	}

	var sources []*Source
	err := fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.Matches(current) {
			return nil
		}
		source, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		sources = append(sources, source)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})
	return sources, nil
}

// Matches reports whether the slash separated path matches the loader pattern.
func (l *Loader) Matches(name string) bool {
	pattern := strings.ReplaceAll(filepath.ToSlash(l.pattern), "**/", "")
	target := filepath.ToSlash(name)
	if !strings.Contains(pattern, "/") {
		target = path.Base(target)
	}
	match, err := path.Match(pattern, target)
	return err == nil && match
}
