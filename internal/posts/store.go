package posts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/markdown"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const defaultPattern = "*.md"

// StoreConfig configures post discovery.
type StoreConfig struct {
	// Pattern selects post files by basename. The extension of the pattern
	// is also used to find a single post by slug.
	Pattern string
}

// Store reads posts from a flat directory. Every call goes back to the
// filesystem; there is no in-process caching.
type Store struct {
	fs        fs.FS
	pattern   string
	extension string
	logger    interfaces.Logger
}

// NewStore returns a store reading from filesystem.
func NewStore(filesystem fs.FS, cfg StoreConfig, logger interfaces.Logger) *Store {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	extension := path.Ext(pattern)
	if extension == "" || strings.ContainsAny(extension, "*?[") {
		extension = path.Ext(defaultPattern)
	}
	return &Store{
		fs:        filesystem,
		pattern:   pattern,
		extension: extension,
		logger:    logging.Ensure(logger),
	}
}

// NewDirStore returns a store over the directory dir.
func NewDirStore(dir string, cfg StoreConfig, logger interfaces.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, storeFailure(err, fmt.Sprintf("posts: stat %s", dir))
	}
	if !info.IsDir() {
		return nil, storeFailure(fmt.Errorf("%s is not a directory", dir), "posts: invalid directory")
	}
	return NewStore(os.DirFS(dir), cfg, logger), nil
}

// List returns every readable post in filename order. Files whose name is
// not a valid slug or whose front matter is malformed are skipped.
func (s *Store) List(ctx context.Context) ([]*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.fs, ".")
	if err != nil {
		return nil, storeFailure(err, "posts: read directory")
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	posts := make([]*Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !s.matches(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		slugValue := strings.TrimSuffix(name, path.Ext(name))
		if !IsValidSlug(slugValue) {
			s.warnInvalidName(name, slugValue)
			continue
		}

		post, err := s.load(name, slugValue)
		if err != nil {
			logging.WithPostContext(s.logger, slugValue, name).
				Warn("posts.load.skipped", "error", err)
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Get loads the post stored under slug. Missing files, invalid slugs and
// malformed front matter all yield a not found error.
func (s *Store) Get(ctx context.Context, slugValue string) (*Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !IsValidSlug(slugValue) {
		return nil, notFound(slugValue, nil)
	}

	name := slugValue + s.extension
	post, err := s.load(name, slugValue)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.WithPostContext(s.logger, slugValue, name).
				Warn("posts.load.malformed", "error", err)
		}
		return nil, notFound(slugValue, err)
	}
	return post, nil
}

func (s *Store) load(name, slugValue string) (*Post, error) {
	data, err := fs.ReadFile(s.fs, name)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(s.fs, name)
	if err != nil {
		return nil, err
	}

	meta, body, err := markdown.ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("posts: %s: %w", name, err)
	}

	title := meta.Title
	if title == "" {
		title = titleFromSlug(slugValue)
	}
	return &Post{
		Slug:         slugValue,
		Title:        title,
		Summary:      meta.Summary,
		Date:         meta.Date,
		Contents:     body,
		FilePath:     name,
		LastModified: info.ModTime(),
	}, nil
}

func (s *Store) matches(name string) bool {
	ok, err := path.Match(s.pattern, name)
	return err == nil && ok
}

func (s *Store) warnInvalidName(name, slugValue string) {
	logger := logging.WithPostContext(s.logger, "", name)
	if suggestion, err := slug.Normalize(slugValue); err == nil && suggestion != "" && IsValidSlug(suggestion) {
		logger.Warn("posts.load.invalid_name", "suggested", suggestion+s.extension)
		return
	}
	logger.Warn("posts.load.invalid_name")
}
