// Package content turns a directory of markdown files with YAML frontmatter
// into the ordered, immutable post collection served by the blog.
package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gosimple/slug"

	"mdblog/internal/logger"
	"mdblog/internal/models"
	"mdblog/internal/utils"
)

// excerptLength is the rune budget of generated excerpts.
const excerptLength = 150

// postExtensions lists the accepted post file suffixes.
var postExtensions = []string{".md", ".markdown"}

// Loader reads and renders posts. It is safe to reuse.
type Loader struct {
	log        logger.Logger
	minifyHTML bool
}

// Option configures a Loader.
type Option func(*Loader)

// WithMinifiedHTML minifies the rendered HTML of every post.
func WithMinifiedHTML(enabled bool) Option {
	return func(l *Loader) { l.minifyHTML = enabled }
}

// WithLogger sets the loader's logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// NewLoader returns a Loader that logs nowhere and keeps rendered HTML as is
// unless opts say otherwise.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{log: logger.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadPosts loads dir with a default Loader.
func LoadPosts(dir string) ([]models.Post, error) {
	return NewLoader().LoadPosts(dir)
}

// LoadPosts parses every post file in dir (not recursively) and returns the
// published posts, newest first. Posts sharing a date keep the order in which
// their files were listed. Any error aborts the whole load and no posts are
// returned.
//
// Subdirectories and hidden files are skipped; any other file must carry
// one of the .md or .markdown suffixes.
func (l *Loader) LoadPosts(dir string) ([]models.Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ContentDirectoryError{Dir: dir, Err: err}
	}

	posts := make([]models.Post, 0, len(entries))
	seen := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		post, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[post.Slug]; ok {
			return nil, &DuplicateSlugError{Slug: post.Slug, Paths: []string{prev, path}}
		}
		seen[post.Slug] = path
		posts = append(posts, post)
	}

	sortByDateDesc(posts)
	published := filterPublished(posts)

	l.log.Info("Loaded posts",
		logger.String("dir", dir),
		logger.Int("published", len(published)),
		logger.Int("drafts", len(posts)-len(published)),
	)
	return published, nil
}

// LoadFile parses a single post file.
func (l *Loader) LoadFile(path string) (models.Post, error) {
	postSlug, err := SlugFromFilename(path)
	if err != nil {
		return models.Post{}, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return models.Post{}, &IOError{Path: path, Err: err}
	}

	post, err := l.parse(path, postSlug, source)
	if err != nil {
		return models.Post{}, err
	}
	l.log.Debug("Parsed post",
		logger.String("slug", post.Slug),
		logger.String("date", post.ISOTimestamp),
		logger.Bool("published", post.IsPublished()),
	)
	return post, nil
}

func (l *Loader) parse(path, postSlug string, source []byte) (models.Post, error) {
	block, body, err := splitFrontMatter(path, source)
	if err != nil {
		return models.Post{}, err
	}

	fm, date, err := decodeFrontMatter(path, block)
	if err != nil {
		return models.Post{}, err
	}

	html, err := utils.RenderMarkdown([]byte(body))
	if err != nil {
		return models.Post{}, &IOError{Path: path, Err: err}
	}
	if l.minifyHTML {
		if html, err = utils.MinifyHTML(html); err != nil {
			return models.Post{}, &IOError{Path: path, Err: err}
		}
	}

	excerpt := strings.TrimSpace(fm.Description)
	if excerpt == "" {
		excerpt = utils.GenerateExcerpt(body, excerptLength)
	}

	return models.Post{
		Slug:         postSlug,
		Title:        fm.Title,
		Date:         date,
		Description:  strings.TrimSpace(fm.Description),
		ExternalURL:  strings.TrimSpace(fm.ExternalURL),
		Published:    fm.Published,
		Tags:         fm.Tags,
		Excerpt:      excerpt,
		Content:      html,
		ISOTimestamp: date.Format(models.ISOLayout),
		SourcePath:   path,
	}, nil
}

// SlugFromFilename strips the post extension from the base name of path and
// checks that the remainder is URL safe.
func SlugFromFilename(path string) (string, error) {
	stem, ok := trimPostExtension(filepath.Base(path))
	switch {
	case !ok:
		return "", &InvalidFilenameError{Path: path, Reason: "expected a .md extension"}
	case stem == "":
		return "", &InvalidFilenameError{Path: path, Reason: "empty slug"}
	case !slug.IsSlug(stem):
		return "", &InvalidFilenameError{Path: path, Reason: "slug may only contain lowercase letters, digits, '-' and '_'"}
	}
	return stem, nil
}

func trimPostExtension(name string) (string, bool) {
	for _, ext := range postExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// sortByDateDesc orders posts newest first. The sort is stable so posts on
// the same date keep their listing order.
func sortByDateDesc(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
}

// filterPublished drops posts marked published: false.
func filterPublished(posts []models.Post) []models.Post {
	out := posts[:0]
	for _, p := range posts {
		if p.IsPublished() {
			out = append(out, p)
		}
	}
	return out
}
