//go:build ignore

// import_posts converts markdown posts written for Hugo or Astro style
// frontmatter (publishDate, draft) into this blog's content format. YAML,
// TOML and JSON frontmatter are all understood:
//
//	go run scripts/import_posts.go -src ~/old-blog/content/post -dst content
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// sourceFrontMatter is the frontmatter of the blog being imported.
type sourceFrontMatter struct {
	Title       string      `yaml:"title" toml:"title" json:"title"`
	PublishDate interface{} `yaml:"publishDate" toml:"publishDate" json:"publishDate"` // string or timestamp
	Date        interface{} `yaml:"date" toml:"date" json:"date"`
	Description string      `yaml:"description" toml:"description" json:"description"`
	Summary     string      `yaml:"summary" toml:"summary" json:"summary"`
	Draft       bool        `yaml:"draft" toml:"draft" json:"draft"`
	Tags        []string    `yaml:"tags" toml:"tags" json:"tags"`
}

type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Published   *bool    `yaml:"published,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

func main() {
	src := flag.String("src", "", "directory with the posts to import")
	dst := flag.String("dst", "content", "content directory to write into")
	overwrite := flag.Bool("overwrite", false, "replace posts that already exist in dst")
	flag.Parse()

	if *src == "" {
		log.Fatal("-src is required")
	}
	if err := os.MkdirAll(*dst, 0o755); err != nil {
		log.Fatalf("create %s: %v", *dst, err)
	}

	imported, skipped := 0, 0
	err := filepath.WalkDir(*src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		fmt.Printf("Processing file: %s\n", path)
		if err := importFile(path, *dst, *overwrite); err != nil {
			fmt.Printf("  skipped: %v\n", err)
			skipped++
			return nil
		}
		imported++
		return nil
	})
	if err != nil {
		log.Fatalf("walk %s: %v", *src, err)
	}

	fmt.Printf("Imported %d posts into %s, skipped %d.\n", imported, *dst, skipped)
}

func importFile(path, dst string, overwrite bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var src sourceFrontMatter
	rest, err := frontmatter.MustParse(bytes.NewReader(data), &src)
	if err != nil {
		return fmt.Errorf("parse front matter: %w", err)
	}
	if src.Title == "" {
		return fmt.Errorf("missing title")
	}

	date, err := parseDate(src.PublishDate)
	if err != nil {
		date, err = parseDate(src.Date)
	}
	if err != nil {
		return err
	}

	fm := frontMatter{
		Title:       src.Title,
		Date:        date.Format("2006-01-02"),
		Description: src.Description,
		Tags:        src.Tags,
	}
	if fm.Description == "" {
		fm.Description = src.Summary
	}
	if src.Draft {
		published := false
		fm.Published = &published
	}

	name := slug.Make(strings.TrimSuffix(filepath.Base(path), ".md"))
	if name == "" {
		name = slug.Make(src.Title)
	}
	out := filepath.Join(dst, name+".md")
	if _, err := os.Stat(out); err == nil && !overwrite {
		return fmt.Errorf("%s already exists", out)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if err := yaml.NewEncoder(&buf).Encode(fm); err != nil {
		return err
	}
	buf.WriteString("---\n")
	buf.Write(bytes.TrimSpace(rest))
	buf.WriteString("\n")
	return os.WriteFile(out, buf.Bytes(), 0o644)
}

func parseDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04"} {
			if t, err := time.Parse(layout, d); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unsupported date %q", d)
	default:
		return time.Time{}, fmt.Errorf("missing date")
	}
}
