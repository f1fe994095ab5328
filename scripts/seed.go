//go:build ignore

// seed writes generated markdown posts into a content directory for load
// and performance testing:
//
//	go run scripts/seed.go -dir content -n 1000
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

const body = `
# Load test post

This post was generated by a script to load test the blog.

## Markdown features

### Lists

- item one
- item two
- item three

### Quote

> Load testing keeps the server honest under pressure.

### Code

` + "```go" + `
package main

import "fmt"

func main() {
	fmt.Println("Hello, World!")
}
` + "```" + `

| column | value |
|--------|-------|
| a      | 1     |

## Long text

Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed non risus. Suspendisse lectus tortor, dignissim sit amet, adipiscing nec, ultricies sed, dolor. Cras elementum ultrices diam. Maecenas ligula massa, varius a, semper congue, euismod non, mi.

<!--more-->

Everything below the separator is only shown on the post page. Pellentesque habitant morbi tristique senectus et netus et malesuada fames ac turpis egestas. Vestibulum tortor quam, feugiat vitae, ultricies eget, tempor sit amet, ante. Donec eu libero sit amet quam egestas semper.
`

type frontMatter struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Description string   `yaml:"description,omitempty"`
	Published   *bool    `yaml:"published,omitempty"`
	Tags        []string `yaml:"tags,omitempty"`
}

func main() {
	dir := flag.String("dir", "content", "content directory to write into")
	total := flag.Int("n", 1000, "number of posts to generate")
	draftEvery := flag.Int("draft-every", 0, "mark every Nth post unpublished (0 disables)")
	flag.Parse()

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		log.Fatalf("create %s: %v", *dir, err)
	}

	start := time.Now().UTC()
	log.Printf("Generating %d posts in %s...", *total, *dir)

	for i := 1; i <= *total; i++ {
		title := fmt.Sprintf("Load test post %d", i)
		fm := frontMatter{
			Title:       title,
			Date:        start.AddDate(0, 0, -i).Format("2006-01-02"),
			Description: fmt.Sprintf("Generated post number %d.", i),
			Tags:        []string{"generated", fmt.Sprintf("batch-%d", i/100)},
		}
		if *draftEvery > 0 && i%*draftEvery == 0 {
			published := false
			fm.Published = &published
		}

		path := filepath.Join(*dir, slug.Make(title)+".md")
		if err := writePost(path, fm, fmt.Sprintf("This is post %d.\n%s", i, body)); err != nil {
			log.Fatalf("write post %d: %v", i, err)
		}

		if i%100 == 0 {
			log.Printf("Generated %d/%d posts...", i, *total)
		}
	}

	log.Printf("Generated %d posts.", *total)
}

func writePost(path string, fm frontMatter, markdown string) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(fm); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	buf.WriteString("---\n")
	buf.WriteString(markdown)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
