//go:build ignore

// build.go prepares static assets for a release build:
//
//	go run build.go -release   minify CSS/JS and point the templates at them
//	go run build.go -clean     undo -release
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
)

const (
	staticDir    = "static"
	templatesDir = "templates"
	backupSuffix = ".bak"
)

var (
	m                 = minify.New()
	assetReplacements = map[string]string{
		"css/style.css": "css/style.min.css",
		"js/main.js":    "js/main.min.js",
	}
	mediaTypes = map[string]string{
		".css": "text/css",
		".js":  "text/javascript",
	}
)

func init() {
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/javascript", js.Minify)
}

func main() {
	release := flag.Bool("release", false, "Process assets for release")
	clean := flag.Bool("clean", false, "Clean processed assets and restore original files")
	flag.Parse()

	if *release && *clean {
		log.Fatal("Cannot use -release and -clean flags simultaneously.")
	}

	switch {
	case *release:
		fmt.Println("Processing assets for release...")
		if err := processAssets(); err != nil {
			log.Fatalf("Failed to process assets for release: %v", err)
		}
		fmt.Println("Assets processed successfully.")
	case *clean:
		fmt.Println("Cleaning up processed assets...")
		if err := cleanupAssets(); err != nil {
			log.Fatalf("Failed to clean up assets: %v", err)
		}
		fmt.Println("Cleanup complete.")
	default:
		fmt.Println("No action specified. Use -release to process assets or -clean to clean up.")
	}
}

func processAssets() error {
	for src, dst := range assetReplacements {
		if err := minifyFile(filepath.Join(staticDir, src), filepath.Join(staticDir, dst)); err != nil {
			return err
		}
	}
	return updateHTMLReferences()
}

func minifyFile(src, dst string) error {
	mediaType, ok := mediaTypes[filepath.Ext(src)]
	if !ok {
		return fmt.Errorf("no minifier for %s", src)
	}
	in, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out, err := m.Bytes(mediaType, in)
	if err != nil {
		return fmt.Errorf("minify %s: %w", src, err)
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("  %s -> %s (%d -> %d bytes)\n", src, dst, len(in), len(out))
	return nil
}

// updateHTMLReferences rewrites asset links in every template, keeping a
// backup of each file it touches.
func updateHTMLReferences() error {
	files, err := filepath.Glob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		content := string(data)
		for src, dst := range assetReplacements {
			content = strings.ReplaceAll(content, "/static/"+src, "/static/"+dst)
		}
		if content == string(data) {
			continue
		}
		if err := os.WriteFile(file+backupSuffix, data, 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func cleanupAssets() error {
	backups, err := filepath.Glob(filepath.Join(templatesDir, "*.html"+backupSuffix))
	if err != nil {
		return err
	}
	for _, backup := range backups {
		if err := os.Rename(backup, strings.TrimSuffix(backup, backupSuffix)); err != nil {
			return err
		}
	}
	for _, dst := range assetReplacements {
		if err := os.Remove(filepath.Join(staticDir, dst)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
