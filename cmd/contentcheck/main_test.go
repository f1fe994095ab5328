package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdblog/internal/content"
	"mdblog/internal/logger"
	"mdblog/internal/repository"
	"mdblog/internal/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagDir, flagHits = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestCheck_ListsPosts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first.md", "---\ntitle: First\ndate: 2024-01-01\n---\nbody\n")
	writeFile(t, dir, "link.md", "---\ntitle: Elsewhere\ndate: 2024-02-01\nexternal_url: https://example.org\n---\n")
	writeFile(t, dir, "draft.md", "---\ntitle: Draft\ndate: 2024-03-01\npublished: false\n---\n")

	out, err := run(t, "--config", "", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2024-02-01")
	assert.Contains(t, out, "Elsewhere [link]")
	assert.Contains(t, out, "first")
	assert.NotContains(t, out, "Draft")
	assert.Contains(t, out, "2 posts OK")
}

func TestCheck_ShowsHits(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "first.md", "---\ntitle: First\ndate: 2024-01-01\n---\nbody\n")
	t.Setenv("BLOG_DB_PATH", filepath.Join(t.TempDir(), "hits.db"))

	out, err := run(t, "--config", "", "--dir", dir, "--hits")
	require.NoError(t, err)
	assert.Contains(t, out, "VIEWS")
}

func TestCheck_ReportsBadPost(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Bad Name.md", "---\ntitle: x\ndate: 2024-01-01\n---\n")

	_, err := run(t, "--config", "", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad file name")

	var nameErr *content.InvalidFilenameError
	require.True(t, errors.As(err, &nameErr))
	assert.Contains(t, nameErr.Error(), "Bad Name.md")
}

func TestViewsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "hits.db")
	t.Setenv("BLOG_DB_PATH", dbPath)

	db, err := utils.InitDatabase(dbPath)
	require.NoError(t, err)
	repo := repository.NewHitRepository(db, logger.NewNop())
	require.NoError(t, repo.EnsureSchema())
	require.NoError(t, repo.Upsert("hello-world", 42))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out, err := run(t, "views", "--config", "", "hello-world", "missing")
	require.NoError(t, err)
	assert.Equal(t, "hello-world\t42\nmissing\t0\n", out)
}

func TestSlugCommand(t *testing.T) {
	out, err := run(t, "slug", "My", "New", "Post")
	require.NoError(t, err)
	assert.Equal(t, "my-new-post.md\n", out)
}
