package content

import (
	"fmt"
	"strings"
)

// Every error returned by the loader is one of the types below. All of them
// are fatal at startup: the server never serves a partially loaded post set.

// ContentDirectoryError means the content directory could not be listed.
type ContentDirectoryError struct {
	Dir string
	Err error
}

func (e *ContentDirectoryError) Error() string {
	return fmt.Sprintf("content directory %s: %v", e.Dir, e.Err)
}

func (e *ContentDirectoryError) Unwrap() error { return e.Err }

// InvalidFilenameError means a file name cannot be turned into a slug.
type InvalidFilenameError struct {
	Path   string
	Reason string
}

func (e *InvalidFilenameError) Error() string {
	return fmt.Sprintf("invalid post filename %s: %s", e.Path, e.Reason)
}

// IOError wraps a failure to read a post file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read post %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// MalformedFrontmatterError means the frontmatter delimiters are missing or
// misplaced.
type MalformedFrontmatterError struct {
	Path   string
	Reason string
}

func (e *MalformedFrontmatterError) Error() string {
	return fmt.Sprintf("malformed frontmatter in %s: %s", e.Path, e.Reason)
}

// FrontmatterSchemaError means the frontmatter was found but its content is
// invalid: bad YAML, a missing required field or an unparseable date.
type FrontmatterSchemaError struct {
	Path  string
	Field string
	Err   error
}

func (e *FrontmatterSchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("frontmatter in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("frontmatter in %s: field %q: %v", e.Path, e.Field, e.Err)
}

func (e *FrontmatterSchemaError) Unwrap() error { return e.Err }

// DuplicateSlugError means two files map to the same slug.
type DuplicateSlugError struct {
	Slug  string
	Paths []string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("duplicate slug %q in %s", e.Slug, strings.Join(e.Paths, ", "))
}
