package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// delimiter is the line that opens and closes the frontmatter block.
const delimiter = "---"

var (
	errRequired = errors.New("is required")

	// dateLayouts are tried in order. Only the calendar date is kept.
	dateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// frontMatter is the YAML block at the top of every post.
type frontMatter struct {
	Title          string   `yaml:"title"`
	Date           string   `yaml:"date"`
	Description    string   `yaml:"description"`
	ExternalURL    string   `yaml:"external_url"`
	ExternalURLAlt string   `yaml:"externalUrl"`
	Published      *bool    `yaml:"published"`
	Tags           []string `yaml:"tags"`
}

// splitFrontMatter separates source into the frontmatter block and the body.
// The first non-blank line must be the delimiter; the body is everything
// after the second delimiter line, including any later delimiter lines.
func splitFrontMatter(path string, source []byte) (string, string, error) {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	lines := strings.SplitAfter(text, "\n")
	open := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed != delimiter {
			return "", "", &MalformedFrontmatterError{Path: path, Reason: "content must start with a --- line"}
		}
		open = i
		break
	}
	if open < 0 {
		return "", "", &MalformedFrontmatterError{Path: path, Reason: "no frontmatter delimiter found"}
	}

	for i := open + 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\n") == delimiter {
			meta := strings.Join(lines[open+1:i], "")
			body := strings.Join(lines[i+1:], "")
			return meta, body, nil
		}
	}
	return "", "", &MalformedFrontmatterError{Path: path, Reason: "missing closing --- line"}
}

// decodeFrontMatter parses and validates the YAML block.
func decodeFrontMatter(path, block string) (frontMatter, time.Time, error) {
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return fm, time.Time{}, &FrontmatterSchemaError{Path: path, Err: err}
	}

	fm.Title = strings.TrimSpace(fm.Title)
	if fm.Title == "" {
		return fm, time.Time{}, &FrontmatterSchemaError{Path: path, Field: "title", Err: errRequired}
	}
	if strings.TrimSpace(fm.Date) == "" {
		return fm, time.Time{}, &FrontmatterSchemaError{Path: path, Field: "date", Err: errRequired}
	}
	date, err := parseDate(fm.Date)
	if err != nil {
		return fm, time.Time{}, &FrontmatterSchemaError{Path: path, Field: "date", Err: err}
	}
	if fm.ExternalURL == "" {
		fm.ExternalURL = fm.ExternalURLAlt
	}
	return fm, date, nil
}

// parseDate returns midnight UTC of the calendar date written in value.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date (want YYYY-MM-DD)", value)
}
