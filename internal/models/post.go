package models

import (
	"html/template"
	"time"
)

// ISOLayout is the machine-readable timestamp format used for feeds and
// <time datetime> attributes.
const ISOLayout = "2006-01-02T15:04:05Z"

// Post is one article loaded from the content directory. Posts are built once
// at startup and never mutated afterwards.
type Post struct {
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	Date         time.Time     `json:"date"`
	Description  string        `json:"description,omitempty"`
	ExternalURL  string        `json:"external_url,omitempty"`
	Published    *bool         `json:"published,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	Excerpt      string        `json:"excerpt"`
	Content      template.HTML `json:"-"` // rendered markdown, raw HTML kept
	ISOTimestamp string        `json:"iso_timestamp"`
	SourcePath   string        `json:"-"`
}

// IsPublished reports whether the post should be served. A missing
// published field counts as published.
func (p *Post) IsPublished() bool {
	return p.Published == nil || *p.Published
}

// IsLinkPost reports whether the post points at an external article.
func (p *Post) IsLinkPost() bool {
	return p.ExternalURL != ""
}
