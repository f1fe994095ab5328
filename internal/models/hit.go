package models

import "time"

// PostHit is the durable view count of one post.
type PostHit struct {
	PostSlug  string    `gorm:"column:post_slug;primaryKey" json:"post_slug"`
	Hits      int64     `gorm:"not null;default:0" json:"hits"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PostHit) TableName() string {
	return "post_hits"
}
