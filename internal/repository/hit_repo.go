package repository

import (
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mdblog/internal/logger"
	"mdblog/internal/models"
)

// HitRepository stores one view count row per post slug. Every operation
// holds the repository lock for its own duration only.
type HitRepository struct {
	db  *gorm.DB
	log logger.Logger
	mu  sync.Mutex
}

func NewHitRepository(db *gorm.DB, log logger.Logger) *HitRepository {
	return &HitRepository{db: db, log: log}
}

// EnsureSchema creates the post_hits table if it does not exist. It is safe
// to call on every startup.
func (r *HitRepository) EnsureSchema() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.AutoMigrate(&models.PostHit{}); err != nil {
		return &PersistenceReadError{Op: "create post_hits table", Err: err}
	}
	return nil
}

// Upsert writes hits for slug, replacing any previous value.
func (r *HitRepository) Upsert(slug string, hits int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.upsert(slug, hits)
}

func (r *HitRepository) upsert(slug string, hits int64) error {
	record := models.PostHit{PostSlug: slug, Hits: hits}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"hits", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return &PersistenceWriteError{Slug: slug, Err: err}
	}
	return nil
}

// UpsertAll writes every entry of counts. A failing record is logged and
// skipped so the rest of the snapshot is still written.
func (r *HitRepository) UpsertAll(counts map[string]int64) (written, failed int) {
	slugs := make([]string, 0, len(counts))
	for slug := range counts {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, slug := range slugs {
		if err := r.upsert(slug, counts[slug]); err != nil {
			failed++
			r.log.Warn("Failed to persist post hits",
				logger.String("slug", slug),
				logger.Int64("hits", counts[slug]),
				logger.Error(err),
			)
			continue
		}
		written++
	}
	return written, failed
}

// ScanAll returns every stored record ordered by slug.
func (r *HitRepository) ScanAll() ([]models.PostHit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hits []models.PostHit
	if err := r.db.Order("post_slug asc").Find(&hits).Error; err != nil {
		return nil, &PersistenceReadError{Op: "scan post_hits", Err: err}
	}
	return hits, nil
}

// Get returns the stored hits for slug, or 0 if there is no row.
func (r *HitRepository) Get(slug string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var hit models.PostHit
	err := r.db.Where("post_slug = ?", slug).Limit(1).Find(&hit).Error
	if err != nil {
		return 0, &PersistenceReadError{Op: "read post_hits", Err: err}
	}
	return hit.Hits, nil
}
