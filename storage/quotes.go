package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tinigom/models"
)

// LatestValidQuote returns the most recent quote whose expiry is still in
// the future, or nil when none exists. Only the shared single-quote
// strategy writes expiries, so this never matches dual-mode rows.
func (db *DB) LatestValidQuote(now time.Time) (*models.MotivationalQuote, error) {
	var q models.MotivationalQuote
	err := db.conn.
		Where("expires_at > ?", now).
		Order("created_at desc").
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching cached quote: %w", err)
	}
	return &q, nil
}

// RecentQuotes returns up to limit quotes for user, newest first. The quote
// service feeds these into the generation prompt as anti-repetition context.
func (db *DB) RecentQuotes(user string, limit int) ([]models.MotivationalQuote, error) {
	quotes := []models.MotivationalQuote{}
	err := db.conn.
		Where("target_user = ?", user).
		Order("created_at desc").
		Limit(limit).
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("fetching recent quotes for %s: %w", user, err)
	}
	return quotes, nil
}

// InsertQuote persists q.
func (db *DB) InsertQuote(q *models.MotivationalQuote) error {
	if err := db.conn.Create(q).Error; err != nil {
		return fmt.Errorf("inserting quote: %w", err)
	}
	return nil
}

// DeleteExpiredQuotes prunes rows whose expiry has passed. Garbage
// collection happens on the write path; there is no background job.
func (db *DB) DeleteExpiredQuotes(now time.Time) error {
	err := db.conn.
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&models.MotivationalQuote{}).Error
	if err != nil {
		return fmt.Errorf("pruning expired quotes: %w", err)
	}
	return nil
}
