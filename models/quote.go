package models

import "time"

// MotivationalQuote is a generated quote addressed to one of the two users.
// ExpiresAt is set only by the shared single-quote strategy; the dual
// per-user strategy leaves it nil and relies on client polling intervals.
type MotivationalQuote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Quote      string     `gorm:"size:1024;not null" json:"quote"`
	TargetUser string     `gorm:"size:32;not null;index" json:"target_user"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at,omitempty"`
}
