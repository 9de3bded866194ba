package models

import "time"

// Todo is an entry on the shared to-do list, assigned to one of the two
// users by short code. Toggling Completed is the only update path.
type Todo struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Text       string     `gorm:"size:512;not null" json:"text"`
	Completed  bool       `gorm:"default:false;not null" json:"completed"`
	AssignedTo string     `gorm:"size:8;not null" json:"assigned_to"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
