package models

import "time"

// Task belongs to exactly one user. Every query touching a task
// filters by UserID alongside ID; the owner is set at creation
// and never changes afterwards.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	IsComplete  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
