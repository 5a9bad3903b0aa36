package models

import "time"

// Record carries the identifier and audit timestamps shared by every domain
// entity. Embedding it satisfies the identifiable constraint the generic
// store requires.
type Record struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GetID returns the primary key.
func (r *Record) GetID() int64 { return r.ID }

// SetID assigns the primary key.
func (r *Record) SetID(id int64) { r.ID = id }

// Touch stamps audit timestamps ahead of a write.
func (r *Record) Touch(now time.Time) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
