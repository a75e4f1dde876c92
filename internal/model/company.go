// Package model holds the persisted domain types.
package model

import "time"

// Status is where a company stands on hiring.
type Status string

const (
	StatusLayoffs      Status = "Layoffs"
	StatusHiringFreeze Status = "Hiring Freeze"
	StatusHiring       Status = "Hiring"
)

// DefaultStatus is applied when a company is created without one.
const DefaultStatus = StatusHiring

// Statuses lists the accepted values in display order.
func Statuses() []Status {
	return []Status{StatusLayoffs, StatusHiringFreeze, StatusHiring}
}

func (s Status) Valid() bool {
	switch s {
	case StatusLayoffs, StatusHiringFreeze, StatusHiring:
		return true
	}
	return false
}

const (
	NameMaxLength  = 30
	NotesMaxLength = 100
)

// Company is one tracked company.
//
// ID, LastUpdate and CreatedAt are bookkeeping columns and never leave the
// service.
type Company struct {
	ID              int64     `db:"id"`
	Name            string    `db:"name"`
	Status          Status    `db:"status"`
	ApplicationLink string    `db:"application_link"`
	Notes           string    `db:"notes"`
	LastUpdate      time.Time `db:"last_update"`
	CreatedAt       time.Time `db:"created_at"`
}

// NewCompany is the input for an insert after defaults are applied.
type NewCompany struct {
	Name            string
	Status          Status
	ApplicationLink string
	Notes           string
}
