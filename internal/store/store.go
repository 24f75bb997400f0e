// Package store persists resolved employee counts so repeat uploads do not
// re-query the knowledge service for the same company and country.
package store

import (
	"context"
	"time"
)

// CachedCount is one cached lookup result.
type CachedCount struct {
	ID            string    `json:"id"`
	Company       string    `json:"company"`
	Country       string    `json:"country"`
	EmployeeCount int       `json:"employee_count"`
	LookedUpAt    time.Time `json:"looked_up_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Store defines the lookup-cache persistence interface. GetCount returns
// nil (not an error) on a cache miss or an expired entry.
type Store interface {
	GetCount(ctx context.Context, company, country string) (*CachedCount, error)
	SetCount(ctx context.Context, company, country string, count int, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
