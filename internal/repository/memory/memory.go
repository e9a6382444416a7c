// Package memory holds map-backed repositories for tests and single-process
// demos. Every repository is safe for concurrent use.
package memory

import (
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func inRange(d time.Time, start, end *time.Time) bool {
	if start != nil && d.Before(*start) {
		return false
	}
	if end != nil && d.After(*end) {
		return false
	}
	return true
}

// paginate returns the page of items; limit 0 returns everything.
func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	from := (page - 1) * limit
	if from >= len(items) {
		return []T{}
	}
	to := min(from+limit, len(items))
	return items[from:to]
}
