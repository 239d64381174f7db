// Package entity defines the entities and errors used in the application.
// It includes the URL mapping, the registered User and the site-wide
// statistics shown on the front page, along with the sentinel errors the
// storage and use case layers agree on.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortCodeExists is returned when attempting to create a URL with a short code that already exists.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
)

// URL represents a shortened URL.
type URL struct {
	ID          int64     // ID is the unique identifier of the URL in the database.
	ShortCode   string    // ShortCode is the generated code used to shorten the original URL.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	UserID      *int64    // UserID references the owner, nil for anonymous submissions.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was created.
}

// SiteStats contains the counters displayed on the front page.
type SiteStats struct {
	Visits int64 // Visits is the number of front page loads.
	URLs   int64 // URLs is the number of stored URLs.
}
