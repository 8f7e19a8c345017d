package ports

import (
	"context"
	"io"
	"time"

	"github.com/csg33k/people-indicators/internal/domain"
)

// SessionStore keeps one roster and filter selection per viewer session.
type SessionStore interface {
	// Create opens a new, empty session that expires at expiresAt.
	Create(ctx context.Context, expiresAt time.Time) (*domain.Session, error)
	// Get returns the session with its roster. Unknown or expired sessions
	// yield domain.ErrSessionNotFound.
	Get(ctx context.Context, id string, now time.Time) (*domain.Session, error)
	// ReplaceRoster swaps the session's roster for a freshly uploaded one and
	// resets the filter selection.
	ReplaceRoster(ctx context.Context, id, fileName string, roster domain.Roster, loadedAt time.Time) error
	SaveFilter(ctx context.Context, id string, f domain.Filter) error
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	Destroy(ctx context.Context, id string) error
	// PurgeExpired removes every session that expired before now and returns
	// how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// RosterLoader parses an uploaded workbook into a roster.
type RosterLoader interface {
	// Load reads the BD sheet. fileName selects the workbook format by extension.
	Load(ctx context.Context, r io.Reader, fileName string) (domain.Roster, domain.LoadReport, error)
}

// GeoSource provides the Brazilian states GeoJSON used by the map view.
type GeoSource interface {
	StatesGeoJSON(ctx context.Context) ([]byte, error)
}
