// Package archive persists resolved missions. Each archived resolution keeps
// the full brief, report, and deltas documents alongside queryable outcome
// columns, so any run can be replayed from its recorded seed and verified
// against the archived report.
package archive

import (
	"errors"
	"time"

	"github.com/ossifrage/cadre/internal/mission"
)

var (
	// ErrNotFound indicates the requested resolution is not archived.
	ErrNotFound = errors.New("archive: resolution not found")
	// ErrConflict indicates a write collides with an archived resolution id.
	ErrConflict = errors.New("archive: resolution id already archived")
)

// Resolution is one archived mission resolution.
type Resolution struct {
	ID          string
	FixtureName string
	Brief       mission.Brief
	Report      mission.Report
	Deltas      mission.StateDeltas
	CreatedAt   time.Time
}

// Summary is one row of an archive listing.
type Summary struct {
	ID          string
	FixtureName string
	Kind        mission.Kind
	Location    string
	Outcome     mission.Outcome
	Progress    float64
	Seed        int64
	CreatedAt   time.Time
}
