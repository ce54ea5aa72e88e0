package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ossifrage/cadre/internal/archive/migrations"
	"github.com/ossifrage/cadre/internal/mission"
	"github.com/ossifrage/cadre/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for archived resolutions.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the archive database at path, creating and migrating it as
// needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping archive db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveResolution archives one resolution in a single transaction; the
// documents and their queryable columns commit together or not at all.
func (s *Store) SaveResolution(ctx context.Context, res Resolution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("archive is not configured")
	}
	res.ID = strings.TrimSpace(res.ID)
	res.FixtureName = strings.TrimSpace(res.FixtureName)
	if res.ID == "" {
		return fmt.Errorf("resolution id is required")
	}
	if res.Report.Outcome == mission.OutcomeUnspecified {
		return fmt.Errorf("resolution outcome is required")
	}
	if res.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}

	briefJSON, err := json.Marshal(res.Brief)
	if err != nil {
		return fmt.Errorf("encode brief: %w", err)
	}
	reportJSON, err := json.Marshal(res.Report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	deltasJSON, err := json.Marshal(res.Deltas)
	if err != nil {
		return fmt.Errorf("encode deltas: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolution write: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback resolution write: %v", cause, rollbackErr)
		}
		return cause
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO resolutions (
	id, fixture_name, mission_kind, location_name, outcome, progress,
	propaganda_value, heat_delta, seed, brief_json, report_json, deltas_json,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		res.ID,
		res.FixtureName,
		res.Brief.Kind.String(),
		res.Brief.Location.Name,
		res.Report.Outcome.String(),
		res.Report.Progress,
		res.Report.PropagandaValue,
		res.Report.HeatDelta,
		res.Report.Seed,
		string(briefJSON),
		string(reportJSON),
		string(deltasJSON),
		res.CreatedAt.UTC().UnixMilli(),
	); err != nil {
		if isUniqueConstraintError(err) {
			return rollbackWith(ErrConflict)
		}
		return rollbackWith(fmt.Errorf("insert resolution: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resolution write: %w", err)
	}
	return nil
}

// GetResolution loads one archived resolution with its full documents.
func (s *Store) GetResolution(ctx context.Context, id string) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Resolution{}, fmt.Errorf("archive is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Resolution{}, fmt.Errorf("resolution id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, fixture_name, brief_json, report_json, deltas_json, created_at
FROM resolutions
WHERE id = ?
`, id)

	var res Resolution
	var briefJSON, reportJSON, deltasJSON string
	var createdAt int64
	if err := row.Scan(&res.ID, &res.FixtureName, &briefJSON, &reportJSON, &deltasJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resolution{}, ErrNotFound
		}
		return Resolution{}, fmt.Errorf("get resolution: %w", err)
	}
	if err := json.Unmarshal([]byte(briefJSON), &res.Brief); err != nil {
		return Resolution{}, fmt.Errorf("decode brief: %w", err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &res.Report); err != nil {
		return Resolution{}, fmt.Errorf("decode report: %w", err)
	}
	if err := json.Unmarshal([]byte(deltasJSON), &res.Deltas); err != nil {
		return Resolution{}, fmt.Errorf("decode deltas: %w", err)
	}
	res.CreatedAt = time.UnixMilli(createdAt).UTC()
	return res, nil
}

// ListResolutions lists archived resolutions newest first.
func (s *Store) ListResolutions(ctx context.Context, limit int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("archive is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, fixture_name, mission_kind, location_name, outcome, progress, seed, created_at
FROM resolutions
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list resolutions: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0, limit)
	for rows.Next() {
		var sum Summary
		var kindLabel, outcomeLabel string
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.FixtureName, &kindLabel, &sum.Location, &outcomeLabel, &sum.Progress, &sum.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("scan resolution row: %w", err)
		}
		kind, ok := mission.ParseKind(kindLabel)
		if !ok {
			return nil, fmt.Errorf("archived resolution %s has unknown kind %q", sum.ID, kindLabel)
		}
		outcome, ok := mission.ParseOutcome(outcomeLabel)
		if !ok {
			return nil, fmt.Errorf("archived resolution %s has unknown outcome %q", sum.ID, outcomeLabel)
		}
		sum.Kind = kind
		sum.Outcome = outcome
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolution rows: %w", err)
	}
	return summaries, nil
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
