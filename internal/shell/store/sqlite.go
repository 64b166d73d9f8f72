package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fplkit/planner/internal/core/domain"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Plan Operations
// =============================================================================

// planRow represents a plan row in the database.
type planRow struct {
	ID               string `db:"id"`
	UserID           string `db:"user_id"`
	TeamName         string `db:"team_name"`
	AnchorGameweekID int    `db:"anchor_gameweek_id"`
	Payload          string `db:"payload"`
	CreatedAt        string `db:"created_at"`
	UpdatedAt        string `db:"updated_at"`
}

// SavePlan inserts or replaces a plan, serialized as an opaque JSON
// payload. The indexed columns exist only for listing and lookup.
func (s *SQLiteStore) SavePlan(ctx context.Context, plan *domain.Plan) error {
	plan.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(plan)
	if err != nil {
		return NewStoreError("SavePlan", plan.ID, "failed to encode plan", ErrInvalidData)
	}

	row := planRow{
		ID:               plan.ID,
		UserID:           plan.UserID,
		TeamName:         plan.TeamName,
		AnchorGameweekID: plan.AnchorGameweekID,
		Payload:          string(payload),
		CreatedAt:        plan.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        plan.UpdatedAt.Format(time.RFC3339),
	}

	query := `
		INSERT INTO plans (id, user_id, team_name, anchor_gameweek_id, payload, created_at, updated_at)
		VALUES (:id, :user_id, :team_name, :anchor_gameweek_id, :payload, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			team_name = excluded.team_name,
			anchor_gameweek_id = excluded.anchor_gameweek_id,
			payload = excluded.payload,
			updated_at = excluded.updated_at`

	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return NewStoreError("SavePlan", plan.ID, err.Error(), err)
	}
	return nil
}

// GetPlan returns a plan by id.
func (s *SQLiteStore) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	var row planRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM plans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetPlan", id, "not found", ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetPlan", id, err.Error(), err)
	}
	return decodePlan("GetPlan", row)
}

// GetPlanByUser returns a user's most recently updated plan.
func (s *SQLiteStore) GetPlanByUser(ctx context.Context, userID string) (*domain.Plan, error) {
	var row planRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM plans WHERE user_id = ? ORDER BY updated_at DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewStoreError("GetPlanByUser", "", "no plan for user "+userID, ErrNotFound)
	}
	if err != nil {
		return nil, NewStoreError("GetPlanByUser", "", err.Error(), err)
	}
	return decodePlan("GetPlanByUser", row)
}

// DeletePlan removes a plan.
func (s *SQLiteStore) DeletePlan(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeletePlan", id, err.Error(), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return NewStoreError("DeletePlan", id, err.Error(), err)
	}
	if affected == 0 {
		return NewStoreError("DeletePlan", id, "not found", ErrNotFound)
	}
	return nil
}

// ListPlans returns plan summaries, newest first.
func (s *SQLiteStore) ListPlans(ctx context.Context, opts ListOptions) ([]PlanSummary, error) {
	opts = opts.Normalize()
	summaries := []PlanSummary{}
	err := s.db.SelectContext(ctx, &summaries,
		`SELECT id, user_id, team_name, anchor_gameweek_id, updated_at
		 FROM plans ORDER BY updated_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListPlans", "", err.Error(), err)
	}
	return summaries, nil
}

func decodePlan(op string, row planRow) (*domain.Plan, error) {
	var plan domain.Plan
	if err := json.Unmarshal([]byte(row.Payload), &plan); err != nil {
		return nil, NewStoreError(op, row.ID, "failed to decode plan", ErrInvalidData)
	}
	return &plan, nil
}
