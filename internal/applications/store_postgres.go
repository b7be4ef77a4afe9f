// Copyright (c) 2026 Choice Properties. All rights reserved.

package applications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
)

// PostgresStore implements [Repository] against core.application.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the PostgreSQL applications store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// userid is NULL for anonymous submissions; COALESCE keeps the scan simple.
const applicationColumns = `id, propertyid, COALESCE(userid::text, ''), fullname, email, monthlyincomecents, message, status, COALESCE(decidedby::text, ''), createdat, updatedat`

func scanApplication(row pgx.Row) (*Application, error) {
	application := &Application{}
	err := row.Scan(
		&application.ID,
		&application.PropertyID,
		&application.UserID,
		&application.FullName,
		&application.Email,
		&application.MonthlyIncomeCents,
		&application.Message,
		&application.Status,
		&application.DecidedBy,
		&application.CreatedAt,
		&application.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return application, nil
}

// FindByID retrieves an application by primary key.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Application, error) {
	const query = `
		SELECT ` + applicationColumns + `
		FROM core.application
		WHERE id = $1`

	application, err := scanApplication(store.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Application")
		}
		return nil, fmt.Errorf("applications_find_by_id_failed: %w", err)
	}

	return application, nil
}

// ListByApplicant returns one page of a user's own applications.
func (store *PostgresStore) ListByApplicant(ctx context.Context, userID string, limit, offset int) ([]*Application, int, error) {
	return store.listWhere(ctx, "userid = $1", userID, limit, offset)
}

// ListByProperty returns one page of applications against a listing.
func (store *PostgresStore) ListByProperty(ctx context.Context, propertyID string, limit, offset int) ([]*Application, int, error) {
	return store.listWhere(ctx, "propertyid = $1", propertyID, limit, offset)
}

func (store *PostgresStore) listWhere(ctx context.Context, condition, argument string, limit, offset int) ([]*Application, int, error) {
	countQuery := `SELECT COUNT(*) FROM core.application WHERE ` + condition
	var total int
	if err := store.pool.QueryRow(ctx, countQuery, argument).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("applications_count_failed: %w", err)
	}

	listQuery := `
		SELECT ` + applicationColumns + `
		FROM core.application
		WHERE ` + condition + `
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, listQuery, argument, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("applications_list_failed: %w", err)
	}
	defer rows.Close()

	results := make([]*Application, 0, limit)
	for rows.Next() {
		application, err := scanApplication(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("applications_scan_failed: %w", err)
		}
		results = append(results, application)
	}

	return results, total, rows.Err()
}

// Create persists a new application row.
func (store *PostgresStore) Create(ctx context.Context, application *Application) error {
	const query = `
		INSERT INTO core.application (
			id, propertyid, userid, fullname, email, monthlyincomecents, message, status, createdat, updatedat
		) VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if application.CreatedAt.IsZero() {
		application.CreatedAt = now
	}
	application.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		application.ID,
		application.PropertyID,
		application.UserID,
		application.FullName,
		application.Email,
		application.MonthlyIncomeCents,
		application.Message,
		application.Status,
		application.CreatedAt,
		application.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Application")
	}

	return nil
}

// UpdateStatus records a decision or withdrawal.
func (store *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status, decidedBy string) error {
	const query = `
		UPDATE core.application
		SET status = $2, decidedby = NULLIF($3, '')::uuid, updatedat = NOW()
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, status, decidedBy)
	if err != nil {
		return fmt.Errorf("applications_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Application")
	}

	return nil
}
