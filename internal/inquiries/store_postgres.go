// Copyright (c) 2026 Choice Properties. All rights reserved.

package inquiries

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

// PostgresStore implements [Repository] against core.inquiry.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the PostgreSQL inquiries store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const inquiryColumns = `id, propertyid, agentid, name, email, phone, message, status, createdat, updatedat`

func scanInquiry(row pgx.Row) (*Inquiry, error) {
	inquiry := &Inquiry{}
	err := row.Scan(
		&inquiry.ID,
		&inquiry.PropertyID,
		&inquiry.AgentID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return inquiry, nil
}

// FindByID retrieves an inquiry by primary key.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Inquiry, error) {
	const query = `
		SELECT ` + inquiryColumns + `
		FROM core.inquiry
		WHERE id = $1`

	inquiry, err := scanInquiry(store.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Inquiry")
		}
		return nil, fmt.Errorf("inquiries_find_by_id_failed: %w", err)
	}

	return inquiry, nil
}

// ListByAgent returns one page of an agent's inquiries.
func (store *PostgresStore) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]*Inquiry, int, error) {
	const countQuery = `SELECT COUNT(*) FROM core.inquiry WHERE agentid = $1`
	var total int
	if err := store.pool.QueryRow(ctx, countQuery, agentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("inquiries_count_failed: %w", err)
	}

	const listQuery = `
		SELECT ` + inquiryColumns + `
		FROM core.inquiry
		WHERE agentid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := store.pool.Query(ctx, listQuery, agentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("inquiries_list_failed: %w", err)
	}
	defer rows.Close()

	results := make([]*Inquiry, 0, limit)
	for rows.Next() {
		inquiry, err := scanInquiry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("inquiries_scan_failed: %w", err)
		}
		results = append(results, inquiry)
	}

	return results, total, rows.Err()
}

// Create persists a new inquiry row.
func (store *PostgresStore) Create(ctx context.Context, inquiry *Inquiry) error {
	const query = `
		INSERT INTO core.inquiry (
			id, propertyid, agentid, name, email, phone, message, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if inquiry.CreatedAt.IsZero() {
		inquiry.CreatedAt = now
	}
	inquiry.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		inquiry.ID,
		inquiry.PropertyID,
		inquiry.AgentID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.Message,
		inquiry.Status,
		inquiry.CreatedAt,
		inquiry.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Inquiry")
	}

	return nil
}

// UpdateStatus moves an inquiry through its working states.
func (store *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	const query = `
		UPDATE core.inquiry
		SET status = $2, updatedat = NOW()
		WHERE id = $1`

	tag, err := store.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("inquiries_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Inquiry")
	}

	return nil
}
