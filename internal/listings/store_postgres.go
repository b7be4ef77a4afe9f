// Copyright (c) 2026 Choice Properties. All rights reserved.

package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/dberr"
)

// PostgresStore implements [Repository] against the core.property table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the PostgreSQL listings store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const listingColumns = `id, ownerid, title, slug, description, address, city, pricecents, bedrooms, bathrooms, listingtype, status, createdat, updatedat`

func scanListing(row pgx.Row) (*Listing, error) {
	listing := &Listing{}
	err := row.Scan(
		&listing.ID,
		&listing.OwnerID,
		&listing.Title,
		&listing.Slug,
		&listing.Description,
		&listing.Address,
		&listing.City,
		&listing.PriceCents,
		&listing.Bedrooms,
		&listing.Bathrooms,
		&listing.Type,
		&listing.Status,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// FindByID retrieves a listing by primary key.
func (store *PostgresStore) FindByID(ctx context.Context, id string) (*Listing, error) {
	const query = `
		SELECT ` + listingColumns + `
		FROM core.property
		WHERE id = $1 AND deletedat IS NULL`

	listing, err := scanListing(store.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Property")
		}
		return nil, fmt.Errorf("listings_find_by_id_failed: %w", err)
	}

	return listing, nil
}

// FindBySlug retrieves a listing by its unique slug.
func (store *PostgresStore) FindBySlug(ctx context.Context, slug string) (*Listing, error) {
	const query = `
		SELECT ` + listingColumns + `
		FROM core.property
		WHERE slug = $1 AND deletedat IS NULL`

	listing, err := scanListing(store.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Property")
		}
		return nil, fmt.Errorf("listings_find_by_slug_failed: %w", err)
	}

	return listing, nil
}

// List retrieves one filtered page plus the total match count.
//
// The filter is assembled as a dynamic WHERE clause with positional
// arguments; no user input is ever interpolated into SQL text.
func (store *PostgresStore) List(ctx context.Context, filter Filter, limit, offset int) ([]*Listing, int, error) {
	conditions := []string{"deletedat IS NULL"}
	arguments := []any{}

	appendCondition := func(column string, value any) {
		arguments = append(arguments, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(arguments)))
	}

	if filter.City != "" {
		appendCondition("city", filter.City)
	}
	if filter.Type != "" {
		appendCondition("listingtype", string(filter.Type))
	}
	if filter.Status != "" {
		appendCondition("status", string(filter.Status))
	}
	if filter.OwnerID != "" {
		appendCondition("ownerid", filter.OwnerID)
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM core.property WHERE ` + whereClause
	var total int
	if err := store.pool.QueryRow(ctx, countQuery, arguments...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("listings_count_failed: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT %s
		FROM core.property
		WHERE %s
		ORDER BY createdat DESC
		LIMIT $%d OFFSET $%d`,
		listingColumns, whereClause, len(arguments)+1, len(arguments)+2)

	rows, err := store.pool.Query(ctx, listQuery, append(arguments, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("listings_list_failed: %w", err)
	}
	defer rows.Close()

	results := make([]*Listing, 0, limit)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("listings_scan_failed: %w", err)
		}
		results = append(results, listing)
	}

	return results, total, rows.Err()
}

// Create persists a new listing row.
func (store *PostgresStore) Create(ctx context.Context, listing *Listing) error {
	const query = `
		INSERT INTO core.property (
			id, ownerid, title, slug, description, address, city,
			pricecents, bedrooms, bathrooms, listingtype, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := store.pool.Exec(ctx, query,
		listing.ID,
		listing.OwnerID,
		listing.Title,
		listing.Slug,
		listing.Description,
		listing.Address,
		listing.City,
		listing.PriceCents,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.Type,
		listing.Status,
		listing.CreatedAt,
		listing.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "Property")
	}

	return nil
}

// Update persists a listing's mutable fields.
func (store *PostgresStore) Update(ctx context.Context, listing *Listing) error {
	const query = `
		UPDATE core.property
		SET title = $2, description = $3, address = $4, city = $5,
			pricecents = $6, bedrooms = $7, bathrooms = $8,
			listingtype = $9, status = $10, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query,
		listing.ID,
		listing.Title,
		listing.Description,
		listing.Address,
		listing.City,
		listing.PriceCents,
		listing.Bedrooms,
		listing.Bathrooms,
		listing.Type,
		listing.Status,
	)
	if err != nil {
		return fmt.Errorf("listings_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Property")
	}

	return nil
}

// SoftDelete marks the listing as deleted.
func (store *PostgresStore) SoftDelete(ctx context.Context, id string) error {
	const query = `
		UPDATE core.property
		SET deletedat = NOW(), updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL`

	tag, err := store.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("listings_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Property")
	}

	return nil
}
