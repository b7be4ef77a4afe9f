// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/database/schema"
)

// PostgresStore implements [RoleStore] and [OwnershipStore] using pgx.
//
// Each lookup is a single point-in-time read performed immediately before
// the gate authorizes the request. No lock is held across the downstream
// handler's mutation; the time-of-check/time-of-use gap is an accepted,
// documented limitation of this layer.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the pgx-backed authorization store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
GetUserRole retrieves the stored application role for a subject.

Parameters:
  - ctx: context.Context
  - subjectID: string

Returns:
  - Role: The persisted role
  - error: apperr.NotFound when the account row is absent, or connectivity errors
*/
func (store *PostgresStore) GetUserRole(ctx context.Context, subjectID string) (Role, error) {
	const query = `
		SELECT role
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	var role Role
	err := store.pool.QueryRow(ctx, query, subjectID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound("User role")
		}
		return "", fmt.Errorf("authz_store_get_user_role_failed: %w", err)
	}

	return role, nil
}

// ownerColumn resolves the (table, column) pair holding the owning subject
// id for each protected resource type. The user type points at the account
// row's own id: a user owns themself.
func ownerColumn(resourceType ResourceType) (table, column string, err error) {
	switch resourceType {
	case ResourceProperty:
		return schema.Property.Table, schema.Property.OwnerID, nil
	case ResourceApplication:
		return schema.Application.Table, schema.Application.UserID, nil
	case ResourceReview:
		return schema.Review.Table, schema.Review.UserID, nil
	case ResourceInquiry:
		return schema.Inquiry.Table, schema.Inquiry.AgentID, nil
	case ResourceSavedSearch:
		return schema.SavedSearch.Table, schema.SavedSearch.UserID, nil
	case ResourceFavorite:
		return schema.Favorite.Table, schema.Favorite.UserID, nil
	case ResourceUser:
		return schema.UserAccount.Table, schema.UserAccount.ID, nil
	default:
		return "", "", fmt.Errorf("authz_store_unknown_resource_type: %q", resourceType)
	}
}

/*
GetResourceOwner fetches the ownership-relevant column for a resource instance.

Parameters:
  - ctx: context.Context
  - resourceType: ResourceType (determines table and owner column)
  - resourceID: string

Returns:
  - string: The owning subject id
  - error: apperr.NotFound when no row exists, or connectivity errors
*/
func (store *PostgresStore) GetResourceOwner(ctx context.Context, resourceType ResourceType, resourceID string) (string, error) {
	table, column, err := ownerColumn(resourceType)
	if err != nil {
		return "", err
	}

	// Table and column come from the fixed mapping above, never from input.
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, column, table)

	var ownerID string
	err = store.pool.QueryRow(ctx, query, resourceID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(resourceType.DisplayName())
		}
		return "", fmt.Errorf("authz_store_get_resource_owner_failed: %w", err)
	}

	return ownerID, nil
}
