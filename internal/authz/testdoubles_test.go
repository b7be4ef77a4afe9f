// Copyright (c) 2026 Choice Properties. All rights reserved.

package authz_test

import (
	"context"
	"errors"
	"sync"

	"github.com/choiceproperties-source/choice/internal/authz"
	"github.com/choiceproperties-source/choice/internal/platform/apperr"
	"github.com/choiceproperties-source/choice/internal/platform/sec"
)

// fakeVerifier is an in-memory identity provider: token → subject claims.
type fakeVerifier struct {
	subjects map[string]*sec.SubjectClaims
}

func (f *fakeVerifier) VerifyToken(tokenString string) (*sec.SubjectClaims, error) {
	claims, ok := f.subjects[tokenString]
	if !ok {
		return nil, errors.New("fake: token rejected")
	}
	return claims, nil
}

// fakeRoleStore serves roles from a map and counts lookups.
type fakeRoleStore struct {
	mu      sync.Mutex
	roles   map[string]authz.Role
	failErr error
	lookups int
}

func (f *fakeRoleStore) GetUserRole(_ context.Context, subjectID string) (authz.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.failErr != nil {
		return "", f.failErr
	}
	role, ok := f.roles[subjectID]
	if !ok {
		return "", apperr.NotFound("User role")
	}
	return role, nil
}

func (f *fakeRoleStore) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// fakeOwnershipStore serves owner ids from a per-type map and counts fetches.
type fakeOwnershipStore struct {
	mu      sync.Mutex
	owners  map[authz.ResourceType]map[string]string
	failErr error
	fetches int
}

func (f *fakeOwnershipStore) GetResourceOwner(_ context.Context, resourceType authz.ResourceType, resourceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.failErr != nil {
		return "", f.failErr
	}
	ownerID, ok := f.owners[resourceType][resourceID]
	if !ok {
		return "", apperr.NotFound(resourceType.DisplayName())
	}
	return ownerID, nil
}

func (f *fakeOwnershipStore) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// fakeAuditor records security events synchronously for inspection.
type fakeAuditor struct {
	mu     sync.Mutex
	events []authz.SecurityEvent
}

func (f *fakeAuditor) LogSecurityEvent(_ context.Context, event authz.SecurityEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAuditor) recorded() []authz.SecurityEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]authz.SecurityEvent(nil), f.events...)
}
