// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package applications manages rental applications submitted against
property listings.

# Access Control

Submission is open to anonymous callers (the optional-authentication gate
attaches an identity when one is present). Reading an application back and
withdrawing it require ownership; deciding one requires the
application-review capability. Income is sensitive and is redacted from
anyone without the sensitive-data capability.
*/
package applications

import (
	"time"
)

// Status is the review state of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Application represents one rental application for a property.
//
// UserID is empty for anonymous submissions; those are reachable by the
// reviewing side only, since no caller can pass the ownership gate for
// them.
type Application struct {
	ID                 string    `json:"id"`
	PropertyID         string    `json:"propertyId"`
	UserID             string    `json:"userId,omitempty"`
	FullName           string    `json:"fullName"`
	Email              string    `json:"email"`
	MonthlyIncomeCents int64     `json:"monthlyIncomeCents,omitempty"`
	Message            string    `json:"message,omitempty"`
	Status             Status    `json:"status"`
	DecidedBy          string    `json:"decidedBy,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Redacted returns a copy with sensitive applicant data removed. Served to
// callers without the sensitive-data capability.
func (a *Application) Redacted() *Application {
	clone := *a
	clone.MonthlyIncomeCents = 0
	clone.Email = ""
	return &clone
}
