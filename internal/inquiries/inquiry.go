// Copyright (c) 2026 Choice Properties. All rights reserved.

/*
Package inquiries manages buyer/renter inquiries about listings.

An inquiry is routed to the handling agent (the listing's owner at
submission time) and is theirs to work: the instance routes sit behind the
ownership gate on the inquiry's agent column, so one agent can never read
or close another agent's pipeline.
*/
package inquiries

import (
	"time"
)

// Status is the working state of an inquiry.
type Status string

const (
	StatusOpen    Status = "open"
	StatusReplied Status = "replied"
	StatusClosed  Status = "closed"
)

// Inquiry represents one prospective-client message about a listing.
type Inquiry struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"propertyId"`
	AgentID    string    `json:"agentId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Message    string    `json:"message"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
