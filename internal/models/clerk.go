package models

import (
	"encoding/json"
	"strings"
)

const (
	ClerkEventUserCreated = "user.created"
	ClerkEventUserUpdated = "user.updated"
	ClerkEventUserDeleted = "user.deleted"
)

// ClerkEvent is the envelope delivered to the identity provider webhook.
type ClerkEvent struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

type ClerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type ClerkUserData struct {
	ID                    string              `json:"id"`
	EmailAddresses        []ClerkEmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string              `json:"primary_email_address_id"`
	ImageURL              *string             `json:"image_url"`
	FirstName             *string             `json:"first_name"`
	LastName              *string             `json:"last_name"`
	Username              *string             `json:"username"`
}

// ClerkDeletedData is sent with user.deleted; only the id survives.
type ClerkDeletedData struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Email returns the first address on the account.
func (d ClerkUserData) Email() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// CreateUserRequest maps the provider payload to a new account. Missing
// usernames fall back to the local part of the email address.
func (d ClerkUserData) CreateUserRequest() CreateUserRequest {
	email := d.Email()
	username := deref(d.Username)
	if username == "" {
		username, _, _ = strings.Cut(email, "@")
	}

	return CreateUserRequest{
		ClerkID:       d.ID,
		Email:         email,
		Username:      username,
		FirstName:     deref(d.FirstName),
		LastName:      deref(d.LastName),
		Photo:         deref(d.ImageURL),
		PlanID:        DefaultPlanID,
		CreditBalance: DefaultCreditBalance,
	}
}

// UpdateUserRequest carries the profile fields the provider owns.
// UpdateUserRequest treats the payload as a full snapshot of the user:
// first name, last name and photo missing from it are cleared. Email and
// plan are never touched, and an empty username keeps the stored one.
func (d ClerkUserData) UpdateUserRequest() UpdateUserRequest {
	req := UpdateUserRequest{
		FirstName: stringPtr(deref(d.FirstName)),
		LastName:  stringPtr(deref(d.LastName)),
		Photo:     stringPtr(deref(d.ImageURL)),
	}
	if u := deref(d.Username); u != "" {
		req.Username = &u
	}
	return req
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func stringPtr(s string) *string {
	return &s
}
