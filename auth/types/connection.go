package types

import "time"

// ConnectionRecord is the LinkedIn part of a user profile.
type ConnectionRecord struct {
	UserID            string    `json:"user_id" dynamodbav:"id"`
	ExternalToken     string    `json:"-" dynamodbav:"linkedin_token,omitempty"`
	ExternalProfileID string    `json:"external_profile_id" dynamodbav:"linkedin_profile_id,omitempty"`
	Connected         bool      `json:"connected" dynamodbav:"linkedin_connected"`
	TokenExpiresAt    time.Time `json:"token_expires_at" dynamodbav:"linkedin_token_expires_at"`
	UpdatedAt         time.Time `json:"updated_at" dynamodbav:"linkedin_updated_at"`
}

// Complete reports whether the record may be stored as connected.
func (r ConnectionRecord) Complete() bool {
	return r.UserID != "" && r.ExternalToken != "" && r.ExternalProfileID != ""
}

// ConnectionStatus is what the settings page is allowed to see.
type ConnectionStatus struct {
	Connected         bool       `json:"connected" example:"true"`
	ExternalProfileID string     `json:"external_profile_id,omitempty" example:"782bbtaQ"`
	TokenExpiresAt    *time.Time `json:"token_expires_at,omitempty"`
	Expired           bool       `json:"expired"`
}
