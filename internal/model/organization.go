package model

import "time"

const (
	AccessLevelAdmin  = "admin"
	AccessLevelMember = "member"
)

// Member name is a pointer because invited users may not have an account
// yet; their name stays null until they sign up.
type Member struct {
	Name        *string `json:"name"`
	Email       string  `json:"email"`
	AccessLevel string  `json:"access_level"`
}

type Organization struct {
	ID          string    `json:"organization_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Members     []Member  `json:"organization_members"`
	CreatedAt   time.Time `json:"created_at"`
}
