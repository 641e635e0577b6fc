package domain

import "time"

// User is the account record this service authenticates against. The service
// only reads users; account management lives elsewhere.
type User struct {
	ID               string
	Mobile           string
	Email            string
	Username         string
	PasswordHash     string
	ChangePasswordAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
