package domain

import "time"

// Account is the persisted Spotify credential record for one user.
// AccessToken and RefreshToken are mutated in place when the token service
// refreshes them; the store keeps the durable copy.
type Account struct {
	UserID            string    `json:"user_id"             db:"user_id"`
	ProviderAccountID string    `json:"provider_account_id" db:"provider_account_id"`
	AccessToken       string    `json:"-"                   db:"access_token"`
	RefreshToken      string    `json:"-"                   db:"refresh_token"`
	ExpiresAt         time.Time `json:"expires_at"          db:"expires_at"`
	UpdatedAt         time.Time `json:"updated_at"          db:"updated_at"`
}

// Complete reports whether the record carries everything an export needs.
func (a *Account) Complete() bool {
	return a != nil &&
		a.ProviderAccountID != "" &&
		a.AccessToken != "" &&
		a.RefreshToken != "" &&
		!a.ExpiresAt.IsZero()
}
