package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"fname"`
	LastName  string    `json:"lname"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName is what GET /api/users/name returns.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Password hashes live in their own table, keyed by user.
type Password struct {
	UserID string
	Hash   string
}

// RefreshTokenRecord is one persisted refresh token. Records are revoked by
// flipping Valid, never deleted by the auth flow.
type RefreshTokenRecord struct {
	ID        string    `json:"id"`
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	Valid     bool      `json:"valid"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r RefreshTokenRecord) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
