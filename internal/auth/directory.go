package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/desertthunder/learndash/internal/models"
)

// SeedUsers returns the demo accounts accepted by the client-side login flow.
func SeedUsers() []models.UserRecord {
	return []models.UserRecord{
		{Identifier: "demo@example.com", Secret: "password123", Role: models.RoleUser, DisplayName: "Demo User"},
		{Identifier: "admin", Secret: "admin123", Role: models.RoleAdmin, DisplayName: "Admin User"},
		{Identifier: "john.doe@company.com", Secret: "secure456", Role: models.RoleUser, DisplayName: "John Doe"},
	}
}

// GuestUser is the profile the dashboard shows when it is opened without a handoff.
func GuestUser() models.PublicUser {
	return models.PublicUser{Identifier: "demo@example.com", Role: models.RoleStudent, DisplayName: "Demo User"}
}

// Authenticate looks identifier up in users, ignoring case, and compares secret exactly.
//
// It returns [ErrUserNotFound] or [ErrWrongSecret] on failure and has no side effects.
func Authenticate(users []models.UserRecord, identifier, secret string) (models.UserRecord, error) {
	needle := strings.ToLower(identifier)

	for _, u := range users {
		if strings.ToLower(u.Identifier) != needle {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(u.Secret), []byte(secret)) != 1 {
			return models.UserRecord{}, ErrWrongSecret
		}
		return u, nil
	}
	return models.UserRecord{}, ErrUserNotFound
}

// Directory is a fixed list of [models.UserRecord] built at startup.
type Directory struct {
	users []models.UserRecord
}

// NewDirectory copies users into a new [Directory]. With no users it holds [SeedUsers].
func NewDirectory(users ...models.UserRecord) *Directory {
	if len(users) == 0 {
		users = SeedUsers()
	}
	return &Directory{users: append([]models.UserRecord(nil), users...)}
}

// Authenticate runs [Authenticate] against the directory's users.
func (d *Directory) Authenticate(identifier, secret string) (models.UserRecord, error) {
	return Authenticate(d.users, identifier, secret)
}

// Lookup finds a record by identifier, ignoring case.
func (d *Directory) Lookup(identifier string) (models.UserRecord, bool) {
	needle := strings.ToLower(identifier)
	for _, u := range d.users {
		if strings.ToLower(u.Identifier) == needle {
			return u, true
		}
	}
	return models.UserRecord{}, false
}

// Users returns the public view of every record.
func (d *Directory) Users() []models.PublicUser {
	out := make([]models.PublicUser, len(d.users))
	for i, u := range d.users {
		out[i] = u.Public()
	}
	return out
}
