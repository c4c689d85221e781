package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the access level attached to a user record.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	// RoleStudent labels the guest profile shown when the dashboard has no handoff.
	RoleStudent Role = "Student"
)

// Valid reports whether r is one of the roles a login can carry.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserRecord is one entry of the static seed list checked by the client-side login flow.
//
// Records are built once at process start and never mutated.
type UserRecord struct {
	Identifier  string `json:"username"`
	Secret      string `json:"-"`
	Role        Role   `json:"role"`
	DisplayName string `json:"name"`
}

// Public returns the secret-free projection of the record.
func (u UserRecord) Public() PublicUser {
	return PublicUser{Identifier: u.Identifier, Role: u.Role, DisplayName: u.DisplayName}
}

// PublicUser is what crosses the login to dashboard handoff and what the dashboard renders.
type PublicUser struct {
	Identifier  string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"name"`
}

// Initials returns up to two upper-cased initials of the display name, used as the avatar.
func (p PublicUser) Initials() string {
	var initials []rune
	for _, part := range strings.Fields(p.DisplayName) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}

// Credential is a server-side login row: a username with a bcrypt password hash.
type Credential struct {
	id           string
	sequence     int
	username     string
	passwordHash string
	displayName  string
	role         Role
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewCredential creates a [Credential] with creation timestamps set to now.
func NewCredential(sequence int, username, passwordHash, displayName string, role Role) *Credential {
	now := time.Now()
	return &Credential{
		sequence:     sequence,
		username:     username,
		passwordHash: passwordHash,
		displayName:  displayName,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (c *Credential) ID() string            { return c.id }
func (c *Credential) Sequence() int         { return c.sequence }
func (c *Credential) Username() string      { return c.username }
func (c *Credential) PasswordHash() string  { return c.passwordHash }
func (c *Credential) DisplayName() string   { return c.displayName }
func (c *Credential) Role() Role            { return c.role }
func (c *Credential) CreatedAt() time.Time  { return c.createdAt }
func (c *Credential) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Credential) DeletedAt() *time.Time { return c.deletedAt }

func (c *Credential) SetID(id string)             { c.id = id }
func (c *Credential) SetSequence(sequence int)    { c.sequence = sequence }
func (c *Credential) SetPasswordHash(hash string) { c.passwordHash = hash }
func (c *Credential) SetDisplayName(name string)  { c.displayName = name }
func (c *Credential) SetCreatedAt(t time.Time)    { c.createdAt = t }
func (c *Credential) SetUpdatedAt(t time.Time)    { c.updatedAt = t }
func (c *Credential) SetDeletedAt(t *time.Time)   { c.deletedAt = t }
func (c *Credential) SetRole(role Role)           { c.role = role }

// Validate checks the username and hash are present and the role is known.
func (c *Credential) Validate() error {
	if strings.TrimSpace(c.username) == "" {
		return fmt.Errorf("username is required")
	}
	if c.passwordHash == "" {
		return fmt.Errorf("password hash is required")
	}
	if !c.role.Valid() {
		return fmt.Errorf("invalid role %q", c.role)
	}
	return nil
}

// Public returns the [PublicUser] view of the credential, falling back to the username as display name.
func (c *Credential) Public() PublicUser {
	name := c.displayName
	if name == "" {
		name = c.username
	}
	return PublicUser{Identifier: c.username, Role: c.role, DisplayName: name}
}

// SocialProfile is the identity returned by a social login provider.
type SocialProfile struct {
	Provider string `json:"provider"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Public returns the handoff projection of a social login, keyed by email.
func (p SocialProfile) Public() PublicUser {
	name := p.Name
	if name == "" {
		name = p.Email
	}
	return PublicUser{Identifier: p.Email, Role: RoleUser, DisplayName: name}
}
