package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the aggregate root for a registered user. Users appear in the
// booking flow both as bookers and as item owners.
type User struct {
	id        uuid.UUID
	name      string
	email     string
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a new user with validated fields.
func NewUser(name, email string) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email: %s", email)
	}

	now := time.Now().UTC()
	return &User{
		id:        uuid.New(),
		name:      name,
		email:     email,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, email string, version int64, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		name:      name,
		email:     email,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) Version() int64       { return u.version }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Update applies partial updates to the user profile.
func (u *User) Update(name, email string) error {
	if name != "" {
		u.name = name
	}
	if email != "" {
		if !strings.Contains(email, "@") {
			return fmt.Errorf("invalid email: %s", email)
		}
		u.email = email
	}
	u.version++
	u.updatedAt = time.Now().UTC()
	return nil
}
