package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserInput carries the fields required to register a user.
type UserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch is a partial update; nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
}

// EmailChanges reports whether the patch moves the user to a different email.
func (p UserPatch) EmailChanges(u *User) bool {
	return p.Email != nil && *p.Email != u.Email
}
