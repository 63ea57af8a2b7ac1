package entity

import (
	"time"

	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// User is an account holding a set of roles.
type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	FullName     string          `json:"full_name"`
	PasswordHash string          `json:"-"`
	Roles        []workflow.Role `json:"roles"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Actor converts the user into the typed actor context engine calls take.
func (u *User) Actor() workflow.Actor {
	return workflow.Actor{
		ID:          u.ID,
		DisplayName: u.FullName,
		Roles:       u.Roles,
	}
}
