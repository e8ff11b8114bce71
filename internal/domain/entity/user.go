package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"-"`
	Phone    string `json:"phone" firestore:"phone"`
	Name     string `json:"name" firestore:"name"`
	Address  string `json:"address" firestore:"address"`
	District string `json:"district" firestore:"district"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

// DisplayName falls back to a role label for profiles that were never filled in.
func (u *User) DisplayName(fallback string) string {
	if u == nil || u.Name == "" {
		return fallback
	}
	return u.Name
}
