package model

import "time"

const (
	TypeStudent      = "student"
	TypeProfessional = "professional"
)

// ValidType reports whether t is one of the two registration types.
func ValidType(t string) bool {
	return t == TypeStudent || t == TypeProfessional
}

type Registration struct {
	ID               int64     `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Email            string    `db:"email" json:"email"`
	RegistrationType string    `db:"registration_type" json:"registration_type"`
	Company          *string   `db:"company" json:"company,omitempty"`
	Phone            *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
