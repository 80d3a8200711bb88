package customers

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Address    *string    `json:"address,omitempty"`
	City       *string    `json:"city,omitempty"`
	State      *string    `json:"state,omitempty"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	JarCredits int        `json:"jar_credits"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreditBalance is the shape returned by the jar-credits endpoint.
type CreditBalance struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	JarCredits int       `json:"jar_credits"`
}
