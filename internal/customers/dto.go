package customers

import "time"

type CreateCustomerRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Email     *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string    `json:"phone" validate:"omitempty,max=20"`
	Address   *string    `json:"address"`
	City      *string    `json:"city" validate:"omitempty,max=100"`
	State     *string    `json:"state" validate:"omitempty,len=2"`
	BirthDate *time.Time `json:"birth_date"`
}

type UpdateCustomerRequest struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Email     *string    `json:"email" validate:"omitempty,email,max=255"`
	Phone     *string    `json:"phone" validate:"omitempty,max=20"`
	Address   *string    `json:"address"`
	City      *string    `json:"city" validate:"omitempty,max=100"`
	State     *string    `json:"state" validate:"omitempty,len=2"`
	BirthDate *time.Time `json:"birth_date"`
}

// JarCreditsRequest carries a signed delta. The resulting balance is
// clamped at zero.
type JarCreditsRequest struct {
	Credits int `json:"credits" validate:"required"`
}
