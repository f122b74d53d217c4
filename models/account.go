package models

import "time"

type AccountRole string

const (
	MainAccountRole AccountRole = "main_account"
	SubAccountRole  AccountRole = "sub_account"
)

type Account struct {
	// ? maybe change to uuid.UUID
	ID        string      `json:"id"`
	SN        string      `json:"sn,omitempty"`
	Username  string      `json:"username"`
	Role      AccountRole `json:"user_type"`
	Phone     string      `json:"phone,omitempty"`
	IsManager bool        `json:"is_manager"`
	IsActive  bool        `json:"is_active"`
	// ApartmentID is authoritative for a main account; for a sub account it
	// is resolved through the parent at load time and carried here.
	ApartmentID string     `json:"apartment_id,omitempty"`
	CallbackURL *string    `json:"callback_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	// internal fields
	// ? maybe change to uuid.UUID
	ParentID *string `json:"-"`
	Password *string `json:"-"`
}

func (a *Account) IsMainAccount() bool {
	return a.Role == MainAccountRole
}
