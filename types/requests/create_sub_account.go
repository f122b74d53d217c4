package requests

type CreateSubAccountRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty"`
	IsManager bool   `json:"is_manager"`
}
