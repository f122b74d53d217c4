package requests

type CreateAccountRequest struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	ApartmentID string `json:"apartment_id" validate:"omitempty"`
	Phone       string `json:"phone" validate:"omitempty"`
	CallbackURL string `json:"callback_url" validate:"omitempty,url"`
}
