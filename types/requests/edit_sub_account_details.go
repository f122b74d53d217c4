package requests

type EditSubAccountDetailsRequest struct {
	UserID    string `uri:"user_id" validate:"required"`
	Phone     string `json:"phone"`
	IsManager *bool  `json:"is_manager"`
	IsActive  *bool  `json:"is_active"`
}
