package requests

type UpdateWebhookURLRequest struct {
	CallbackURL string `json:"callback_url" validate:"required,url"`
}
