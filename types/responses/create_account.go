package responses

import "github.com/aptgo/registry-go/models"

type CreateAccountResponseData struct {
	User  *models.Account     `json:"user"`
	Token *models.AccessToken `json:"token"`
}
