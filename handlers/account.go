package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/services"
	"github.com/aptgo/registry-go/types/requests"
	"github.com/aptgo/registry-go/utils"
)

type AccountHandler interface {
	CreateAccount(w http.ResponseWriter, r *http.Request)
	UpdateWebHookURL(w http.ResponseWriter, r *http.Request)

	FetchAccountDetails(w http.ResponseWriter, r *http.Request)
	CreateSubAccount(w http.ResponseWriter, r *http.Request)
	EditSubAccountDetails(w http.ResponseWriter, r *http.Request)
	FetchAllSubAccounts(w http.ResponseWriter, r *http.Request)

	Handler
}

func NewAccountHandler(accountService services.AccountService, middlewares MiddleWareHandler, log *zap.Logger) AccountHandler {
	return &accountHandler{
		handler: handler{accountService: accountService, middlewares: middlewares, log: log},
	}
}

type accountHandler struct {
	handler
}

func (a *accountHandler) ServeHttp(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/accounts", utils.Middleware(a.CreateAccount, a.middlewares.Recover))

	mux.Handle("PUT /api/v1/accounts", utils.Middleware(a.UpdateWebHookURL, a.middlewares.Recover, a.middlewares.AttachValidateAccessToken))

	mux.Handle("POST /api/v1/users", utils.Middleware(a.CreateSubAccount, a.middlewares.Recover, a.middlewares.AttachValidateAccessToken))
	mux.Handle("GET /api/v1/users", utils.Middleware(a.FetchAllSubAccounts, a.middlewares.Recover, a.middlewares.AttachValidateAccessToken))
	mux.Handle("PUT /api/v1/users/{user_id}", utils.Middleware(a.EditSubAccountDetails, a.middlewares.Recover, a.middlewares.AttachValidateAccessToken))
	mux.Handle("GET /api/v1/users/{user_id}", utils.Middleware(a.FetchAccountDetails, a.middlewares.Recover, a.middlewares.AttachValidateAccessToken))
}

func (a *accountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateAccountRequest](r)

	res, err := a.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (a *accountHandler) UpdateWebHookURL(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.UpdateWebhookURLRequest](r)

	err := a.accountService.UpdateWebHookURL(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	w.WriteHeader(204)
	w.Write(nil)
}

func (a *accountHandler) FetchAccountDetails(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.FetchAccountDetailsRequest](r)

	res, err := a.accountService.FetchAccountDetails(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (a *accountHandler) CreateSubAccount(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.CreateSubAccountRequest](r)

	res, err := a.accountService.CreateSubAccount(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (a *accountHandler) EditSubAccountDetails(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.EditSubAccountDetailsRequest](r)

	res, err := a.accountService.EditSubAccountDetails(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (a *accountHandler) FetchAllSubAccounts(w http.ResponseWriter, r *http.Request) {
	res, err := a.accountService.FetchAllSubAccounts(r.Context(), &requests.FetchAllSubAccountsRequest{})
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
