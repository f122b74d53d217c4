package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/models"
	"github.com/aptgo/registry-go/store"
	"github.com/aptgo/registry-go/types/requests"
	"github.com/aptgo/registry-go/types/responses"
)

type AccountService interface {
	CreateAccount(context.Context, *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error)
	CreateSubAccount(context.Context, *requests.CreateSubAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error)
	EditSubAccountDetails(context.Context, *requests.EditSubAccountDetailsRequest) (*responses.Response[*models.Account], error)
	FetchAllSubAccounts(context.Context, *requests.FetchAllSubAccountsRequest) (*responses.Response[[]*models.Account], error)
	FetchAccountDetails(context.Context, *requests.FetchAccountDetailsRequest) (*responses.Response[*models.Account], error)

	UpdateWebHookURL(context.Context, *requests.UpdateWebhookURLRequest) error
	GetAccountByAccessToken(context.Context, string) (*models.Account, error)
}

func NewAccountService(data store.Store, log *zap.Logger) AccountService {
	return &accountService{
		service{
			data: data,
			log:  log,
		},
	}
}

type accountService struct {
	service
}

func (a *accountService) CreateAccount(ctx context.Context, req *requests.CreateAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error) {
	now := time.Now()

	account := &models.Account{
		ID:          uuid.NewString(),
		SN:          cuid.New(),
		Username:    cases.Lower(language.English).String(req.Username),
		Role:        models.MainAccountRole,
		Phone:       req.Phone,
		ApartmentID: req.ApartmentID,
		IsActive:    true,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}

	password, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accessToken := &models.AccessToken{
		ID:          uuid.NewString(),
		Name:        "Default Token",
		Description: "default token for user requests",
		AccountID:   account.ID,
		Token:       "pub_" + cuid.Slug(),
	}

	if err := a.data.CreateAccount(ctx, account, string(password), accessToken); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	if req.CallbackURL != "" {
		if err := a.data.UpdateCallbackURL(ctx, account.ID, req.CallbackURL); err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		account.CallbackURL = &req.CallbackURL
	}

	return &responses.Response[*responses.CreateAccountResponseData]{
		Status:  "successful",
		Message: "Account Created successfully",
		Data: &responses.CreateAccountResponseData{
			User:  account,
			Token: accessToken,
		},
	}, nil
}

func (a *accountService) CreateSubAccount(ctx context.Context, req *requests.CreateSubAccountRequest) (*responses.Response[*responses.CreateAccountResponseData], error) {
	parent := ctx.Value("user").(*models.Account)
	if !parent.IsMainAccount() {
		return nil, errors.NewPermissionError("only a main account can create sub accounts")
	}

	now := time.Now()
	account := &models.Account{
		ID:        uuid.NewString(),
		SN:        cuid.New(),
		Username:  cases.Lower(language.English).String(req.Username),
		Role:      models.SubAccountRole,
		Phone:     req.Phone,
		IsManager: req.IsManager,
		IsActive:  true,
		ParentID:  &parent.ID,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	password, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	accessToken := &models.AccessToken{
		ID:          uuid.NewString(),
		Name:        "Default Token",
		Description: "default token for user requests",
		AccountID:   account.ID,
		Token:       "pub_" + cuid.Slug(),
	}

	if err := a.data.CreateAccount(ctx, account, string(password), accessToken); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	// effective apartment follows the parent
	account.ApartmentID = parent.ApartmentID

	return &responses.Response[*responses.CreateAccountResponseData]{
		Status:  "successful",
		Message: "Account Created successfully",
		Data: &responses.CreateAccountResponseData{
			User:  account,
			Token: accessToken,
		},
	}, nil
}

func (a *accountService) EditSubAccountDetails(ctx context.Context, req *requests.EditSubAccountDetailsRequest) (*responses.Response[*models.Account], error) {
	parent := ctx.Value("user").(*models.Account)

	account, err := a.data.GetAccountByID(ctx, req.UserID)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	if account.ParentID == nil || *account.ParentID != parent.ID {
		return nil, errors.NewNotFoundError("user not found")
	}

	if req.Phone != "" {
		account.Phone = req.Phone
	}
	if req.IsManager != nil {
		account.IsManager = *req.IsManager
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	now := time.Now()
	account.UpdatedAt = &now

	if err := a.data.UpdateAccount(ctx, account); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return a.FetchAccountDetails(ctx, &requests.FetchAccountDetailsRequest{UserID: req.UserID})
}

func (a *accountService) FetchAllSubAccounts(ctx context.Context, _ *requests.FetchAllSubAccountsRequest) (*responses.Response[[]*models.Account], error) {
	parent := ctx.Value("user").(*models.Account)

	res, err := a.data.FetchSubAccounts(ctx, parent.ID)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	return &responses.Response[[]*models.Account]{
		Status: "successful",
		Data:   res,
	}, nil
}

func (a *accountService) FetchAccountDetails(ctx context.Context, req *requests.FetchAccountDetailsRequest) (*responses.Response[*models.Account], error) {
	requester := ctx.Value("user").(*models.Account)
	if req.UserID == "" || req.UserID == "me" || req.UserID == requester.ID {
		return &responses.Response[*models.Account]{Status: "successful", Data: requester}, nil
	}

	account, err := a.data.GetAccountByID(ctx, req.UserID)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	if account.ParentID == nil || *account.ParentID != requester.ID {
		return nil, errors.NewNotFoundError("user not found")
	}

	return &responses.Response[*models.Account]{
		Status: "successful",
		Data:   account,
	}, nil
}

func (a *accountService) UpdateWebHookURL(ctx context.Context, req *requests.UpdateWebhookURLRequest) error {
	parent := ctx.Value("user").(*models.Account)
	if !parent.IsMainAccount() {
		return errors.NewPermissionError("only a main account can configure callbacks")
	}

	if err := a.data.UpdateCallbackURL(ctx, parent.ID, req.CallbackURL); err != nil {
		return errors.HandleDataDBError(err)
	}
	return nil
}

func (a *accountService) GetAccountByAccessToken(ctx context.Context, token string) (*models.Account, error) {
	account, err := a.data.GetAccountByAccessToken(ctx, token)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}
	return account, nil
}
