package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/services"
)

type MiddleWareHandler interface {
	AttachValidateAccessToken(http.HandlerFunc) http.HandlerFunc
	Recover(http.HandlerFunc) http.HandlerFunc
}

type middlewareHandler struct {
	accountService services.AccountService
	log            *zap.Logger
}

func NewMiddlewareHandler(account services.AccountService, log *zap.Logger) MiddleWareHandler {
	return &middlewareHandler{accountService: account, log: log}
}

func (m *middlewareHandler) AttachValidateAccessToken(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("authorization"), "Bearer ")
		if token == "" {
			errors.NewInvalidTokenError().Serialize(w)
			return
		}

		account, err := m.accountService.GetAccountByAccessToken(r.Context(), token)
		if err != nil {
			// a token the store does not know about is an auth failure,
			// not a missing resource
			if appErr := errors.AsAppError(err); appErr.Type != errors.ErrNotFound {
				appErr.Serialize(w)
			} else {
				errors.NewInvalidTokenError().Serialize(w)
			}
			return
		}
		if !account.IsActive {
			errors.NewAuthenticationError("account is not active").Serialize(w)
			return
		}

		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), "user", account)))
	}
}

// Recover turns AppError panics (request binding) into serialized responses
// instead of dropped connections.
func (m *middlewareHandler) Recover(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if appErr, ok := rec.(errors.AppError); ok {
					appErr.Serialize(w)
					return
				}
				m.log.Error("panic serving request", zap.Any("panic", rec))
				errors.NewUnknownError(rec).Serialize(w)
			}
		}()
		h.ServeHTTP(w, r)
	}
}
