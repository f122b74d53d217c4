package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/services"
)

type handler struct {
	accountService     services.AccountService
	reservationService services.ReservationService
	conf               *config.Config
	middlewares        MiddleWareHandler

	log *zap.Logger
}

type Handler interface {
	ServeHttp(*http.ServeMux)
}
