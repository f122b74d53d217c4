package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/services"
	"github.com/aptgo/registry-go/types/requests"
	"github.com/aptgo/registry-go/utils"
)

type ReservationHandler interface {
	ListVisitorVehicles(w http.ResponseWriter, r *http.Request)
	DashboardCount(w http.ResponseWriter, r *http.Request)
	RegisterReservation(w http.ResponseWriter, r *http.Request)
	ApproveReservation(w http.ResponseWriter, r *http.Request)

	Handler
}

func NewReservationHandler(reservationService services.ReservationService, conf *config.Config, middlewares MiddleWareHandler, log *zap.Logger) ReservationHandler {
	return &reservationHandler{
		handler: handler{reservationService: reservationService, conf: conf, middlewares: middlewares, log: log},
	}
}

type reservationHandler struct {
	handler
}

func (v *reservationHandler) ServeHttp(mux *http.ServeMux) {
	mux.Handle("GET /api/v1/visitors", utils.Middleware(v.ListVisitorVehicles, v.middlewares.Recover, v.middlewares.AttachValidateAccessToken))
	mux.Handle("GET /api/v1/visitors/count", utils.Middleware(v.DashboardCount, v.middlewares.Recover, v.middlewares.AttachValidateAccessToken))
	mux.Handle("POST /api/v1/visitors", utils.Middleware(v.RegisterReservation, v.middlewares.Recover, v.middlewares.AttachValidateAccessToken))
	mux.Handle("POST /api/v1/visitors/{reservation_id}/approve", utils.Middleware(v.ApproveReservation, v.middlewares.Recover, v.middlewares.AttachValidateAccessToken))
}

func (v *reservationHandler) ListVisitorVehicles(w http.ResponseWriter, r *http.Request) {
	res, err := v.reservationService.ListVisitorVehicles(r.Context(), utils.Today(v.conf.Location()))
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (v *reservationHandler) DashboardCount(w http.ResponseWriter, r *http.Request) {
	res, err := v.reservationService.DashboardCount(r.Context(), utils.Today(v.conf.Location()))
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}

func (v *reservationHandler) RegisterReservation(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.RegisterReservationRequest](r)

	res, err := v.reservationService.RegisterReservation(r.Context(), req, utils.Today(v.conf.Location()))
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 201, res)
}

func (v *reservationHandler) ApproveReservation(w http.ResponseWriter, r *http.Request) {
	req := utils.Bind[requests.ApproveReservationRequest](r)

	res, err := v.reservationService.ApproveReservation(r.Context(), req)
	if err != nil {
		errors.AsAppError(err).Serialize(w)
		return
	}

	utils.JSON(w, 200, res)
}
