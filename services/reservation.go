package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/models"
	"github.com/aptgo/registry-go/scope"
	"github.com/aptgo/registry-go/store"
	"github.com/aptgo/registry-go/types/requests"
	"github.com/aptgo/registry-go/types/responses"
	"github.com/aptgo/registry-go/utils"
)

// ReservationService is the aggregation facade: the only entry point for
// visitor-reservation reads and writes. Count is defined as the length of
// the list built from the same predicate evaluation, so the dashboard and
// the list API cannot disagree.
type ReservationService interface {
	GetVisibleReservations(ctx context.Context, account *models.Account, today time.Time) ([]*models.VisitorReservation, error)
	GetVisibleCount(ctx context.Context, account *models.Account, today time.Time) (int, error)

	ListVisitorVehicles(ctx context.Context, today time.Time) (*responses.Response[*responses.ListVisitorVehiclesResponseData], error)
	DashboardCount(ctx context.Context, today time.Time) (*responses.Response[*responses.DashboardCountResponseData], error)
	RegisterReservation(ctx context.Context, req *requests.RegisterReservationRequest, today time.Time) (*responses.Response[*responses.VisitorVehicleData], error)
	ApproveReservation(ctx context.Context, req *requests.ApproveReservationRequest) (*responses.Response[*responses.VisitorVehicleData], error)
}

func NewReservationService(data store.Store, conf *config.Config, webhookService WebhookService, log *zap.Logger) ReservationService {
	return &reservationService{
		service{
			data:           data,
			conf:           conf,
			webhookService: webhookService,
			log:            log,
		},
	}
}

type reservationService struct {
	service
}

func (r *reservationService) GetVisibleReservations(ctx context.Context, account *models.Account, today time.Time) ([]*models.VisitorReservation, error) {
	pred, err := scope.Resolve(account, scope.Visibility)
	if err != nil {
		return nil, err
	}

	reservations, err := visibleReservations(ctx, r.data, pred, utils.DateOnly(today))
	if err != nil {
		if errors.AsAppError(err).Type == errors.ErrInvalidScope {
			r.log.Error("scope predicate references unknown target", zap.String("account", account.ID), zap.Error(err))
		}
		return nil, err
	}
	return reservations, nil
}

func (r *reservationService) GetVisibleCount(ctx context.Context, account *models.Account, today time.Time) (int, error) {
	reservations, err := r.GetVisibleReservations(ctx, account, today)
	if err != nil {
		return 0, err
	}
	return len(reservations), nil
}

func (r *reservationService) ListVisitorVehicles(ctx context.Context, today time.Time) (*responses.Response[*responses.ListVisitorVehiclesResponseData], error) {
	account := ctx.Value("user").(*models.Account)

	reservations, err := r.GetVisibleReservations(ctx, account, today)
	if err != nil {
		return nil, err
	}

	loc := r.conf.Location()
	registrants := map[string]*models.Account{}
	vehicles := make([]*responses.VisitorVehicleData, 0, len(reservations))
	for _, reservation := range reservations {
		registrant, ok := registrants[reservation.ResidentAccountID]
		if !ok {
			registrant, err = r.data.GetAccountByID(ctx, reservation.ResidentAccountID)
			if err != nil {
				return nil, errors.HandleDataDBError(err)
			}
			registrants[reservation.ResidentAccountID] = registrant
		}
		vehicles = append(vehicles, responses.NewVisitorVehicleData(reservation, registrant, account, loc))
	}

	return &responses.Response[*responses.ListVisitorVehiclesResponseData]{
		Status: "successful",
		Data:   &responses.ListVisitorVehiclesResponseData{Vehicles: vehicles},
	}, nil
}

func (r *reservationService) DashboardCount(ctx context.Context, today time.Time) (*responses.Response[*responses.DashboardCountResponseData], error) {
	account := ctx.Value("user").(*models.Account)

	count, err := r.GetVisibleCount(ctx, account, today)
	if err != nil {
		return nil, err
	}

	return &responses.Response[*responses.DashboardCountResponseData]{
		Status: "successful",
		Data:   &responses.DashboardCountResponseData{Count: count},
	}, nil
}

func (r *reservationService) RegisterReservation(ctx context.Context, req *requests.RegisterReservationRequest, today time.Time) (*responses.Response[*responses.VisitorVehicleData], error) {
	account := ctx.Value("user").(*models.Account)
	if !account.IsActive {
		return nil, errors.NewAuthenticationError("account is not active")
	}

	plate := utils.NormalizePlateNumber(req.VehicleNumber)
	if !utils.IsValidPlateNumber(plate) {
		return nil, errors.NewValidationError("invalid vehicle number format")
	}

	visitorName := strings.TrimSpace(req.VisitorName)
	if visitorName == "" {
		return nil, errors.NewValidationError("visitor_name is required")
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return nil, errors.NewValidationError("visit_date must be formatted YYYY-MM-DD")
	}
	visitDate = utils.DateOnly(visitDate)
	if visitDate.Before(utils.DateOnly(today)) {
		return nil, errors.NewValidationError("visit_date cannot be in the past")
	}

	reservation := &models.VisitorReservation{
		ID:                uuid.NewString(),
		SN:                cuid.New(),
		VehicleNumber:     plate,
		VisitorName:       visitorName,
		VisitorPhone:      strings.TrimSpace(req.VisitorPhone),
		Purpose:           strings.TrimSpace(req.Purpose),
		VisitDate:         visitDate,
		VisitTime:         req.VisitTime,
		IsApproved:        r.conf.Approval == config.ApprovalAuto,
		CreatedAt:         time.Now(),
		ResidentAccountID: account.ID,
	}

	if err := r.data.CreateReservation(ctx, reservation); err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	data := responses.NewVisitorVehicleData(reservation, account, account, r.conf.Location())
	if owner, err := r.ownerMainAccount(ctx, account); err == nil {
		go r.webhookService.SendReservationCreatedEvent(owner, data)
	}

	return &responses.Response[*responses.VisitorVehicleData]{
		Status:  "successful",
		Message: "Reservation registered successfully",
		Data:    data,
	}, nil
}

func (r *reservationService) ApproveReservation(ctx context.Context, req *requests.ApproveReservationRequest) (*responses.Response[*responses.VisitorVehicleData], error) {
	account := ctx.Value("user").(*models.Account)

	// Approval is an apartment-wide action: manager capability required for
	// sub accounts.
	pred, err := scope.Resolve(account, scope.Aggregate)
	if err != nil {
		return nil, err
	}

	reservation, err := r.data.GetReservationByID(ctx, req.ReservationID)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	registrant, err := r.data.GetAccountByID(ctx, reservation.ResidentAccountID)
	if err != nil {
		return nil, errors.HandleDataDBError(err)
	}

	switch pred.Kind {
	case scope.SelfScope:
		if registrant.ID != pred.AccountID {
			return nil, errors.NewNotFoundError("reservation not found")
		}
	case scope.ApartmentScope:
		if registrant.ApartmentID != pred.ApartmentID {
			return nil, errors.NewNotFoundError("reservation not found")
		}
	}

	// pending -> approved is the only transition; approving twice is a no-op
	if !reservation.IsApproved {
		if err := r.data.SetReservationApproved(ctx, reservation.ID); err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		reservation.IsApproved = true

		data := responses.NewVisitorVehicleData(reservation, registrant, account, r.conf.Location())
		if owner, err := r.ownerMainAccount(ctx, registrant); err == nil {
			go r.webhookService.SendReservationApprovedEvent(owner, data)
		}
	}

	return &responses.Response[*responses.VisitorVehicleData]{
		Status:  "successful",
		Message: "Reservation approved",
		Data:    responses.NewVisitorVehicleData(reservation, registrant, account, r.conf.Location()),
	}, nil
}

// ownerMainAccount resolves the main account owning the registrant's
// apartment scope: the registrant itself for a main account, its parent for
// a sub account.
func (r *reservationService) ownerMainAccount(ctx context.Context, registrant *models.Account) (*models.Account, error) {
	if registrant.IsMainAccount() || registrant.ParentID == nil {
		return registrant, nil
	}
	return r.data.GetAccountByID(ctx, *registrant.ParentID)
}
