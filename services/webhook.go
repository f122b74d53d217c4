package services

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/aptgo/registry-go/models"
	"github.com/aptgo/registry-go/types/responses"
)

type WebhookService interface {
	SendReservationCreatedEvent(owner *models.Account, reservation *responses.VisitorVehicleData) (self WebhookService)
	SendReservationApprovedEvent(owner *models.Account, reservation *responses.VisitorVehicleData) (self WebhookService)
}

type webhookService struct {
	service
}

func NewWebhookService(schedulerService SchedulerService, log *zap.Logger) WebhookService {
	return &webhookService{
		service: service{
			schedulerService: schedulerService,
			log:              log,
		},
	}
}

func (w *webhookService) doRequest(url string, body *bytes.Buffer) (error, bool) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return err, false
	}

	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	res, err := http.DefaultClient.Do(req)
	if res != nil {
		resData, _ := io.ReadAll(res.Body)
		res.Body.Close()
		w.log.Info("response from callback", zap.String("Response Data", string(resData)))
	}
	return err, (res != nil && res.StatusCode < 300)
}

func (w *webhookService) sendEvent(owner *models.Account, eventType models.WebhookEvent, eventData any) (self WebhookService) {
	if owner == nil || owner.CallbackURL == nil {
		return w
	}
	w.log.Info("dispatching event...", zap.String("Event Type", eventType.String()))

	event := &models.Webhook{
		Event: eventType,
		Data:  eventData,
	}

	data, err := json.Marshal(event)
	if err != nil {
		w.log.Error("encoding request body", zap.Error(err))
		return w
	}

	err, ok := w.doRequest(*owner.CallbackURL, bytes.NewBuffer(data))
	if err != nil {
		w.log.Error("dispatching request", zap.Error(err))
	}
	if ok {
		return w
	}

	w.schedulerService.ScheduleWebhookRetry(*owner.CallbackURL, event, func(url string, body *bytes.Buffer) error {
		err, _ := w.doRequest(url, body)
		return err
	})
	return w
}

func (w *webhookService) SendReservationCreatedEvent(owner *models.Account, reservation *responses.VisitorVehicleData) (self WebhookService) {
	return w.sendEvent(owner, models.ReservationCreated_WebhookEvent, reservation)
}

func (w *webhookService) SendReservationApprovedEvent(owner *models.Account, reservation *responses.VisitorVehicleData) (self WebhookService) {
	return w.sendEvent(owner, models.ReservationApproved_WebhookEvent, reservation)
}
