package services

import (
	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/store"
)

type service struct {
	data               store.Store
	conf               *config.Config
	accountService     AccountService
	reservationService ReservationService
	webhookService     WebhookService
	schedulerService   SchedulerService
	log                *zap.Logger
}
