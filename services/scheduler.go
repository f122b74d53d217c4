package services

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/madflojo/tasks"
	"go.uber.org/zap"

	"github.com/aptgo/registry-go/models"
)

type SchedulerService interface {
	// ScheduleWebhookRetry queues one delayed redelivery of a callback event.
	ScheduleWebhookRetry(url string, event *models.Webhook, deliver func(url string, body *bytes.Buffer) error)
	DropTask(taskID string)
}

func NewSchedulerService(scheduler *tasks.Scheduler, log *zap.Logger) SchedulerService {
	return &schedulerService{
		service: service{
			log: log,
		},
		scheduler: scheduler,
	}
}

type schedulerService struct {
	service
	scheduler *tasks.Scheduler
}

func (s *schedulerService) DropTask(taskID string) {
	s.scheduler.Del(taskID)
}

func (s *schedulerService) ScheduleWebhookRetry(url string, event *models.Webhook, deliver func(url string, body *bytes.Buffer) error) {
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("encoding retry body", zap.Error(err))
		return
	}

	_, err = s.scheduler.Add(&tasks.Task{
		RunOnce:    true,
		Interval:   30 * time.Second,
		StartAfter: time.Now().Add(30 * time.Second),
		TaskFunc: func() error {
			s.log.Info("retrying callback delivery", zap.String("Event Type", event.Event.String()))
			if err := deliver(url, bytes.NewBuffer(data)); err != nil {
				s.log.Error("callback redelivery failed", zap.Error(err))
			}
			return nil
		},
	})
	if err != nil {
		s.log.Error("scheduling callback retry", zap.Error(err))
	}
}
