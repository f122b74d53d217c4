package models

import "encoding/json"

type Webhook struct {
	Event WebhookEvent `json:"event"`
	Data  any          `json:"data"`
}

type WebhookEvent uint8

const (
	ReservationCreated_WebhookEvent WebhookEvent = iota + 1
	ReservationApproved_WebhookEvent
)

func (w WebhookEvent) String() string {
	switch w {
	case ReservationCreated_WebhookEvent:
		return "visitor.reservation.created"
	case ReservationApproved_WebhookEvent:
		return "visitor.reservation.approved"
	default:
		panic("unreachable")
	}
}

func (w WebhookEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}
