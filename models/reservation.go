package models

import "time"

// VisitorReservation is the single source of truth for visitor vehicles.
// The registrant relationship never transfers: ResidentAccountID is the
// account (main or sub) that registered the visit.
type VisitorReservation struct {
	// ? maybe change to uuid.UUID
	ID            string `json:"id"`
	SN            string `json:"sn,omitempty"`
	VehicleNumber string `json:"vehicle_number"`
	VisitorName   string `json:"visitor_name"`
	VisitorPhone  string `json:"visitor_phone,omitempty"`
	Purpose       string `json:"purpose,omitempty"`

	// VisitDate is normalized to midnight UTC; VisitTime is the wall-clock
	// "HH:MM" portion kept separately, matching the upstream data shape where
	// time may be absent.
	VisitDate time.Time `json:"visit_date"`
	VisitTime string    `json:"visit_time,omitempty"`

	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`

	ResidentAccountID string `json:"resident_account_id"`
}

// VisitDatetime derives the full visit timestamp in loc, or nil when the
// reservation carries no visit time.
func (v *VisitorReservation) VisitDatetime(loc *time.Location) *time.Time {
	if v.VisitTime == "" {
		return nil
	}
	t, err := time.ParseInLocation("15:04", v.VisitTime, loc)
	if err != nil {
		return nil
	}
	dt := time.Date(v.VisitDate.Year(), v.VisitDate.Month(), v.VisitDate.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	return &dt
}
