package responses

import (
	"time"

	"github.com/aptgo/registry-go/models"
)

type VisitorVehicleData struct {
	ID            string `json:"id"`
	VehicleNumber string `json:"vehicle_number"`
	VisitorName   string `json:"visitor_name"`
	Contact       string `json:"contact"`
	VisitDate     string `json:"visit_date"`
	VisitTime     string `json:"visit_time"`
	VisitDatetime string `json:"visit_datetime"`
	Purpose       string `json:"purpose"`
	RegisteredBy  string `json:"registered_by"`
	CreatedAt     string `json:"created_at"`
	IsApproved    bool   `json:"is_approved"`
	CanDelete     bool   `json:"can_delete"`
}

type ListVisitorVehiclesResponseData struct {
	Vehicles []*VisitorVehicleData `json:"vehicles"`
}

type DashboardCountResponseData struct {
	Count int `json:"count"`
}

// NewVisitorVehicleData localizes timestamps to loc and computes the
// advisory delete permission for the requesting account: a main account may
// delete anything in its apartment, a sub account only its own rows.
func NewVisitorVehicleData(r *models.VisitorReservation, registrant, requester *models.Account, loc *time.Location) *VisitorVehicleData {
	data := &VisitorVehicleData{
		ID:            r.ID,
		VehicleNumber: r.VehicleNumber,
		VisitorName:   r.VisitorName,
		Contact:       r.VisitorPhone,
		VisitDate:     r.VisitDate.Format("2006-01-02"),
		VisitTime:     r.VisitTime,
		Purpose:       r.Purpose,
		CreatedAt:     r.CreatedAt.In(loc).Format("2006-01-02 15:04"),
		IsApproved:    r.IsApproved,
	}
	if dt := r.VisitDatetime(loc); dt != nil {
		data.VisitDatetime = dt.Format("2006-01-02 15:04")
	}
	if registrant != nil {
		data.RegisteredBy = registrant.Username
	}
	if requester != nil && registrant != nil {
		if requester.IsMainAccount() && requester.ApartmentID != "" {
			data.CanDelete = registrant.ApartmentID == requester.ApartmentID
		} else {
			data.CanDelete = registrant.ID == requester.ID
		}
	}
	return data
}
