package requests

type RegisterReservationRequest struct {
	VehicleNumber string `json:"vehicle_number" validate:"required,plate"`
	VisitorName   string `json:"visitor_name" validate:"required"`
	VisitorPhone  string `json:"visitor_phone" validate:"omitempty"`
	VisitDate     string `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime     string `json:"visit_time" validate:"omitempty,datetime=15:04"`
	Purpose       string `json:"purpose" validate:"omitempty"`
}
