package requests

type ApproveReservationRequest struct {
	ReservationID string `uri:"reservation_id" validate:"required"`
}
