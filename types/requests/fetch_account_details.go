package requests

type FetchAccountDetailsRequest struct {
	UserID string `uri:"user_id"`
}

type FetchAllSubAccountsRequest struct{}
