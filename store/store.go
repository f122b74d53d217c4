// Package store holds the persistence boundary for accounts, access tokens
// and visitor reservations. Both backends return accounts with the effective
// apartment already resolved through the parent, so callers never re-derive
// the hierarchy.
package store

import (
	"context"

	"github.com/aptgo/registry-go/models"
)

type Store interface {
	// CreateAccount persists the account, its password hash and its default
	// access token as one unit.
	CreateAccount(ctx context.Context, account *models.Account, passwordHash string, token *models.AccessToken) error
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	GetAccountByAccessToken(ctx context.Context, token string) (*models.Account, error)
	FetchSubAccounts(ctx context.Context, parentID string) ([]*models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	// UpdateCallbackURL upserts the webhook callback for a main account.
	UpdateCallbackURL(ctx context.Context, accountID, callbackURL string) error
	// ApartmentExists reports whether any account claims the apartment.
	ApartmentExists(ctx context.Context, apartmentID string) (bool, error)

	CreateReservation(ctx context.Context, reservation *models.VisitorReservation) error
	GetReservationByID(ctx context.Context, id string) (*models.VisitorReservation, error)
	SetReservationApproved(ctx context.Context, id string) error
	// FetchReservationsByRegistrant returns every reservation registered by
	// the account, unfiltered and unordered; visibility filtering is the
	// query engine's job.
	FetchReservationsByRegistrant(ctx context.Context, accountID string) ([]*models.VisitorReservation, error)
	// FetchReservationsByApartment returns every reservation whose
	// registrant's effective apartment matches, unfiltered and unordered.
	FetchReservationsByApartment(ctx context.Context, apartmentID string) ([]*models.VisitorReservation, error)
}
