package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/models"
	"github.com/aptgo/registry-go/scope"
	"github.com/aptgo/registry-go/store"
)

// visibleOn is the canonical temporal/state filter applied after the scope
// predicate: upcoming (inclusive of today) and approved. Count and list both
// flow through this one function; there is no second query construction to
// drift from.
func visibleOn(r *models.VisitorReservation, today time.Time) bool {
	return r.IsApproved && !r.VisitDate.Before(today)
}

// visibleReservations applies the scope predicate and the canonical filter
// against one store read, then orders by createdAt descending with id
// descending as tiebreak (createdAt has second granularity upstream and
// collisions happen).
//
// A predicate pointing at an unknown account or apartment is an internal
// invariant violation and surfaces as InvalidScope, never as an empty set.
func visibleReservations(ctx context.Context, data store.Store, pred scope.Predicate, today time.Time) ([]*models.VisitorReservation, error) {
	var candidates []*models.VisitorReservation

	switch pred.Kind {
	case scope.SelfScope:
		if _, err := data.GetAccountByID(ctx, pred.AccountID); err != nil {
			return nil, errors.NewInvalidScopeError(fmt.Errorf("scope references account %s: %w", pred.AccountID, err))
		}
		rows, err := data.FetchReservationsByRegistrant(ctx, pred.AccountID)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		candidates = rows

	case scope.ApartmentScope:
		ok, err := data.ApartmentExists(ctx, pred.ApartmentID)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		if !ok {
			return nil, errors.NewInvalidScopeError(fmt.Errorf("scope references unknown apartment %s", pred.ApartmentID))
		}
		rows, err := data.FetchReservationsByApartment(ctx, pred.ApartmentID)
		if err != nil {
			return nil, errors.HandleDataDBError(err)
		}
		candidates = rows

	default:
		return nil, errors.NewInvalidScopeError(fmt.Errorf("unknown scope kind %d", pred.Kind))
	}

	res := make([]*models.VisitorReservation, 0, len(candidates))
	for _, r := range candidates {
		if visibleOn(r, today) {
			res = append(res, r)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})

	return res, nil
}
