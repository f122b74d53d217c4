// Package scope derives the canonical visibility predicate for an account.
// Both the dashboard count and the list API consume the predicate produced
// here, so the two can never be built from different filter logic.
package scope

import (
	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/models"
)

// Access is the breadth of read access an operation asks for.
type Access uint8

const (
	// Visibility is the default per-role breadth used by list and count.
	Visibility Access = iota
	// Aggregate requires apartment-wide breadth regardless of role. Only
	// main accounts and manager sub accounts hold it.
	Aggregate
)

type Kind uint8

const (
	// SelfScope matches reservations registered by exactly one account.
	SelfScope Kind = iota + 1
	// ApartmentScope matches reservations whose registrant belongs to one
	// apartment.
	ApartmentScope
)

// Predicate is the serializable filter descriptor the query engine applies.
// Exactly one of AccountID/ApartmentID is set, per Kind.
type Predicate struct {
	Kind        Kind   `json:"kind"`
	AccountID   string `json:"account_id,omitempty"`
	ApartmentID string `json:"apartment_id,omitempty"`
}

// Resolve maps an account to its visibility predicate. It is a pure, total
// function of the account's role flags and never touches storage.
//
// A main account without an apartment degrades to self scope rather than an
// empty or unbounded query; collapsing it to an empty result would hide the
// registrant's own valid rows.
func Resolve(account *models.Account, access Access) (Predicate, error) {
	if account == nil || !account.IsActive {
		return Predicate{}, errors.NewAuthenticationError("account is not active")
	}

	switch {
	case account.IsMainAccount():
		if account.ApartmentID == "" {
			return Predicate{Kind: SelfScope, AccountID: account.ID}, nil
		}
		return Predicate{Kind: ApartmentScope, ApartmentID: account.ApartmentID}, nil

	case account.IsManager:
		// Same breadth as the parent main account. The effective apartment is
		// resolved through the parent at load time; a manager whose parent has
		// no apartment degrades like an apartment-less main account.
		if account.ApartmentID == "" {
			return Predicate{Kind: SelfScope, AccountID: account.ID}, nil
		}
		return Predicate{Kind: ApartmentScope, ApartmentID: account.ApartmentID}, nil

	default:
		if access == Aggregate {
			return Predicate{}, errors.NewPermissionError("manager capability required for apartment-wide access")
		}
		return Predicate{Kind: SelfScope, AccountID: account.ID}, nil
	}
}
