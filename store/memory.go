package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/aptgo/registry-go/models"
)

// MemoryStore backs unit tests and DB-less runs. All maps are guarded by one
// RWMutex; reads hand out copies so callers cannot mutate shared state.
type MemoryStore struct {
	mu           sync.RWMutex
	accounts     map[string]*models.Account
	passwords    map[string]string
	tokens       map[string]*models.AccessToken // token value -> token
	reservations map[string]*models.VisitorReservation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     map[string]*models.Account{},
		passwords:    map[string]string{},
		tokens:       map[string]*models.AccessToken{},
		reservations: map[string]*models.VisitorReservation{},
	}
}

func (m *MemoryStore) CreateAccount(_ context.Context, account *models.Account, passwordHash string, token *models.AccessToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *account
	m.accounts[cp.ID] = &cp
	m.passwords[cp.ID] = passwordHash
	if token != nil {
		tcp := *token
		m.tokens[tcp.Token] = &tcp
	}
	return nil
}

func (m *MemoryStore) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resolvedAccount(id)
}

func (m *MemoryStore) GetAccountByAccessToken(_ context.Context, token string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return m.resolvedAccount(t.AccountID)
}

func (m *MemoryStore) FetchSubAccounts(_ context.Context, parentID string) ([]*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*models.Account, 0)
	for id, acc := range m.accounts {
		if acc.ParentID != nil && *acc.ParentID == parentID {
			resolved, err := m.resolvedAccount(id)
			if err != nil {
				return nil, err
			}
			res = append(res, resolved)
		}
	}
	return res, nil
}

func (m *MemoryStore) UpdateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[account.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *account
	// The stored apartment stays authoritative only for main accounts; sub
	// accounts derive theirs on read.
	if cp.Role == models.SubAccountRole {
		cp.ApartmentID = ""
	}
	m.accounts[cp.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateCallbackURL(_ context.Context, accountID, callbackURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[accountID]
	if !ok {
		return sql.ErrNoRows
	}
	acc.CallbackURL = &callbackURL
	return nil
}

func (m *MemoryStore) ApartmentExists(_ context.Context, apartmentID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, acc := range m.accounts {
		if acc.ApartmentID == apartmentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateReservation(_ context.Context, reservation *models.VisitorReservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[reservation.ResidentAccountID]; !ok {
		return sql.ErrNoRows
	}
	cp := *reservation
	m.reservations[cp.ID] = &cp
	return nil
}

func (m *MemoryStore) GetReservationByID(_ context.Context, id string) (*models.VisitorReservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reservations[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStore) SetReservationApproved(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reservations[id]
	if !ok {
		return sql.ErrNoRows
	}
	r.IsApproved = true
	return nil
}

func (m *MemoryStore) FetchReservationsByRegistrant(_ context.Context, accountID string) ([]*models.VisitorReservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.accounts[accountID]; !ok {
		return nil, sql.ErrNoRows
	}
	res := make([]*models.VisitorReservation, 0)
	for _, r := range m.reservations {
		if r.ResidentAccountID == accountID {
			cp := *r
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *MemoryStore) FetchReservationsByApartment(_ context.Context, apartmentID string) ([]*models.VisitorReservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]*models.VisitorReservation, 0)
	for _, r := range m.reservations {
		registrant, err := m.resolvedAccount(r.ResidentAccountID)
		if err != nil {
			continue
		}
		if registrant.ApartmentID == apartmentID {
			cp := *r
			res = append(res, &cp)
		}
	}
	return res, nil
}

// resolvedAccount copies the account and fills the effective apartment of a
// sub account from its parent. Callers must hold at least a read lock.
func (m *MemoryStore) resolvedAccount(id string) (*models.Account, error) {
	acc, ok := m.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *acc
	if cp.Role == models.SubAccountRole && cp.ParentID != nil {
		if parent, ok := m.accounts[*cp.ParentID]; ok {
			cp.ApartmentID = parent.ApartmentID
			if cp.CallbackURL == nil {
				cp.CallbackURL = parent.CallbackURL
			}
		}
	}
	return &cp, nil
}
