package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/aptgo/registry-go/models"
)

// SQLStore is the MySQL backend. Account reads join the parent row so the
// effective apartment of a sub account comes back resolved.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

const effectiveApartment = "COALESCE(parents.apartment_id, accounts.apartment_id)"

var accountColumns = []string{
	"accounts.id", "accounts.sn", "accounts.username", "accounts.user_type",
	"accounts.phone", "accounts.is_manager", "accounts.is_active",
	effectiveApartment, "accounts.parent_id",
	"webhook_details.callback_url",
	"accounts.created_at", "accounts.updated_at",
}

func accountSelect() sq.SelectBuilder {
	return sq.
		Select(accountColumns...).
		From("accounts").
		LeftJoin("accounts parents on parents.id = accounts.parent_id").
		LeftJoin("webhook_details on webhook_details.id = accounts.id OR webhook_details.id = accounts.parent_id")
}

func scanAccount(row sq.RowScanner) (*models.Account, error) {
	var account = &models.Account{}
	var phone, apartment, parentID, callbackURL sql.NullString
	err := row.Scan(
		&account.ID, &account.SN, &account.Username, &account.Role,
		&phone, &account.IsManager, &account.IsActive,
		&apartment, &parentID, &callbackURL,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	account.Phone = phone.String
	account.ApartmentID = apartment.String
	if parentID.Valid {
		account.ParentID = &parentID.String
	}
	if callbackURL.Valid {
		account.CallbackURL = &callbackURL.String
	}
	return account, nil
}

func (s *SQLStore) CreateAccount(ctx context.Context, account *models.Account, passwordHash string, token *models.AccessToken) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// Defer a rollback in case anything fails.
	defer tx.Rollback()

	_, err = sq.
		Insert("accounts").
		Columns("id", "sn", "username", "user_type", "phone", "is_manager", "is_active", "apartment_id", "parent_id", "created_at", "updated_at").
		Values(account.ID, account.SN, account.Username, account.Role, nullable(account.Phone), account.IsManager, account.IsActive, nullable(account.ApartmentID), account.ParentID, account.CreatedAt, account.UpdatedAt).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return err
	}

	_, err = sq.
		Insert("credentials").
		Columns("id", "password").
		Values(account.ID, passwordHash).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return err
	}

	if token != nil {
		_, err = sq.
			Insert("access_tokens").
			Columns("id", "name", "description", "account_id", "token").
			Values(token.ID, token.Name, token.Description, token.AccountID, token.Token).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLStore) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	row := accountSelect().
		Where(sq.Eq{"accounts.id": id}).
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanAccount(row)
}

func (s *SQLStore) GetAccountByAccessToken(ctx context.Context, token string) (*models.Account, error) {
	row := sq.
		Select(accountColumns...).
		From("access_tokens").
		Join("accounts on access_tokens.account_id = accounts.id").
		LeftJoin("accounts parents on parents.id = accounts.parent_id").
		LeftJoin("webhook_details on webhook_details.id = accounts.id OR webhook_details.id = accounts.parent_id").
		Where(sq.Eq{"access_tokens.token": token}).
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanAccount(row)
}

func (s *SQLStore) FetchSubAccounts(ctx context.Context, parentID string) ([]*models.Account, error) {
	rows, err := accountSelect().
		Where(sq.Eq{"accounts.parent_id": parentID}).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make([]*models.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, acc)
	}
	return res, rows.Err()
}

func (s *SQLStore) UpdateAccount(ctx context.Context, account *models.Account) error {
	stmt := sq.
		Update("accounts").
		Set("phone", nullable(account.Phone)).
		Set("is_manager", account.IsManager).
		Set("is_active", account.IsActive).
		Set("updated_at", account.UpdatedAt).
		Where(sq.Eq{"id": account.ID})
	if account.Role == models.MainAccountRole {
		stmt = stmt.Set("apartment_id", nullable(account.ApartmentID))
	}

	res, err := stmt.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLStore) UpdateCallbackURL(ctx context.Context, accountID, callbackURL string) error {
	_, err := sq.
		Replace("webhook_details").
		Columns("id", "callback_url").
		Values(accountID, callbackURL).
		RunWith(s.db).
		ExecContext(ctx)
	return err
}

func (s *SQLStore) ApartmentExists(ctx context.Context, apartmentID string) (bool, error) {
	row := sq.
		Select("1").
		From("accounts").
		Where(sq.Eq{"apartment_id": apartmentID}).
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)

	var one int
	err := row.Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var reservationColumns = []string{
	"reservations.id", "reservations.sn", "reservations.vehicle_number",
	"reservations.visitor_name", "reservations.visitor_phone", "reservations.purpose",
	"reservations.visit_date", "reservations.visit_time",
	"reservations.is_approved", "reservations.created_at",
	"reservations.resident_account_id",
}

func scanReservation(row sq.RowScanner) (*models.VisitorReservation, error) {
	var r = &models.VisitorReservation{}
	var phone, purpose, visitTime sql.NullString
	err := row.Scan(
		&r.ID, &r.SN, &r.VehicleNumber,
		&r.VisitorName, &phone, &purpose,
		&r.VisitDate, &visitTime,
		&r.IsApproved, &r.CreatedAt,
		&r.ResidentAccountID,
	)
	if err != nil {
		return nil, err
	}
	r.VisitorPhone = phone.String
	r.Purpose = purpose.String
	r.VisitTime = visitTime.String
	return r, nil
}

func (s *SQLStore) CreateReservation(ctx context.Context, reservation *models.VisitorReservation) error {
	_, err := sq.
		Insert("reservations").
		Columns("id", "sn", "vehicle_number", "visitor_name", "visitor_phone", "purpose", "visit_date", "visit_time", "is_approved", "created_at", "resident_account_id").
		Values(
			reservation.ID, reservation.SN, reservation.VehicleNumber,
			reservation.VisitorName, nullable(reservation.VisitorPhone), nullable(reservation.Purpose),
			reservation.VisitDate, nullable(reservation.VisitTime),
			reservation.IsApproved, reservation.CreatedAt,
			reservation.ResidentAccountID,
		).
		RunWith(s.db).
		ExecContext(ctx)
	return err
}

func (s *SQLStore) GetReservationByID(ctx context.Context, id string) (*models.VisitorReservation, error) {
	row := sq.
		Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"reservations.id": id}).
		Limit(1).
		RunWith(s.db).
		QueryRowContext(ctx)
	return scanReservation(row)
}

func (s *SQLStore) SetReservationApproved(ctx context.Context, id string) error {
	res, err := sq.
		Update("reservations").
		Set("is_approved", true).
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *SQLStore) FetchReservationsByRegistrant(ctx context.Context, accountID string) ([]*models.VisitorReservation, error) {
	rows, err := sq.
		Select(reservationColumns...).
		From("reservations").
		Where(sq.Eq{"reservations.resident_account_id": accountID}).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func (s *SQLStore) FetchReservationsByApartment(ctx context.Context, apartmentID string) ([]*models.VisitorReservation, error) {
	rows, err := sq.
		Select(reservationColumns...).
		From("reservations").
		Join("accounts on accounts.id = reservations.resident_account_id").
		LeftJoin("accounts parents on parents.id = accounts.parent_id").
		Where(sq.Eq{effectiveApartment: apartmentID}).
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]*models.VisitorReservation, error) {
	defer rows.Close()

	res := make([]*models.VisitorReservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
