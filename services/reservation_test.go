package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/madflojo/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aptgo/registry-go/config"
	"github.com/aptgo/registry-go/errors"
	"github.com/aptgo/registry-go/models"
	"github.com/aptgo/registry-go/store"
	"github.com/aptgo/registry-go/types/requests"
)

var testToday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newTestReservationService(t *testing.T, policy config.ApprovalPolicy) (ReservationService, *store.MemoryStore) {
	t.Helper()

	conf := &config.Config{Timezone: "UTC", Approval: policy}
	log := zap.NewNop()
	scheduler := tasks.New()
	t.Cleanup(scheduler.Stop)

	mem := store.NewMemoryStore()
	webhook := NewWebhookService(NewSchedulerService(scheduler, log), log)
	return NewReservationService(mem, conf, webhook, log), mem
}

func createMainAccount(t *testing.T, mem *store.MemoryStore, id, apartment string) *models.Account {
	t.Helper()
	acc := &models.Account{ID: id, Username: id, Role: models.MainAccountRole, ApartmentID: apartment, IsActive: true}
	require.NoError(t, mem.CreateAccount(context.Background(), acc, "hash", nil))
	return acc
}

func createSubAccount(t *testing.T, mem *store.MemoryStore, id, parentID string, manager bool) *models.Account {
	t.Helper()
	acc := &models.Account{ID: id, Username: id, Role: models.SubAccountRole, ParentID: &parentID, IsManager: manager, IsActive: true}
	require.NoError(t, mem.CreateAccount(context.Background(), acc, "hash", nil))
	resolved, err := mem.GetAccountByID(context.Background(), id)
	require.NoError(t, err)
	return resolved
}

func seedReservation(t *testing.T, mem *store.MemoryStore, id, registrantID string, visitDate time.Time, approved bool, createdAt time.Time) {
	t.Helper()
	require.NoError(t, mem.CreateReservation(context.Background(), &models.VisitorReservation{
		ID:                id,
		VehicleNumber:     "12가3456",
		VisitorName:       "방문자",
		VisitDate:         visitDate,
		IsApproved:        approved,
		CreatedAt:         createdAt,
		ResidentAccountID: registrantID,
	}))
}

func asUser(account *models.Account) context.Context {
	return context.WithValue(context.Background(), "user", account)
}

func TestCountAlwaysMatchesListLength(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	sub := createSubAccount(t, mem, "sub1", "main1", false)
	manager := createSubAccount(t, mem, "sub2", "main1", true)

	for i := 0; i < 5; i++ {
		registrant := "main1"
		if i%2 == 0 {
			registrant = "sub1"
		}
		seedReservation(t, mem, fmt.Sprintf("r%d", i), registrant, testToday.AddDate(0, 0, i-2), i%3 != 0, testToday.Add(time.Duration(i)*time.Second))
	}

	for _, account := range []*models.Account{main, sub, manager} {
		list, err := svc.GetVisibleReservations(context.Background(), account, testToday)
		require.NoError(t, err)
		count, err := svc.GetVisibleCount(context.Background(), account, testToday)
		require.NoError(t, err)
		assert.Equal(t, len(list), count, account.ID)
	}
}

func TestMainAccountSeesWholeApartment(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	createSubAccount(t, mem, "sub1", "main1", false)
	createMainAccount(t, mem, "main9", "B2")

	seedReservation(t, mem, "r1", "sub1", testToday, true, testToday)
	seedReservation(t, mem, "r2", "main1", testToday, true, testToday.Add(time.Second))
	seedReservation(t, mem, "r3", "main9", testToday, true, testToday)

	list, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, r := range list {
		assert.NotEqual(t, "main9", r.ResidentAccountID)
	}
}

func TestSubAccountSeesOnlyOwnRows(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	createMainAccount(t, mem, "main1", "A1")
	sub := createSubAccount(t, mem, "sub1", "main1", false)

	seedReservation(t, mem, "r1", "sub1", testToday, true, testToday)
	seedReservation(t, mem, "r2", "main1", testToday, true, testToday)

	list, err := svc.GetVisibleReservations(context.Background(), sub, testToday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}

func TestManagerVisibilityEqualsParent(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	createSubAccount(t, mem, "sub1", "main1", false)
	manager := createSubAccount(t, mem, "sub2", "main1", true)

	seedReservation(t, mem, "r1", "sub1", testToday, true, testToday)
	seedReservation(t, mem, "r2", "main1", testToday.AddDate(0, 0, 3), true, testToday.Add(time.Second))

	parentList, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	managerList, err := svc.GetVisibleReservations(context.Background(), manager, testToday)
	require.NoError(t, err)
	assert.Equal(t, parentList, managerList)
}

func TestVisitDateBoundaryIsInclusive(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")

	seedReservation(t, mem, "today", "main1", testToday, true, testToday)
	seedReservation(t, mem, "yesterday", "main1", testToday.AddDate(0, 0, -1), true, testToday)
	seedReservation(t, mem, "tomorrow", "main1", testToday.AddDate(0, 0, 1), true, testToday)

	list, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"today", "tomorrow"}, ids)
}

func TestUnapprovedExcludedEverywhere(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")

	seedReservation(t, mem, "pending", "main1", testToday.AddDate(0, 0, 5), false, testToday)

	count, err := svc.GetVisibleCount(context.Background(), main, testToday)
	require.NoError(t, err)
	assert.Zero(t, count)

	list, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOrderingNewestFirstWithIDTiebreak(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")

	// createdAt has second granularity upstream; collisions are real
	seedReservation(t, mem, "a", "main1", testToday, true, testToday.Add(time.Second))
	seedReservation(t, mem, "b", "main1", testToday, true, testToday.Add(time.Second))
	seedReservation(t, mem, "c", "main1", testToday, true, testToday.Add(2*time.Second))

	list, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "a", list[2].ID)

	// identical ordered output on repeated calls without intervening writes
	again, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	assert.Equal(t, list, again)
}

func TestUnknownScopeTargetIsInvalidScopeNotEmpty(t *testing.T) {
	svc, _ := newTestReservationService(t, config.ApprovalAuto)

	ghost := &models.Account{ID: "ghost", Role: models.MainAccountRole, IsActive: true}
	_, err := svc.GetVisibleReservations(context.Background(), ghost, testToday)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidScope, errors.AsAppError(err).Type)
}

func TestRegisterScenario_SubRegistrationsRollUpToParent(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	sub1 := createSubAccount(t, mem, "sub1", "main1", false)
	sub2 := createSubAccount(t, mem, "sub2", "main1", false)

	res, err := svc.RegisterReservation(asUser(sub1), &requests.RegisterReservationRequest{
		VehicleNumber: "12가3456",
		VisitorName:   "홍길동",
		VisitDate:     testToday.Format("2006-01-02"),
	}, testToday)
	require.NoError(t, err)
	require.True(t, res.Data.IsApproved)

	mainCount, err := svc.GetVisibleCount(context.Background(), main, testToday)
	require.NoError(t, err)
	sub1Count, err := svc.GetVisibleCount(context.Background(), sub1, testToday)
	require.NoError(t, err)
	assert.Equal(t, 1, mainCount)
	assert.Equal(t, 1, sub1Count)

	mainList, err := svc.GetVisibleReservations(context.Background(), main, testToday)
	require.NoError(t, err)
	sub1List, err := svc.GetVisibleReservations(context.Background(), sub1, testToday)
	require.NoError(t, err)
	require.Len(t, mainList, 1)
	assert.Equal(t, mainList, sub1List)

	_, err = svc.RegisterReservation(asUser(sub2), &requests.RegisterReservationRequest{
		VehicleNumber: "34나5678",
		VisitorName:   "김철수",
		VisitDate:     testToday.Format("2006-01-02"),
	}, testToday)
	require.NoError(t, err)

	sub1Count, err = svc.GetVisibleCount(context.Background(), sub1, testToday)
	require.NoError(t, err)
	mainCount, err = svc.GetVisibleCount(context.Background(), main, testToday)
	require.NoError(t, err)
	assert.Equal(t, 1, sub1Count)
	assert.Equal(t, 2, mainCount)
}

func TestRegisterValidation(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)
	main := createMainAccount(t, mem, "main1", "A1")

	cases := []struct {
		name string
		req  *requests.RegisterReservationRequest
	}{
		{"bad plate", &requests.RegisterReservationRequest{VehicleNumber: "BAD", VisitorName: "홍길동", VisitDate: testToday.Format("2006-01-02")}},
		{"past visit date", &requests.RegisterReservationRequest{VehicleNumber: "12가3456", VisitorName: "홍길동", VisitDate: testToday.AddDate(0, 0, -1).Format("2006-01-02")}},
		{"blank visitor name", &requests.RegisterReservationRequest{VehicleNumber: "12가3456", VisitorName: "   ", VisitDate: testToday.Format("2006-01-02")}},
		{"malformed date", &requests.RegisterReservationRequest{VehicleNumber: "12가3456", VisitorName: "홍길동", VisitDate: "10-03-2025"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RegisterReservation(asUser(main), tc.req, testToday)
			require.Error(t, err)
			assert.Equal(t, errors.ErrValidation, errors.AsAppError(err).Type)
		})
	}
}

func TestRegisterNormalizesPlate(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)
	main := createMainAccount(t, mem, "main1", "A1")

	res, err := svc.RegisterReservation(asUser(main), &requests.RegisterReservationRequest{
		VehicleNumber: " I2가 3456 ",
		VisitorName:   "홍길동",
		VisitDate:     testToday.Format("2006-01-02"),
	}, testToday)
	require.NoError(t, err)
	assert.Equal(t, "12가3456", res.Data.VehicleNumber)
}

func TestManualApprovalFlow(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalManual)

	main := createMainAccount(t, mem, "main1", "A1")
	sub := createSubAccount(t, mem, "sub1", "main1", false)
	manager := createSubAccount(t, mem, "sub2", "main1", true)

	res, err := svc.RegisterReservation(asUser(sub), &requests.RegisterReservationRequest{
		VehicleNumber: "12가3456",
		VisitorName:   "홍길동",
		VisitDate:     testToday.Format("2006-01-02"),
	}, testToday)
	require.NoError(t, err)
	require.False(t, res.Data.IsApproved)
	reservationID := res.Data.ID

	// pending rows are invisible to everyone, including the registrant
	count, err := svc.GetVisibleCount(context.Background(), sub, testToday)
	require.NoError(t, err)
	assert.Zero(t, count)

	// a plain sub account cannot approve
	_, err = svc.ApproveReservation(asUser(sub), &requests.ApproveReservationRequest{ReservationID: reservationID})
	require.Error(t, err)
	assert.Equal(t, errors.ErrPermission, errors.AsAppError(err).Type)

	// a manager can
	approved, err := svc.ApproveReservation(asUser(manager), &requests.ApproveReservationRequest{ReservationID: reservationID})
	require.NoError(t, err)
	assert.True(t, approved.Data.IsApproved)

	count, err = svc.GetVisibleCount(context.Background(), main, testToday)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// approving again is a no-op
	approved, err = svc.ApproveReservation(asUser(main), &requests.ApproveReservationRequest{ReservationID: reservationID})
	require.NoError(t, err)
	assert.True(t, approved.Data.IsApproved)
}

func TestApproveOutsideApartmentIsNotFound(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalManual)

	createMainAccount(t, mem, "main1", "A1")
	other := createMainAccount(t, mem, "main9", "B2")

	seedReservation(t, mem, "r1", "main1", testToday, false, testToday)

	_, err := svc.ApproveReservation(asUser(other), &requests.ApproveReservationRequest{ReservationID: "r1"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrNotFound, errors.AsAppError(err).Type)
}

func TestApartmentlessMainAccountSeesOwnRowsOnly(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	orphan := createMainAccount(t, mem, "main2", "")
	createMainAccount(t, mem, "main1", "A1")

	seedReservation(t, mem, "own", "main2", testToday, true, testToday)
	seedReservation(t, mem, "foreign", "main1", testToday, true, testToday)

	list, err := svc.GetVisibleReservations(context.Background(), orphan, testToday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "own", list[0].ID)
}

func TestListVisitorVehiclesWireFormat(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	sub := createSubAccount(t, mem, "sub1", "main1", false)

	require.NoError(t, mem.CreateReservation(context.Background(), &models.VisitorReservation{
		ID:                "r1",
		VehicleNumber:     "12가3456",
		VisitorName:       "홍길동",
		VisitorPhone:      "010-1234-5678",
		VisitDate:         testToday,
		VisitTime:         "14:30",
		IsApproved:        true,
		CreatedAt:         time.Date(2025, 3, 9, 22, 15, 0, 0, time.UTC),
		ResidentAccountID: "sub1",
	}))

	res, err := svc.ListVisitorVehicles(asUser(main), testToday)
	require.NoError(t, err)
	require.Len(t, res.Data.Vehicles, 1)

	got := res.Data.Vehicles[0]
	assert.Equal(t, "2025-03-10", got.VisitDate)
	assert.Equal(t, "14:30", got.VisitTime)
	assert.Equal(t, "2025-03-10 14:30", got.VisitDatetime)
	assert.Equal(t, "010-1234-5678", got.Contact)
	assert.Equal(t, "sub1", got.RegisteredBy)
	assert.Equal(t, "2025-03-09 22:15", got.CreatedAt)
	// main account may delete anything in its apartment
	assert.True(t, got.CanDelete)

	// the registrant sees its own row as deletable too
	subRes, err := svc.ListVisitorVehicles(asUser(sub), testToday)
	require.NoError(t, err)
	require.Len(t, subRes.Data.Vehicles, 1)
	assert.True(t, subRes.Data.Vehicles[0].CanDelete)
}

func TestDashboardCountMatchesListEndpoint(t *testing.T) {
	svc, mem := newTestReservationService(t, config.ApprovalAuto)

	main := createMainAccount(t, mem, "main1", "A1")
	createSubAccount(t, mem, "sub1", "main1", false)

	seedReservation(t, mem, "r1", "sub1", testToday, true, testToday)
	seedReservation(t, mem, "r2", "main1", testToday.AddDate(0, 0, 1), true, testToday)
	seedReservation(t, mem, "stale", "main1", testToday.AddDate(0, 0, -2), true, testToday)

	listRes, err := svc.ListVisitorVehicles(asUser(main), testToday)
	require.NoError(t, err)
	countRes, err := svc.DashboardCount(asUser(main), testToday)
	require.NoError(t, err)
	assert.Equal(t, len(listRes.Data.Vehicles), countRes.Data.Count)
}
