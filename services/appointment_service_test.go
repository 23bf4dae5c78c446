package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/cache"
	"easyhora-backend/logger"
	"easyhora-backend/metrics"
	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/testutil"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type lifecycleEnv struct {
	db      *gorm.DB
	tenant  *repository.Tenant
	fixture testutil.Fixture
	svc     *AppointmentService
}

func newLifecycleEnv(t *testing.T) lifecycleEnv {
	t.Helper()
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, "Studio Ana")
	store := repository.NewStore(db, nil, logger.Nop())
	svc := NewAppointmentService(logger.Nop(), nil).
		WithClock(func() time.Time { return time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC) })
	return lifecycleEnv{db: db, tenant: store.ForSalon(f.Salon.ID), fixture: f, svc: svc}
}

func (e lifecycleEnv) request(date, slot string) NewAppointment {
	return NewAppointment{
		ClientID:       &e.fixture.Client.ID,
		ServiceID:      e.fixture.Service.ID,
		ProfessionalID: &e.fixture.Professional.ID,
		Date:           date,
		Time:           slot,
	}
}

func (e lifecycleEnv) countAppointments(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Appointment{}).Count(&n).Error)
	return n
}

func TestCreateAppointment(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	a, err := env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "09:00"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, a.Status)
	assert.Equal(t, "Maria", a.ClientName, "client name is copied from the client record")

	slots, err := env.svc.Slots(ctx, env.tenant, "2025-06-10", env.fixture.Professional.ID)
	require.NoError(t, err)
	assert.NotContains(t, slots, "09:00")
	assert.Len(t, slots, len(DailyTemplate)-1)
}

// Scenario C
func TestCreateRequiresClientServiceDate(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	noClient := env.request("2025-06-10", "09:00")
	noClient.ClientID = nil
	noClient.ClientName = "   "

	noService := env.request("2025-06-10", "09:00")
	noService.ServiceID = uuid.Nil

	noDate := env.request("", "09:00")

	badDate := env.request("10/06/2025", "09:00")

	for name, req := range map[string]NewAppointment{
		"client": noClient, "service": noService, "date": noDate, "date format": badDate,
	} {
		_, err := env.svc.Create(ctx, env.tenant, req)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "%s: got %v", name, err)
	}
	assert.Zero(t, env.countAppointments(t))
}

func TestCreateWithDenormalizedClientName(t *testing.T) {
	env := newLifecycleEnv(t)

	req := env.request("2025-06-10", "")
	req.ClientID = nil
	req.ClientName = "Walk-in"
	req.ProfessionalID = nil

	a, err := env.svc.Create(context.Background(), env.tenant, req)
	require.NoError(t, err)
	assert.Nil(t, a.ClientID)
	assert.Equal(t, "Walk-in", a.ClientName)
}

// Scenario B
func TestCreateOnBlockedDate(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	_, err := env.svc.BlockDate(ctx, env.tenant, "2025-06-11", "feriado")
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.tenant, env.request("2025-06-11", "09:00"))
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked), "got %v", err)

	noTime := env.request("2025-06-11", "")
	noTime.ProfessionalID = nil
	_, err = env.svc.Create(ctx, env.tenant, noTime)
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked), "got %v", err)

	assert.Zero(t, env.countAppointments(t))
}

func TestCreateOnBlockedDateWithStaleCache(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, "Studio Ana")
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	tc := cache.NewRedisCache(rc, time.Minute)
	tenant := repository.NewStore(db, tc, logger.Nop()).ForSalon(f.Salon.ID)
	svc := NewAppointmentService(logger.Nop(), nil)
	ctx := context.Background()

	_, err := svc.BlockDate(ctx, tenant, "2025-06-11", "feriado")
	require.NoError(t, err)
	// a reader that loaded the list before the block writes it back afterwards
	require.NoError(t, tc.Set(ctx, f.Salon.ID, cache.KeyBlockedDates, []models.BlockedDate{}))

	req := NewAppointment{
		ClientID:       &f.Client.ID,
		ServiceID:      f.Service.ID,
		ProfessionalID: &f.Professional.ID,
		Date:           "2025-06-11",
		Time:           "09:00",
	}
	_, err = svc.Create(ctx, tenant, req)
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked), "got %v", err)

	req.ProfessionalID = nil
	req.Time = ""
	_, err = svc.Create(ctx, tenant, req)
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked), "got %v", err)
}

func TestCreateRejectsOffTemplateTime(t *testing.T) {
	env := newLifecycleEnv(t)

	req := env.request("2025-06-10", "13:00")
	req.ProfessionalID = nil
	_, err := env.svc.Create(context.Background(), env.tenant, req)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation), "got %v", err)
	assert.Zero(t, env.countAppointments(t))

	req.Time = "14:00"
	_, err = env.svc.Create(context.Background(), env.tenant, req)
	require.NoError(t, err)
}

func TestBlockDateAppends(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	_, err := env.svc.BlockDate(ctx, env.tenant, "2025-06-11", "")
	require.NoError(t, err)
	_, err = env.svc.BlockDate(ctx, env.tenant, "2025-06-11", "")
	require.NoError(t, err)

	rows, err := env.tenant.BlockedDates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = env.svc.BlockDate(ctx, env.tenant, "june 11", "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreateOccupiedSlot(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "09:00"))
	require.NoError(t, err)

	_, err = env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "09:00"))
	assert.True(t, apperror.IsCode(err, apperror.CodeSlotOccupied), "got %v", err)

	other := models.Professional{SalonID: env.fixture.Salon.ID, Name: "Bia"}
	require.NoError(t, env.db.Create(&other).Error)
	req := env.request("2025-06-10", "09:00")
	req.ProfessionalID = &other.ID
	_, err = env.svc.Create(ctx, env.tenant, req)
	assert.NoError(t, err)
}

// Scenario D: both requests may pass the pre-check; the unique index lets only one in.
func TestConcurrentBookingsSameSlot(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "14:00"))
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.True(t, apperror.IsCode(err, apperror.CodeSlotOccupied), "got %v", err)
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), env.countAppointments(t))
}

func TestTransitions(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	done, err := env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "09:00"))
	require.NoError(t, err)
	cancelled, err := env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "09:30"))
	require.NoError(t, err)

	got, err := env.svc.Transition(ctx, env.tenant, done.ID, models.StatusCompleted, "ignored")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Nil(t, got.CancellationReason, "reason is only kept for cancellations")
	require.NotNil(t, got.CompletedAt)

	got, err = env.svc.Transition(ctx, env.tenant, cancelled.ID, models.StatusCancelled, " cliente desmarcou ")
	require.NoError(t, err)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "cliente desmarcou", *got.CancellationReason)
	assert.NotNil(t, got.CancelledAt)

	// terminal states are final
	for _, id := range []uuid.UUID{done.ID, cancelled.ID} {
		for _, to := range []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled} {
			_, err := env.svc.Transition(ctx, env.tenant, id, to, "")
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition), "got %v", err)
		}
	}

	_, err = env.svc.Transition(ctx, env.tenant, done.ID, models.StatusScheduled, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	_, err = env.svc.Transition(ctx, env.tenant, uuid.New(), models.StatusCompleted, "")
	assert.True(t, apperror.IsCode(err, apperror.CodeNotFound))
}

func TestConcurrentTransitionsOnlyOneWins(t *testing.T) {
	env := newLifecycleEnv(t)
	ctx := context.Background()

	a, err := env.svc.Create(ctx, env.tenant, env.request("2025-06-10", "16:00"))
	require.NoError(t, err)

	targets := []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusCompleted}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to models.AppointmentStatus) {
			defer wg.Done()
			_, errs[i] = env.svc.Transition(ctx, env.tenant, a.ID, to, "")
		}(i, to)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, apperror.IsCode(err, apperror.CodeInvalidTransition), "got %v", err)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestCreateCountsOutcomes(t *testing.T) {
	db := testutil.NewDB(t)
	f := testutil.Seed(t, db, "Studio Ana")
	reg := prometheus.NewRegistry()
	svc := NewAppointmentService(logger.Nop(), metrics.NewBookingMetrics(reg))
	tenant := repository.NewStore(db, nil, logger.Nop()).ForSalon(f.Salon.ID)

	_, err := svc.Create(context.Background(), tenant, NewAppointment{ServiceID: f.Service.ID, Date: "2025-06-10"})
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
