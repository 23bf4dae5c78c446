package services

import (
	"slices"
	"testing"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/models"
	"easyhora-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appointmentAt(date, slot string, professionalID uuid.UUID, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{
		ID:             uuid.New(),
		Date:           date,
		Time:           slot,
		ProfessionalID: &professionalID,
		Status:         status,
	}
}

func TestDailyTemplate(t *testing.T) {
	require.Len(t, DailyTemplate, 17)
	assert.Equal(t, "08:00", DailyTemplate[0])
	assert.Equal(t, "18:00", DailyTemplate[len(DailyTemplate)-1])
	for _, lunch := range []string{"12:00", "12:30", "13:00", "13:30"} {
		assert.False(t, IsTemplateSlot(lunch), lunch)
	}
}

func TestAvailableDatesSkipWeekends(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	for offset := 0; offset < 7; offset++ {
		today := time.Date(2025, 6, 9+offset, 15, 30, 0, 0, loc)

		var dates []time.Time
		for d := range AvailableDates(today) {
			assert.False(t, utils.IsWeekend(d), "weekend %s offered from %s", d, today)
			dates = append(dates, d)
		}

		require.NotEmpty(t, dates)
		assert.True(t, dates[0].After(today), "first date must be after today")
		last := utils.BeginningOfDay(today).AddDate(0, 0, BookingWindowDays)
		assert.False(t, dates[len(dates)-1].After(last))
		assert.GreaterOrEqual(t, len(dates), 20)
		assert.LessOrEqual(t, len(dates), 22)
	}
}

func TestAvailableDatesRestartable(t *testing.T) {
	today := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	seq := AvailableDates(today)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// stopping early must not break the next pass
	for range seq {
		break
	}
	assert.Equal(t, first, slices.Collect(seq))

	assert.True(t, IsAvailableDate(today, "2025-06-11"))
	assert.False(t, IsAvailableDate(today, "2025-06-10"))
	assert.False(t, IsAvailableDate(today, "2025-06-14"))
}

// Scenario A
func TestAvailableSlotsExcludesScheduled(t *testing.T) {
	ana := uuid.New()
	appointments := []models.Appointment{appointmentAt("2025-06-10", "09:00", ana, models.StatusScheduled)}

	slots := AvailableSlots(DailyTemplate, appointments, "2025-06-10", ana)

	assert.NotContains(t, slots, "09:00")
	assert.Len(t, slots, len(DailyTemplate)-1)
	for _, s := range DailyTemplate {
		if s != "09:00" {
			assert.Contains(t, slots, s)
		}
	}
}

func TestAvailableSlotsIsPerProfessional(t *testing.T) {
	ana, bia := uuid.New(), uuid.New()
	appointments := []models.Appointment{
		appointmentAt("2025-06-10", "09:00", ana, models.StatusScheduled),
		appointmentAt("2025-06-10", "10:00", ana, models.StatusCancelled),
		appointmentAt("2025-06-10", "11:00", ana, models.StatusCompleted),
		appointmentAt("2025-06-11", "14:00", ana, models.StatusScheduled),
	}

	// a slot is free iff no scheduled appointment holds (date, slot, professional)
	for _, prof := range []uuid.UUID{ana, bia} {
		slots := AvailableSlots(DailyTemplate, appointments, "2025-06-10", prof)
		for _, s := range DailyTemplate {
			held := false
			for _, a := range appointments {
				if a.HoldsSlot("2025-06-10", s, prof) {
					held = true
				}
			}
			assert.Equal(t, !held, slices.Contains(slots, s), "slot %s", s)
		}
	}

	assert.Contains(t, AvailableSlots(DailyTemplate, appointments, "2025-06-10", bia), "09:00")
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	ana := uuid.New()
	appointments := []models.Appointment{
		appointmentAt("2025-06-10", "09:00", ana, models.StatusScheduled),
		appointmentAt("2025-06-10", "15:30", ana, models.StatusScheduled),
	}

	first := AvailableSlots(DailyTemplate, appointments, "2025-06-10", ana)
	second := AvailableSlots(DailyTemplate, appointments, "2025-06-10", ana)
	assert.Equal(t, first, second)
	assert.Len(t, DailyTemplate, 17, "template must not be mutated")
}

// Scenario B
func TestValidateBookingBlockedDate(t *testing.T) {
	ana := uuid.New()
	blocked := map[string]struct{}{"2025-06-11": {}}

	err := ValidateBooking(blocked, nil, "2025-06-11", "09:00", ana)
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked))

	// blocked wins even over an occupied slot
	occupied := []models.Appointment{appointmentAt("2025-06-11", "09:00", ana, models.StatusScheduled)}
	err = ValidateBooking(blocked, occupied, "2025-06-11", "09:00", ana)
	assert.True(t, apperror.IsCode(err, apperror.CodeDateBlocked))
}

func TestValidateBooking(t *testing.T) {
	ana, bia := uuid.New(), uuid.New()
	appointments := []models.Appointment{
		appointmentAt("2025-06-10", "09:00", ana, models.StatusScheduled),
		appointmentAt("2025-06-10", "10:00", ana, models.StatusCancelled),
	}

	tests := []struct {
		name         string
		slot         string
		professional uuid.UUID
		code         string
	}{
		{"occupied", "09:00", ana, apperror.CodeSlotOccupied},
		{"other professional", "09:00", bia, ""},
		{"cancelled frees slot", "10:00", ana, ""},
		{"lunch break", "12:30", ana, apperror.CodeValidation},
		{"free", "16:00", ana, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBooking(nil, appointments, "2025-06-10", tt.slot, tt.professional)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
		})
	}
}
