package services

import (
	"iter"
	"slices"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/models"
	"easyhora-backend/utils"

	"github.com/google/uuid"
)

// BookingWindowDays is how far ahead the public page offers dates.
const BookingWindowDays = 30

// DailyTemplate is the fixed list of bookable times, with a lunch break
// between 11:30 and 14:00. It is the same for every date and professional.
var DailyTemplate = []string{
	"08:00", "08:30", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
}

// IsTemplateSlot reports whether slot is one of the template times.
func IsTemplateSlot(slot string) bool {
	return slices.Contains(DailyTemplate, slot)
}

// AvailableDates yields the weekdays from tomorrow up to BookingWindowDays
// after today. The sequence can be ranged over any number of times.
func AvailableDates(today time.Time) iter.Seq[time.Time] {
	start := utils.BeginningOfDay(today)
	return func(yield func(time.Time) bool) {
		for i := 1; i <= BookingWindowDays; i++ {
			day := start.AddDate(0, 0, i)
			if utils.IsWeekend(day) {
				continue
			}
			if !yield(day) {
				return
			}
		}
	}
}

// IsAvailableDate reports whether date is offered by AvailableDates(today).
func IsAvailableDate(today time.Time, date string) bool {
	for d := range AvailableDates(today) {
		if utils.FormatDate(d) == date {
			return true
		}
	}
	return false
}

// AvailableSlots returns template in order, minus the times held by scheduled
// appointments of professionalID on date.
func AvailableSlots(template []string, appointments []models.Appointment, date string, professionalID uuid.UUID) []string {
	occupied := make(map[string]struct{})
	for _, a := range appointments {
		if a.Date != date || a.Status != models.StatusScheduled {
			continue
		}
		if a.ProfessionalID == nil || *a.ProfessionalID != professionalID {
			continue
		}
		occupied[a.Time] = struct{}{}
	}

	free := make([]string, 0, len(template))
	for _, slot := range template {
		if _, taken := occupied[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free
}

// ValidateBooking checks one (date, time, professional) request against the
// blocked dates and the appointments already loaded for that date. A blocked
// date fails first, whatever the slot occupancy.
func ValidateBooking(blocked map[string]struct{}, appointments []models.Appointment, date, slot string, professionalID uuid.UUID) error {
	if _, ok := blocked[date]; ok {
		return apperror.NewDateBlocked(date)
	}
	if !IsTemplateSlot(slot) {
		return apperror.NewValidation("time is not a bookable slot").WithDetail("time", slot)
	}
	for _, a := range appointments {
		if a.HoldsSlot(date, slot, professionalID) {
			return apperror.NewSlotOccupied(date, slot)
		}
	}
	return nil
}
