package repository

import (
	"context"
	"fmt"
	"strings"

	"easyhora-backend/cache"
	"easyhora-backend/models"
)

type BlockedDateRepository struct {
	scope
}

// List returns every block row, oldest first. Repeated dates are kept.
func (r *BlockedDateRepository) List(ctx context.Context) ([]models.BlockedDate, error) {
	return cached(ctx, r.scope, cache.KeyBlockedDates, func() ([]models.BlockedDate, error) {
		var out []models.BlockedDate
		if err := r.query(ctx).Order("date").Order("created_at").Find(&out).Error; err != nil {
			return nil, fmt.Errorf("list blocked dates: %w", err)
		}
		return out, nil
	})
}

// Set returns the distinct blocked dates.
func (r *BlockedDateRepository) Set(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		set[row.Date] = struct{}{}
	}
	return set, nil
}

// Contains reports whether date is blocked. It reads the database directly so
// a date blocked a moment ago is never hidden by a stale cached list.
func (r *BlockedDateRepository) Contains(ctx context.Context, date string) (bool, error) {
	var n int64
	if err := r.query(ctx).Model(&models.BlockedDate{}).Where("date = ?", date).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check blocked date: %w", err)
	}
	return n > 0, nil
}

func (r *BlockedDateRepository) Add(ctx context.Context, date, reason string) (*models.BlockedDate, error) {
	b := &models.BlockedDate{SalonID: r.salonID, Date: date, Reason: strings.TrimSpace(reason)}
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, translate(err, "blocked date")
	}
	r.invalidate(ctx, cache.KeyBlockedDates)
	return b, nil
}
