package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"easyhora-backend/models"
	"easyhora-backend/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []OutboundMessage
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg OutboundMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("SM%03d", len(f.sent)), nil
}

func (f *fakeNotifier) messages() []OutboundMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OutboundMessage(nil), f.sent...)
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []EmailMessage
}

func (f *fakeMailer) SendEmail(_ context.Context, msg EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	require.NoError(t, db.Create(value).Error)
}

func scheduled(f testutil.Fixture, client *models.Client, date, slot string) *models.Appointment {
	a := &models.Appointment{
		SalonID:        f.Salon.ID,
		ServiceID:      f.Service.ID,
		ProfessionalID: &f.Professional.ID,
		Date:           date,
		Time:           slot,
		Status:         models.StatusScheduled,
		ClientName:     "Walk-in",
	}
	if client != nil {
		a.ClientID = &client.ID
		a.ClientName = client.Name
	}
	return a
}
