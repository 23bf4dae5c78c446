package services

import (
	"testing"
	"time"

	"easyhora-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payment(date, amount string, method models.PaymentMethod) models.Payment {
	return models.Payment{ID: uuid.New(), Date: date, Amount: decimal.RequireFromString(amount), Method: method}
}

func lineFor(t *testing.T, lines []RevenueLine, id uuid.UUID) RevenueLine {
	t.Helper()
	for _, l := range lines {
		if l.ID == id {
			return l
		}
	}
	require.FailNow(t, "line not found", id.String())
	return RevenueLine{}
}

func TestTotalsByMethodSumToTotal(t *testing.T) {
	payments := []models.Payment{
		payment("2025-06-01", "50.00", models.MethodCash),
		payment("2025-06-02", "80.10", models.MethodCredit),
		payment("2025-06-02", "19.90", models.MethodCredit),
		payment("2025-06-03", "35.00", models.MethodInstantTransfer),
	}

	total := TotalRevenue(payments)
	assert.True(t, total.Equal(decimal.RequireFromString("185.00")), total.String())

	byMethod := TotalsByMethod(payments)
	require.Len(t, byMethod, len(models.PaymentMethods), "every method is listed")

	sum := decimal.Zero
	for _, m := range byMethod {
		sum = sum.Add(m.Total)
	}
	assert.True(t, sum.Equal(total))

	assert.Equal(t, models.MethodDebit, byMethod[1].Method)
	assert.True(t, byMethod[1].Total.IsZero())
	assert.Equal(t, 2, byMethod[2].Payments)
}

func TestTotalRevenueIsExact(t *testing.T) {
	var payments []models.Payment
	for i := 0; i < 10; i++ {
		payments = append(payments, payment("2025-06-01", "0.10", models.MethodCash))
	}
	assert.Equal(t, "1", TotalRevenue(payments).String())
	assert.True(t, TotalRevenue(nil).IsZero())
}

func TestRevenueByService(t *testing.T) {
	corte := models.Service{ID: uuid.New(), Name: "Corte"}
	escova := models.Service{ID: uuid.New(), Name: "Escova"}
	removed := uuid.New()

	p1 := payment("2025-06-01", "50.00", models.MethodCash)
	p1.ServiceID = &corte.ID
	p2 := payment("2025-06-02", "50.00", models.MethodCash)
	p2.ServiceID = &corte.ID
	p3 := payment("2025-06-02", "30.00", models.MethodCash)
	p3.ServiceID, p3.ServiceName = &removed, "Hidratação"

	appointments := []models.Appointment{{ID: uuid.New(), ServiceID: escova.ID}}

	lines := RevenueByService([]models.Payment{p1, p2, p3}, appointments, []models.Service{corte, escova})
	require.Len(t, lines, 3)

	assert.Equal(t, corte.ID, lines[0].ID, "sorted by revenue")
	assert.Equal(t, 2, lines[0].Payments)
	assert.True(t, lines[0].Revenue.Equal(decimal.NewFromInt(100)))

	gone := lineFor(t, lines, removed)
	assert.Equal(t, "Hidratação", gone.Name)

	idle := lineFor(t, lines, escova.ID)
	assert.True(t, idle.Revenue.IsZero())
	assert.Equal(t, 1, idle.Appointments)
}

func TestRevenueByProfessional(t *testing.T) {
	ana := models.Professional{ID: uuid.New(), Name: "Ana"}
	bia := models.Professional{ID: uuid.New(), Name: "Bia"}
	client, service := uuid.New(), uuid.New()

	withAna := models.Appointment{ID: uuid.New(), ClientID: &client, ServiceID: service, ProfessionalID: &ana.ID}
	withBia := models.Appointment{ID: uuid.New(), ClientID: &client, ServiceID: service, ProfessionalID: &bia.ID}
	appointments := []models.Appointment{withAna, withBia}

	linked := payment("2025-06-01", "70.00", models.MethodCash)
	linked.AppointmentID = &withBia.ID

	// no link: falls back to the first appointment with the same client and service
	matched := payment("2025-06-01", "40.00", models.MethodCash)
	matched.ClientID, matched.ServiceID = &client, &service

	orphan := payment("2025-06-01", "99.00", models.MethodCash)

	lines := RevenueByProfessional(appointments, []models.Payment{linked, matched, orphan}, []models.Professional{ana, bia})
	require.Len(t, lines, 2)

	a := lineFor(t, lines, ana.ID)
	assert.True(t, a.Revenue.Equal(decimal.NewFromInt(40)), a.Revenue.String())
	assert.Equal(t, 1, a.Appointments)

	b := lineFor(t, lines, bia.ID)
	assert.True(t, b.Revenue.Equal(decimal.NewFromInt(70)), b.Revenue.String())
	assert.Equal(t, bia.ID, lines[0].ID)
}

func TestWindowedTotals(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	payments := []models.Payment{
		payment("2025-06-15", "10.00", models.MethodCash), // today
		payment("2025-06-08", "20.00", models.MethodCash), // 7 days back, still in the week
		payment("2025-06-07", "40.00", models.MethodCash), // month only
		payment("2025-05-15", "80.00", models.MethodCash), // first day of the month window
		payment("2025-05-14", "160.00", models.MethodCash),
		payment("2025-06-16", "320.00", models.MethodCash), // future
		payment("15/06/2025", "640.00", models.MethodCash), // unreadable
	}

	w := WindowedTotals(payments, now)
	assert.Equal(t, "10", w.Today.String())
	assert.Equal(t, "30", w.Week.String())
	assert.Equal(t, "150", w.Month.String())
}

func TestCalculateGrowthPercentage(t *testing.T) {
	d := decimal.RequireFromString
	assert.Equal(t, 0.0, calculateGrowthPercentage(d("0"), d("0")))
	assert.Equal(t, 100.0, calculateGrowthPercentage(d("10"), d("0")))
	assert.Equal(t, 50.0, calculateGrowthPercentage(d("150"), d("100")))
	assert.Equal(t, -25.0, calculateGrowthPercentage(d("75"), d("100")))
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	corte := models.Service{ID: uuid.New(), Name: "Corte"}
	ana := models.Professional{ID: uuid.New(), Name: "Ana"}

	appointments := []models.Appointment{
		{ID: uuid.New(), Date: "2025-06-15", ServiceID: corte.ID, ProfessionalID: &ana.ID, Status: models.StatusScheduled},
		{ID: uuid.New(), Date: "2025-06-14", ServiceID: corte.ID, Status: models.StatusCompleted},
		{ID: uuid.New(), Date: "2025-06-13", ServiceID: corte.ID, Status: models.StatusCancelled},
	}
	payments := []models.Payment{
		payment("2025-06-10", "60.00", models.MethodCash),
		payment("2025-06-11", "90.00", models.MethodDebit),
		payment("2025-05-20", "100.00", models.MethodCash),
		payment("2025-05-21", "50.00", models.MethodCredit),
	}
	in := ReportInput{
		Payments:      payments,
		Appointments:  appointments,
		Services:      []models.Service{corte},
		Professionals: []models.Professional{ana},
		TotalClients:  7,
		Now:           now,
	}
	before := len(in.Payments)

	r := BuildReport(in)

	assert.Equal(t, "300", r.TotalRevenue.String())
	assert.Equal(t, "75", r.AverageTicket.String())
	assert.Equal(t, 0.0, r.MonthGrowth, "150 this month against 150 last month")
	assert.Equal(t, AppointmentCounts{Total: 3, Today: 1, Scheduled: 1, Completed: 1, Cancelled: 1}, r.Appointments)
	assert.Equal(t, 7, r.TotalClients)
	assert.Len(t, r.ByService, 1)
	assert.Len(t, r.ByProfessional, 1)
	assert.Equal(t, before, len(in.Payments))

	empty := BuildReport(ReportInput{Now: now})
	assert.True(t, empty.TotalRevenue.IsZero())
	assert.True(t, empty.AverageTicket.IsZero())
	assert.Len(t, empty.ByMethod, len(models.PaymentMethods))
}
