package services

import (
	"sort"
	"time"

	"easyhora-backend/models"
	"easyhora-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RevenueLine is one row of a per-service or per-professional breakdown.
type RevenueLine struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Appointments int             `json:"appointments"`
	Payments     int             `json:"payments"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type MethodTotal struct {
	Method   models.PaymentMethod `json:"method"`
	Payments int                  `json:"payments"`
	Total    decimal.Decimal      `json:"total"`
}

type WindowTotals struct {
	Today decimal.Decimal `json:"today"`
	Week  decimal.Decimal `json:"week"`
	Month decimal.Decimal `json:"month"`
}

type AppointmentCounts struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// Report is the salon's reporting summary.
type Report struct {
	GeneratedAt    time.Time         `json:"generated_at"`
	TotalRevenue   decimal.Decimal   `json:"total_revenue"`
	AverageTicket  decimal.Decimal   `json:"average_ticket"`
	Windows        WindowTotals      `json:"windows"`
	MonthGrowth    float64           `json:"month_growth"`
	ByService      []RevenueLine     `json:"by_service"`
	ByProfessional []RevenueLine     `json:"by_professional"`
	ByMethod       []MethodTotal     `json:"by_method"`
	Appointments   AppointmentCounts `json:"appointments"`
	TotalClients   int               `json:"total_clients"`
}

// ReportInput is the already loaded, salon-scoped data a report is built from.
type ReportInput struct {
	Payments      []models.Payment
	Appointments  []models.Appointment
	Services      []models.Service
	Professionals []models.Professional
	TotalClients  int
	Now           time.Time
}

// BuildReport aggregates in. It never mutates its input.
func BuildReport(in ReportInput) Report {
	total := TotalRevenue(in.Payments)

	avg := decimal.Zero
	if len(in.Payments) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(in.Payments)))).Round(2)
	}

	current, previous := monthRevenue(in.Payments, in.Now)

	return Report{
		GeneratedAt:    in.Now,
		TotalRevenue:   total,
		AverageTicket:  avg,
		Windows:        WindowedTotals(in.Payments, in.Now),
		MonthGrowth:    calculateGrowthPercentage(current, previous),
		ByService:      RevenueByService(in.Payments, in.Appointments, in.Services),
		ByProfessional: RevenueByProfessional(in.Appointments, in.Payments, in.Professionals),
		ByMethod:       TotalsByMethod(in.Payments),
		Appointments:   CountAppointments(in.Appointments, in.Now),
		TotalClients:   in.TotalClients,
	}
}

func TotalRevenue(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// TotalsByMethod returns one entry per known method, in display order. Payments
// with an unknown method are not counted.
func TotalsByMethod(payments []models.Payment) []MethodTotal {
	index := make(map[models.PaymentMethod]int, len(models.PaymentMethods))
	out := make([]MethodTotal, len(models.PaymentMethods))
	for i, m := range models.PaymentMethods {
		index[m] = i
		out[i] = MethodTotal{Method: m, Total: decimal.Zero}
	}
	for _, p := range payments {
		i, ok := index[p.Method]
		if !ok {
			continue
		}
		out[i].Payments++
		out[i].Total = out[i].Total.Add(p.Amount)
	}
	return out
}

// RevenueByService groups payments by service id. Every catalog service is
// listed; payments for a service no longer in the catalog get their own line
// under the name recorded on the payment.
func RevenueByService(payments []models.Payment, appointments []models.Appointment, services []models.Service) []RevenueLine {
	lines := make(map[uuid.UUID]*RevenueLine, len(services))
	for _, s := range services {
		lines[s.ID] = &RevenueLine{ID: s.ID, Name: s.Name, Revenue: decimal.Zero}
	}
	for _, a := range appointments {
		if line, ok := lines[a.ServiceID]; ok {
			line.Appointments++
		}
	}
	for _, p := range payments {
		if p.ServiceID == nil {
			continue
		}
		line, ok := lines[*p.ServiceID]
		if !ok {
			line = &RevenueLine{ID: *p.ServiceID, Name: p.ServiceName, Revenue: decimal.Zero}
			lines[*p.ServiceID] = line
		}
		line.Payments++
		line.Revenue = line.Revenue.Add(p.Amount)
	}
	return sortLines(lines)
}

// RevenueByProfessional counts appointments per professional and attributes a
// payment to the professional of its appointment. Without an explicit
// appointment link, the first appointment with the same client and service is used.
func RevenueByProfessional(appointments []models.Appointment, payments []models.Payment, professionals []models.Professional) []RevenueLine {
	lines := make(map[uuid.UUID]*RevenueLine, len(professionals))
	for _, p := range professionals {
		lines[p.ID] = &RevenueLine{ID: p.ID, Name: p.Name, Revenue: decimal.Zero}
	}

	byID := make(map[uuid.UUID]models.Appointment, len(appointments))
	for _, a := range appointments {
		byID[a.ID] = a
		if a.ProfessionalID == nil {
			continue
		}
		if line, ok := lines[*a.ProfessionalID]; ok {
			line.Appointments++
		}
	}

	for _, p := range payments {
		a, ok := matchAppointment(p, byID, appointments)
		if !ok || a.ProfessionalID == nil {
			continue
		}
		line, ok := lines[*a.ProfessionalID]
		if !ok {
			continue
		}
		line.Payments++
		line.Revenue = line.Revenue.Add(p.Amount)
	}
	return sortLines(lines)
}

func matchAppointment(p models.Payment, byID map[uuid.UUID]models.Appointment, appointments []models.Appointment) (models.Appointment, bool) {
	if p.AppointmentID != nil {
		a, ok := byID[*p.AppointmentID]
		return a, ok
	}
	if p.ClientID == nil || p.ServiceID == nil {
		return models.Appointment{}, false
	}
	for _, a := range appointments {
		if a.ClientID != nil && *a.ClientID == *p.ClientID && a.ServiceID == *p.ServiceID {
			return a, true
		}
	}
	return models.Appointment{}, false
}

// WindowedTotals sums payments dated today, in the last 7 days and in the last
// month, all ending now. Payments with an unreadable date count only towards
// the overall total.
func WindowedTotals(payments []models.Payment, now time.Time) WindowTotals {
	today := utils.BeginningOfDay(now)
	weekStart := today.AddDate(0, 0, -7)
	monthStart := today.AddDate(0, -1, 0)

	out := WindowTotals{Today: decimal.Zero, Week: decimal.Zero, Month: decimal.Zero}
	for _, p := range payments {
		d, err := utils.ParseDate(p.Date, now.Location())
		if err != nil || d.After(now) {
			continue
		}
		if d.Equal(today) {
			out.Today = out.Today.Add(p.Amount)
		}
		if !d.Before(weekStart) {
			out.Week = out.Week.Add(p.Amount)
		}
		if !d.Before(monthStart) {
			out.Month = out.Month.Add(p.Amount)
		}
	}
	return out
}

func CountAppointments(appointments []models.Appointment, now time.Time) AppointmentCounts {
	today := utils.FormatDate(now)
	out := AppointmentCounts{Total: len(appointments)}
	for _, a := range appointments {
		if a.Date == today {
			out.Today++
		}
		switch a.Status {
		case models.StatusScheduled:
			out.Scheduled++
		case models.StatusCompleted:
			out.Completed++
		case models.StatusCancelled:
			out.Cancelled++
		}
	}
	return out
}

// monthRevenue returns the revenue of the calendar month of now and of the month before.
func monthRevenue(payments []models.Payment, now time.Time) (current, previous decimal.Decimal) {
	year, month, _ := now.Date()
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	firstOfLast := firstOfMonth.AddDate(0, -1, 0)
	firstOfNext := firstOfMonth.AddDate(0, 1, 0)

	current, previous = decimal.Zero, decimal.Zero
	for _, p := range payments {
		d, err := utils.ParseDate(p.Date, now.Location())
		if err != nil {
			continue
		}
		switch {
		case !d.Before(firstOfMonth) && d.Before(firstOfNext):
			current = current.Add(p.Amount)
		case !d.Before(firstOfLast) && d.Before(firstOfMonth):
			previous = previous.Add(p.Amount)
		}
	}
	return current, previous
}

func calculateGrowthPercentage(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		return 100
	}
	growth, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return growth
}

func sortLines(lines map[uuid.UUID]*RevenueLine) []RevenueLine {
	out := make([]RevenueLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
