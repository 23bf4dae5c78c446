package controllers

import (
	"fmt"
	"net/http"
	"time"

	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DashboardOverview struct {
	TodayAppointments []models.Appointment  `json:"todayAppointments"`
	Upcoming          []UpcomingAppointment `json:"upcoming"`
	RecentPayments    []RecentPayment       `json:"recentPayments"`
	TotalClients      int64                 `json:"totalClients"`
	MonthlyRevenue    decimal.Decimal       `json:"monthlyRevenue"`
}

type UpcomingAppointment struct {
	ID         string `json:"id"`
	ClientName string `json:"clientName"`
	Service    string `json:"service"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	When       string `json:"when"` // e.g. "Tomorrow", "3 days"
}

type RecentPayment struct {
	ClientName string          `json:"clientName"`
	Service    string          `json:"service"`
	Amount     decimal.Decimal `json:"amount"`
	PaidOn     string          `json:"paidOn"` // e.g. "Today", "Yesterday"
}

const (
	upcomingDays   = 7
	upcomingLimit  = 7
	recentPayments = 3
)

type DashboardController struct {
	loc *time.Location
	now func() time.Time
}

func NewDashboardController(loc *time.Location) *DashboardController {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardController{loc: loc, now: time.Now}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	now := dc.now().In(dc.loc)
	today := utils.BeginningOfDay(now)

	todays, err := t.Appointments.List(ctx, repository.AppointmentFilter{Date: utils.FormatDate(today)})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	next, err := t.Appointments.List(ctx, repository.AppointmentFilter{
		From:   utils.FormatDate(today.AddDate(0, 0, 1)),
		To:     utils.FormatDate(today.AddDate(0, 0, upcomingDays-1)),
		Status: models.StatusScheduled,
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	upcoming := make([]UpcomingAppointment, 0, upcomingLimit)
	for _, a := range next {
		date, err := utils.ParseDate(a.Date, dc.loc)
		if err != nil {
			continue
		}
		upcoming = append(upcoming, UpcomingAppointment{
			ID:         a.ID.String(),
			ClientName: a.ClientName,
			Service:    serviceName(a),
			Date:       a.Date,
			Time:       a.Time,
			When:       untilLabel(utils.DaysBetween(today, date)),
		})
		if len(upcoming) >= upcomingLimit {
			break
		}
	}

	totalClients, err := t.Clients.Count(ctx)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, dc.loc)
	monthPayments, err := t.Payments.List(ctx, repository.PaymentFilter{
		From: utils.FormatDate(firstOfMonth),
		To:   utils.FormatDate(today),
	})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	latest, err := t.Payments.List(ctx, repository.PaymentFilter{To: utils.FormatDate(today)})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	recent := make([]RecentPayment, 0, recentPayments)
	for _, p := range latest {
		paidOn, err := utils.ParseDate(p.Date, dc.loc)
		if err != nil {
			continue
		}
		recent = append(recent, RecentPayment{
			ClientName: p.ClientName,
			Service:    p.ServiceName,
			Amount:     p.Amount,
			PaidOn:     agoLabel(utils.DaysBetween(paidOn, today)),
		})
		if len(recent) >= recentPayments {
			break
		}
	}

	c.JSON(http.StatusOK, DashboardOverview{
		TodayAppointments: todays,
		Upcoming:          upcoming,
		RecentPayments:    recent,
		TotalClients:      totalClients,
		MonthlyRevenue:    services.TotalRevenue(monthPayments),
	})
}

func serviceName(a models.Appointment) string {
	if a.Service != nil {
		return a.Service.Name
	}
	return ""
}

func untilLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("%d days", days)
	}
}

func agoLabel(days int) string {
	switch days {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}
