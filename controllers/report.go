package controllers

import (
	"net/http"
	"time"

	"easyhora-backend/repository"
	"easyhora-backend/services"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReportController serves the reports page.
type ReportController struct {
	loc *time.Location
	now func() time.Time
}

func NewReportController(loc *time.Location) *ReportController {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportController{loc: loc, now: time.Now}
}

// GetReport aggregates every payment and appointment of the salon.
func (rc *ReportController) GetReport(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	payments, err := t.Payments.List(ctx, repository.PaymentFilter{})
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	appointments, err := t.Appointments.All(ctx)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	catalog, err := t.Services.List(ctx)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	professionals, err := t.Professionals.List(ctx)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	clients, err := t.Clients.Count(ctx)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}

	report := services.BuildReport(services.ReportInput{
		Payments:      payments,
		Appointments:  appointments,
		Services:      catalog,
		Professionals: professionals,
		TotalClients:  int(clients),
		Now:           rc.now().In(rc.loc),
	})
	c.JSON(http.StatusOK, report)
}
