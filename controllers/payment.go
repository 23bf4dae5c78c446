package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"easyhora-backend/models"
	"easyhora-backend/repository"
	"easyhora-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentInput is shared by create and update. Date defaults to today.
type PaymentInput struct {
	Date          string          `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" binding:"required"`
	ClientID      *string         `json:"client_id"`
	ClientName    string          `json:"client_name"`
	ServiceID     *string         `json:"service_id"`
	ServiceName   string          `json:"service_name"`
	AppointmentID *string         `json:"appointment_id"`
	Notes         string          `json:"notes"`
}

type PaymentController struct {
	loc *time.Location
	now func() time.Time
}

func NewPaymentController(loc *time.Location) *PaymentController {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentController{loc: loc, now: time.Now}
}

func (pc *PaymentController) GetPayments(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	filter := repository.PaymentFilter{From: c.Query("from"), To: c.Query("to")}
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if err := utils.ValidateDate(d); err != nil {
			utils.RespondWithAppError(c, err)
			return
		}
	}
	if raw := c.Query("method"); raw != "" {
		method := models.PaymentMethod(raw)
		if !method.Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
			return
		}
		filter.Method = method
	}

	payments, err := t.Payments.List(c.Request.Context(), filter)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (pc *PaymentController) GetPayment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := t.Payments.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (pc *PaymentController) CreatePayment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	var input PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	var payment models.Payment
	if !pc.apply(c, t, &input, &payment) {
		return
	}
	if err := t.Payments.Create(c.Request.Context(), &payment); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (pc *PaymentController) UpdatePayment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input PaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := t.Payments.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	if !pc.apply(c, t, &input, payment) {
		return
	}
	if err := t.Payments.Save(c.Request.Context(), payment); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (pc *PaymentController) DeletePayment(c *gin.Context) {
	t, ok := tenantFrom(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := t.Payments.Delete(c.Request.Context(), id); err != nil {
		utils.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully"})
}

// apply validates input and copies it onto p. Linked client, service and
// appointment must belong to the salon; their names fill blank display fields.
func (pc *PaymentController) apply(c *gin.Context, t *repository.Tenant, input *PaymentInput, p *models.Payment) bool {
	if !input.Amount.IsPositive() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount must be greater than zero")
		return false
	}
	method := models.PaymentMethod(input.Method)
	if !method.Valid() {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid payment method")
		return false
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = utils.FormatDate(pc.now().In(pc.loc))
	}
	if err := utils.ValidateDate(date); err != nil {
		utils.RespondWithAppError(c, err)
		return false
	}

	clientID, ok := optionalUUID(c, "client_id", input.ClientID)
	if !ok {
		return false
	}
	serviceID, ok := optionalUUID(c, "service_id", input.ServiceID)
	if !ok {
		return false
	}
	appointmentID, ok := optionalUUID(c, "appointment_id", input.AppointmentID)
	if !ok {
		return false
	}

	p.Date = date
	p.Amount = input.Amount.Round(2)
	p.Method = method
	p.ClientID = clientID
	p.ClientName = strings.TrimSpace(input.ClientName)
	p.ServiceID = serviceID
	p.ServiceName = strings.TrimSpace(input.ServiceName)
	p.AppointmentID = appointmentID
	p.Notes = input.Notes

	if err := fillPaymentLinks(c.Request.Context(), t, p); err != nil {
		utils.RespondWithAppError(c, err)
		return false
	}
	return true
}

func fillPaymentLinks(ctx context.Context, t *repository.Tenant, p *models.Payment) error {
	if p.AppointmentID != nil {
		a, err := t.Appointments.Get(ctx, *p.AppointmentID)
		if err != nil {
			return err
		}
		if p.ClientID == nil {
			p.ClientID = a.ClientID
		}
		if p.ServiceID == nil {
			id := a.ServiceID
			p.ServiceID = &id
		}
		if p.ClientName == "" {
			p.ClientName = a.ClientName
		}
	}
	if p.ClientID != nil {
		client, err := t.Clients.Get(ctx, *p.ClientID)
		if err != nil {
			return err
		}
		if p.ClientName == "" {
			p.ClientName = client.Name
		}
	}
	if p.ServiceID != nil && *p.ServiceID != uuid.Nil {
		service, err := t.Services.Get(ctx, *p.ServiceID)
		if err != nil {
			return err
		}
		if p.ServiceName == "" {
			p.ServiceName = service.Name
		}
	}
	return nil
}
