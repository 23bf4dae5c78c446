package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"easyhora-backend/apperror"
	"easyhora-backend/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", 1)
	require.NoError(t, err)

	token, err := m.GenerateToken("user-1", "salon-1")
	require.NoError(t, err)

	userID, salonID, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "salon-1", salonID)
}

func TestTokenExpired(t *testing.T) {
	m, err := NewTokenManager("secret", 1)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.GenerateToken("user-1", "salon-1")
	require.NoError(t, err)

	m.now = time.Now
	_, _, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	_, err := NewTokenManager("", 24)
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := NewTokenManager("secret", 1)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", m.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"salon": c.GetString(ContextSalonID)})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := m.GenerateToken("user-1", "salon-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"salon":"salon-1"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/sync", AdminMiddleware("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sync", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/sync", nil)
	req.Header.Set("X-Admin-Token", "admin")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestPhoneHelpers(t *testing.T) {
	assert.True(t, ValidatePhone("+55 (11) 98765-4321"))
	assert.True(t, ValidatePhone("11987654321"))
	assert.False(t, ValidatePhone("abc"))
	assert.False(t, ValidatePhone("0123"))

	assert.Equal(t, "5511987654321", NormalizePhone("+55 (11) 98765-4321"))
	assert.Equal(t, "+5511987654321", E164("+55 (11) 98765-4321"))
	assert.Equal(t, "11987654321", E164("(11) 98765-4321"))
	assert.Equal(t, "+12025550143", E164("+1 202-555-0143"))
}

func TestPhoneValidationUsesNumberingPlan(t *testing.T) {
	assert.True(t, ValidatePhone("+1 202 456 1111"))
	assert.False(t, ValidatePhone("+55 11 1234"), "too short for the region")
	assert.False(t, ValidatePhone("+999 1234567"), "unknown country code")
}

func TestNormalizePhoneKeepsASCIIDigits(t *testing.T) {
	assert.Equal(t, "", NormalizePhone("١٢٣٤"))
	assert.Equal(t, "", NormalizePhone("１２３４"))
	assert.Equal(t, "5511", NormalizePhone("+55 ١١ 11"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "salao-da-ana", Slugify("  Salão da Ana! "))
	assert.Equal(t, "barbearia-joao-e-cia", Slugify("Barbearia João & Cia"))
	assert.Equal(t, "studio-yrsa", Slugify("Studio Ýřsa"))
	assert.Equal(t, "", Slugify(" !!! "))
}

func TestDates(t *testing.T) {
	saturday := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	assert.True(t, IsWeekend(saturday))
	assert.False(t, IsWeekend(saturday.AddDate(0, 0, 2)))
	assert.Equal(t, 3, DaysBetween(saturday, saturday.AddDate(0, 0, 3).Add(-time.Hour)))

	_, err := ParseDate("10/06/2025", time.UTC)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	assert.NoError(t, ValidateDate("2025-06-10"))
	assert.NoError(t, ValidateTimeOfDay("09:30"))
	assert.Error(t, ValidateTimeOfDay("9h30"))
}

func TestRespondWithAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		RespondWithAppError(c, apperror.NewDateBlocked("2025-06-11"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"date is blocked for new appointments","code":"DATE_BLOCKED","details":{"date":"2025-06-11"}}`, w.Body.String())
}

func TestSchedulerEmptySpecDisablesJob(t *testing.T) {
	s := NewScheduler(time.UTC, logger.Nop())
	require.NoError(t, s.AddJob("noop", "", func(context.Context) {}))
	assert.Error(t, s.AddJob("bad", "not a spec", func(context.Context) {}))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
