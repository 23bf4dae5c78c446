package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("TRIAL_DAYS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, 7, cfg.TrialDays)
	assert.Equal(t, "0 9 * * *", cfg.ReminderCron)
	assert.Equal(t, "price_1SAuSTRDwjywIfSVeFmskIti", cfg.PlanPrices["basic"])
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("STRIPE_DRY_RUN", "true")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.StripeDryRun)
	assert.Equal(t, 25, cfg.MaxOpenConns)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, cfg.Location())
}
