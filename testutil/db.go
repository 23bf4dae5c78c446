// Package testutil opens migrated in-memory databases for tests.
package testutil

import (
	"testing"
	"time"

	"easyhora-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated SQLite database that lives for the duration of t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Fixture holds one seeded salon with a professional, a service and a client.
type Fixture struct {
	Salon        models.Salon
	Professional models.Professional
	Service      models.Service
	Client       models.Client
}

// Seed inserts a salon named name with one record of each catalog type.
func Seed(t *testing.T, db *gorm.DB, name string) Fixture {
	t.Helper()

	f := Fixture{
		Salon: models.Salon{Name: name, PublicSlug: "salon-" + uuid.NewString()[:8], Phone: "+5511999990000"},
	}
	mustCreate(t, db, &f.Salon)

	f.Professional = models.Professional{SalonID: f.Salon.ID, Name: "Ana", Specialty: "Cabelo"}
	mustCreate(t, db, &f.Professional)

	f.Service = models.Service{SalonID: f.Salon.ID, Name: "Corte", Price: decimal.RequireFromString("50.00"), DurationMinutes: 30}
	mustCreate(t, db, &f.Service)

	f.Client = models.Client{SalonID: f.Salon.ID, Name: "Maria", Phone: "+55 11 98888-7777", PhoneKey: "5511988887777"}
	mustCreate(t, db, &f.Client)

	return f
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}
