package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table, including the partial unique
// index on active appointment slots.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Salon{},
		&User{},
		&Profile{},
		&Professional{},
		&Service{},
		&Client{},
		&Appointment{},
		&Payment{},
		&BlockedDate{},
		&ReminderTemplate{},
		&ReminderLog{},
	)
}
