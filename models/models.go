package models

// AllModels lists every table for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Order{},
		&SupplementaryOrder{},
		&Payment{},
		&Door{},
		&Complaint{},
		&Notification{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}
