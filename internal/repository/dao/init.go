package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&LegacyUser{},
		&Item{},
		&Order{},
		&OrderItem{},
		&PaymentRecord{},
	)
}
