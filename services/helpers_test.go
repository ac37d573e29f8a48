package services

import (
	"testing"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.BcryptCost = bcrypt.MinCost

	db, err := config.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     uuid.NewString() + "@doorpro.test",
		Password:  "password123",
		Role:      role,
		IsActive:  true,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createOrderValue(total, deposit string) *models.Order {
	return &models.Order{
		EmriKlientit:    "Arben",
		MbiemriKlientit: "Krasniqi",
		NumriTelefonit:  "+38344123456",
		Vendi:           "Prishtinë",
		TipiPorosise:    models.OrderTypeGarageDoor,
		CmimiTotal:      decimal.RequireFromString(total),
		Kaparja:         decimal.RequireFromString(deposit),
	}
}

func createOrder(t *testing.T, db *gorm.DB, total, deposit string, mutate ...func(*models.Order)) *models.Order {
	t.Helper()
	o := createOrderValue(total, deposit)
	for _, m := range mutate {
		m(o)
	}
	if err := db.Create(o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func datePtr(t time.Time) *time.Time { return &t }
