package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router   *gin.Engine
	tokens   *services.MemoryTokenStore
	notifier *services.NotificationService
	orders   *OrderController
}

// setupTest points config.DB at a fresh in-memory sqlite database.
func setupTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost

	config.App = &config.Config{
		AppEnv:           "development",
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		DailyCapacity:    2,
		VerifyDevBaseURL: "http://192.168.1.50:3000/",
		CompanyName:      "DoorPro",
	}

	db, err := config.OpenDB("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}

// newTestEnv wires the handlers under test the same way the router does.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	setupTest(t)

	env := &testEnv{
		tokens:   services.NewMemoryTokenStore(time.Hour),
		notifier: services.NewNotificationService(config.DB, nil),
	}
	env.orders = NewOrderController(env.notifier,
		services.NewInvoiceService(config.App, services.NewQRRenderer(services.DefaultQRSize, 16, time.Minute)))

	auth := NewAuthController(env.tokens)
	doors := NewDoorController(env.notifier)
	complaints := NewComplaintController(env.notifier)
	notifications := NewNotificationController(nil)
	adminOnly := utils.RequireRole(models.RoleAdmin)

	r := gin.New()
	r.POST("/auth/login", auth.Login)
	r.GET("/api/verify", VerifyInvoice)

	api := r.Group("", utils.AuthMiddleware(env.tokens, services.NewAccountStore(config.DB)))
	api.GET("/auth/me", Me)
	api.PUT("/auth/profile", UpdateProfile)
	api.PUT("/auth/password", ChangePassword)
	api.POST("/auth/logout", auth.Logout)

	api.GET("/api/users", adminOnly, GetUsers)
	api.POST("/api/users", adminOnly, CreateUser)
	api.PUT("/api/users/:id", adminOnly, UpdateUser)
	api.DELETE("/api/users/:id", adminOnly, DeleteUser)

	api.GET("/api/orders", env.orders.GetOrders)
	api.POST("/api/orders", env.orders.CreateOrder)
	api.GET("/api/orders/capacity", env.orders.GetCapacity)
	api.GET("/api/orders/debt", env.orders.GetDebtOrders)
	api.GET("/api/orders/:id", env.orders.GetOrder)
	api.PUT("/api/orders/:id", env.orders.UpdateOrder)
	api.DELETE("/api/orders/:id", adminOnly, env.orders.DeleteOrder)
	api.PATCH("/api/orders/:id/payment-done", env.orders.MarkPaymentDone)
	api.PATCH("/api/orders/:id/printed", env.orders.MarkPrinted)
	api.PATCH("/api/orders/:id/measurement", env.orders.UpdateMeasurement)
	api.GET("/api/orders/:id/invoice", env.orders.OrderInvoice(InvoiceJSON))
	api.GET("/api/orders/:id/invoice/qr", env.orders.OrderInvoice(InvoiceQR))
	api.GET("/api/orders/:id/invoice/pdf", env.orders.OrderInvoice(InvoicePDF))
	api.GET("/api/orders/:id/invoice/print", env.orders.OrderInvoice(InvoicePrint))

	api.POST("/api/supplementary-orders", env.orders.CreateSupplementaryOrder)
	api.PUT("/api/supplementary-orders/:id", env.orders.UpdateSupplementaryOrder)
	api.GET("/api/supplementary-orders/:id/invoice", env.orders.SupplementaryInvoice(InvoiceJSON))

	api.POST("/api/payments", env.orders.CreatePayment)
	api.GET("/api/payments", env.orders.GetPayments)

	api.POST("/api/doors", adminOnly, doors.CreateDoor)
	api.PATCH("/api/doors/:id/status", doors.UpdateDoorStatus)
	api.PUT("/api/doors/:id/access-users", adminOnly, doors.SetAccessUsers)
	api.DELETE("/api/doors/:id", adminOnly, doors.DeleteDoor)

	api.POST("/api/complaints", complaints.CreateComplaint)
	api.PATCH("/api/complaints/:id/resolve", complaints.ResolveComplaint)

	api.GET("/api/notifications", notifications.GetNotifications)
	api.PATCH("/api/notifications/read-all", notifications.MarkAllRead)
	api.PATCH("/api/notifications/:id/read", notifications.MarkRead)

	api.GET("/api/dashboard", GetDashboardOverview)

	env.router = r
	return env
}

func createUser(t *testing.T, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName: "Test",
		LastName:  role,
		Email:     uuid.NewString() + "@doorpro.test",
		Password:  "password123",
		Role:      role,
		IsActive:  true,
	}
	if err := config.DB.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(u.ID, u.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func createOrder(t *testing.T, total, deposit string, mutate ...func(*models.Order)) *models.Order {
	t.Helper()
	o := &models.Order{
		EmriKlientit:    "Arben",
		MbiemriKlientit: "Krasniqi",
		NumriTelefonit:  "+38344123456",
		Vendi:           "Prishtinë",
		TipiPorosise:    models.OrderTypeGarageDoor,
		CmimiTotal:      decimal.RequireFromString(total),
		Kaparja:         decimal.RequireFromString(deposit),
	}
	for _, m := range mutate {
		m(o)
	}
	if err := config.DB.Create(o).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error
}
