package controllers

import (
	"net/http"
	"testing"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/shopspring/decimal"
)

func validOrderBody() map[string]interface{} {
	return map[string]interface{}{
		"emriKlientit":    "Arta",
		"mbiemriKlientit": "Berisha",
		"numriTelefonit":  "+38349111222",
		"vendi":           "Prizren",
		"tipiPorosise":    models.OrderTypeGarageDoor,
		"cmimiTotal":      1200,
		"kaparja":         300,
		"menyraPageses":   models.PaymentCash,
		"dita":            time.Now().AddDate(0, 0, 3).Format(utils.DateLayout),
	}
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	admin := createUser(t, models.RoleAdmin)
	manager := createUser(t, models.RoleMenaxher)

	w := doRequest(t, env.router, http.MethodPost, "/api/orders", tokenFor(t, manager), validOrderBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var order models.Order
	decodeBody(t, w, &order)
	if order.CreatedByUserID != manager.ID {
		t.Errorf("createdBy = %s, want %s", order.CreatedByUserID, manager.ID)
	}
	if order.Statusi != models.StatusInProcess || order.StatusiMatjes != models.MeasurementPending {
		t.Errorf("defaults: statusi=%q statusiMatjes=%q", order.Statusi, order.StatusiMatjes)
	}
	if order.IsPaymentDone {
		t.Error("order with a balance must not be paid")
	}

	var notifications []models.Notification
	config.DB.Where("user_id = ?", admin.ID).Find(&notifications)
	if len(notifications) != 1 || notifications[0].Title != "Porosi e re" {
		t.Errorf("admin notifications = %+v", notifications)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))

	tests := []struct {
		name    string
		mutate  func(map[string]interface{})
		wantMsg string
	}{
		{"deposit exceeds total", func(b map[string]interface{}) { b["kaparja"] = 1500 }, services.ErrDepositExceedsTotal.Error()},
		{"missing name", func(b map[string]interface{}) { b["emriKlientit"] = " " }, "Emri i klientit është i detyrueshëm"},
		{"missing phone", func(b map[string]interface{}) { delete(b, "numriTelefonit") }, "Numri i telefonit është i detyrueshëm"},
		{"bad phone", func(b map[string]interface{}) { b["numriTelefonit"] = "abc" }, "Numri i telefonit nuk është valid"},
		{"zero total", func(b map[string]interface{}) { b["cmimiTotal"] = 0; b["kaparja"] = 0 }, services.ErrInvalidTotal.Error()},
		{"bad type", func(b map[string]interface{}) { b["tipiPorosise"] = "dritare" }, "Tipi i porosisë nuk është valid: dritare"},
		{"bad date", func(b map[string]interface{}) { b["dita"] = "03/15/2026" }, "invalid date 03/15/2026, expected YYYY-MM-DD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validOrderBody()
			tt.mutate(body)
			w := doRequest(t, env.router, http.MethodPost, "/api/orders", token, body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if got := errorMessage(t, w); got != tt.wantMsg {
				t.Errorf("error = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestCreateOrder_FullDepositIsPaid(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))

	body := validOrderBody()
	body["kaparja"] = 1200
	w := doRequest(t, env.router, http.MethodPost, "/api/orders", token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var order models.Order
	decodeBody(t, w, &order)
	if !order.IsPaymentDone {
		t.Error("fully paid order should be marked paid")
	}
}

func TestGetOrders_FilterSearchPaginate(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))

	createOrder(t, "500", "100", func(o *models.Order) { o.EmriKlientit = "Blerim"; o.Statusi = models.StatusDebt })
	createOrder(t, "700", "100", func(o *models.Order) { o.EmriKlientit = "Blerta"; o.Vendi = "Ferizaj" })
	createOrder(t, "900", "100", func(o *models.Order) { o.EmriKlientit = "Drita"; o.Statusi = models.StatusDebt })

	var resp struct {
		Orders []models.Order `json:"orders"`
		Total  int            `json:"total"`
	}

	w := doRequest(t, env.router, http.MethodGet, "/api/orders?statusi=debt&search=BLER", token, nil)
	decodeBody(t, w, &resp)
	if resp.Total != 1 || resp.Orders[0].EmriKlientit != "Blerim" {
		t.Errorf("debt + search = %+v", resp)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/orders?search=ferizaj", token, nil)
	decodeBody(t, w, &resp)
	if resp.Total != 1 || resp.Orders[0].EmriKlientit != "Blerta" {
		t.Errorf("search by location = %+v", resp)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/orders?sort=-cmimiTotal&page=2&limit=2", token, nil)
	decodeBody(t, w, &resp)
	if resp.Total != 3 || len(resp.Orders) != 1 || resp.Orders[0].EmriKlientit != "Blerim" {
		t.Errorf("sorted page 2 = %+v", resp)
	}
}

func TestMarkPaymentDone(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))
	order := createOrder(t, "1000", "250", func(o *models.Order) { o.Statusi = models.StatusDebt })

	w := doRequest(t, env.router, http.MethodPatch, "/api/orders/"+order.ID.String()+"/payment-done", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got models.Order
	config.DB.First(&got, "id = ?", order.ID)
	if !got.IsPaymentDone || !got.Kaparja.Equal(got.CmimiTotal) || got.Statusi != models.StatusCompleted {
		t.Errorf("after payment-done: paid=%v kaparja=%s statusi=%q", got.IsPaymentDone, got.Kaparja, got.Statusi)
	}

	var payments []models.Payment
	config.DB.Where("order_id = ?", order.ID).Find(&payments)
	if len(payments) != 1 || !payments[0].Amount.Equal(decimal.NewFromInt(750)) {
		t.Errorf("payments = %+v", payments)
	}

	w = doRequest(t, env.router, http.MethodPatch, "/api/orders/"+order.ID.String()+"/payment-done", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("second payment-done status = %d, want 200", w.Code)
	}
	var count int64
	config.DB.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	if count != 1 {
		t.Errorf("repeat payment-done recorded %d payments, want 1", count)
	}
}

func TestMarkPrinted(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))
	order := createOrder(t, "400", "0")

	w := doRequest(t, env.router, http.MethodPatch, "/api/orders/"+order.ID.String()+"/printed", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got models.Order
	config.DB.First(&got, "id = ?", order.ID)
	if !got.EshtePrintuar {
		t.Error("order not marked printed")
	}
}

func TestDeleteOrder_AdminOnlyAndCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := tokenFor(t, createUser(t, models.RoleAdmin))
	manager := tokenFor(t, createUser(t, models.RoleMenaxher))
	order := createOrder(t, "1000", "0")

	so := models.SupplementaryOrder{ParentOrderID: order.ID, Pershkrimi: "Motor", CmimiTotal: decimal.NewFromInt(200)}
	so.InheritCustomer(order)
	if err := config.DB.Create(&so).Error; err != nil {
		t.Fatalf("create supplementary: %v", err)
	}

	w := doRequest(t, env.router, http.MethodDelete, "/api/orders/"+order.ID.String(), manager, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("manager delete status = %d, want 403", w.Code)
	}

	w = doRequest(t, env.router, http.MethodDelete, "/api/orders/"+order.ID.String(), admin, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d, body = %s", w.Code, w.Body.String())
	}

	var count int64
	config.DB.Model(&models.SupplementaryOrder{}).Where("parent_order_id = ?", order.ID).Count(&count)
	if count != 0 {
		t.Errorf("supplementary orders left = %d", count)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/orders/"+order.ID.String(), admin, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted order status = %d, want 404", w.Code)
	}
}

func TestGetCapacity(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))

	day := utils.BeginningOfDay(time.Now()).AddDate(0, 0, 1)
	for i := 0; i < 2; i++ {
		createOrder(t, "300", "0", func(o *models.Order) { o.Dita = &day })
	}

	w := doRequest(t, env.router, http.MethodGet, "/api/orders/capacity?from="+day.Format(utils.DateLayout)+"&days=2", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		DailyCapacity int                    `json:"dailyCapacity"`
		Days          []services.DayCapacity `json:"days"`
	}
	decodeBody(t, w, &resp)
	if resp.DailyCapacity != 2 || len(resp.Days) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Days[0].Booked != 2 || !resp.Days[0].Full || resp.Days[1].Booked != 0 {
		t.Errorf("days = %+v", resp.Days)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/orders/capacity?days=500", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("days=500 status = %d, want 400", w.Code)
	}
}

func TestGetDebtOrders(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))

	createOrder(t, "1000", "400", func(o *models.Order) { o.Statusi = models.StatusDebt })
	createOrder(t, "500", "100", func(o *models.Order) { o.MenyraPageses = models.PaymentBank })
	createOrder(t, "300", "300")

	w := doRequest(t, env.router, http.MethodGet, "/api/orders/debt", token, nil)
	var resp struct {
		Count            int             `json:"count"`
		TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	}
	decodeBody(t, w, &resp)
	if resp.Count != 2 || !resp.TotalOutstanding.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("debt = %+v", resp)
	}

	w = doRequest(t, env.router, http.MethodGet, "/api/orders/debt?menyraPageses="+models.PaymentBank, token, nil)
	decodeBody(t, w, &resp)
	if resp.Count != 1 || !resp.TotalOutstanding.Equal(decimal.NewFromInt(400)) {
		t.Errorf("bank debt = %+v", resp)
	}
}

func TestUpdateMeasurement(t *testing.T) {
	env := newTestEnv(t)
	token := tokenFor(t, createUser(t, models.RoleMenaxher))
	order := createOrder(t, "800", "0")

	w := doRequest(t, env.router, http.MethodPatch, "/api/orders/"+order.ID.String()+"/measurement", token,
		map[string]interface{}{"statusiMatjes": models.MeasurementMeasured, "matesi": "Gëzim"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var got models.Order
	config.DB.First(&got, "id = ?", order.ID)
	if got.StatusiMatjes != models.MeasurementMeasured || got.Matesi != "Gëzim" || got.DataMatjes == nil {
		t.Errorf("measurement = %q %q %v", got.StatusiMatjes, got.Matesi, got.DataMatjes)
	}
}
