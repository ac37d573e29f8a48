package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"doorpro-backend/config"
	"doorpro-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func testInvoice(t *testing.T, description string) *Invoice {
	t.Helper()
	svc := NewInvoiceService(&config.Config{CompanyName: "DoorPro", VerifyDevBaseURL: "http://192.168.1.100:3000"},
		NewQRRenderer(128, 8, time.Minute))
	order := &models.Order{
		ID:              uuid.New(),
		EmriKlientit:    "Ëlira",
		MbiemriKlientit: "Çitaku",
		NumriTelefonit:  "044123456",
		TipiPorosise:    models.OrderTypeGarageDoor,
		Pershkrimi:      description,
		CmimiTotal:      decimal.NewFromInt(900),
		Kaparja:         decimal.NewFromInt(200),
	}
	inv, err := svc.ForOrder(order, &models.User{FirstName: "Drita"}, "")
	if err != nil {
		t.Fatalf("ForOrder() error: %v", err)
	}
	return inv
}

func TestInvoiceHTML(t *testing.T) {
	inv := testInvoice(t, `<script>alert("x")</script>`)
	html, err := inv.HTML()
	if err != nil {
		t.Fatalf("HTML() error: %v", err)
	}
	page := string(html)
	if !strings.Contains(page, `src="data:image/png;base64,`) {
		t.Error("QR data URI missing or escaped")
	}
	if strings.Contains(page, "<script>alert") {
		t.Error("description was not escaped")
	}
	if !strings.Contains(page, "700.00 €") {
		t.Error("remaining amount missing")
	}
	if !strings.Contains(page, inv.Payload.Verification.Code) {
		t.Error("verification code missing")
	}
}

func TestInvoicePDF(t *testing.T) {
	inv := testInvoice(t, "Derë garazhi seksionale, ngjyrë antracit")
	pdf, err := inv.PDF()
	if err != nil {
		t.Fatalf("PDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestInvoiceService_BaseURL(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		origin string
		want   string
	}{
		{"development uses LAN address", config.Config{AppEnv: "development", VerifyDevBaseURL: "http://192.168.1.100:3000/"}, "https://doors.example.com", "http://192.168.1.100:3000"},
		{"production uses origin", config.Config{AppEnv: "production", PublicOrigin: "https://fallback.example.com"}, "https://doors.example.com", "https://doors.example.com"},
		{"production without origin", config.Config{AppEnv: "production", PublicOrigin: "https://fallback.example.com"}, "", "https://fallback.example.com"},
		{"production null origin", config.Config{AppEnv: "production", PublicOrigin: "https://fallback.example.com"}, "null", "https://fallback.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			svc := NewInvoiceService(&cfg, NewQRRenderer(0, 1, time.Minute))
			if got := svc.BaseURL(tt.origin); got != tt.want {
				t.Errorf("BaseURL(%q) = %q, want %q", tt.origin, got, tt.want)
			}
		})
	}
}
