package services

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"doorpro-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func testBuilder() *PayloadBuilder {
	return &PayloadBuilder{Company: "DoorPro", Now: func() time.Time { return fixedNow }}
}

func TestVerificationCode(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	tests := []struct {
		id, name, want string
	}{
		{"ab", "Jo", "YWJKBZE3"},
		{"11111111-2222-3333-4444-555555555555", "Arben", "MTEXMTEX"},
	}
	for _, tt := range tests {
		if got := VerificationCode(tt.id, tt.name, ts); got != tt.want {
			t.Errorf("VerificationCode(%q, %q) = %q, want %q", tt.id, tt.name, got, tt.want)
		}
	}
}

func TestBuild_FillsAllSections(t *testing.T) {
	id := uuid.MustParse("1f2e3d4c-0000-4000-8000-000000000001")
	dita := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	order := &models.Order{
		ID:              id,
		EmriKlientit:    "Arben",
		MbiemriKlientit: "Krasniqi",
		NumriTelefonit:  "+38344123456",
		TipiPorosise:    models.OrderTypeGarageDoor,
		CmimiTotal:      decimal.NewFromInt(1200),
		Kaparja:         decimal.NewFromInt(300),
		Statusi:         models.StatusInProcess,
		MenyraPageses:   models.PaymentCash,
		Dita:            &dita,
	}
	actor := &models.User{FirstName: "Drita", LastName: "Berisha"}

	p := testBuilder().Build(SourceFromOrder(order), actor, DocumentInvoice, nil)

	if p.Document.Number != "1F2E3D4C-20240315" {
		t.Errorf("Number = %q", p.Document.Number)
	}
	if p.Document.GeneratedBy != "Drita Berisha" {
		t.Errorf("GeneratedBy = %q", p.Document.GeneratedBy)
	}
	if p.Order.DeliveryDate != "2024-04-02" {
		t.Errorf("DeliveryDate = %q", p.Order.DeliveryDate)
	}
	if p.Customer.Location != "N/A" || p.Order.Description != "N/A" || p.Order.Seller != "N/A" {
		t.Errorf("missing fields not defaulted: %+v %+v", p.Customer, p.Order)
	}
	if p.Financial.TotalPrice != "1200.00" || p.Financial.DownPayment != "300.00" || p.Financial.RemainingPayment != "900.00" {
		t.Errorf("Financial = %+v", p.Financial)
	}
	if p.Verification.Code != VerificationCode(id.String(), "Arben", fixedNow) {
		t.Errorf("Code = %q", p.Verification.Code)
	}
	if p.Verification.Note == "" {
		t.Error("verification note missing")
	}
	if p.ParentOrder != nil {
		t.Error("ParentOrder set on a plain invoice")
	}
}

func TestBuild_RemainingNeverNegative(t *testing.T) {
	src := InvoiceSource{
		ID:      uuid.New(),
		Total:   decimal.NewFromInt(100),
		Deposit: decimal.NewFromInt(150),
	}
	p := testBuilder().Build(src, nil, "", nil)
	if p.Financial.RemainingPayment != "0.00" {
		t.Errorf("RemainingPayment = %q, want 0.00", p.Financial.RemainingPayment)
	}
	if p.Document.Type != DocumentInvoice {
		t.Errorf("Type = %q, want default %q", p.Document.Type, DocumentInvoice)
	}
	if p.Document.GeneratedBy != "N/A" {
		t.Errorf("GeneratedBy = %q, want N/A", p.Document.GeneratedBy)
	}
}

func TestBuild_SupplementaryCarriesParent(t *testing.T) {
	parent := &models.Order{ID: uuid.New(), TipiPorosise: models.OrderTypeShutter, CmimiTotal: decimal.NewFromInt(800)}
	so := &models.SupplementaryOrder{ID: uuid.New(), ParentOrderID: parent.ID, EmriKlientit: "Besa", CmimiTotal: decimal.NewFromInt(50)}

	p := testBuilder().Build(SourceFromSupplementary(so), nil, DocumentSupplementaryInvoice, parent)
	if p.ParentOrder == nil {
		t.Fatal("ParentOrder = nil")
	}
	if p.ParentOrder.ID != parent.ID.String() || p.ParentOrder.TotalPrice != "800.00" {
		t.Errorf("ParentOrder = %+v", p.ParentOrder)
	}
	if p.Document.Type != DocumentSupplementaryInvoice {
		t.Errorf("Type = %q", p.Document.Type)
	}
}

func TestVerifyURL_RoundTrip(t *testing.T) {
	src := InvoiceSource{ID: uuid.New(), FirstName: "Ëlira & Co", Description: "Derë 2.5m × 3m", Total: decimal.NewFromInt(10)}
	p := testBuilder().Build(src, nil, DocumentInvoice, nil)

	raw, err := VerifyURL("http://192.168.1.100:3000/", p)
	if err != nil {
		t.Fatalf("VerifyURL() error: %v", err)
	}
	if !strings.HasPrefix(raw, "http://192.168.1.100:3000/verify?data=") {
		t.Fatalf("VerifyURL() = %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse: %v", err)
	}
	got, fallback, err := ParseVerifyData(u.Query().Get("data"))
	if err != nil {
		t.Fatalf("ParseVerifyData() error: %v", err)
	}
	if fallback {
		t.Error("fallback = true for a full payload")
	}
	if got.Customer.FirstName != "Ëlira & Co" || got.Order.Description != "Derë 2.5m × 3m" {
		t.Errorf("decoded payload = %+v", got)
	}
}

func TestParseVerifyData_Fallback(t *testing.T) {
	p := testBuilder().Build(InvoiceSource{ID: uuid.New(), FirstName: "Besa", LastName: "Gashi", Total: decimal.NewFromInt(10)}, nil, "", nil)
	raw, _ := VerifyURL("http://x", NewFallbackPayload(p))
	u, _ := url.Parse(raw)

	got, fallback, err := ParseVerifyData(u.Query().Get("data"))
	if err != nil {
		t.Fatalf("ParseVerifyData() error: %v", err)
	}
	if !fallback {
		t.Error("fallback = false")
	}
	if got.Order.ID != p.Order.ID || got.Verification.Code != p.Verification.Code {
		t.Errorf("decoded = %+v", got)
	}
}

func TestParseVerifyData_Invalid(t *testing.T) {
	if _, _, err := ParseVerifyData("  "); err != ErrEmptyVerifyData {
		t.Errorf("empty: err = %v", err)
	}
	if _, _, err := ParseVerifyData("{not json"); err == nil {
		t.Error("garbage: err = nil")
	}
}
