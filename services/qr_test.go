package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestGenerateInvoiceQR_FullPayload(t *testing.T) {
	r := NewQRRenderer(128, 16, time.Minute)
	p := testBuilder().Build(InvoiceSource{ID: uuid.New(), FirstName: "Arben", Total: decimal.NewFromInt(500)}, nil, "", nil)

	qr, err := GenerateInvoiceQR(r, "http://localhost:3000", p)
	if err != nil {
		t.Fatalf("GenerateInvoiceQR() error: %v", err)
	}
	if qr.Fallback {
		t.Error("Fallback = true for a short payload")
	}
	if !bytes.HasPrefix(qr.PNG, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestGenerateInvoiceQR_FallsBackWhenTooLong(t *testing.T) {
	r := NewQRRenderer(128, 16, time.Minute)
	src := InvoiceSource{
		ID:          uuid.New(),
		FirstName:   "Arben",
		Description: strings.Repeat("a", 3000),
		Total:       decimal.NewFromInt(500),
		Deposit:     decimal.NewFromInt(100),
	}
	p := testBuilder().Build(src, nil, "", nil)

	qr, err := GenerateInvoiceQR(r, "http://localhost:3000", p)
	if err != nil {
		t.Fatalf("GenerateInvoiceQR() error: %v", err)
	}
	if !qr.Fallback {
		t.Fatal("Fallback = false for an oversized payload")
	}
	if strings.Contains(qr.VerifyURL, "aaaa") {
		t.Error("fallback URL still carries the description")
	}
	if !strings.Contains(qr.VerifyURL, "fallback") {
		t.Errorf("fallback URL = %q", qr.VerifyURL)
	}
	if !bytes.HasPrefix(qr.PNG, pngMagic) {
		t.Error("fallback output is not a PNG")
	}
}

func TestQRRenderer_Caches(t *testing.T) {
	r := NewQRRenderer(0, 4, time.Minute)
	first, err := r.PNG("http://localhost/verify?data=x")
	if err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	second, _ := r.PNG("http://localhost/verify?data=x")
	if &first[0] != &second[0] {
		t.Error("second call did not hit the cache")
	}
}
