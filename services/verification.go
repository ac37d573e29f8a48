package services

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"doorpro-backend/models"
	"doorpro-backend/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DocumentInvoice              = "invoice"
	DocumentSupplementaryInvoice = "supplementary-invoice"
)

// VerificationNote travels with every payload. The code is derived from public
// fields with an unkeyed encoding, so anyone can recompute it.
const VerificationNote = "Display reference only; not a signature and not proof of authenticity."

const verifyPath = "/verify"

var ErrEmptyVerifyData = errors.New("verification data is empty")

// InvoiceSource is the order-like record an invoice is printed from.
type InvoiceSource struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Phone         string
	Location      string
	OrderType     string
	Description   string
	DeliveryDate  *time.Time
	Status        string
	Seller        string
	Measurer      string
	PaymentMethod string
	Total         decimal.Decimal
	Deposit       decimal.Decimal
	PaymentDone   bool
	CreatedAt     time.Time
}

func SourceFromOrder(o *models.Order) InvoiceSource {
	return InvoiceSource{
		ID:            o.ID,
		FirstName:     o.EmriKlientit,
		LastName:      o.MbiemriKlientit,
		Phone:         o.NumriTelefonit,
		Location:      o.Vendi,
		OrderType:     o.TipiPorosise,
		Description:   o.Pershkrimi,
		DeliveryDate:  o.Dita,
		Status:        o.Statusi,
		Seller:        o.Shitesi,
		Measurer:      o.Matesi,
		PaymentMethod: o.MenyraPageses,
		Total:         o.CmimiTotal,
		Deposit:       o.Kaparja,
		PaymentDone:   o.IsPaymentDone,
		CreatedAt:     o.CreatedAt,
	}
}

func SourceFromSupplementary(s *models.SupplementaryOrder) InvoiceSource {
	return InvoiceSource{
		ID:            s.ID,
		FirstName:     s.EmriKlientit,
		LastName:      s.MbiemriKlientit,
		Phone:         s.NumriTelefonit,
		Location:      s.Vendi,
		OrderType:     "shtesë",
		Description:   s.Pershkrimi,
		Status:        s.Statusi,
		PaymentMethod: s.MenyraPageses,
		Total:         s.CmimiTotal,
		Deposit:       s.Kaparja,
		PaymentDone:   s.IsPaymentDone,
		CreatedAt:     s.CreatedAt,
	}
}

type DocumentInfo struct {
	Type        string `json:"type"`
	Number      string `json:"number"`
	Company     string `json:"company"`
	GeneratedAt string `json:"generatedAt"`
	GeneratedBy string `json:"generatedBy"`
}

type OrderInfo struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	DeliveryDate  string `json:"deliveryDate"`
	Status        string `json:"status"`
	Seller        string `json:"seller"`
	Measurer      string `json:"measurer"`
	PaymentMethod string `json:"paymentMethod"`
}

type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Location  string `json:"location"`
}

type FinancialInfo struct {
	TotalPrice       string `json:"totalPrice"`
	DownPayment      string `json:"downPayment"`
	RemainingPayment string `json:"remainingPayment"`
	IsPaymentDone    bool   `json:"isPaymentDone"`
	Currency         string `json:"currency"`
}

type VerificationInfo struct {
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note"`
}

type ParentOrderInfo struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	TotalPrice string `json:"totalPrice"`
}

type InvoicePayload struct {
	Document     DocumentInfo     `json:"document"`
	Order        OrderInfo        `json:"order"`
	Customer     CustomerInfo     `json:"customer"`
	Financial    FinancialInfo    `json:"financial"`
	Verification VerificationInfo `json:"verification"`
	ParentOrder  *ParentOrderInfo `json:"parentOrder,omitempty"`
}

// FallbackPayload is embedded when the full payload cannot be encoded as a QR code.
type FallbackPayload struct {
	Type      string `json:"type"`
	OrderID   string `json:"orderId"`
	Customer  string `json:"customer"`
	Total     string `json:"total"`
	Remaining string `json:"remaining"`
	Code      string `json:"code"`
	Fallback  bool   `json:"fallback"`
}

// VerificationCode is base64(id + first name + unix millis), first 8 chars upper-cased.
func VerificationCode(id, firstName string, ts time.Time) string {
	raw := id + firstName + strconv.FormatInt(ts.UnixMilli(), 10)
	encoded := base64.StdEncoding.EncodeToString([]byte(raw))
	if len(encoded) > 8 {
		encoded = encoded[:8]
	}
	return strings.ToUpper(encoded)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format(utils.DateLayout)
}

type PayloadBuilder struct {
	Company string
	Now     func() time.Time
}

func NewPayloadBuilder(company string) *PayloadBuilder {
	return &PayloadBuilder{Company: company, Now: time.Now}
}

// Build assembles the invoice snapshot. parent is only set for supplementary invoices.
func (b *PayloadBuilder) Build(src InvoiceSource, actor *models.User, docType string, parent *models.Order) InvoicePayload {
	now := b.Now()
	id := src.ID.String()
	if src.ID == uuid.Nil {
		id = "N/A"
	}

	generatedBy := "N/A"
	if actor != nil {
		generatedBy = utils.OrDefault(actor.FullName())
	}
	if docType == "" {
		docType = DocumentInvoice
	}

	number := "N/A"
	if src.ID != uuid.Nil {
		number = strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8]) + "-" + now.Format("20060102")
	}

	payload := InvoicePayload{
		Document: DocumentInfo{
			Type:        docType,
			Number:      number,
			Company:     utils.OrDefault(b.Company),
			GeneratedAt: now.Format(time.RFC3339),
			GeneratedBy: generatedBy,
		},
		Order: OrderInfo{
			ID:            id,
			Type:          utils.OrDefault(src.OrderType),
			Description:   utils.OrDefault(src.Description),
			DeliveryDate:  formatDate(src.DeliveryDate),
			Status:        utils.OrDefault(src.Status),
			Seller:        utils.OrDefault(src.Seller),
			Measurer:      utils.OrDefault(src.Measurer),
			PaymentMethod: utils.OrDefault(src.PaymentMethod),
		},
		Customer: CustomerInfo{
			FirstName: utils.OrDefault(src.FirstName),
			LastName:  utils.OrDefault(src.LastName),
			Phone:     utils.OrDefault(src.Phone),
			Location:  utils.OrDefault(src.Location),
		},
		Financial: FinancialInfo{
			TotalPrice:       money(src.Total),
			DownPayment:      money(src.Deposit),
			RemainingPayment: money(models.Remaining(src.Total, src.Deposit)),
			IsPaymentDone:    src.PaymentDone,
			Currency:         "EUR",
		},
		Verification: VerificationInfo{
			Code:      VerificationCode(id, src.FirstName, now),
			Timestamp: now.Format(time.RFC3339),
			Note:      VerificationNote,
		},
	}

	if parent != nil {
		payload.ParentOrder = &ParentOrderInfo{
			ID:         parent.ID.String(),
			Type:       utils.OrDefault(parent.TipiPorosise),
			TotalPrice: money(parent.CmimiTotal),
		}
	}

	return payload
}

func NewFallbackPayload(p InvoicePayload) FallbackPayload {
	return FallbackPayload{
		Type:      p.Document.Type,
		OrderID:   p.Order.ID,
		Customer:  strings.TrimSpace(p.Customer.FirstName + " " + p.Customer.LastName),
		Total:     p.Financial.TotalPrice,
		Remaining: p.Financial.RemainingPayment,
		Code:      p.Verification.Code,
		Fallback:  true,
	}
}

// VerifyURL serializes v to JSON and appends it as the data query parameter.
func VerifyURL(baseURL string, v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("data", string(raw))
	return strings.TrimRight(baseURL, "/") + verifyPath + "?" + q.Encode(), nil
}

// ParseVerifyData decodes the data parameter of a verify URL. Both the full and
// the fallback shape are accepted; fallback data is lifted into an InvoicePayload.
func ParseVerifyData(data string) (*InvoicePayload, bool, error) {
	if strings.TrimSpace(data) == "" {
		return nil, false, ErrEmptyVerifyData
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return nil, false, err
	}

	if _, ok := probe["fallback"]; ok {
		var fb FallbackPayload
		if err := json.Unmarshal([]byte(data), &fb); err != nil {
			return nil, false, err
		}
		return &InvoicePayload{
			Document:     DocumentInfo{Type: fb.Type},
			Order:        OrderInfo{ID: fb.OrderID},
			Customer:     CustomerInfo{FirstName: fb.Customer},
			Financial:    FinancialInfo{TotalPrice: fb.Total, RemainingPayment: fb.Remaining},
			Verification: VerificationInfo{Code: fb.Code, Note: VerificationNote},
		}, true, nil
	}

	var p InvoicePayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, false, err
	}
	return &p, false, nil
}
