package services

import (
	"strings"

	"doorpro-backend/config"
	"doorpro-backend/models"
)

// InvoiceService ties payload construction, QR rendering and the verify base URL together.
type InvoiceService struct {
	cfg     *config.Config
	builder *PayloadBuilder
	qr      *QRRenderer
}

func NewInvoiceService(cfg *config.Config, qr *QRRenderer) *InvoiceService {
	return &InvoiceService{
		cfg:     cfg,
		builder: NewPayloadBuilder(cfg.CompanyName),
		qr:      qr,
	}
}

// Invoice is a prepared document: the payload snapshot and its QR code.
type Invoice struct {
	Payload InvoicePayload
	QR      *InvoiceQR
}

// BaseURL picks the host printed into QR codes. In development the LAN address is
// used so phones on the shop network can open it; in production the request origin.
func (s *InvoiceService) BaseURL(origin string) string {
	if !s.cfg.IsProduction() {
		return strings.TrimRight(s.cfg.VerifyDevBaseURL, "/")
	}
	if origin = strings.TrimSpace(origin); origin != "" && origin != "null" {
		return strings.TrimRight(origin, "/")
	}
	return strings.TrimRight(s.cfg.PublicOrigin, "/")
}

func (s *InvoiceService) ForOrder(o *models.Order, actor *models.User, origin string) (*Invoice, error) {
	return s.prepare(SourceFromOrder(o), actor, DocumentInvoice, nil, origin)
}

func (s *InvoiceService) ForSupplementary(so *models.SupplementaryOrder, parent *models.Order, actor *models.User, origin string) (*Invoice, error) {
	return s.prepare(SourceFromSupplementary(so), actor, DocumentSupplementaryInvoice, parent, origin)
}

func (s *InvoiceService) prepare(src InvoiceSource, actor *models.User, docType string, parent *models.Order, origin string) (*Invoice, error) {
	payload := s.builder.Build(src, actor, docType, parent)
	qr, err := GenerateInvoiceQR(s.qr, s.BaseURL(origin), payload)
	if err != nil {
		return nil, err
	}
	return &Invoice{Payload: payload, QR: qr}, nil
}

func (inv *Invoice) HTML() ([]byte, error) {
	return RenderInvoiceHTML(inv.Payload, inv.QR)
}

func (inv *Invoice) PDF() ([]byte, error) {
	return RenderInvoicePDF(inv.Payload, inv.QR)
}
