package services

import (
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	qrCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doorpro_qr_cache_hits_total",
		Help: "QR PNG cache hits.",
	})
	qrCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doorpro_qr_cache_misses_total",
		Help: "QR PNG cache misses.",
	})
	qrFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "doorpro_qr_fallbacks_total",
		Help: "Invoices printed with the minimal fallback QR payload.",
	})
)

const DefaultQRSize = 256

// QRRenderer encodes verify URLs as PNG and keeps recent results in an LRU.
type QRRenderer struct {
	size  int
	cache *expirable.LRU[string, []byte]
}

func NewQRRenderer(size, cacheSize int, ttl time.Duration) *QRRenderer {
	if size <= 0 {
		size = DefaultQRSize
	}
	return &QRRenderer{
		size:  size,
		cache: expirable.NewLRU[string, []byte](cacheSize, nil, ttl),
	}
}

func (r *QRRenderer) PNG(content string) ([]byte, error) {
	if png, ok := r.cache.Get(content); ok {
		qrCacheHitsTotal.Inc()
		return png, nil
	}
	qrCacheMissesTotal.Inc()

	png, err := qrcode.Encode(content, qrcode.Medium, r.size)
	if err != nil {
		return nil, err
	}
	r.cache.Add(content, png)
	return png, nil
}

// InvoiceQR is what gets printed: the URL encoded and its PNG.
type InvoiceQR struct {
	VerifyURL string `json:"verifyUrl"`
	PNG       []byte `json:"-"`
	Fallback  bool   `json:"fallback"`
}

// GenerateInvoiceQR encodes the full payload and falls back to the minimal
// payload when the full one does not fit in a QR code.
func GenerateInvoiceQR(r *QRRenderer, baseURL string, p InvoicePayload) (*InvoiceQR, error) {
	full, err := VerifyURL(baseURL, p)
	if err != nil {
		return nil, err
	}
	png, err := r.PNG(full)
	if err == nil {
		return &InvoiceQR{VerifyURL: full, PNG: png}, nil
	}

	slog.Warn("full invoice payload did not fit in QR code, using fallback",
		slog.String("orderId", p.Order.ID),
		slog.Int("length", len(full)),
		slog.String("error", err.Error()))
	qrFallbacksTotal.Inc()

	short, err := VerifyURL(baseURL, NewFallbackPayload(p))
	if err != nil {
		return nil, err
	}
	png, err = r.PNG(short)
	if err != nil {
		return nil, err
	}
	return &InvoiceQR{VerifyURL: short, PNG: png, Fallback: true}, nil
}
