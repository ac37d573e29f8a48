// controllers/invoice.go
package controllers

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"doorpro-backend/config"
	"doorpro-backend/models"
	"doorpro-backend/services"
	"doorpro-backend/utils"

	"github.com/gin-gonic/gin"
)

// Invoice output formats.
const (
	InvoiceJSON  = "json"
	InvoiceQR    = "qr"
	InvoicePDF   = "pdf"
	InvoicePrint = "print"
)

// OrderInvoice renders the invoice of an order in the given format.
// Rendering never writes to the database; marking as printed is a separate call.
func (oc *OrderController) OrderInvoice(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var order models.Order
		if err := config.DB.First(&order, "id = ?", id).Error; err != nil {
			respondError(c, err, "Order not found")
			return
		}
		actor, _ := currentUser(c)

		inv, err := oc.Invoices.ForOrder(&order, actor, c.GetHeader("Origin"))
		if err != nil {
			slog.Error("failed to prepare invoice", slog.String("orderId", id.String()), slog.String("error", err.Error()))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
		writeInvoice(c, inv, format, "fature-"+inv.Payload.Document.Number)
	}
}

// SupplementaryInvoice renders a supplementary order invoice, including its parent block.
func (oc *OrderController) SupplementaryInvoice(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var so models.SupplementaryOrder
		if err := config.DB.First(&so, "id = ?", id).Error; err != nil {
			respondError(c, err, "Supplementary order not found")
			return
		}
		var parent models.Order
		if err := config.DB.First(&parent, "id = ?", so.ParentOrderID).Error; err != nil {
			respondError(c, err, "Parent order not found")
			return
		}
		actor, _ := currentUser(c)

		inv, err := oc.Invoices.ForSupplementary(&so, &parent, actor, c.GetHeader("Origin"))
		if err != nil {
			slog.Error("failed to prepare invoice", slog.String("supplementaryOrderId", id.String()), slog.String("error", err.Error()))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
		writeInvoice(c, inv, format, "fature-shtese-"+inv.Payload.Document.Number)
	}
}

func writeInvoice(c *gin.Context, inv *services.Invoice, format, filename string) {
	switch format {
	case InvoiceQR:
		c.Data(http.StatusOK, "image/png", inv.QR.PNG)

	case InvoicePDF:
		pdf, err := inv.PDF()
		if err != nil {
			slog.Error("failed to render invoice pdf", slog.String("number", inv.Payload.Document.Number), slog.String("error", err.Error()))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate PDF")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, filename))
		c.Data(http.StatusOK, "application/pdf", pdf)

	case InvoicePrint:
		html, err := inv.HTML()
		if err != nil {
			slog.Error("failed to render invoice html", slog.String("number", inv.Payload.Document.Number), slog.String("error", err.Error()))
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render invoice")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)

	default:
		c.JSON(http.StatusOK, gin.H{
			"payload":   inv.Payload,
			"verifyUrl": inv.QR.VerifyURL,
			"qrPng":     base64.StdEncoding.EncodeToString(inv.QR.PNG),
			"fallback":  inv.QR.Fallback,
		})
	}
}
