package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/go-pdf/fpdf"
)

var printTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html lang="sq">
<head>
<meta charset="utf-8">
<title>{{.P.Document.Company}} - {{.P.Document.Number}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #222; }
h1 { margin: 0 0 4px; font-size: 22px; }
table { border-collapse: collapse; width: 100%; margin-top: 12px; }
td { padding: 4px 8px; border-bottom: 1px solid #ddd; }
td.label { width: 40%; color: #555; }
.qr { float: right; text-align: center; font-size: 11px; }
.note { font-size: 10px; color: #777; margin-top: 16px; }
@media print { .no-print { display: none; } }
</style>
</head>
<body>
<div class="qr">
<img src="{{.QR}}" width="160" height="160" alt="QR">
<div>Kodi: {{.P.Verification.Code}}</div>
</div>
<h1>{{.P.Document.Company}}</h1>
<div>{{if eq .P.Document.Type "supplementary-invoice"}}Faturë shtesë{{else}}Faturë{{end}} nr. {{.P.Document.Number}}</div>
<div>Data: {{.P.Document.GeneratedAt}} | Përgatiti: {{.P.Document.GeneratedBy}}</div>
{{with .P.ParentOrder}}<div>Porosia kryesore: {{.ID}} ({{.Type}}, {{.TotalPrice}} €)</div>{{end}}
<table>
<tr><td class="label">Klienti</td><td>{{.P.Customer.FirstName}} {{.P.Customer.LastName}}</td></tr>
<tr><td class="label">Telefoni</td><td>{{.P.Customer.Phone}}</td></tr>
<tr><td class="label">Vendi</td><td>{{.P.Customer.Location}}</td></tr>
<tr><td class="label">Tipi i porosisë</td><td>{{.P.Order.Type}}</td></tr>
<tr><td class="label">Përshkrimi</td><td>{{.P.Order.Description}}</td></tr>
<tr><td class="label">Dita e dorëzimit</td><td>{{.P.Order.DeliveryDate}}</td></tr>
<tr><td class="label">Shitësi</td><td>{{.P.Order.Seller}}</td></tr>
<tr><td class="label">Mënyra e pagesës</td><td>{{.P.Order.PaymentMethod}}</td></tr>
<tr><td class="label">Çmimi total</td><td>{{.P.Financial.TotalPrice}} €</td></tr>
<tr><td class="label">Kaparja</td><td>{{.P.Financial.DownPayment}} €</td></tr>
<tr><td class="label">Mbetja</td><td><strong>{{.P.Financial.RemainingPayment}} €</strong></td></tr>
<tr><td class="label">Pagesa</td><td>{{if .P.Financial.IsPaymentDone}}E përfunduar{{else}}E papërfunduar{{end}}</td></tr>
</table>
<p class="note">{{.P.Verification.Note}}{{if .Fallback}} QR përmban vetëm të dhënat bazë.{{end}}</p>
<button class="no-print" onclick="window.print()">Printo</button>
</body>
</html>
`))

// RenderInvoiceHTML renders the printable page with the QR inlined as a data URI.
func RenderInvoiceHTML(p InvoicePayload, qr *InvoiceQR) ([]byte, error) {
	data := struct {
		P        InvoicePayload
		QR       template.URL
		Fallback bool
	}{
		P:        p,
		QR:       template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(qr.PNG)),
		Fallback: qr.Fallback,
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderInvoicePDF lays out the invoice on a single A4 page. Nothing is
// persisted here; a failure is returned to the caller as is.
func RenderInvoicePDF(p InvoicePayload, qr *InvoiceQR) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(p.Document.Company+" "+p.Document.Number), false)
	pdf.AddPage()

	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr.PNG))
	pdf.ImageOptions("qr", 150, 10, 45, 45, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetXY(150, 56)
	pdf.CellFormat(45, 4, tr("Kodi: "+p.Verification.Code), "", 0, "C", false, 0, "")

	title := "Faturë"
	if p.Document.Type == DocumentSupplementaryInvoice {
		title = "Faturë shtesë"
	}
	pdf.SetXY(10, 12)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(130, 9, tr(p.Document.Company))
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(130, 6, tr(fmt.Sprintf("%s nr. %s", title, p.Document.Number)))
	pdf.Ln(6)
	pdf.Cell(130, 6, tr("Data: "+p.Document.GeneratedAt))
	pdf.Ln(6)
	pdf.Cell(130, 6, tr("Përgatiti: "+p.Document.GeneratedBy))
	pdf.Ln(6)
	if p.ParentOrder != nil {
		pdf.Cell(130, 6, tr(fmt.Sprintf("Porosia kryesore: %s (%s, %s EUR)",
			p.ParentOrder.ID, p.ParentOrder.Type, p.ParentOrder.TotalPrice)))
		pdf.Ln(6)
	}

	pdf.SetY(66)
	rows := [][2]string{
		{"Klienti", p.Customer.FirstName + " " + p.Customer.LastName},
		{"Telefoni", p.Customer.Phone},
		{"Vendi", p.Customer.Location},
		{"Tipi i porosisë", p.Order.Type},
		{"Dita e dorëzimit", p.Order.DeliveryDate},
		{"Shitësi", p.Order.Seller},
		{"Mënyra e pagesës", p.Order.PaymentMethod},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(55, 7, tr(row[0]), "B", 0, "L", false, 0, "")
		pdf.CellFormat(135, 7, tr(row[1]), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(55, 7, tr("Përshkrimi"))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(190, 5, tr(p.Order.Description), "", "L", false)

	pdf.Ln(4)
	money := [][2]string{
		{"Çmimi total", p.Financial.TotalPrice + " €"},
		{"Kaparja", p.Financial.DownPayment + " €"},
		{"Mbetja", p.Financial.RemainingPayment + " €"},
	}
	for i, row := range money {
		style := ""
		if i == len(money)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(145, 7, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	note := p.Verification.Note
	if qr.Fallback {
		note += " QR përmban vetëm të dhënat bazë."
	}
	pdf.MultiCell(190, 4, tr(note), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
