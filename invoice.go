package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// invoiceRequest is the invoice form. InvoiceNumber is optional; when
// empty the server issues the next number from the persisted counter.
type invoiceRequest struct {
	InvoiceNumber      string      `json:"invoice_number"`
	Date               string      `json:"date"`
	DueDate            string      `json:"due_date"`
	FromName           string      `json:"from_name"`
	FromAddress        string      `json:"from_address"`
	FromPhone          string      `json:"from_phone"`
	ToName             string      `json:"to_name"`
	ToAddress          string      `json:"to_address"`
	ToPhone            string      `json:"to_phone"`
	ServiceDescription string      `json:"service_description"`
	ServicesRendered   string      `json:"services_rendered"`
	Deliverables       string      `json:"deliverables"`
	Amount             json.Number `json:"amount"`
	Quantity           int         `json:"quantity"`
}

// invoiceHandler renders the invoice as an A4 PDF.
func (s *Server) invoiceHandler(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FromName == "" || req.ToName == "" || req.ServiceDescription == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: from_name, to_name, service_description"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil || !amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a positive number"})
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	if req.InvoiceNumber == "" {
		n, err := s.store.NextInvoiceNumber()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		req.InvoiceNumber = fmt.Sprintf("#%05d", n)
	}

	pdf, err := renderInvoice(req, amount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "Invoice "+req.InvoiceNumber+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// renderInvoice lays out the invoice on an A4 page: INVOICE header,
// number/date block top right, From/To columns, a black-header services
// table, bullet lists for services rendered and deliverables, then the
// totals block bottom right.
func renderInvoice(req invoiceRequest, amount decimal.Decimal) ([]byte, error) {
	total := amount.Mul(decimal.NewFromInt(int64(req.Quantity)))

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetTextColor(0, 0, 0)

	doc.SetFont("Helvetica", "B", 28)
	doc.Text(20, 25, "INVOICE")

	doc.SetFont("Helvetica", "", 10)
	doc.Text(130, 45, "Invoice ID:")
	doc.Text(170, 45, req.InvoiceNumber)
	doc.Text(130, 55, "Date:")
	doc.Text(170, 55, req.Date)
	doc.Text(130, 65, "Due Date:")
	doc.Text(170, 65, req.DueDate)

	doc.SetFont("Helvetica", "B", 11)
	doc.Text(20, 90, "From:")
	doc.Text(110, 90, "To:")

	doc.SetFont("Helvetica", "", 10)
	writeAddressBlock(doc, 20, req.FromName, req.FromAddress, req.FromPhone)
	writeAddressBlock(doc, 110, req.ToName, req.ToAddress, req.ToPhone)

	// Services table with a filled black header row.
	const tableY = 150.0
	doc.SetFillColor(0, 0, 0)
	doc.Rect(20, tableY, 170, 8, "F")
	doc.SetTextColor(255, 255, 255)
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(25, tableY+5.5, "Item")
	doc.Text(120, tableY+5.5, "Quantity")
	doc.Text(145, tableY+5.5, "Price")
	doc.Text(165, tableY+5.5, "Amount")

	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "", 10)
	dataY := tableY + 15
	doc.Text(25, dataY, req.ServiceDescription)
	doc.Text(120, dataY, fmt.Sprintf("%d", req.Quantity))
	doc.Text(145, dataY, amount.String())
	doc.Text(165, dataY, "AED "+total.String())

	y := dataY + 20
	y = writeBulletSection(doc, y, "Services Rendered:", req.ServicesRendered)
	y += 8
	y = writeBulletSection(doc, y, "Deliverables:", req.Deliverables)

	totalsY := y + 20
	if totalsY < 240 {
		totalsY = 240
	}
	doc.SetFont("Helvetica", "", 10)
	doc.Text(140, totalsY, "Subtotal")
	doc.Text(165, totalsY, "AED "+total.String())
	doc.SetFont("Helvetica", "B", 12)
	doc.Text(140, totalsY+10, "Total")
	doc.Text(165, totalsY+10, "AED "+total.String())

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeAddressBlock(doc *fpdf.Fpdf, x float64, name, address, phone string) {
	y := 100.0
	doc.Text(x, y, name)
	y += 5
	for _, line := range strings.Split(address, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			doc.Text(x, y, line)
			y += 5
		}
	}
	doc.Text(x, y, phone)
}

func writeBulletSection(doc *fpdf.Fpdf, y float64, title, body string) float64 {
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(20, y, title)
	y += 8
	doc.SetFont("Helvetica", "", 10)
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			doc.Text(25, y, "- "+line)
			y += 5
		}
	}
	return y
}
