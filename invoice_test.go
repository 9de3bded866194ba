package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderInvoiceProducesPDF(t *testing.T) {
	req := invoiceRequest{
		InvoiceNumber:      "#00020",
		Date:               "2025-06-01",
		DueDate:            "2025-06-15",
		FromName:           "Nuone",
		FromAddress:        "1 Example Street\nDubai",
		FromPhone:          "+971 50 000 0000",
		ToName:             "Acme Corp",
		ToAddress:          "2 Client Avenue\nDubai",
		ToPhone:            "+971 50 111 1111",
		ServiceDescription: "Consulting services",
		ServicesRendered:   "Discovery workshop\nImplementation support",
		Deliverables:       "Final report",
		Quantity:           2,
	}

	pdf, err := renderInvoice(req, decimal.NewFromInt(50000))
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"), "output must be a PDF document")
}

func TestRenderInvoiceDefaultQuantityTotal(t *testing.T) {
	pdf, err := renderInvoice(invoiceRequest{
		InvoiceNumber:      "#00021",
		FromName:           "Kate",
		ToName:             "Acme Corp",
		ServiceDescription: "Design work",
		Quantity:           1,
	}, decimal.NewFromInt(12345))
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
