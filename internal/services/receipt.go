package services

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/nconnect/society-backend/internal/models"
	"github.com/nconnect/society-backend/internal/utils"
)

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"rupees":    formatRupees,
	"date":      func(t time.Time) string { return t.Format("02 Jan 2006") },
	"upper":     strings.ToUpper,
	"deref":     func(f *float64) float64 { return utils.Val(f) },
	"derefTime": func(t *time.Time) time.Time { return utils.Val(t) },
}).Parse(`{{.Organization}}
PAYMENT RECEIPT
========================================
Receipt No : {{.Number}}
Issued     : {{date .IssuedAt}}
Unit       : {{.Unit.UnitNumber}}{{if .Unit.Building}} ({{.Unit.Building}}){{end}}
Bill       : {{upper (print .Bill.BillType)}} {{printf "%02d" .Bill.Month}}/{{.Bill.Year}}
Due date   : {{date .Bill.DueDate}}
----------------------------------------
{{- if .Bill.UnitsConsumed}}
Consumption: {{printf "%.2f" (deref .Bill.UnitsConsumed)}} units
{{- end}}
Amount     : {{rupees .Bill.AmountPaise}}
{{- if .Bill.LateFeePaise}}
Late fee   : {{rupees .Bill.LateFeePaise}}
{{- end}}
{{- if .Bill.DiscountPaise}}
Discount   : -{{rupees .Bill.DiscountPaise}}
{{- end}}
TOTAL PAID : {{rupees .Total}}
----------------------------------------
{{- if .PaymentMode}}
Mode       : {{.PaymentMode}}
{{- end}}
{{- if .Bill.TransactionID}}
Txn ID     : {{.Bill.TransactionID}}
{{- end}}
{{- if .Bill.PaymentDate}}
Paid on    : {{date (derefTime .Bill.PaymentDate)}}
{{- end}}
========================================
This is a computer generated receipt.
`))

type receiptData struct {
	Organization string
	Number       string
	IssuedAt     time.Time
	Unit         *models.ResidenceUnit
	Bill         *models.Bill
	Total        int64
	PaymentMode  string
}

func renderReceipt(w io.Writer, b *models.Bill, unit *models.ResidenceUnit, number string, issuedAt time.Time) error {
	data := receiptData{
		Organization: utils.OrganizationName,
		Number:       number,
		IssuedAt:     issuedAt,
		Unit:         unit,
		Bill:         b,
		Total:        b.TotalPaise(),
	}
	if b.PaymentMode != nil {
		data.PaymentMode = strings.ReplaceAll(string(*b.PaymentMode), "_", " ")
	}
	return receiptTemplate.Execute(w, data)
}

func formatRupees(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	return fmt.Sprintf("%sRs. %d.%02d", sign, paise/100, paise%100)
}
