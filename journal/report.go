package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"
)

// ReportPosition is one holding as shown in a Report.
type ReportPosition struct {
	Symbol        string
	Quantity      int
	AveragePrice  float64
	Price         float64
	Value         float64
	ProfitLoss    float64
	ProfitLossPct float64
}

// Report is an account summary rendered as an Org-mode document.
type Report struct {
	Owner   string
	Created time.Time

	StartingCash    float64
	Cash            float64
	TotalValue      float64
	TotalProfitLoss float64

	Positions []ReportPosition

	Transactions int
	Executed     int
	Cancelled    int
	Recent       []OrderRecord

	OrgPath string
}

// ReturnPct is the change in total value relative to the starting cash.
func (r *Report) ReturnPct() float64 {
	if r.StartingCash == 0 {
		return 0
	}
	return (r.TotalValue - r.StartingCash) / r.StartingCash * 100.0
}

// CountOrders fills Executed and Cancelled from orders.
func (r *Report) CountOrders(orders []OrderRecord) {
	r.Executed, r.Cancelled = 0, 0
	for _, o := range orders {
		switch o.Status {
		case "EXECUTED":
			r.Executed++
		case "CANCELLED":
			r.Cancelled++
		}
	}
}

var reportOrgFuncs = template.FuncMap{
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"orderOrg": FormatOrderOrg,
}

var reportTmpl = template.Must(template.New("report").Funcs(reportOrgFuncs).Parse(ReportOrgTemplate))

func (r *Report) Render(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}

// WriteOrg renders the report to OrgPath.
func (r *Report) WriteOrg() error {
	if r.OrgPath == "" {
		return fmt.Errorf("write report: no org path")
	}

	buf := new(bytes.Buffer)
	if err := r.Render(buf); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return os.WriteFile(r.OrgPath, buf.Bytes(), 0o644)
}

const ReportOrgTemplate = `* ACCOUNT: {{.Owner}}
:PROPERTIES:
:OWNER:       {{.Owner}}
:START_CASH:  {{printf "%.2f" .StartingCash}}
:CASH:        {{printf "%.2f" .Cash}}
:TOTAL_VALUE: {{printf "%.2f" .TotalValue}}
:TOTAL_PL:    {{printf "%.2f" .TotalProfitLoss}}
:RETURN_PCT:  {{printf "%.2f" .ReturnPct}}
:TXNS:        {{.Transactions}}
:EXECUTED:    {{.Executed}}
:CANCELLED:   {{.Cancelled}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Positions
{{- if .Positions }}
| Symbol | Qty | Avg Cost | Price | Value | P/L | P/L % |
|--------+-----+----------+-------+-------+-----+-------|
{{- range .Positions }}
| {{.Symbol}} | {{.Quantity}} | {{printf "%.2f" .AveragePrice}} | {{printf "%.2f" .Price}} | {{printf "%.2f" .Value}} | {{printf "%.2f" .ProfitLoss}} | {{printf "%.2f" .ProfitLossPct}} |
{{- end }}
{{- else }}
- no open positions
{{- end }}

** Performance Summary
- Total Value:      *{{printf "%.2f" .TotalValue}}*
- Unrealized P/L:   *{{printf "%.2f" .TotalProfitLoss}}*
- Return:           *{{printf "%.2f" .ReturnPct}}%*

** Order Outcomes
| Outcome   | Count |
|-----------+-------|
| Executed  | {{.Executed}} |
| Cancelled | {{.Cancelled}} |
{{- if .Recent }}

** Recent Orders
{{- range .Recent }}
*{{orderOrg .}}
{{- end }}
{{- end }}
`
