package budgets

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ensayelab/ensayelab/internal/clients"
)

var moneyPrinter = message.NewPrinter(language.MustParse("es-MX"))

func formatMoney(v float64) string {
	return moneyPrinter.Sprintf("$%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

type proposalLine struct {
	ConceptCode string
	Description string
	Unit        string
	Quantity    float64
	UnitPrice   string
	Subtotal    string
}

type proposalData struct {
	Clave          string
	Date           string
	ClientName     string
	ClientAddress  string
	Lines          []proposalLine
	Subtotal       string
	TaxRate        string
	TaxAmount      string
	Total          string
	HasAdvance     bool
	AdvancePercent string
	AdvanceAmount  string
	PaymentMethod  string
}

var proposalTemplate = template.Must(template.New("proposal").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Presupuesto {{.Clave}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; margin: 40px; color: #222; }
  h1 { font-size: 18px; margin-bottom: 0; }
  .meta { color: #555; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th, td { border: 1px solid #999; padding: 6px 8px; text-align: left; }
  th { background: #f0f0f0; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 2px 8px; }
  .totals .label { text-align: right; color: #555; }
  .totals .grand { font-weight: bold; border-top: 1px solid #999; }
</style>
</head>
<body>
<h1>Presupuesto {{.Clave}}</h1>
<p class="meta">Fecha: {{.Date}}</p>
<p><strong>Cliente:</strong> {{.ClientName}}{{if .ClientAddress}}<br>{{.ClientAddress}}{{end}}</p>
<table>
<thead>
<tr><th>Concepto</th><th>Descripción</th><th>Unidad</th><th class="num">Cantidad</th><th class="num">P. Unitario</th><th class="num">Importe</th></tr>
</thead>
<tbody>
{{range .Lines}}<tr><td>{{.ConceptCode}}</td><td>{{.Description}}</td><td>{{.Unit}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Subtotal}}</td></tr>
{{end}}</tbody>
</table>
<table class="totals">
<tr><td class="label">Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
<tr><td class="label">IVA ({{.TaxRate}})</td><td class="num">{{.TaxAmount}}</td></tr>
<tr class="grand"><td class="label grand">Total</td><td class="num grand">{{.Total}}</td></tr>
{{if .HasAdvance}}<tr><td class="label">Anticipo ({{.AdvancePercent}})</td><td class="num">{{.AdvanceAmount}}</td></tr>{{end}}
</table>
{{if .PaymentMethod}}<p><strong>Forma de pago:</strong> {{.PaymentMethod}}</p>{{end}}
</body>
</html>
`))

// RenderProposalHTML builds the printable proposal document. The PDF engine
// consumes this HTML through the renderer interface; nothing here touches
// Gotenberg directly.
func RenderProposalHTML(budget *Budget, client *clients.Client) (string, error) {
	data := proposalData{
		Clave:          budget.Clave,
		Date:           budget.CreatedAt.Format("02/01/2006"),
		ClientName:     client.Name,
		Subtotal:       formatMoney(budget.Subtotal),
		TaxRate:        fmt.Sprintf("%.0f%%", budget.TaxRate*100),
		TaxAmount:      formatMoney(budget.TaxAmount),
		Total:          formatMoney(budget.Total),
		HasAdvance:     budget.HasAdvance,
		AdvancePercent: fmt.Sprintf("%.0f%%", budget.AdvancePercent),
		AdvanceAmount:  formatMoney(budget.AdvanceAmount),
	}
	if client.Address != nil {
		data.ClientAddress = *client.Address
	}
	if budget.PaymentMethod != nil {
		data.PaymentMethod = *budget.PaymentMethod
	}
	if data.Date == "01/01/0001" {
		data.Date = time.Now().Format("02/01/2006")
	}
	for _, line := range budget.Lines {
		data.Lines = append(data.Lines, proposalLine{
			ConceptCode: line.ConceptCode,
			Description: line.Description,
			Unit:        line.Unit,
			Quantity:    line.Quantity,
			UnitPrice:   formatMoney(line.UnitPrice),
			Subtotal:    formatMoney(line.Subtotal),
		})
	}

	var buf bytes.Buffer
	if err := proposalTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render proposal template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
