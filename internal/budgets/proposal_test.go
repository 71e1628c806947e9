package budgets

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ensayelab/ensayelab/internal/clients"
)

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$5,036.91", formatMoney(5036.91))
	require.Equal(t, "$1,752.85", formatMoney(1752.85))
	require.Equal(t, "$450.00", formatMoney(450))
	require.Equal(t, "$0.00", formatMoney(0))
}

func TestRenderProposalHTML(t *testing.T) {
	addr := "Av. Universidad 1001, León, Gto."
	pm := "Transferencia bancaria"
	budget := &Budget{
		Clave:          "OBR-2026-0001",
		Status:         StatusApproved,
		Subtotal:       5036.91,
		TaxRate:        0.16,
		TaxAmount:      805.91,
		Total:          5842.82,
		HasAdvance:     true,
		AdvancePercent: 30,
		AdvanceAmount:  1752.85,
		PaymentMethod:  &pm,
		CreatedAt:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		Lines: []Line{
			{ConceptCode: "CON-LAB-001", Description: "Ensaye a compresión", Unit: "pieza", Quantity: 10, UnitPrice: 450.00, Subtotal: 4500.00, LineOrder: 1},
			{ConceptCode: "CON-LAB-002", Description: "Revenimiento", Unit: "prueba", Quantity: 3, UnitPrice: 178.97, Subtotal: 536.91, LineOrder: 2},
		},
	}
	client := &clients.Client{Name: "Constructora del Bajío SA de CV", Address: &addr}

	html, err := RenderProposalHTML(budget, client)
	require.NoError(t, err)

	for _, want := range []string{
		"Presupuesto OBR-2026-0001",
		"14/03/2026",
		"Constructora del Bajío SA de CV",
		"Av. Universidad 1001, León, Gto.",
		"CON-LAB-001",
		"$450.00",
		"$4,500.00",
		"$5,036.91",
		"IVA (16%)",
		"$805.91",
		"$5,842.82",
		"Anticipo (30%)",
		"$1,752.85",
		"Transferencia bancaria",
	} {
		require.Contains(t, html, want)
	}
}

func TestRenderProposalHTMLNoAdvance(t *testing.T) {
	budget := &Budget{
		Clave:     "OBR-2026-0002",
		Subtotal:  450,
		TaxRate:   0.16,
		TaxAmount: 72,
		Total:     522,
		CreatedAt: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
		Lines: []Line{
			{ConceptCode: "CON-LAB-001", Description: "Ensaye", Unit: "pieza", Quantity: 1, UnitPrice: 450, Subtotal: 450},
		},
	}
	client := &clients.Client{Name: "Cliente sin anticipo"}

	html, err := RenderProposalHTML(budget, client)
	require.NoError(t, err)
	require.NotContains(t, html, "Anticipo")
	require.NotContains(t, html, "Forma de pago")
}

func TestRenderProposalHTMLEscapesClientInput(t *testing.T) {
	budget := &Budget{
		Clave:     "OBR-2026-0003",
		Subtotal:  450,
		TaxRate:   0.16,
		TaxAmount: 72,
		Total:     522,
		Lines:     []Line{{ConceptCode: "X", Description: "<script>alert(1)</script>", Unit: "pza", Quantity: 1, UnitPrice: 450, Subtotal: 450}},
	}
	client := &clients.Client{Name: "ACME <s>"}

	html, err := RenderProposalHTML(budget, client)
	require.NoError(t, err)
	require.NotContains(t, html, "<script>alert(1)</script>")
	require.True(t, strings.Contains(html, "&lt;script&gt;"))
}
