package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/logis-assistant/server/internal/inventory"
)

// Responder renders the canned answer for each deterministic intent as a pure
// function over current inventory state.
type Responder struct {
	store inventory.Store
}

func NewResponder(store inventory.Store) *Responder {
	return &Responder{store: store}
}

// Answer produces the deterministic response for a non-delegate intent.
// Errors are store outages only; every logical outcome is text.
func (r *Responder) Answer(ctx context.Context, intent Intent) (string, error) {
	switch intent {
	case IntentGreeting:
		return greetingAnswer, nil
	case IntentFullListing:
		return r.fullListing(ctx)
	case IntentOutOfStock:
		return r.outOfStock(ctx)
	case IntentAlerts:
		return r.alertsReport(ctx)
	default:
		// Unreachable given Classify's default, kept as a never-fatal guard.
		return "❓ Consulta no reconocida.", nil
	}
}

const greetingAnswer = "¡Hola! Soy **Logis**, tu asistente de **stock y precios** 🛢️\n\n" +
	"Podés preguntarme:\n" +
	"• *¿Hay stock de elaion f50 5w-40 4l?*\n" +
	"• *¿Cuánto sale el blue32 urea 20l?*\n" +
	"• *¿Qué productos están agotados?*\n" +
	"• *Mostrar alertas de stock*\n" +
	"• *Listado completo*\n" +
	"• *¿Conviene reponer nafta super 10l?*\n" +
	"• *Actualizá stock de nafta super 10l a 15*\n" +
	"• *¿Qué productos críticos debería reponer primero?*\n"

func statusIcon(it inventory.Item) string {
	switch it.Status() {
	case inventory.StatusOutOfStock:
		return "🔴 AGOTADO"
	case inventory.StatusLow:
		return "🟡 BAJO"
	default:
		return "🟢 OK"
	}
}

func (r *Responder) fullListing(ctx context.Context) (string, error) {
	items, err := r.store.List(ctx)
	if err != nil {
		return "", err
	}

	lines := []string{
		"📋 **INVENTARIO COMPLETO**\n",
		"| Producto | Stock | Mínimo | Precio | Estado |",
		"|----------|-------|--------|--------|--------|",
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("| %s | %d | %d | $%s | %s |",
			strings.ToUpper(it.Name), it.Quantity, it.Threshold, formatMoney(it.Price), statusIcon(it)))
	}
	lines = append(lines, fmt.Sprintf("\n**Total:** %d productos", len(items)))
	return strings.Join(lines, "\n"), nil
}

func (r *Responder) outOfStock(ctx context.Context) (string, error) {
	items, err := r.store.List(ctx)
	if err != nil {
		return "", err
	}

	var out []inventory.Item
	for _, it := range items {
		if it.Status() == inventory.StatusOutOfStock {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return "✅ No hay productos agotados.", nil
	}

	lines := []string{
		fmt.Sprintf("🔴 **PRODUCTOS AGOTADOS (%d)**\n", len(out)),
		"| Producto | Precio Unit. |",
		"|----------|-------------|",
	}
	total := 0.0
	for _, it := range out {
		lines = append(lines, fmt.Sprintf("| %s | $%s |", strings.ToUpper(it.Name), formatMoney(it.Price)))
		total += it.Price
	}
	lines = append(lines, fmt.Sprintf("\n💰 **Inversión estimada (1 ud c/u):** $%s", formatMoney(total)))
	return strings.Join(lines, "\n"), nil
}

func (r *Responder) alertsReport(ctx context.Context) (string, error) {
	items, err := r.store.List(ctx)
	if err != nil {
		return "", err
	}

	var critical, low []string
	for _, it := range items {
		row := fmt.Sprintf("| %s | %d | %d | $%s |",
			strings.ToUpper(it.Name), it.Quantity, it.Threshold, formatMoney(it.Price))
		switch it.Status() {
		case inventory.StatusOutOfStock:
			critical = append(critical, row)
		case inventory.StatusLow:
			low = append(low, row)
		}
	}

	header := "| Producto | Stock | Mínimo | Precio |"
	sep := "|----------|-------|--------|--------|"
	lines := []string{"🚨 **REPORTE DE ALERTAS**\n"}
	if len(critical) > 0 {
		lines = append(lines, fmt.Sprintf("### 🔴 Agotados (%d)", len(critical)), header, sep)
		lines = append(lines, critical...)
		lines = append(lines, "")
	}
	if len(low) > 0 {
		lines = append(lines, fmt.Sprintf("### 🟡 Stock Bajo (%d)", len(low)), header, sep)
		lines = append(lines, low...)
		lines = append(lines, "")
	}
	if len(critical) == 0 && len(low) == 0 {
		lines = append(lines, "✅ Todo en orden.")
	} else {
		lines = append(lines, fmt.Sprintf("**Resumen:** %d agotados · %d con stock bajo.", len(critical), len(low)))
	}
	return strings.Join(lines, "\n"), nil
}

// formatMoney renders a price with thousands separators and no decimals,
// matching the original report formats.
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
