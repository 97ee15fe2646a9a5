package router

import (
	"strings"

	"github.com/logis-assistant/server/internal/inventory"
)

// Intent is the classified category of an incoming request. Every intent but
// IntentDelegate is answered deterministically from inventory state without
// involving the reasoning engine.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentFullListing Intent = "full_listing"
	IntentOutOfStock  Intent = "out_of_stock"
	IntentAlerts      Intent = "alerts"
	IntentDelegate    Intent = "delegate"
)

// intentGroup pairs an intent with its keyword set. Groups are tested in
// order and the first substring hit wins, so the ordering is part of the
// contract: which canned template runs depends on it.
type intentGroup struct {
	intent   Intent
	keywords []string
}

var groups = []intentGroup{
	{IntentGreeting, []string{"hola", "buenos", "buenas", "gracias", "hey", "que tal"}},
	{IntentFullListing, []string{"listado completo", "inventario completo", "todos los productos", "catalogo"}},
	{IntentOutOfStock, []string{"agotado", "sin stock", "faltante", "quiebre"}},
	{IntentAlerts, []string{"mostrar alertas", "ver alertas", "alertas de stock", "reporte alertas"}},
}

// Classify matches the normalized request against the fixed keyword groups.
// No match means the request is delegated to the reasoning engine.
func Classify(requestText string) Intent {
	text := inventory.Normalize(requestText)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				return g.intent
			}
		}
	}
	return IntentDelegate
}
