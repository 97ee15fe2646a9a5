package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/logis-assistant/server/internal/inventory"
	"github.com/logis-assistant/server/pkg/sqlitedb"
)

func newTestRegistry(t *testing.T) (*Registry, inventory.Store) {
	t.Helper()
	db, err := sqlitedb.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := inventory.NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	rows := []struct {
		name           string
		qty, threshold int
		price          float64
	}{
		{"blue32 urea 20l", 0, 5, 28000},
		{"elaion f50 5w-40 4l", 2, 6, 52000},
		{"nafta super 10l", 40, 10, 15000},
	}
	for _, r := range rows {
		if _, err := db.Exec(
			`INSERT INTO productos (material, cantidad, precio, minimo) VALUES (?, ?, ?, ?)`,
			r.name, r.qty, r.price, r.threshold); err != nil {
			t.Fatalf("seed %q: %v", r.name, err)
		}
	}
	return NewRegistry(Deps{Store: store, Resolver: inventory.NewResolver(store)}), store
}

// report unwraps the JSON envelope every action returns.
func report(t *testing.T, raw string) string {
	t.Helper()
	var out struct {
		Report string `json:"report"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return out.Report
}

func TestRegistryInfos(t *testing.T) {
	r, _ := newTestRegistry(t)
	infos, err := r.Infos(context.Background())
	if err != nil {
		t.Fatalf("Infos: %v", err)
	}
	if len(infos) != 4 {
		t.Fatalf("got %d tool infos, want 4", len(infos))
	}
	want := map[string]bool{ToolInspectItem: true, ToolListCritical: true, ToolMutateStock: true, ToolListAll: true}
	for _, info := range infos {
		if !want[info.Name] {
			t.Errorf("unexpected tool %q", info.Name)
		}
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t)
	got, err := r.Execute(context.Background(), "drop_tables", `{}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(got, "unknown_tool") {
		t.Errorf("got %q, want unknown_tool envelope", got)
	}
}

func TestInspectItem(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx := context.Background()

	raw, err := r.Execute(ctx, ToolInspectItem, `{"name":"elaion f50"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rep := report(t, raw)
	for _, want := range []string{
		"PRODUCTO: ELAION F50 5W-40 4L",
		"Stock actual: 2 uds",
		"Stock mínimo: 6 uds",
		"Precio unitario: $52,000.00",
		"Valor en inventario: $104,000.00",
		"STOCK BAJO (faltan 4 uds para el mínimo)",
	} {
		if !strings.Contains(rep, want) {
			t.Errorf("report missing %q:\n%s", want, rep)
		}
	}
}

func TestInspectItemNotFound(t *testing.T) {
	r, _ := newTestRegistry(t)

	raw, err := r.Execute(context.Background(), ToolInspectItem, `{"name":"grasa de litio"}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rep := report(t, raw)
	if !strings.Contains(rep, "no encontrado") || !strings.Contains(rep, "Similares: ninguno") {
		t.Errorf("got %q", rep)
	}
}

func TestListCritical(t *testing.T) {
	r, _ := newTestRegistry(t)

	raw, err := r.Execute(context.Background(), ToolListCritical, `{}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	rep := report(t, raw)
	for _, want := range []string{
		"AGOTADOS (1):",
		"BLUE32 UREA 20L | stock: 0 | precio: $28,000",
		"STOCK BAJO (1):",
		"ELAION F50 5W-40 4L | stock: 2/6 | precio: $52,000",
	} {
		if !strings.Contains(rep, want) {
			t.Errorf("report missing %q:\n%s", want, rep)
		}
	}
	if strings.Contains(rep, "NAFTA") {
		t.Errorf("healthy product leaked into critical report:\n%s", rep)
	}
}

func TestMutateStockAbsolute(t *testing.T) {
	r, store := newTestRegistry(t)
	ctx := context.Background()

	raw, err := r.Execute(ctx, ToolMutateStock, `{"name":"blue32 urea 20l","quantity":12,"absolute":true}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rep := report(t, raw); !strings.Contains(rep, "✅ Stock de BLUE32 UREA 20L establecido a 12 uds.") {
		t.Errorf("got %q", rep)
	}

	it, err := store.Get(ctx, "blue32 urea 20l")
	if err != nil || it.Quantity != 12 {
		t.Errorf("persisted quantity = %v, %v; want 12", it, err)
	}
}

func TestMutateStockRelative(t *testing.T) {
	r, store := newTestRegistry(t)
	ctx := context.Background()

	raw, err := r.Execute(ctx, ToolMutateStock, `{"name":"nafta super 10l","quantity":-15,"absolute":false}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rep := report(t, raw); !strings.Contains(rep, "40 → 25 (-15)") {
		t.Errorf("got %q", rep)
	}

	it, err := store.Get(ctx, "nafta super 10l")
	if err != nil || it.Quantity != 25 {
		t.Errorf("persisted quantity = %v, %v; want 25", it, err)
	}
}

func TestMutateStockRejectsNegative(t *testing.T) {
	r, store := newTestRegistry(t)
	ctx := context.Background()

	raw, err := r.Execute(ctx, ToolMutateStock, `{"name":"elaion f50 5w-40 4l","quantity":-5,"absolute":false}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rep := report(t, raw); !strings.Contains(rep, "no puede quedar negativo. Actual: 2, cambio: -5.") {
		t.Errorf("got %q", rep)
	}

	it, err := store.Get(ctx, "elaion f50 5w-40 4l")
	if err != nil || it.Quantity != 2 {
		t.Errorf("rejected mutation changed stock: %v, %v", it, err)
	}
}

func TestListAll(t *testing.T) {
	r, _ := newTestRegistry(t)

	raw, err := r.Execute(context.Background(), ToolListAll, `{}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	var out ListAllOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Total)
	}
	for _, want := range []string{
		"INVENTARIO COMPLETO:",
		"- BLUE32 UREA 20L | 0 uds | $28,000 | AGOTADO",
		"- ELAION F50 5W-40 4L | 2 uds | $52,000 | BAJO",
		"- NAFTA SUPER 10L | 40 uds | $15,000 | OK",
		"Total: 3 productos",
	} {
		if !strings.Contains(out.Report, want) {
			t.Errorf("report missing %q:\n%s", want, out.Report)
		}
	}
}
