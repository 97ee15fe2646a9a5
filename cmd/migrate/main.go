package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/logis-assistant/server/internal/feedback"
	"github.com/logis-assistant/server/internal/inventory"
	"github.com/logis-assistant/server/pkg/sqlitedb"
)

// migrate loads the product catalog CSV (material, cantidad, precio, minimo)
// into the SQLite database, creating the productos and feedback tables when
// missing. Existing products are updated in place.
func main() {
	csvPath := flag.String("csv", "materiales.csv", "path to the product catalog CSV")
	dbPath := flag.String("db", "logis.db", "path to the SQLite database")
	flag.Parse()

	if err := run(*csvPath, *dbPath); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func run(csvPath, dbPath string) error {
	db, err := sqlitedb.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	// Table creation lives with the stores.
	if _, err := inventory.NewSQLiteStore(db); err != nil {
		return err
	}
	if _, err := feedback.NewSQLiteStore(db); err != nil {
		return err
	}

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("csv is empty")
	}

	cols := columnIndex(rows[0])
	if cols["material"] < 0 {
		return fmt.Errorf("csv is missing the material column")
	}

	ctx := context.Background()
	migrated := 0
	for _, row := range rows[1:] {
		material := inventory.Normalize(field(row, cols["material"]))
		if material == "" {
			continue
		}
		cantidad := parseInt(field(row, cols["cantidad"]), 0)
		precio := parseFloat(field(row, cols["precio"]), 0)
		minimo := parseInt(field(row, cols["minimo"]), inventory.DefaultThreshold)

		if err := upsert(ctx, db, material, cantidad, precio, minimo); err != nil {
			return fmt.Errorf("upsert %q: %w", material, err)
		}
		migrated++
	}

	fmt.Printf("✅ Base de datos lista: %s\n", dbPath)
	fmt.Printf("✅ Productos migrados: %d\n", migrated)
	return nil
}

func upsert(ctx context.Context, db *sql.DB, material string, cantidad int, precio float64, minimo int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO productos (material, cantidad, precio, minimo)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(material) DO UPDATE SET
			cantidad = excluded.cantidad,
			precio   = excluded.precio,
			minimo   = excluded.minimo
	`, material, cantidad, precio, minimo)
	return err
}

func columnIndex(header []string) map[string]int {
	cols := map[string]int{"material": -1, "cantidad": -1, "precio": -1, "minimo": -1}
	for i, name := range header {
		cols[inventory.Normalize(name)] = i
	}
	return cols
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(inventory.Normalize(s))
	if err != nil {
		return fallback
	}
	return v
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(inventory.Normalize(s), 64)
	if err != nil {
		return fallback
	}
	return v
}
