package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jhoicas/inventory-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-core/pkg/config"
)

// Aplica en orden todos los archivos .sql de migrations/ contra la base
// configurada. Pensado para entornos locales y CI, no para producción.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Printf("conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		fmt.Printf("listar migraciones: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			fmt.Printf("leer %s: %v\n", f, err)
			os.Exit(1)
		}
		if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
			fmt.Printf("aplicar %s: %v\n", f, err)
			os.Exit(1)
		}
		fmt.Printf("aplicada %s\n", f)
	}
	fmt.Println("migraciones completas")
}
