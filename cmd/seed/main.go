// seed carga datos maestros (recursos, unidades y clientes) desde un catálogo XML.
//
// Uso: go run ./cmd/seed [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual. Los nombres ya existentes se omiten,
// por lo que puede ejecutarse varias veces.
package main

import (
	"context"
	"os"

	"github.com/vjmurenko/Warehouse-sub001/internal/application/usecase"
	"github.com/vjmurenko/Warehouse-sub001/internal/infrastructure/postgres"
	"github.com/vjmurenko/Warehouse-sub001/pkg/config"
	"github.com/vjmurenko/Warehouse-sub001/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	path := "catalogo.xml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir catálogo")
	}
	defer f.Close()

	items, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo inválido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	uc := usecase.NewReferenceUseCase(postgres.NewReferenceRepository(pool), logger.Nop())
	res := seed(ctx, uc, items, log)
	log.Info().Int("creados", res.created).Int("omitidos", res.skipped).Int("errores", res.failed).Msg("carga finalizada")
	if res.failed > 0 {
		os.Exit(1)
	}
}
