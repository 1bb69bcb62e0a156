// intakectl consulta y opera notas de ingreso contra el backend vía el gateway remoto.
//
// Uso:
//
//	intakectl resumen <almacenId>
//	intakectl transicion <id> <paletizado|validado|almacenado|anulado> [--usuario op]
//	intakectl importar <nota.json>
//
// La URL del backend y los límites se leen de GATEWAY_* (ver pkg/config).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	appintake "github.com/jhoicas/wms-ingresos/internal/application/intake"
	"github.com/jhoicas/wms-ingresos/internal/infrastructure/gateway"
	"github.com/jhoicas/wms-ingresos/pkg/config"
	"github.com/jhoicas/wms-ingresos/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(connectFromEnv).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// connectFromEnv construye el gateway real a partir de la configuración del entorno.
func connectFromEnv() (appintake.Gateway, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	client, err := gateway.New(cfg.Gateway, gateway.WithLogger(logger.Component(log, "gateway")))
	if err != nil {
		return nil, log, fmt.Errorf("gateway: %w", err)
	}
	return client, log, nil
}
