package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	appintake "github.com/jhoicas/wms-ingresos/internal/application/intake"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/pkg/logger"
)

// connectFunc entrega el gateway sobre el que opera cada subcomando.
type connectFunc func() (appintake.Gateway, zerolog.Logger, error)

func newRootCmd(connect connectFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "intakectl",
		Short:        "Operaciones sobre notas de ingreso del WMS",
		SilenceUsage: true,
	}
	root.AddCommand(
		newResumenCmd(connect),
		newTransicionCmd(connect),
		newImportarCmd(connect),
	)
	return root
}

// orchestrator arma caché + orquestador nuevos para un subcomando.
func orchestrator(connect connectFunc) (*appintake.Store, *appintake.Orchestrator, error) {
	gw, log, err := connect()
	if err != nil {
		return nil, nil, err
	}
	store := appintake.NewStore()
	return store, appintake.NewOrchestrator(store, gw, appintake.WithLogger(logger.Component(log, "orchestrator"))), nil
}

func newResumenCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "resumen <almacenId>",
		Short: "Conteo por estado y listado de notas de un almacén",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, orch, err := orchestrator(connect)
			if err != nil {
				return err
			}
			if err := orch.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("recargar notas: %w", err)
			}
			printResumen(cmd.OutOrStdout(), store, args[0])
			return nil
		},
	}
}

func newTransicionCmd(connect connectFunc) *cobra.Command {
	var usuario string
	cmd := &cobra.Command{
		Use:   "transicion <id> <estado>",
		Short: "Solicita el cambio de estado de una nota",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			target, err := entity.ParseEstado(args[1])
			if err != nil {
				return err
			}
			store, orch, err := orchestrator(connect)
			if err != nil {
				return err
			}
			if err := orch.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("recargar notas: %w", err)
			}
			out := cmd.OutOrStdout()
			if err := orch.RequestTransition(cmd.Context(), id, target, usuario); err != nil {
				var rec *appintake.ReconcileError
				if !errors.As(err, &rec) {
					return err
				}
				fmt.Fprintf(out, "aviso: %v\n", err)
			}
			if doc, ok := store.Get(id); ok {
				fmt.Fprintf(out, "%s %s → %s\n", doc.NroDocumento, doc.ID, doc.Estado)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&usuario, "usuario", "", "operador responsable del cambio")
	return cmd
}

func newImportarCmd(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "importar <nota.json>",
		Short: "Crea una nota a partir de un archivo JSON con el cuerpo de POST /nota-ingreso",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer %s: %w", args[0], err)
			}
			var req dto.CreateNotaIngresoRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("decodificar %s: %w", args[0], err)
			}
			_, orch, err := orchestrator(connect)
			if err != nil {
				return err
			}
			created, err := orch.CreateDocument(cmd.Context(), req.ToInput())
			if created == nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err != nil {
				fmt.Fprintf(out, "aviso: %v\n", err)
			}
			fmt.Fprintf(out, "creada %s %s (%d líneas)\n", created.NroDocumento, created.ID, len(created.Detalles))
			return nil
		},
	}
}

func printResumen(out io.Writer, store *appintake.Store, almacenID string) {
	counts := store.StatusCounts(almacenID)
	fmt.Fprintf(out, "almacén %s\n", almacenID)
	for _, e := range entity.Estados() {
		fmt.Fprintf(out, "  %-11s %d\n", e, counts[e])
	}
	for _, d := range store.GetByWarehouse(almacenID) {
		fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", d.NroDocumento, d.ID, d.Estado, len(d.Detalles))
	}
}
