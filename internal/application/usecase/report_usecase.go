package usecase

import (
	"context"
	"fmt"
)

// ReportUseCase genera los documentos descargables de notas de ingreso (PDF y XLSX).
type ReportUseCase struct {
	notas    *NotaIngresoUseCase
	pdf      NotaPDFGenerator
	exporter NotaExporter
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(notas *NotaIngresoUseCase, pdf NotaPDFGenerator, exporter NotaExporter) *ReportUseCase {
	return &ReportUseCase{notas: notas, pdf: pdf, exporter: exporter}
}

// NotaPDF devuelve el PDF imprimible de la nota y el nombre de archivo sugerido.
func (uc *ReportUseCase) NotaPDF(ctx context.Context, id string) ([]byte, string, error) {
	nota, err := uc.notas.find(ctx, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.Generate(nota)
	if err != nil {
		return nil, "", fmt.Errorf("pdf nota %s: %w", id, err)
	}
	return b, fmt.Sprintf("nota-ingreso-%s.pdf", nota.NroDocumento), nil
}

// ExportXLSX exporta las notas (opcionalmente de un almacén) a una hoja de cálculo.
func (uc *ReportUseCase) ExportXLSX(ctx context.Context, almacenID string) ([]byte, error) {
	notas, err := uc.notas.ListEntities(ctx, almacenID)
	if err != nil {
		return nil, err
	}
	b, err := uc.exporter.Export(notas)
	if err != nil {
		return nil, fmt.Errorf("exportar notas: %w", err)
	}
	return b, nil
}
