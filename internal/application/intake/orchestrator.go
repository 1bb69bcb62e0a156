package intake

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	domintake "github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// Resultados reportados al TransitionObserver.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// ReconcileError la mutación remota se confirmó pero la recarga posterior falló.
// La caché conserva la instantánea anterior hasta el próximo Refresh exitoso.
type ReconcileError struct {
	DocumentID string
	Err        error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("nota %s actualizada en el backend, recarga fallida: %v", e.DocumentID, e.Err)
}

func (e *ReconcileError) Unwrap() error { return e.Err }

// Orchestrator único componente autorizado a cambiar el estado de una nota.
// No aplica cambios locales: tras cada mutación exitosa recarga la lista completa.
type Orchestrator struct {
	store    *Store
	gw       Gateway
	log      zerolog.Logger
	observer TransitionObserver

	mu       sync.Mutex
	inflight map[string]struct{}
}

// OrchestratorOption configura el orquestador.
type OrchestratorOption func(*Orchestrator)

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.log = l }
}

// WithObserver asigna el observador de transiciones.
func WithObserver(obs TransitionObserver) OrchestratorOption {
	return func(o *Orchestrator) { o.observer = obs }
}

// NewOrchestrator construye el orquestador sobre una caché y un gateway explícitos.
func NewOrchestrator(store *Store, gw Gateway, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		gw:       gw,
		log:      zerolog.Nop(),
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RequestTransition solicita el cambio de estado de una nota.
// Errores: *domain.NotFoundError si la nota no está en caché (recargar con Refresh),
// *domain.IllegalTransitionError antes de cualquier llamada de red, *domain.ConflictError
// si ya hay una transición en curso para la nota, el error del gateway tal cual si la
// mutación falla y *ReconcileError si la mutación se confirmó pero la recarga no.
// La mutación nunca se reintenta.
func (o *Orchestrator) RequestTransition(ctx context.Context, id string, target entity.Estado, usuario string) error {
	doc, ok := o.store.Get(id)
	if !ok {
		return &domain.NotFoundError{Resource: "nota_ingreso", ID: id}
	}
	from := doc.Estado

	if err := domintake.ValidateTransition(from, target); err != nil {
		o.observe(from, target, outcomeRejected)
		return err
	}

	if !o.acquire(id) {
		o.observe(from, target, outcomeConflict)
		return &domain.ConflictError{DocumentID: id}
	}
	defer o.release(id)

	if err := o.gw.UpdateStatus(ctx, id, target, usuario); err != nil {
		o.observe(from, target, outcomeError)
		o.log.Warn().Err(err).Str("nota_id", id).Str("from", string(from)).Str("to", string(target)).
			Msg("transición rechazada por el backend")
		return err
	}
	o.observe(from, target, outcomeOK)
	o.log.Info().Str("nota_id", id).Str("from", string(from)).Str("to", string(target)).
		Str("usuario", usuario).Msg("transición confirmada")

	if err := o.Refresh(ctx); err != nil {
		return &ReconcileError{DocumentID: id, Err: err}
	}
	return nil
}

// CreateDocument valida la entrada (sin llamadas de red si es inválida), crea la nota en el
// backend y recarga la caché. Si la creación se confirmó pero la recarga falla devuelve la
// nota creada junto con un *ReconcileError.
func (o *Orchestrator) CreateDocument(ctx context.Context, in domintake.NotaInput) (*entity.NotaIngreso, error) {
	if err := domintake.ValidateNota(in).Err(); err != nil {
		return nil, err
	}
	created, err := o.gw.CreateDocument(ctx, in)
	if err != nil {
		return nil, err
	}
	o.log.Info().Str("nota_id", created.ID).Str("nro_documento", created.NroDocumento).
		Int("lineas", len(created.Detalles)).Msg("nota de ingreso creada")

	if err := o.Refresh(ctx); err != nil {
		return created, &ReconcileError{DocumentID: created.ID, Err: err}
	}
	return created, nil
}

// Refresh recarga la lista completa desde el backend y reemplaza la caché.
// Si la lectura falla la caché no cambia.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	docs, err := o.gw.ListDocuments(ctx)
	if err != nil {
		o.log.Error().Err(err).Msg("recarga de notas de ingreso")
		return err
	}
	o.store.ReplaceAll(docs)
	o.log.Debug().Int("notas", len(docs)).Uint64("version", o.store.Version()).Msg("caché recargada")
	return nil
}

// InFlight indica si hay una transición en curso para la nota.
func (o *Orchestrator) InFlight(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.inflight[id]
	return ok
}

func (o *Orchestrator) acquire(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inflight[id]; busy {
		return false
	}
	o.inflight[id] = struct{}{}
	return true
}

func (o *Orchestrator) release(id string) {
	o.mu.Lock()
	delete(o.inflight, id)
	o.mu.Unlock()
}

func (o *Orchestrator) observe(from, to entity.Estado, outcome string) {
	if o.observer != nil {
		o.observer.ObserveTransition(string(from), string(to), outcome)
	}
}
