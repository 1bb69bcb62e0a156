// Package gateway implementa el acceso HTTP al backend de notas de ingreso.
// Cada llamada tiene un plazo total y límites de tamaño de payload y de longitud de
// identificadores; solo las lecturas idempotentes se reintentan.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	appintake "github.com/jhoicas/wms-ingresos/internal/application/intake"
	"github.com/jhoicas/wms-ingresos/internal/domain"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
	"github.com/jhoicas/wms-ingresos/internal/infrastructure/metrics"
	"github.com/jhoicas/wms-ingresos/pkg/config"
)

// Verificar en tiempo de compilación que Client implementa el puerto del orquestador.
var _ appintake.Gateway = (*Client)(nil)

const (
	notaPath    = "/nota-ingreso"
	detallePath = "/detalle-ingreso"

	// maxErrorBody cuerpo máximo conservado en RemoteError.
	maxErrorBody = 64 * 1024
	maxBackoff   = 5 * time.Second
)

// Client cliente del backend. Seguro para uso concurrente.
type Client struct {
	cfg        config.GatewayConfig
	baseURL    *url.URL
	httpClient *http.Client
	log        zerolog.Logger
	metrics    *metrics.Metrics
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (por defecto sin timeout propio: manda el contexto).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger asigna el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics asigna los colectores Prometheus.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New construye el cliente. BaseURL debe ser absoluta (http o https).
func New(cfg config.GatewayConfig, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("gateway: base URL inválida %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("gateway: timeout debe ser positivo")
	}
	if cfg.ReadRetries < 0 || (cfg.ReadRetries > 0 && cfg.RetryBaseDelay <= 0) {
		return nil, fmt.Errorf("gateway: reintentos=%d requieren retardo base positivo (recibido %s)",
			cfg.ReadRetries, cfg.RetryBaseDelay)
	}
	c := &Client{
		cfg:        cfg,
		baseURL:    u,
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ── Ejecución de llamadas ─────────────────────────────────────────────────────

type call struct {
	op         string
	method     string
	path       string
	query      url.Values
	body       []byte
	out        any
	idempotent bool
}

// do ejecuta la llamada bajo el plazo total configurado. Las lecturas idempotentes se
// reintentan ante fallos de transporte, 5xx y 429; las mutaciones nunca.
func (c *Client) do(ctx context.Context, cl call) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	attempts := 0
	attempt := func(ctx context.Context) error {
		attempts++
		return c.once(ctx, cl)
	}

	var err error
	if cl.idempotent && c.cfg.ReadRetries > 0 {
		b := retry.WithMaxRetries(uint64(c.cfg.ReadRetries),
			retry.WithCappedDuration(maxBackoff, retry.NewExponential(c.cfg.RetryBaseDelay)))
		err = retry.Do(ctx, b, func(ctx context.Context) error {
			if err := attempt(ctx); err != nil {
				if retryable(err) {
					return retry.RetryableError(err)
				}
				return err
			}
			return nil
		})
	} else {
		err = attempt(ctx)
	}
	err = c.classify(ctx, cl.op, err)

	elapsed := time.Since(start)
	c.metrics.ObserveGateway(cl.op, outcome(err), elapsed)
	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("op", cl.op).Str("method", cl.method).Str("path", cl.path).
		Int("attempts", attempts).Dur("elapsed", elapsed).Msg("gateway")
	return err
}

func (c *Client) once(ctx context.Context, cl call) error {
	u := *c.baseURL
	u.Path = c.baseURL.Path + cl.path
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		body = bytes.NewReader(cl.body)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: crear HTTP request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &transportError{op: cl.op, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &domain.RemoteError{Op: cl.op, Status: resp.StatusCode, Body: string(raw)}
	}

	if cl.out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, int64(c.cfg.MaxPayloadBytes)))
		return nil
	}
	limit := int64(c.cfg.MaxPayloadBytes)
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &transportError{op: cl.op, err: err}
	}
	if int64(len(raw)) > limit {
		return invalidResponse(cl.op, fmt.Errorf("respuesta supera %d bytes", limit))
	}
	if err := json.Unmarshal(raw, cl.out); err != nil {
		return invalidResponse(cl.op, fmt.Errorf("deserializar respuesta: %w", err))
	}
	return nil
}

// invalidResponse fallo al interpretar una respuesta 2xx.
func invalidResponse(op string, err error) error {
	return &domain.ResponseError{Op: op, Err: err}
}

// transportError fallo de red sin respuesta HTTP.
type transportError struct {
	op  string
	err error
}

func (e *transportError) Error() string {
	return fmt.Sprintf("%s: llamada HTTP fallida: %v", e.op, e.err)
}

func (e *transportError) Unwrap() error { return e.err }

// retryable fallos de transporte, 5xx y 429.
func retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var re *domain.RemoteError
	if errors.As(err, &re) {
		return re.Status >= 500 || re.Status == http.StatusTooManyRequests
	}
	return false
}

// classify convierte el vencimiento del plazo en *domain.TimeoutError, distinto de RemoteError.
func (c *Client) classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &domain.TimeoutError{Op: op}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: cancelada: %w", op, err)
	}
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrTimeout):
		return metrics.OutcomeTimeout
	case errors.Is(err, domain.ErrInvalidInput):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// ── Límites locales ───────────────────────────────────────────────────────────

// checkValue falla con ValidationError si el valor supera MaxFieldLength caracteres (NFC).
// Nunca trunca.
func (c *Client) checkValue(field, v string) error {
	if n := intake.FieldLength(v); n > c.cfg.MaxFieldLength {
		return domain.NewValidationError(field, fmt.Sprintf("máximo %d caracteres (recibido %d)", c.cfg.MaxFieldLength, n))
	}
	return nil
}

// checkID valida un identificador de ruta: no vacío y dentro del límite.
func (c *Client) checkID(field, id string) error {
	if id == "" {
		return domain.NewValidationError(field, "es requerido")
	}
	return c.checkValue(field, id)
}

// encode serializa el payload y lo rechaza localmente si supera MaxPayloadBytes.
func (c *Client) encode(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar payload: %w", err)
	}
	if len(b) > c.cfg.MaxPayloadBytes {
		return nil, domain.NewValidationError("payload",
			fmt.Sprintf("tamaño %d bytes supera el máximo de %d", len(b), c.cfg.MaxPayloadBytes))
	}
	return b, nil
}

// rejectLocal registra una llamada rechazada antes de salir a la red.
func (c *Client) rejectLocal(op string, err error) error {
	c.metrics.ObserveGateway(op, outcome(err), 0)
	c.log.Debug().Err(err).Str("op", op).Msg("gateway: rechazo local")
	return err
}
