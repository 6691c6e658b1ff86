package client

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/avoran/taskmate/internal/fallback"
	"github.com/avoran/taskmate/internal/localstore"
	"github.com/avoran/taskmate/internal/models"
)

// ErrTaskNotFound is surfaced by Get and Update when the id exists in
// neither the backend nor the local store. Every other remote failure is
// absorbed by falling back.
var ErrTaskNotFound = localstore.ErrTaskNotFound

const defaultListLimit = 50

// Timeouts are the per-operation deadlines for remote calls. Reads are
// short; writes and summaries wait longer because the backend runs AI
// extraction on them.
type Timeouts struct {
	Read    time.Duration
	Write   time.Duration
	Summary time.Duration
	Health  time.Duration
}

// DefaultTimeouts returns the deadlines used unless overridden.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Read:    5 * time.Second,
		Write:   15 * time.Second,
		Summary: 30 * time.Second,
		Health:  3 * time.Second,
	}
}

// Gateway is the facade for all task operations. While demo mode is
// inactive it proxies the backend; on any remote failure it classifies
// the error, enters demo mode and serves the local store instead.
// Callers observe which mode is active only through DemoActive and
// DemoReason.
type Gateway struct {
	api        *API
	local      *localstore.Store
	mode       *fallback.Mode
	logger     zerolog.Logger
	timeouts   Timeouts
	localDelay time.Duration
}

// GatewayOption configures a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithTimeouts overrides the per-operation deadlines.
func WithTimeouts(t Timeouts) GatewayOption {
	return func(g *Gateway) {
		g.timeouts = t
	}
}

// WithLocalDelay sets the synthetic latency applied to local list and
// label reads so loading indicators behave consistently. Zero disables
// it.
func WithLocalDelay(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.localDelay = d
	}
}

// WithLocalStore injects a prepared local store.
func WithLocalStore(s *localstore.Store) GatewayOption {
	return func(g *Gateway) {
		g.local = s
	}
}

// WithMode injects a shared mode controller.
func WithMode(m *fallback.Mode) GatewayOption {
	return func(g *Gateway) {
		g.mode = m
	}
}

// NewGateway creates a gateway over the given API client with a fresh
// seeded local store and inactive demo mode.
func NewGateway(api *API, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		api:        api,
		logger:     zerolog.Nop(),
		timeouts:   DefaultTimeouts(),
		localDelay: 300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.local == nil {
		g.local = localstore.New()
	}
	if g.mode == nil {
		g.mode = fallback.NewMode()
	}
	return g
}

// DemoActive reports whether operations are served from the local store.
func (g *Gateway) DemoActive() bool {
	return g.mode.Active()
}

// DemoReason returns why demo mode was entered, empty when inactive.
func (g *Gateway) DemoReason() string {
	return g.mode.Reason()
}

// List returns tasks sorted by creation time descending, optionally
// filtered by label ("" or "all" means no filter).
func (g *Gateway) List(ctx context.Context, label string) ([]models.Task, error) {
	if g.mode.Active() {
		g.delay(ctx)
		return g.local.List(label), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Read)
	defer cancel()

	list, err := g.api.ListTasks(callCtx, label, 0, defaultListLimit)
	if err != nil {
		g.degrade("list tasks", err)
		return g.local.List(label), nil
	}

	g.heal()
	return list.Tasks, nil
}

// Get returns a task by id. Not-found is surfaced in both modes: the
// local store cannot invent a record it never created.
func (g *Gateway) Get(ctx context.Context, id int64) (*models.Task, error) {
	if g.mode.Active() {
		return g.local.Get(id)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Read)
	defer cancel()

	task, err := g.api.GetTask(callCtx, id)
	if err != nil {
		g.degrade("get task", err)
		return g.local.Get(id)
	}

	g.heal()
	return task, nil
}

// Create stores a new task built from description.
func (g *Gateway) Create(ctx context.Context, description string) (*models.Task, error) {
	if g.mode.Active() {
		return g.local.Create(description), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Write)
	defer cancel()

	task, err := g.api.CreateTask(callCtx, description)
	if err != nil {
		g.degrade("create task", err)
		return g.local.Create(description), nil
	}

	g.heal()
	return task, nil
}

// Update replaces a task's description. Not-found is surfaced in both
// modes.
func (g *Gateway) Update(ctx context.Context, id int64, description string) (*models.Task, error) {
	if g.mode.Active() {
		return g.local.Update(id, description)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Write)
	defer cancel()

	task, err := g.api.UpdateTask(callCtx, id, description)
	if err != nil {
		g.degrade("update task", err)
		return g.local.Update(id, description)
	}

	g.heal()
	return task, nil
}

// Delete removes a task by id. Failures are absorbed: after falling
// back the delete is applied to the local store on a best-effort basis.
func (g *Gateway) Delete(ctx context.Context, id int64) error {
	if g.mode.Active() {
		g.local.Delete(id)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Write)
	defer cancel()

	err := g.api.DeleteTask(callCtx, id)
	if err != nil {
		g.degrade("delete task", err)
		g.local.Delete(id)
		return nil
	}

	g.heal()
	return nil
}

// Labels returns the distinct labels currently in use, sorted.
func (g *Gateway) Labels(ctx context.Context) ([]string, error) {
	if g.mode.Active() {
		g.delay(ctx)
		return g.local.Labels(), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Read)
	defer cancel()

	labels, err := g.api.ListLabels(callCtx)
	if err != nil {
		g.degrade("list labels", err)
		return g.local.Labels(), nil
	}

	g.heal()
	return labels, nil
}

// Summarize reports on tasks created within [start, end]. In demo mode
// the summary is a fixed template, recognizably not AI-generated.
func (g *Gateway) Summarize(ctx context.Context, start, end time.Time) (*models.Summary, error) {
	if g.mode.Active() {
		return g.local.Summarize(start, end), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Summary)
	defer cancel()

	summary, err := g.api.Summarize(callCtx, start, end)
	if err != nil {
		g.degrade("summarize tasks", err)
		return g.local.Summarize(start, end), nil
	}

	g.heal()
	return summary, nil
}

// CheckHealth probes the backend and reports whether it responded. A
// probe never falls back to local data; a successful probe while demo
// mode is active clears it.
func (g *Gateway) CheckHealth(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, g.timeouts.Health)
	defer cancel()

	if err := g.api.Health(callCtx); err != nil {
		g.logger.Warn().
			Err(err).
			Msg("health check failed")
		return false
	}

	if g.mode.Active() {
		g.mode.Exit()
		g.logger.Info().Msg("backend healthy again, left demo mode")
	}
	return true
}

// ExitDemoMode force-clears demo mode so the next operation attempts
// the backend again. Used for explicit manual reconnects.
func (g *Gateway) ExitDemoMode() {
	g.mode.Exit()
	g.logger.Info().Msg("demo mode cleared manually")
}

// degrade classifies a remote failure and enters demo mode with the
// selected reason.
func (g *Gateway) degrade(op string, err error) {
	status := 0
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		status = apiErr.Status
	}

	verdict := fallback.Classify(err, status)
	g.mode.Enter(verdict.Reason)

	g.logger.Warn().
		Err(err).
		Str("op", op).
		Int("status", status).
		Str("reason", verdict.Reason).
		Msg("remote call failed, entering demo mode")
}

// heal leaves demo mode after a successful remote call. A concurrent
// operation may have entered it between our mode check and completion.
func (g *Gateway) heal() {
	if g.mode.Active() {
		g.mode.Exit()
		g.logger.Info().Msg("remote call succeeded, left demo mode")
	}
}

// delay simulates backend latency for local list reads.
func (g *Gateway) delay(ctx context.Context) {
	if g.localDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(g.localDelay):
	}
}
