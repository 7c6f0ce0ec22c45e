package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"sync"

	"libraryconsole/internal/console/client"
	"libraryconsole/pkg/models"
)

var (
	ErrUnknownEntity = errors.New("entity is not in the current list")
	ErrNotEditable   = errors.New("panel does not support edit or delete")
	ErrStaleForm     = errors.New("form is out of date, pick the entry again")
)

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Controller is the type-erased surface of a panel used by the web handlers
// and the CLI.
type Controller interface {
	Name() string
	Load(ctx context.Context) error
	Submit(ctx context.Context, mode Mode, values map[string]string) error
	Edit(id int64) error
	Reset()
	DeletePrompt(id int64) (string, error)
	Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error)
	View() View
	TakeAlert() string
}

// Row is one rendered entity.
type Row struct {
	ID      int64
	Summary string
}

// View is a point-in-time copy of a panel for rendering.
type View struct {
	Name     string
	Title    string
	Fields   []Field
	Editable bool

	Loaded bool   // false until the first load resolves
	Rows   []Row  // nil when Error is set
	Error  string // inline read failure

	Form  Form
	Alert string // filled in by callers that take the alert
}

// Panel manages one resource: a list snapshot, a form and the pending alert.
// Its mutex is never held across a network call.
type Panel[T Entity] struct {
	schema   Schema[T]
	endpoint string
	api      *client.Client
	logger   *slog.Logger

	mu      sync.Mutex
	issued  uint64 // sequence number of the newest load started
	applied uint64 // sequence number of the load currently shown
	loaded  bool
	items   []T
	loadErr string
	form    Form
	alert   string
}

// New creates a panel for schema served at endpoint, the collection URL
// (for example http://localhost:8001/users/).
func New[T Entity](api *client.Client, endpoint string, schema Schema[T], logger *slog.Logger) *Panel[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return &Panel[T]{
		schema:   schema,
		endpoint: endpoint,
		api:      api,
		logger:   logger.With("panel", schema.Name),
		form:     emptyForm(),
	}
}

func NewUsers(api *client.Client, endpoint string, logger *slog.Logger) *Panel[models.User] {
	return New(api, endpoint, UsersSchema(), logger)
}

func NewBooks(api *client.Client, endpoint string, logger *slog.Logger) *Panel[models.Book] {
	return New(api, endpoint, BooksSchema(), logger)
}

func NewLoans(api *client.Client, endpoint string, logger *slog.Logger) *Panel[models.Loan] {
	return New(api, endpoint, LoansSchema(), logger)
}

func (p *Panel[T]) Name() string { return p.schema.Name }

func (p *Panel[T]) Endpoint() string { return p.endpoint }

// EntityURL is the single-entity endpoint <endpoint><id>/.
func (p *Panel[T]) EntityURL(id int64) string {
	return fmt.Sprintf("%s%d/", p.endpoint, id)
}

// Load fetches the whole collection and replaces the snapshot. A response that
// resolves after a newer load was already applied is dropped.
func (p *Panel[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	res := client.FetchList[T](ctx, p.api, p.endpoint)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq <= p.applied {
		p.logger.Debug("discarding stale load", "seq", seq, "applied", p.applied)
		return res.Err
	}
	p.applied = seq
	p.loaded = true

	if !res.OK() {
		p.items = nil
		p.loadErr = "Error loading data: " + res.Err.Error()
		p.logger.Debug("load failed", "error", res.Err)
		return fmt.Errorf("load %s: %w", p.schema.Name, res.Err)
	}
	p.items = res.Value
	p.loadErr = ""
	return nil
}

// Submit creates or updates as the posted form says: CreateMode always POSTs to
// the collection, UpdateMode(id) PUTs only when id is the entry picked by the
// last Edit. On success the form is cleared and the list reloaded; on failure
// the values stay for another try.
func (p *Panel[T]) Submit(ctx context.Context, mode Mode, values map[string]string) error {
	p.mu.Lock()
	if mode.IsUpdate() && (!p.schema.Editable() || mode != p.form.Mode) {
		p.alert = "Error saving: " + ErrStaleForm.Error()
		p.mu.Unlock()
		return fmt.Errorf("save %s %d: %w", p.schema.Name, mode.ID, ErrStaleForm)
	}
	p.form = Form{Mode: mode, Values: p.pick(values)}
	p.mu.Unlock()

	payload, err := p.schema.Payload(values)
	if err != nil {
		p.setAlert("Error saving: " + err.Error())
		return err
	}

	url, method := p.endpoint, http.MethodPost
	if mode.IsUpdate() {
		url, method = p.EntityURL(mode.ID), http.MethodPut
	}

	res := client.Save[T](ctx, p.api, url, payload, method)
	if !res.OK() {
		p.setAlert("Error saving: " + res.Err.Error())
		p.logger.Debug("save failed", "method", method, "url", url, "error", res.Err)
		return fmt.Errorf("save %s: %w", p.schema.Name, res.Err)
	}

	p.Reset()
	p.reload(ctx)
	return nil
}

// Edit copies an entity from the current list into the form. No request is made.
func (p *Panel[T]) Edit(id int64) error {
	if !p.schema.Editable() {
		return ErrNotEditable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.find(id)
	if !ok {
		return ErrUnknownEntity
	}
	p.form = Form{Mode: UpdateMode(id), Values: p.schema.FormValues(item)}
	return nil
}

// Reset clears the form back to create mode.
func (p *Panel[T]) Reset() {
	p.mu.Lock()
	p.form = emptyForm()
	p.mu.Unlock()
}

// DeletePrompt is the confirmation question for deleting id.
func (p *Panel[T]) DeletePrompt(id int64) (string, error) {
	if !p.schema.Editable() {
		return "", ErrNotEditable
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.find(id)
	if !ok {
		return "", ErrUnknownEntity
	}
	return p.schema.DeletePrompt(item), nil
}

// Delete removes id after confirmation and reloads the list. A declined prompt
// returns (false, nil) without touching the network.
func (p *Panel[T]) Delete(ctx context.Context, id int64, confirm Confirmer) (bool, error) {
	prompt, err := p.DeletePrompt(id)
	if err != nil {
		return false, err
	}
	if !confirm.Confirm(prompt) {
		return false, nil
	}

	url := p.EntityURL(id)
	res := client.Delete(ctx, p.api, url)
	if !res.OK() {
		p.setAlert("Error deleting: " + res.Err.Error())
		p.logger.Debug("delete failed", "url", url, "error", res.Err)
		return false, fmt.Errorf("delete %s %d: %w", p.schema.Name, id, res.Err)
	}

	p.reload(ctx)
	return true, nil
}

func (p *Panel[T]) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		Name:     p.schema.Name,
		Title:    p.schema.Title,
		Fields:   p.schema.Fields,
		Editable: p.schema.Editable(),
		Loaded:   p.loaded,
		Error:    p.loadErr,
		Form:     Form{Mode: p.form.Mode, Values: maps.Clone(p.form.Values)},
	}
	if p.loadErr == "" {
		v.Rows = make([]Row, 0, len(p.items))
		for _, item := range p.items {
			v.Rows = append(v.Rows, Row{ID: item.EntityID(), Summary: item.Summary()})
		}
	}
	return v
}

// Items returns the current snapshot.
func (p *Panel[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// TakeAlert returns the pending alert and clears it.
func (p *Panel[T]) TakeAlert() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	alert := p.alert
	p.alert = ""
	return alert
}

// reload refreshes the list after a write. A failure is already shown inline
// in place of the list, so it is only logged.
func (p *Panel[T]) reload(ctx context.Context) {
	if err := p.Load(ctx); err != nil {
		p.logger.Debug("reload after write failed", "error", err)
	}
}

func (p *Panel[T]) setAlert(msg string) {
	p.mu.Lock()
	p.alert = msg
	p.mu.Unlock()
}

// find must be called with p.mu held.
func (p *Panel[T]) find(id int64) (T, bool) {
	for _, item := range p.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// pick keeps only the schema's fields.
func (p *Panel[T]) pick(values map[string]string) map[string]string {
	out := make(map[string]string, len(p.schema.Fields))
	for _, f := range p.schema.Fields {
		out[f.Name] = values[f.Name]
	}
	return out
}

var (
	_ Controller = (*Panel[models.User])(nil)
	_ Controller = (*Panel[models.Book])(nil)
	_ Controller = (*Panel[models.Loan])(nil)
)
