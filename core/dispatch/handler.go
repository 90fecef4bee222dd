package dispatch

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/pagekit/core/session"
)

// State is the lifecycle state of one request.
type State int

const (
	// StateRead renders a page from a GET request.
	StateRead State = iota
	// StateSave creates a record (POST without an override method).
	StateSave
	// StateUpdate modifies a record (POST with override "PUT").
	StateUpdate
	// StateDelete removes a record (POST with override "POST").
	StateDelete
	// StateRetry redisplays a write form after a failed save or update,
	// preserving the submitted values.
	StateRetry
	// StateRequest is a POST that is semantically a read, e.g. a
	// search-driven re-read.
	StateRequest
)

func (s State) String() string {
	switch s {
	case StateRead:
		return "read"
	case StateSave:
		return "save"
	case StateUpdate:
		return "update"
	case StateDelete:
		return "delete"
	case StateRetry:
		return "retry"
	case StateRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Request carries the decoded per-request context handed to handlers.
type Request struct {
	HTTP    *http.Request
	Session *session.Session

	Entity string
	Action string
	Lang   string
	State  State

	// ID is the real record id resolved from the submitted opaque token,
	// 0 when the request does not address a single record.
	ID int64
	// OpaqueID is the submitted opaque token, when present.
	OpaqueID string

	// Params holds the submitted form values. In StateRetry these are the
	// values of the failed submission, preserved for redisplay.
	Params url.Values
	// Message is the inline error message carried into StateRetry.
	Message string
}

// Param returns the first submitted value for a field.
func (r *Request) Param(name string) string {
	return r.Params.Get(name)
}

// Handler is the minimal contract of a page handler. One handler serves one
// entity/action route.
type Handler interface {
	// Entity returns the entity type the handler serves, e.g. "orders".
	Entity() string
	// Resource returns the logical template path, language placeholder
	// included, e.g. "web/html/:lang/orders/index.html".
	Resource() string
}

// Capability interfaces. A handler implements only the operations its route
// supports; the dispatcher checks at serve time and rejects the rest.

// DataReader loads the data for a page render.
type DataReader interface {
	ReadData(ctx context.Context, r *Request) (*Result, error)
}

// DataSaver creates a record from submitted form values.
type DataSaver interface {
	SaveData(ctx context.Context, r *Request) (*Result, error)
}

// DataUpdater modifies the record resolved from the opaque token.
type DataUpdater interface {
	UpdateData(ctx context.Context, r *Request) (*Result, error)
}

// DataDeleter removes the record resolved from the opaque token.
type DataDeleter interface {
	DeleteData(ctx context.Context, r *Request) (*Result, error)
}

// Optional render hooks. Handlers without them get the defaults.

// TitleProvider sets the page title instead of the entity name.
type TitleProvider interface {
	Title(r *Request) string
}

// LayoutProvider overrides the configured layout resource.
type LayoutProvider interface {
	Layout(r *Request) string
}

// MenuHider hides the navigation menu on the handler's pages.
type MenuHider interface {
	HideMenu(r *Request) bool
}

// AccessChecker guards a route. Denied requests are redirected to the
// default route with a localized error.
type AccessChecker interface {
	HasAccess(r *Request) bool
}

// PageVarProvider supplies whole-page variables for composition.
type PageVarProvider interface {
	PageVars(r *Request) map[string]string
}

// TemplateVarProvider supplies variables scoped to the handler template.
type TemplateVarProvider interface {
	TemplateVars(r *Request) map[string]string
}

// RedirectTargeter names the entity whose index receives the post-write
// redirect. Defaults to the handler's own entity.
type RedirectTargeter interface {
	RedirectEntity() string
}

// NoContenter marks handlers whose successful writes answer with a
// client-side refresh of the current route instead of an index redirect.
type NoContenter interface {
	NoContent() bool
}
