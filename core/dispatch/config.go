package dispatch

// Hidden form fields and query parameters understood by the dispatcher.
const (
	// FieldMethod is the hidden field overriding POST semantics:
	// "PUT" = update, "POST" = delete, "RETRY" = redisplay,
	// "REQUEST" = read-through.
	FieldMethod = "_method"
	// FieldCSRF carries the per-session CSRF token on write requests.
	FieldCSRF = "_csrfToken"
	// FieldID carries the opaque record token.
	FieldID = "id"
	// ParamMsg and ParamSev carry a one-shot flash across a redirect.
	ParamMsg = "msg"
	ParamSev = "sev"
	// ParamPage carries the list page number across a redirect.
	ParamPage = "page"
)

// Override method values for FieldMethod.
const (
	MethodUpdate  = "PUT"
	MethodDelete  = "POST"
	MethodRetry   = "RETRY"
	MethodRequest = "REQUEST"
)

// Config holds dispatcher configuration.
type Config struct {
	// DefaultRoute is the safe landing route for denied access, invalid
	// tokens and unroutable requests.
	DefaultRoute string `env:"DISPATCH_DEFAULT_ROUTE" envDefault:"/home/index"`
	// Layout is the logical path of the page skeleton.
	Layout string `env:"DISPATCH_LAYOUT" envDefault:"web/html/:lang/layout.html"`
	// ErrorTemplate is the handler template of the generic error page.
	ErrorTemplate string `env:"DISPATCH_ERROR_TEMPLATE" envDefault:"web/html/:lang/error.html"`
	// CSRFProtect verifies the hidden CSRF field on write requests.
	CSRFProtect bool `env:"DISPATCH_CSRF_PROTECT" envDefault:"true"`
	// Debug includes failure detail in rendered error pages. Never enable
	// in production; detail may leak internals.
	Debug bool `env:"DISPATCH_DEBUG" envDefault:"false"`
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{
		DefaultRoute:  "/home/index",
		Layout:        "web/html/:lang/layout.html",
		ErrorTemplate: "web/html/:lang/error.html",
		CSRFProtect:   true,
	}
}
