package sessiontransport

// Config configures how the session token travels between browser and
// server.
type Config struct {
	// CookieName is the name of the session cookie.
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"__SESSION_ID__"`
	// CookieDays is the lifetime of the session cookie in days. Zero makes
	// it a browser-session cookie. The cookie may outlive the session; an
	// expired session behind a live cookie is simply replaced.
	CookieDays int `env:"SESSION_COOKIE_DAYS" envDefault:"1"`
	// ParamName is the query parameter consulted when no cookie is
	// present, for clients that refuse cookies.
	ParamName string `env:"SESSION_PARAM_NAME" envDefault:"sesid"`
	// AllowParam enables the query parameter fallback.
	AllowParam bool `env:"SESSION_ALLOW_PARAM" envDefault:"false"`
}

// DefaultConfig returns the default transport configuration.
func DefaultConfig() Config {
	return Config{
		CookieName: "__SESSION_ID__",
		CookieDays: 1,
		ParamName:  "sesid",
	}
}

// Option is a functional option for the cookie transport.
type Option func(*Cookie)

// WithConfig replaces the whole transport configuration.
func WithConfig(cfg Config) Option {
	return func(c *Cookie) {
		c.cfg = cfg
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(c *Cookie) {
		if name != "" {
			c.cfg.CookieName = name
		}
	}
}

// WithCookieDays sets the cookie lifetime in days.
func WithCookieDays(days int) Option {
	return func(c *Cookie) {
		c.cfg.CookieDays = days
	}
}

// WithParamFallback enables reading the token from the named query
// parameter when the cookie is absent.
func WithParamFallback(name string) Option {
	return func(c *Cookie) {
		if name != "" {
			c.cfg.ParamName = name
		}
		c.cfg.AllowParam = true
	}
}
