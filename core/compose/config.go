package compose

import "log/slog"

// Config holds composer configuration.
type Config struct {
	// BlocksPath is the logical path pattern for block sub-resources. The
	// "%s" verb receives the block name; the path keeps the language
	// placeholder so blocks resolve with the same fallback as pages.
	BlocksPath string `env:"COMPOSE_BLOCKS_PATH" envDefault:"web/html/:lang/blocks/%s.html"`
	// TranslateTemplates enables the {$l.key} translation pass.
	TranslateTemplates bool `env:"COMPOSE_TRANSLATE_TEMPLATES" envDefault:"true"`
	// PathPrefix, when non-empty, is inserted into relative href/src/action/
	// location attribute values for deployments served under a sub-path.
	PathPrefix string `env:"COMPOSE_PATH_PREFIX"`
	// DefaultTheme is substituted for {$theme} when the session has none.
	DefaultTheme string `env:"COMPOSE_DEFAULT_THEME" envDefault:"dark"`
}

// DefaultConfig returns the default composer configuration.
func DefaultConfig() Config {
	return Config{
		BlocksPath:         "web/html/:lang/blocks/%s.html",
		TranslateTemplates: true,
		DefaultTheme:       "dark",
	}
}

// Option is a functional option for configuring the composer.
type Option func(*Composer)

// WithConfig replaces the whole composer configuration.
func WithConfig(cfg Config) Option {
	return func(c *Composer) {
		c.cfg = cfg
	}
}

// WithPathPrefix sets the deployment path prefix for link rewriting.
func WithPathPrefix(prefix string) Option {
	return func(c *Composer) {
		c.cfg.PathPrefix = prefix
	}
}

// WithoutTemplateTranslation disables the {$l.key} translation pass.
func WithoutTemplateTranslation() Option {
	return func(c *Composer) {
		c.cfg.TranslateTemplates = false
	}
}

// WithLogger sets the logger used for block resolution diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Composer) {
		c.log = log
	}
}
