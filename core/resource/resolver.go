package resource

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LangPlaceholder marks the language segment in logical resource paths.
const LangPlaceholder = ":lang"

// Resolver resolves logical resource paths against a filesystem root with an
// optional embedded fallback. All methods are safe for concurrent use.
type Resolver struct {
	root        string
	embedded    fs.FS
	defaultLang string
	caching     bool

	mu    sync.RWMutex
	cache map[string]string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRoot sets the filesystem directory resources are served from.
func WithRoot(dir string) ResolverOption {
	return func(r *Resolver) {
		r.root = dir
	}
}

// WithEmbedded sets the fallback filesystem, typically an embed.FS of the
// stock templates shipped with the binary.
func WithEmbedded(fsys fs.FS) ResolverOption {
	return func(r *Resolver) {
		r.embedded = fsys
	}
}

// WithDefaultLanguage sets the language tried when the requested one misses.
func WithDefaultLanguage(lang string) ResolverOption {
	return func(r *Resolver) {
		r.defaultLang = lang
	}
}

// WithCaching memoizes resolved contents. Use only when templates do not
// change while the process runs.
func WithCaching() ResolverOption {
	return func(r *Resolver) {
		r.caching = true
	}
}

// NewResolver creates a resolver. Without options it reads from the current
// directory with default language "en" and no embedded fallback.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		defaultLang: "en",
		cache:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultLanguage returns the configured default language.
func (r *Resolver) DefaultLanguage() string { return r.defaultLang }

// Resolve returns the contents of the resource for the requested language,
// applying the three-step fallback. The returned error is a *NotFoundError
// when every variant misses.
func (r *Resolver) Resolve(path, lang string) (string, error) {
	for _, candidate := range r.candidates(path, lang) {
		if content, ok := r.read(candidate); ok {
			return content, nil
		}
	}
	return "", &NotFoundError{Path: path, Lang: lang}
}

// Exists reports whether any language variant of the resource resolves.
func (r *Resolver) Exists(path, lang string) bool {
	for _, candidate := range r.candidates(path, lang) {
		if _, ok := r.read(candidate); ok {
			return true
		}
	}
	return false
}

// candidates returns the physical paths to try, most specific first.
// Duplicates arise when lang equals the default or the path has no
// placeholder; they cost a second stat, nothing more.
func (r *Resolver) candidates(path, lang string) []string {
	out := make([]string, 0, 3)
	if lang != "" {
		out = append(out, strings.Replace(path, LangPlaceholder, lang, 1))
	}
	if r.defaultLang != "" && r.defaultLang != lang {
		out = append(out, strings.Replace(path, LangPlaceholder, r.defaultLang, 1))
	}
	out = append(out, StripPlaceholder(path))
	return out
}

// read loads one physical path, root first, embedded second.
func (r *Resolver) read(path string) (string, bool) {
	if r.caching {
		r.mu.RLock()
		content, ok := r.cache[path]
		r.mu.RUnlock()
		if ok {
			return content, true
		}
	}

	content, ok := r.readUncached(path)
	if !ok {
		return "", false
	}

	if r.caching {
		r.mu.Lock()
		r.cache[path] = content
		r.mu.Unlock()
	}
	return content, true
}

func (r *Resolver) readUncached(path string) (string, bool) {
	if r.root != "" {
		if b, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(path))); err == nil {
			return string(b), true
		}
	}
	if r.embedded != nil {
		if b, err := fs.ReadFile(r.embedded, path); err == nil {
			return string(b), true
		}
	}
	return "", false
}

// StripPlaceholder removes the ":lang/" segment from a logical path,
// yielding the language-neutral variant.
func StripPlaceholder(path string) string {
	if out := strings.Replace(path, LangPlaceholder+"/", "", 1); out != path {
		return out
	}
	return strings.Replace(path, LangPlaceholder, "", 1)
}
