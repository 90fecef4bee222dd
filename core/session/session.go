package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pagekit/core/opaqueid"
)

// tokenLength is the session token length in hex characters.
const tokenLength = 24

// pageAttrPrefix prefixes the per-entity pagination attributes.
const pageAttrPrefix = "page-"

// User holds the authenticated user's identity. Roles and permissions are
// normalized to lower case on assignment.
type User struct {
	ID          int64
	Username    string
	Firstname   string
	Lastname    string
	Roles       []string
	Permissions []string
}

// FullNameOrUsername returns "Firstname Lastname" when both parts are
// present, otherwise the username.
func (u User) FullNameOrUsername() string {
	if u.Firstname != "" && u.Lastname != "" {
		return u.Firstname + " " + u.Lastname
	}
	return u.Username
}

// Session is a single user's server-side session. The token is immutable for
// the lifetime of the session; everything else is mutable behind a mutex.
// All methods are safe for concurrent use.
type Session struct {
	token     string
	id        uuid.UUID
	createdAt time.Time

	mu          sync.RWMutex
	user        User
	authed      bool
	twoFAPassed bool
	lang        string
	csrfToken   string
	refreshedAt time.Time
	attrs       map[string]string // serialized with the session
	settings    map[string]string // never serialized
	flashMsg    string
	flashSev    Severity

	ids *opaqueid.Map
}

// Severity classifies a flash message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity maps the single-letter wire form used in redirect query
// strings ("i", "w", "e") to a Severity. Unknown values default to info.
func ParseSeverity(s string) Severity {
	switch s {
	case "w":
		return SeverityWarning
	case "e":
		return SeverityError
	default:
		return SeverityInfo
	}
}

// newSession constructs a session around an already generated token.
func newSession(token string, now time.Time) *Session {
	return &Session{
		token:       token,
		id:          uuid.New(),
		createdAt:   now,
		refreshedAt: now,
		attrs:       make(map[string]string),
		settings:    make(map[string]string),
		ids:         opaqueid.NewMap(),
	}
}

// Token returns the immutable session token.
func (s *Session) Token() string { return s.token }

// ID returns the stable session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// CreatedAt returns the session creation time.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// IDs returns the session's opaque identifier map.
func (s *Session) IDs() *opaqueid.Map { return s.ids }

// Authenticate binds a user to the session. Roles and permissions are
// lower-cased. Any opaque tokens issued while anonymous are invalidated.
func (s *Session) Authenticate(u User) {
	u.Roles = lowerAll(u.Roles)
	u.Permissions = lowerAll(u.Permissions)

	s.mu.Lock()
	s.user = u
	s.authed = true
	s.twoFAPassed = false
	s.mu.Unlock()

	s.ids.InvalidateAll()
}

// Logout clears the user binding, all attributes except the language, the
// CSRF token and every opaque id pair. The session itself stays alive as an
// anonymous session.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = User{}
	s.authed = false
	s.twoFAPassed = false
	s.csrfToken = ""
	s.flashMsg = ""
	s.flashSev = ""
	clear(s.attrs)
	clear(s.settings)
	s.mu.Unlock()

	s.ids.InvalidateAll()
}

// User returns the bound user and whether the session is authenticated.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authed
}

// IsAuthenticated reports whether a user is bound to the session.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// HasRole reports whether the authenticated user carries the role.
// Matching is case-insensitive.
func (s *Session) HasRole(role string) bool {
	role = strings.ToLower(strings.TrimSpace(role))

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.user.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the authenticated user carries the
// permission. Matching is case-insensitive.
func (s *Session) HasPermission(perm string) bool {
	perm = strings.ToLower(strings.TrimSpace(perm))

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.user.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// TwoFAPassed reports whether the second authentication factor has been
// completed for this session.
func (s *Session) TwoFAPassed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.twoFAPassed
}

// SetTwoFAPassed records second-factor completion. Passing invalidates all
// opaque id pairs issued before the privilege change.
func (s *Session) SetTwoFAPassed(passed bool) {
	s.mu.Lock()
	s.twoFAPassed = passed
	s.mu.Unlock()

	if passed {
		s.ids.InvalidateAll()
	}
}

// Lang returns the session language, or "" when none is set.
func (s *Session) Lang() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLang sets the session language. The language survives Logout.
func (s *Session) SetLang(lang string) {
	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
}

// CSRFToken returns the per-session CSRF token, or "" when none was issued.
func (s *Session) CSRFToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.csrfToken
}

// SetCSRFToken stores the per-session CSRF token.
func (s *Session) SetCSRFToken(tok string) {
	s.mu.Lock()
	s.csrfToken = tok
	s.mu.Unlock()
}

// Attr returns a serialized session attribute.
func (s *Session) Attr(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.attrs[key]
	return v, ok
}

// SetAttr stores a serialized session attribute.
func (s *Session) SetAttr(key, value string) {
	s.mu.Lock()
	s.attrs[key] = value
	s.mu.Unlock()
}

// RemoveAttr deletes a serialized session attribute.
func (s *Session) RemoveAttr(key string) {
	s.mu.Lock()
	delete(s.attrs, key)
	s.mu.Unlock()
}

// Setting returns a non-serialized scratch value.
func (s *Session) Setting(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.settings[key]
	return v, ok
}

// SetSetting stores a non-serialized scratch value.
func (s *Session) SetSetting(key, value string) {
	s.mu.Lock()
	s.settings[key] = value
	s.mu.Unlock()
}

// SetPageFor remembers the list page the user was on for an entity so a
// post-write redirect can land back on it.
func (s *Session) SetPageFor(entity, page string) {
	s.SetAttr(pageAttrPrefix+entity, page)
}

// ConsumePageFor returns and clears the remembered list page for an entity.
func (s *Session) ConsumePageFor(entity string) (string, bool) {
	key := pageAttrPrefix + entity

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[key]
	if ok {
		delete(s.attrs, key)
	}
	return v, ok
}

// SetFlash stores a one-shot message shown on the next rendered page.
// A second SetFlash before consumption overwrites the first.
func (s *Session) SetFlash(msg string, sev Severity) {
	s.mu.Lock()
	s.flashMsg = msg
	s.flashSev = sev
	s.mu.Unlock()
}

// HasFlash reports whether a flash message is pending without clearing it.
func (s *Session) HasFlash() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flashMsg != ""
}

// ConsumeFlash returns and clears the pending flash message.
func (s *Session) ConsumeFlash() (string, Severity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flashMsg == "" {
		return "", "", false
	}
	msg, sev := s.flashMsg, s.flashSev
	s.flashMsg, s.flashSev = "", ""
	return msg, sev, true
}

// Touch marks the session as active now, resetting the idle timeout.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.refreshedAt = now
	s.mu.Unlock()
}

// RefreshedAt returns the time of the last activity.
func (s *Session) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}
