package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// sensitiveKeys are attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"password":            true,
	"secret":              true,
	"token":               true,
	"api_key":             true,
	"apikey":              true,
	"access_token":        true,
	"session":             true,
	"session_id":          true,
}

// sensitiveKeywords mask any key containing them.
// The bare word "key" is left out because it matches too much.
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "cookie", "credential", "authorization",
}

// sensitivePatterns mask string values regardless of key.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
}

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler and sanitizes attributes before they
// reach it.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler means slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled delegates to the underlying handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a handler with the sanitized attributes added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if isSensitiveValue(strVal) {
			return slog.String(a.Key, MaskValue)
		}
		if masked, ok := maskURLPassword(strVal); ok {
			return slog.String(a.Key, masked)
		}
	}

	return a
}

func containsSensitiveKeyword(key string) bool {
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// maskURLPassword hides the password of an http(s) URL carrying userinfo.
func maskURLPassword(value string) (string, bool) {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return "", false
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return "", false
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return "", false
	}
	u.User = url.UserPassword(u.User.Username(), "***")
	return u.String(), true
}

// level maps the verbose flag to a slog level.
// Progress lines are Info, so Info is the quiet default.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger returns a human-friendly terminal logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	charmLevel := charmlog.InfoLevel
	if verbose {
		charmLevel = charmlog.DebugLevel
	}
	terminal := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "sitecorpus",
	})
	return slog.New(NewSecureHandler(terminal))
}

// NewJSONLogger returns a logger emitting one JSON object per line.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewSecureHandler(jsonHandler))
}
