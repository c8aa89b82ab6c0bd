package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeySite       = "site"
	KeySection    = "section"
	KeyIdentifier = "identifier"
	KeyPath       = "path"
	KeyStore      = "store"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeySelective  = "selective"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Site(name string) slog.Attr       { return slog.String(KeySite, name) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Identifier(key string) slog.Attr  { return slog.String(KeyIdentifier, key) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Store(name string) slog.Attr      { return slog.String(KeyStore, name) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Selective(b bool) slog.Attr       { return slog.Bool(KeySelective, b) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
