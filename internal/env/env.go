// Package env resolves 0xcrack environment variables, honouring the legacy
// CRACK_ prefix with a one-time deprecation warning.
package env

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	// Prefix is the current environment prefix.
	Prefix = "0XCRACK_"
	// LegacyPrefix is accepted for settings written before the rename.
	LegacyPrefix = "CRACK_"
)

var (
	warnLogger func(msg string, args ...any) = slog.Warn
	warnMu     sync.Mutex
	warnedKeys sync.Map
)

// Lookup returns the value of newKey if it exists. When only the legacy
// oldKey is present it is returned instead and a deprecation warning is
// logged once per key.
func Lookup(newKey, oldKey string) (string, bool) {
	if v, ok := os.LookupEnv(newKey); ok {
		return v, true
	}
	if oldKey == "" {
		return "", false
	}
	if v, ok := os.LookupEnv(oldKey); ok {
		logDeprecated(oldKey, newKey)
		return v, true
	}
	return "", false
}

// Get looks up name under Prefix, then LegacyPrefix, and trims the result.
// An empty value is reported as unset.
func Get(name string) (string, bool) {
	v, ok := Lookup(Prefix+name, LegacyPrefix+name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func logDeprecated(oldKey, newKey string) {
	onceIface, _ := warnedKeys.LoadOrStore(oldKey, &sync.Once{})
	once := onceIface.(*sync.Once)
	once.Do(func() {
		warnMu.Lock()
		logger := warnLogger
		warnMu.Unlock()
		logger("deprecated environment variable", "key", oldKey, "replacement", newKey)
	})
}

// ResetWarningsForTesting clears the cached once guards so tests can verify
// warning behaviour deterministically.
func ResetWarningsForTesting() {
	warnMu.Lock()
	warnedKeys = sync.Map{}
	warnMu.Unlock()
}

// SetWarnLoggerForTesting swaps the logger used for warnings. The returned
// function restores the previous logger and should be deferred in tests.
func SetWarnLoggerForTesting(fn func(msg string, args ...any)) (restore func()) {
	warnMu.Lock()
	previous := warnLogger
	warnLogger = fn
	warnMu.Unlock()
	return func() {
		warnMu.Lock()
		warnLogger = previous
		warnMu.Unlock()
	}
}
