package env

import (
	"os"
	"testing"
)

func TestLookupPrefersNewKey(t *testing.T) {
	t.Setenv("0XCRACK_TOP_K", "7")
	t.Setenv("CRACK_TOP_K", "3")

	got, ok := Lookup("0XCRACK_TOP_K", "CRACK_TOP_K")
	if !ok {
		t.Fatalf("expected lookup to succeed")
	}
	if got != "7" {
		t.Fatalf("expected %q, got %q", "7", got)
	}
}

func TestLookupLegacyWarnsOnce(t *testing.T) {
	ResetWarningsForTesting()
	var warnings []string
	restore := SetWarnLoggerForTesting(func(msg string, args ...any) {
		warnings = append(warnings, msg)
	})
	defer restore()

	t.Setenv("CRACK_WORKERS", "2")
	for i := 0; i < 3; i++ {
		got, ok := Lookup("0XCRACK_WORKERS", "CRACK_WORKERS")
		if !ok || got != "2" {
			t.Fatalf("expected legacy value, got %q (%v)", got, ok)
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one deprecation warning, got %d", len(warnings))
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name  string
		set   map[string]string
		want  string
		found bool
	}{
		{"unset", nil, "", false},
		{"current", map[string]string{"0XCRACK_LOG_LEVEL": " debug "}, "debug", true},
		{"legacy", map[string]string{"CRACK_LOG_LEVEL": "warn"}, "warn", true},
		{"blank", map[string]string{"0XCRACK_LOG_LEVEL": "   "}, "", false},
	}

	restore := SetWarnLoggerForTesting(func(string, ...any) {})
	defer restore()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"0XCRACK_LOG_LEVEL", "CRACK_LOG_LEVEL"} {
				t.Setenv(k, "")
				os.Unsetenv(k)
			}
			for k, v := range tt.set {
				t.Setenv(k, v)
			}
			got, ok := Get("LOG_LEVEL")
			if ok != tt.found || got != tt.want {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tt.want, tt.found, got, ok)
			}
		})
	}
}
