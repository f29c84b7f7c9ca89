package memory

import (
	"math"
	"runtime/debug"
	"testing"
)

// restoreLimit puts back the process memory limit after a test changes it.
func restoreLimit(t *testing.T) {
	t.Helper()
	orig := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(orig) })
}

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestConfigureLimit(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantSource string
		wantLimit  int64
		wantRatio  float64
	}{
		{
			name:       "nothing set",
			env:        map[string]string{},
			wantSource: "none",
		},
		{
			name:       "default ratio",
			env:        map[string]string{"MEMORY_LIMIT": "1073741824"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  912680550,
			wantRatio:  DefaultMemoryRatio,
		},
		{
			name:       "custom ratio",
			env:        map[string]string{"MEMORY_LIMIT": "1000000", "MEMORY_RATIO": "0.5"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  500000,
			wantRatio:  0.5,
		},
		{
			name:       "ratio out of range",
			env:        map[string]string{"MEMORY_LIMIT": "1000000", "MEMORY_RATIO": "1.5"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  850000,
			wantRatio:  DefaultMemoryRatio,
		},
		{
			name:       "ratio not a number",
			env:        map[string]string{"MEMORY_LIMIT": "1000000", "MEMORY_RATIO": "half"},
			wantSource: "MEMORY_LIMIT",
			wantLimit:  850000,
			wantRatio:  DefaultMemoryRatio,
		},
		{
			name:       "invalid limit",
			env:        map[string]string{"MEMORY_LIMIT": "lots"},
			wantSource: "none",
		},
		{
			name:       "zero limit",
			env:        map[string]string{"MEMORY_LIMIT": "0"},
			wantSource: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLimit(t)
			debug.SetMemoryLimit(math.MaxInt64)

			res := ConfigureLimit(envMap(tt.env))
			if res.Source != tt.wantSource {
				t.Fatalf("Source = %q, want %q", res.Source, tt.wantSource)
			}
			if res.Configured() != (tt.wantSource != "none") {
				t.Errorf("Configured() = %v", res.Configured())
			}
			if tt.wantSource != "MEMORY_LIMIT" {
				return
			}
			if res.GoMemLimit != tt.wantLimit {
				t.Errorf("GoMemLimit = %d, want %d", res.GoMemLimit, tt.wantLimit)
			}
			if res.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", res.Ratio, tt.wantRatio)
			}
			if got := debug.SetMemoryLimit(-1); got != tt.wantLimit {
				t.Errorf("runtime limit = %d, want %d", got, tt.wantLimit)
			}
		})
	}
}

func TestConfigureLimitGOMEMLIMITWins(t *testing.T) {
	restoreLimit(t)
	debug.SetMemoryLimit(512 << 20)

	res := ConfigureLimit(envMap(map[string]string{
		"GOMEMLIMIT":   "512MiB",
		"MEMORY_LIMIT": "1073741824",
	}))
	if res.Source != "GOMEMLIMIT" {
		t.Fatalf("Source = %q, want GOMEMLIMIT", res.Source)
	}
	if res.GoMemLimit != 512<<20 {
		t.Errorf("GoMemLimit = %d, want %d", res.GoMemLimit, 512<<20)
	}
	if got := debug.SetMemoryLimit(-1); got != 512<<20 {
		t.Errorf("runtime limit changed to %d", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
