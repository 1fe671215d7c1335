package config

import (
	"strings"
	"testing"
	"time"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single value", input: "stats.bootcamp.dev", expected: []string{"stats.bootcamp.dev"}},
		{name: "spaces and quotes", input: ` "a.dev" , 'b.dev',, c.dev `, expected: []string{"a.dev", "b.dev", "c.dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("%s should have panicked", name)
		}
	}()
	fn()
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       time.Duration
		expected  time.Duration
		wantPanic bool
	}{
		{name: "valid duration", key: "CAMPSTATS_TEST_DURATION", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration panics", key: "CAMPSTATS_TEST_DURATION_INVALID", value: "invalid", def: 10 * time.Second, wantPanic: true},
		{name: "missing variable uses default", key: "CAMPSTATS_TEST_DURATION_MISSING", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				mustPanic(t, "mustDuration()", func() { mustDuration(tt.key, tt.def) })
				return
			}
			if result := mustDuration(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       bool
		expected  bool
		wantPanic bool
	}{
		{name: "true value", key: "CAMPSTATS_TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "CAMPSTATS_TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value panics", key: "CAMPSTATS_TEST_BOOL_INVALID", value: "invalid", def: true, wantPanic: true},
		{name: "missing variable uses default", key: "CAMPSTATS_TEST_BOOL_MISSING", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				mustPanic(t, "mustBool()", func() { mustBool(tt.key, tt.def) })
				return
			}
			if result := mustBool(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustInt(t *testing.T) {
	t.Setenv("CAMPSTATS_TEST_INT", "42")
	if got := mustInt("CAMPSTATS_TEST_INT", 1); got != 42 {
		t.Errorf("mustInt() = %d, want 42", got)
	}
	if got := mustInt("CAMPSTATS_TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("mustInt() missing = %d, want 7", got)
	}

	t.Setenv("CAMPSTATS_TEST_INT_INVALID", "ten")
	mustPanic(t, "mustInt()", func() { mustInt("CAMPSTATS_TEST_INT_INVALID", 1) })
}

func TestReadPanicsOnMalformedValue(t *testing.T) {
	t.Setenv("CAMPSTATS_RATE_LIMIT_BURST", "lots")
	mustPanic(t, "Read()", func() { Read() })
}

func validConfig() *Config {
	return &Config{
		MetadataSource:    SourceFile,
		MetadataLocation:  "metadata.json",
		CategoryCanvasID:  "category-doughnut-canvas",
		ShareBasis:        ShareBasisCategorized,
		TechCloudMaxWords: 50,
		Trace:             TraceNone,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid file source", mutate: func(c *Config) {}},
		{name: "http without location", mutate: func(c *Config) { c.MetadataSource = SourceHTTP; c.MetadataLocation = "" }, wantErr: "CAMPSTATS_METADATA_LOCATION"},
		{name: "redis without address", mutate: func(c *Config) { c.MetadataSource = SourceRedis }, wantErr: "CAMPSTATS_REDIS_ADDR"},
		{name: "redis with address", mutate: func(c *Config) { c.MetadataSource = SourceRedis; c.RedisAddr = "localhost:6379" }},
		{name: "unknown source", mutate: func(c *Config) { c.MetadataSource = "ftp" }, wantErr: "unknown metadata source"},
		{name: "unknown share basis", mutate: func(c *Config) { c.ShareBasis = "weighted" }, wantErr: "unknown share basis"},
		{name: "empty canvas", mutate: func(c *Config) { c.CategoryCanvasID = "" }, wantErr: "CAMPSTATS_CATEGORY_CANVAS"},
		{name: "stdout tracing", mutate: func(c *Config) { c.Trace = TraceStdout }},
		{name: "unknown trace exporter", mutate: func(c *Config) { c.Trace = "jaeger" }, wantErr: "CAMPSTATS_TRACE"},
		{name: "zero word cap", mutate: func(c *Config) { c.TechCloudMaxWords = 0 }, wantErr: "MAX_WORDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CAMPSTATS_METADATA_LOCATION", "/srv/docs/metadata.json")
	t.Setenv("CAMPSTATS_ALLOWED_HOSTS", "stats.bootcamp.dev, docs.bootcamp.dev")
	t.Setenv("CAMPSTATS_REDIS_ADDR", "")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.MetadataSource != SourceFile {
		t.Errorf("MetadataSource = %q, want %q", cfg.MetadataSource, SourceFile)
	}
	if cfg.ShareBasis != ShareBasisCategorized {
		t.Errorf("ShareBasis = %q, want %q", cfg.ShareBasis, ShareBasisCategorized)
	}
	if len(cfg.AllowedHosts) != 2 {
		t.Errorf("AllowedHosts = %v, want 2 entries", cfg.AllowedHosts)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %q, want empty for file source", cfg.RedisAddr)
	}
	if cfg.Trace != TraceNone {
		t.Errorf("Trace = %q, want %q", cfg.Trace, TraceNone)
	}
}

func TestReadSkipsValidation(t *testing.T) {
	t.Setenv("CAMPSTATS_METADATA_SOURCE", "file")
	t.Setenv("CAMPSTATS_METADATA_LOCATION", "")

	cfg := Read()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want missing location error")
	}

	cfg.MetadataLocation = "metadata.yaml"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() after override = %v", err)
	}
}

func TestLoadRedisRequiresAddr(t *testing.T) {
	t.Setenv("CAMPSTATS_METADATA_SOURCE", "redis")
	t.Setenv("CAMPSTATS_REDIS_ADDR", "")

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should have panicked without CAMPSTATS_REDIS_ADDR")
		}
	}()

	Load()
}
