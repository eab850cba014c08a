package roster

import (
	"bytes"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/roster/internal/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, []float64{1.0}, cfg.RoleRatios)
	require.Equal(t, []int{16384}, cfg.RoleLimits)
	require.Equal(t, 16, cfg.MaxThreads)
	require.Equal(t, 5*time.Minute, cfg.ClientMaxDelay)
	require.Equal(t, 30*time.Second, cfg.SweepInterval)

	require.NoError(t, cfg.Validate())
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig()

	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.ClientMaxDelay, time.Second, "test config must keep liveness windows short")
	require.Less(t, cfg.SweepInterval, cfg.ClientMaxDelay)
}

func TestSetDefaults(t *testing.T) {
	t.Run("applies defaults to empty config", func(t *testing.T) {
		cfg := Config{}
		SetDefaults(&cfg)

		require.Equal(t, []float64{1.0}, cfg.RoleRatios)
		require.Equal(t, []int{16384}, cfg.RoleLimits)
		require.Equal(t, 16, cfg.MaxThreads)
		require.Equal(t, 5*time.Minute, cfg.ClientMaxDelay)
		require.Equal(t, 30*time.Second, cfg.SweepInterval)
	})

	t.Run("preserves custom values", func(t *testing.T) {
		cfg := Config{
			RoleRatios:     []float64{0.7, 0.3},
			RoleLimits:     []int{70, 30},
			MaxThreads:     8,
			ClientMaxDelay: time.Minute,
			SweepInterval:  5 * time.Second,
		}
		SetDefaults(&cfg)

		require.Equal(t, []float64{0.7, 0.3}, cfg.RoleRatios)
		require.Equal(t, []int{70, 30}, cfg.RoleLimits)
		require.Equal(t, 8, cfg.MaxThreads)
		require.Equal(t, time.Minute, cfg.ClientMaxDelay)
		require.Equal(t, 5*time.Second, cfg.SweepInterval)
	})

	t.Run("does not invent limits for custom ratios", func(t *testing.T) {
		// A half-specified role vector stays broken so Validate can catch it.
		cfg := Config{RoleRatios: []float64{0.5, 0.5}}
		SetDefaults(&cfg)

		require.Equal(t, []float64{0.5, 0.5}, cfg.RoleRatios)
		require.Empty(t, cfg.RoleLimits)
		require.Error(t, cfg.Validate())
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.RoleRatios = []float64{0.5, 0.5}
		cfg.RoleLimits = []int{100, 100}

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config passes",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "no roles",
			mutate:  func(c *Config) { c.RoleRatios = nil; c.RoleLimits = nil },
			wantErr: "at least one role",
		},
		{
			name:    "vector length mismatch",
			mutate:  func(c *Config) { c.RoleLimits = []int{100} },
			wantErr: "lengths must match",
		},
		{
			name:    "ratio above one",
			mutate:  func(c *Config) { c.RoleRatios = []float64{1.5, 0.5} },
			wantErr: "roleRatios[0]",
		},
		{
			name:    "negative ratio",
			mutate:  func(c *Config) { c.RoleRatios = []float64{0.5, -0.1} },
			wantErr: "roleRatios[1]",
		},
		{
			name:    "nan ratio",
			mutate:  func(c *Config) { c.RoleRatios = []float64{0.5, math.NaN()} },
			wantErr: "must be finite",
		},
		{
			name:    "negative limit",
			mutate:  func(c *Config) { c.RoleLimits = []int{100, -1} },
			wantErr: "roleLimits[1]",
		},
		{
			name:    "zero max threads",
			mutate:  func(c *Config) { c.MaxThreads = -1 },
			wantErr: "maxThreads",
		},
		{
			name:    "non-positive client max delay",
			mutate:  func(c *Config) { c.ClientMaxDelay = -time.Second },
			wantErr: "clientMaxDelay",
		},
		{
			name:    "non-positive sweep interval",
			mutate:  func(c *Config) { c.SweepInterval = -time.Second },
			wantErr: "sweepInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateWithWarnings(t *testing.T) {
	warnOutput := func(mutate func(*Config)) string {
		cfg := DefaultConfig()
		cfg.RoleRatios = []float64{0.5, 0.5}
		cfg.RoleLimits = []int{100, 100}
		mutate(&cfg)

		var buf bytes.Buffer
		logger := logging.NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))

		require.NoError(t, cfg.ValidateWithWarnings(logger))

		return buf.String()
	}

	t.Run("clean config logs nothing", func(t *testing.T) {
		require.Empty(t, warnOutput(func(*Config) {}))
	})

	t.Run("warns when ratios do not sum to one", func(t *testing.T) {
		out := warnOutput(func(c *Config) { c.RoleRatios = []float64{0.5, 0.1} })
		require.Contains(t, out, "do not sum to 1.0")
	})

	t.Run("warns when first role is unassignable", func(t *testing.T) {
		out := warnOutput(func(c *Config) {
			c.RoleRatios = []float64{0.0, 1.0}
			c.RoleLimits = []int{0, 100}
		})
		require.Contains(t, out, "roleLimits[0]")
	})

	t.Run("warns on slow sweep interval", func(t *testing.T) {
		out := warnOutput(func(c *Config) { c.SweepInterval = c.ClientMaxDelay * 2 })
		require.Contains(t, out, "sweepInterval")
	})

	t.Run("nil logger only validates", func(t *testing.T) {
		cfg := DefaultConfig()
		require.NoError(t, cfg.ValidateWithWarnings(nil))

		cfg.MaxThreads = -5
		require.Error(t, cfg.ValidateWithWarnings(nil))
	})
}

// TestConfig_YAML demonstrates that time.Duration works directly with YAML unmarshaling
func TestConfig_YAML(t *testing.T) {
	yamlConfig := `
roleRatios: [0.6, 0.4]
roleLimits: [60, 40]
maxThreads: 8
clientMaxDelay: 90s
sweepInterval: 10s
`

	var cfg Config
	err := yaml.Unmarshal([]byte(yamlConfig), &cfg)
	require.NoError(t, err)

	require.Equal(t, []float64{0.6, 0.4}, cfg.RoleRatios)
	require.Equal(t, []int{60, 40}, cfg.RoleLimits)
	require.Equal(t, 8, cfg.MaxThreads)
	require.Equal(t, 90*time.Second, cfg.ClientMaxDelay)
	require.Equal(t, 10*time.Second, cfg.SweepInterval)
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads partial file and leaves rest for defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "roster.yaml")
		data := []byte("roleRatios: [0.5, 0.5]\nroleLimits: [10, 10]\nclientMaxDelay: 45s\n")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, []float64{0.5, 0.5}, cfg.RoleRatios)
		require.Equal(t, 45*time.Second, cfg.ClientMaxDelay)
		require.Zero(t, cfg.MaxThreads)

		SetDefaults(&cfg)
		require.NoError(t, cfg.Validate())
		require.Equal(t, 16, cfg.MaxThreads)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roleRatios: ["), 0o600))

		_, err := LoadConfig(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "parsing config file")
	})
}
