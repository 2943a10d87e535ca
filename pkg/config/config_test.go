package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	a, ok := cfg.ExponentFor("SpinalCord")
	require.True(t, ok)
	require.Equal(t, 20.0, a)

	require.True(t, cfg.IsTarget("PTV_70"))
	require.False(t, cfg.IsTarget("Bladder"))

	require.Equal(t, "N/A", cfg.Report.NotComputable)
	require.Equal(t, 2, cfg.Report.Precision)
}

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dosemetrics.yaml")
	content := `
geud:
  structures:
    - pattern: rectum
      a: 8
    - pattern: bladder
      a: 2
hi:
  targetPatterns: ["boost"]
report:
  precision: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// Lists present in the file replace the defaults entirely.
	require.Len(t, cfg.GEUD.Structures, 2)
	a, ok := cfg.ExponentFor("Rectum_Wall")
	require.True(t, ok)
	require.Equal(t, 8.0, a)

	_, ok = cfg.ExponentFor("SpinalCord")
	require.False(t, ok)

	require.True(t, cfg.IsTarget("PTV_Boost"))
	require.False(t, cfg.IsTarget("PTV_70"))

	// Keys absent from the file keep their defaults.
	require.Equal(t, "N/A", cfg.Report.NotComputable)
	require.Equal(t, 3, cfg.Report.Precision)
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("geud: ["), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "error parsing config file")
}

func TestLoadConfigRejectsZeroExponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.yaml")
	content := `
geud:
  structures:
    - pattern: cord
      a: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exponent a must not be zero")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{"valid_defaults", func(cfg *Config) {}, ""},
		{"empty_pattern", func(cfg *Config) {
			cfg.GEUD.Structures[0].Pattern = "  "
		}, "empty pattern"},
		{"zero_exponent", func(cfg *Config) {
			cfg.GEUD.Structures[2].Exponent = 0
		}, "must not be zero"},
		{"empty_target_pattern", func(cfg *Config) {
			cfg.HI.TargetPatterns = []string{""}
		}, "empty pattern"},
		{"negative_precision", func(cfg *Config) {
			cfg.Report.Precision = -1
		}, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

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

func TestExponentForFirstMatchWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GEUD.Structures = []StructureParam{
		{Pattern: "lung_l", Exponent: 1},
		{Pattern: "lung", Exponent: 5},
	}

	a, ok := cfg.ExponentFor("Lung_L")
	require.True(t, ok)
	require.Equal(t, 1.0, a)

	a, ok = cfg.ExponentFor("Lung_R")
	require.True(t, ok)
	require.Equal(t, 5.0, a)
}

func TestExponentForCaseInsensitiveSubstring(t *testing.T) {
	cfg := DefaultConfig()

	for _, id := range []string{"SpinalCord", "spinal_cord_prv", "CORD"} {
		a, ok := cfg.ExponentFor(id)
		require.True(t, ok, "id %q should match", id)
		require.Equal(t, 20.0, a)
	}

	_, ok := cfg.ExponentFor("Bowel")
	require.False(t, ok)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dosemetrics.yaml")

	want := DefaultConfig()
	want.GEUD.Structures = append(want.GEUD.Structures, StructureParam{Pattern: "kidney", Exponent: 1})
	require.NoError(t, SaveConfig(want, path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dosemetrics.yaml")
	require.NoError(t, CreateDefaultConfigFile(path))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), got)
}
