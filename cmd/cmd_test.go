package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/imci/internal/assessment"
	"github.com/abhisek/imci/internal/config"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
	"github.com/abhisek/imci/internal/reference"
)

func TestPrintClassification(t *testing.T) {
	s, err := decision.Default().Replay([]string{"12-59_months", "no_danger", "ear_problem", "no_ear_signs"})
	require.NoError(t, err)
	c, err := assessment.Assess(s, []growth.Measurement{{Kind: growth.KindMUAC, AgeMonths: 24, Value: 11}}, reference.Curves())
	require.NoError(t, err)

	var buf bytes.Buffer
	printClassification(&buf, c)
	out := buf.String()

	assert.Contains(t, out, "Risk:      critical (raised from low)")
	assert.Contains(t, out, "MUAC indicates severe acute malnutrition")
	assert.Contains(t, out, "MEASUREMENTS")

	buf.Reset()
	printAdvice(&buf, counsel.StaticAdvice(c, counsel.RoleCaregiver))
	assert.Contains(t, buf.String(), "COUNSELLING (static)")
}

func TestFloatFlag(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	c.Flags().Float64("age", 0, "")
	c.Flags().Float64("weight", 0, "")
	require.NoError(t, c.Flags().Parse([]string{"--age", "0"}))

	v, ok, err := floatFlag(c, "age")
	require.NoError(t, err)
	assert.True(t, ok, "an explicit zero is still set")
	assert.Equal(t, 0.0, v)

	_, ok, err = floatFlag(c, "weight")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFloatFlag_RejectsNonFinite(t *testing.T) {
	for _, arg := range []string{"NaN", "Inf", "-Inf"} {
		c := &cobra.Command{Use: "x"}
		c.Flags().Float64("weight", 0, "")
		require.NoError(t, c.Flags().Parse([]string{"--weight", arg}))

		_, ok, err := floatFlag(c, "weight")
		assert.Error(t, err, arg)
		assert.False(t, ok, arg)
	}
}

func TestAgeFlag_RejectsNegative(t *testing.T) {
	c := &cobra.Command{Use: "x"}
	c.Flags().Float64("age", 0, "")
	require.NoError(t, c.Flags().Parse([]string{"--age=-2"}))

	_, _, err := ageFlag(c, "age")
	assert.ErrorContains(t, err, "zero or positive")
}

// growthCommand is a fresh copy of growthCmd's flag set, so parsed values
// do not leak between cases.
func growthCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "growth", RunE: growthCmd.RunE}
	c.Flags().Float64("age", 0, "")
	c.Flags().Float64("value", 0, "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestGrowthCommand_RejectsBadInput(t *testing.T) {
	cases := map[string][]string{
		"nan age":      {"--age", "NaN"},
		"inf age":      {"--age", "+Inf"},
		"negative age": {"--age=-3"},
		"nan value":    {"--age", "18", "--value", "NaN"},
		"zero value":   {"--age", "18", "--value", "0"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			c := growthCommand(t, args...)
			assert.Error(t, c.RunE(c, []string{"weight"}))
		})
	}

	c := growthCommand(t, "--age", "18", "--value", "10.5")
	assert.NoError(t, c.RunE(c, []string{"weight"}))
}

func TestResolveDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IMCI_DB", "")

	c := &cobra.Command{Use: "x"}
	c.Flags().String("db", "", "")

	explicit := filepath.Join(dir, "flag", "imci.db")
	require.NoError(t, c.Flags().Set("db", explicit))
	got, err := resolveDBPath(c)
	require.NoError(t, err)
	assert.Equal(t, explicit, got)
	assert.DirExists(t, filepath.Dir(explicit))

	c = &cobra.Command{Use: "x"}
	c.Flags().String("db", "", "")
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = &config.Config{Store: config.StoreConfig{Path: filepath.Join(dir, "cfg", "imci.db")}}

	got, err = resolveDBPath(c)
	require.NoError(t, err)
	assert.Equal(t, cfg.Store.Path, got)
}

func TestLoadGraphDefault(t *testing.T) {
	old := cfg
	t.Cleanup(func() { cfg = old })
	cfg = &config.Config{}

	g, err := loadGraph()
	require.NoError(t, err)
	assert.Same(t, decision.Default(), g)

	cfg.Protocol.Path = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = loadGraph()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load protocol "+cfg.Protocol.Path)
	assert.Error(t, eris.Cause(err))
}
