package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplianceTierValid(t *testing.T) {
	assert.True(t, TierGuest.Valid())
	assert.True(t, TierCompliant.Valid())
	assert.False(t, ComplianceTier("vip").Valid())
	assert.False(t, ComplianceTier("").Valid())
}

func TestDefaultTierPolicies(t *testing.T) {
	guest := DefaultTierPolicies[TierGuest]
	assert.Equal(t, ResetAnnual, guest.ResetType)
	assert.Equal(t, int64(20000), guest.AnnualCap)

	compliant := DefaultTierPolicies[TierCompliant]
	assert.Equal(t, ResetElectionCycle, compliant.ResetType)
	assert.Equal(t, int64(330000), compliant.PerElectionLimit)
}

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policies.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTierPolicies_Override(t *testing.T) {
	path := writePolicyFile(t, `
guest:
  reset_type: annual
  reset_time: year_end
  annual_cap: 50000
`)

	table, err := LoadTierPolicies(path)
	require.NoError(t, err)

	assert.Equal(t, int64(50000), table[TierGuest].AnnualCap)

	// Tiers absent from the file keep their defaults.
	assert.Equal(t, DefaultTierPolicies[TierCompliant], table[TierCompliant])
}

func TestLoadTierPolicies_UnknownTier(t *testing.T) {
	path := writePolicyFile(t, `
vip:
  reset_type: annual
  annual_cap: 100000
`)

	_, err := LoadTierPolicies(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}

func TestLoadTierPolicies_MissingFile(t *testing.T) {
	_, err := LoadTierPolicies(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadTierPolicies_MalformedYAML(t *testing.T) {
	path := writePolicyFile(t, "guest: [not a mapping")
	_, err := LoadTierPolicies(path)
	require.Error(t, err)
}
