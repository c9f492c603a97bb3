package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// ComplianceTier classifies a donor for donation-limit purposes.
// Tier movement is monotonic: guest to compliant, never backward.
type ComplianceTier string

const (
	TierGuest     ComplianceTier = "guest"
	TierCompliant ComplianceTier = "compliant"
)

// Valid reports whether the tier is one of the known values.
func (t ComplianceTier) Valid() bool {
	return t == TierGuest || t == TierCompliant
}

// ResetType determines which temporal boundary resets a tier's limit.
type ResetType string

const (
	ResetAnnual        ResetType = "annual"
	ResetElectionCycle ResetType = "election_cycle"
)

// TierPolicy holds the limit rules for a single compliance tier.
// All amounts are cents.
type TierPolicy struct {
	ResetType        ResetType `yaml:"reset_type" mapstructure:"reset_type"`
	ResetTime        string    `yaml:"reset_time" mapstructure:"reset_time"`
	AnnualCap        int64     `yaml:"annual_cap" mapstructure:"annual_cap"`
	PerDonationLimit int64     `yaml:"per_donation_limit" mapstructure:"per_donation_limit"`
	PerElectionLimit int64     `yaml:"per_election_limit" mapstructure:"per_election_limit"`
}

// PolicyTable maps each tier to its limit rules. The calculator treats
// it as read-only input.
type PolicyTable map[ComplianceTier]TierPolicy

// DefaultTierPolicies mirrors the statutory limit table: guests are
// capped at $200/year in aggregate, compliant donors at $3,300 per
// candidate per election.
var DefaultTierPolicies = PolicyTable{
	TierGuest: {
		ResetType: ResetAnnual,
		ResetTime: "year_end",
		AnnualCap: 20000,
	},
	TierCompliant: {
		ResetType:        ResetElectionCycle,
		ResetTime:        "election_date",
		PerDonationLimit: 330000,
		PerElectionLimit: 330000,
	},
}

// LoadTierPolicies reads a YAML policy override file. Tiers absent from
// the file keep their defaults.
func LoadTierPolicies(path string) (PolicyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "model: read tier policy file")
	}

	var overrides map[ComplianceTier]TierPolicy
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "model: parse tier policy file")
	}

	table := make(PolicyTable, len(DefaultTierPolicies))
	for tier, policy := range DefaultTierPolicies {
		table[tier] = policy
	}
	for tier, policy := range overrides {
		if !tier.Valid() {
			return nil, eris.Errorf("model: unknown tier %q in policy file", tier)
		}
		table[tier] = policy
	}
	return table, nil
}
