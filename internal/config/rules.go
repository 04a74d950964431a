package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the constants of the game variant and the tuning knobs of
// both engines. Zero values are never valid; start from Default.
type Rules struct {
	// Deck construction
	DeckSize          int `yaml:"deck_size" json:"deck_size"`
	MaxCopies         int `yaml:"max_copies" json:"max_copies"`
	MaxBuildAttempts  int `yaml:"max_build_attempts" json:"max_build_attempts"`
	MaxBucketAttempts int `yaml:"max_bucket_attempts" json:"max_bucket_attempts"`

	// Combat simulation
	MaxTurns           int     `yaml:"max_turns" json:"max_turns"`
	EnergyCap          int     `yaml:"energy_cap" json:"energy_cap"`
	OpeningHand        int     `yaml:"opening_hand" json:"opening_hand"`
	DefaultLife        int     `yaml:"default_life" json:"default_life"`
	LeaderAttackChance float64 `yaml:"leader_attack_chance" json:"leader_attack_chance"`
	DirectDamage       int     `yaml:"direct_damage" json:"direct_damage"`
	DefaultTrials      int     `yaml:"default_trials" json:"default_trials"`
	MaxTrials          int     `yaml:"max_trials" json:"max_trials"`
}

// Default returns the One Piece TCG rules the engines were tuned for.
func Default() Rules {
	return Rules{
		DeckSize:          50,
		MaxCopies:         4,
		MaxBuildAttempts:  1000,
		MaxBucketAttempts: 200,

		MaxTurns:           30,
		EnergyCap:          10,
		OpeningHand:        5,
		DefaultLife:        5,
		LeaderAttackChance: 0.7,
		DirectDamage:       1,
		DefaultTrials:      1000,
		MaxTrials:          100000,
	}
}

// MinUniqueCards is the number of distinct names needed to fill a deck
// under the copy limit.
func (r Rules) MinUniqueCards() int {
	return (r.DeckSize + r.MaxCopies - 1) / r.MaxCopies
}

// Validate rejects rules that would make either engine degenerate.
func (r Rules) Validate() error {
	if r.DeckSize <= 0 {
		return fmt.Errorf("deck_size must be > 0")
	}
	if r.MaxCopies <= 0 {
		return fmt.Errorf("max_copies must be > 0")
	}
	if r.MaxBuildAttempts <= 0 || r.MaxBucketAttempts <= 0 {
		return fmt.Errorf("attempt caps must be > 0: build=%d bucket=%d", r.MaxBuildAttempts, r.MaxBucketAttempts)
	}
	if r.MaxTurns <= 0 {
		return fmt.Errorf("max_turns must be > 0")
	}
	if r.EnergyCap < 0 || r.OpeningHand < 0 || r.DirectDamage < 0 {
		return fmt.Errorf("energy_cap, opening_hand and direct_damage must be >= 0")
	}
	if r.DefaultLife <= 0 {
		return fmt.Errorf("default_life must be > 0")
	}
	if r.LeaderAttackChance < 0 || r.LeaderAttackChance > 1 {
		return fmt.Errorf("leader_attack_chance must be within [0,1], got %v", r.LeaderAttackChance)
	}
	if r.DefaultTrials <= 0 {
		return fmt.Errorf("default_trials must be > 0")
	}
	if r.MaxTrials < r.DefaultTrials {
		return fmt.Errorf("max_trials must be >= default_trials, got %d < %d", r.MaxTrials, r.DefaultTrials)
	}
	return nil
}

// Load reads a YAML rules file over the defaults. Keys missing from the
// file keep their default value. An empty path returns Default.
func Load(path string) (Rules, error) {
	rules := Default()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
