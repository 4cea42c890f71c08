package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning carries every policy knob the simulation core reads. Loaded once at
// startup; the session keeps a copy, so edits to the file never affect a
// running session.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	// Economy policy.
	PayForEquipment         bool    `yaml:"pay_for_equipment"`
	EquipmentCostMultiplier float64 `yaml:"equipment_cost_multiplier"`

	// Staging policy.
	EquipTakesTime        bool    `yaml:"equip_takes_time"`
	EquipTimeModifier     float64 `yaml:"equip_time_modifier"`
	TrainingTakesTime     bool    `yaml:"training_takes_time"`
	TrainingTimeModifier  float64 `yaml:"training_time_modifier"`
	TrainingHoursPerPoint int     `yaml:"training_hours_per_point"`

	// Capability policy.
	AllowedTierDifference  int  `yaml:"allowed_tier_difference"`
	DisallowMountsForTier1 bool `yaml:"disallow_mounts_for_tier1"`

	// Host loop: how many simulated hours elapse per wall-clock minute.
	HoursPerMinute int `yaml:"hours_per_minute"`

	SnapshotEveryHours int `yaml:"snapshot_every_hours"`

	StartingGold int `yaml:"starting_gold"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:         "1.0",
		PayForEquipment:         true,
		EquipmentCostMultiplier: 1.0,
		EquipTakesTime:          true,
		EquipTimeModifier:       1.0,
		TrainingTakesTime:       true,
		TrainingTimeModifier:    1.0,
		TrainingHoursPerPoint:   3,
		AllowedTierDifference:   2,
		DisallowMountsForTier1:  true,
		HoursPerMinute:          1,
		SnapshotEveryHours:      24,
		StartingGold:            1000,
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.EquipmentCostMultiplier < 0 {
		return t, fmt.Errorf("tuning.yaml: equipment_cost_multiplier must be >= 0")
	}
	if t.EquipTimeModifier <= 0 {
		return t, fmt.Errorf("tuning.yaml: equip_time_modifier must be > 0")
	}
	if t.TrainingHoursPerPoint <= 0 {
		t.TrainingHoursPerPoint = Defaults().TrainingHoursPerPoint
	}
	return t, nil
}
