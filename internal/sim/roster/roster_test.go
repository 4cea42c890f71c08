package roster

import (
	"testing"

	"troopforge.sim/internal/sim/catalogs"
	"troopforge.sim/internal/sim/tuning"
)

var weaponSlots = []string{"weapon_0", "weapon_1", "weapon_2", "weapon_3"}

func testCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	items := []catalogs.ItemDef{
		{ID: "lance", Name: "Lance", Value: 100, Slots: weaponSlots, Skill: "polearm", Difficulty: 40, Tier: 3},
		{ID: "saber", Name: "Saber", Value: 60, Slots: weaponSlots, Skill: "onehanded", Difficulty: 30, Tier: 2},
		{ID: "greatsword", Name: "Greatsword", Value: 8000, Slots: weaponSlots, Skill: "twohanded", Difficulty: 90, Tier: 6},
		{ID: "helmet", Name: "Helmet", Value: 40, Slots: []string{"head"}, Tier: 2},
		{ID: "cap", Name: "Felt Cap", Value: 10, Slots: []string{"head"}, Civilian: true, Tier: 1},
		{ID: "tunic", Name: "Tunic", Value: 15, Slots: []string{"body"}, Civilian: true, Tier: 1},
		{ID: "horse", Name: "Horse", Value: 200, Slots: []string{"mount"}, Skill: "riding", Difficulty: 30, Tier: 3, Mount: true},
		{ID: "saddle", Name: "Saddle", Value: 50, Slots: []string{"harness"}, Tier: 2},
	}
	troops := []catalogs.TroopDef{
		{
			ID: "footman", Name: "Footman", Tier: 3, CounterpartID: "footman_f",
			Skills: map[string]int{"polearm": 80, "onehanded": 70, "riding": 60},
			Sets:   []catalogs.SetDef{{}, {Civilian: true}},
		},
		{
			ID: "footman_f", Name: "Footman", Tier: 3, CounterpartID: "footman",
			Skills: map[string]int{"polearm": 80, "onehanded": 70, "riding": 60},
			Sets:   []catalogs.SetDef{{}, {Civilian: true}},
		},
		{
			ID: "loner", Name: "Loner", Tier: 3,
			Skills: map[string]int{"polearm": 80, "onehanded": 70, "riding": 60},
			Sets:   []catalogs.SetDef{{}, {Civilian: true}},
		},
	}
	c, err := catalogs.FromDefs(items, troops)
	if err != nil {
		t.Fatalf("FromDefs: %v", err)
	}
	return c
}

// newTestSession builds a session over the shared fixture catalogs. mod may
// adjust tuning before construction; nil keeps the defaults.
func newTestSession(t *testing.T, mod func(*tuning.Tuning)) *Session {
	t.Helper()
	tune := tuning.Defaults()
	if mod != nil {
		mod(&tune)
	}
	s, err := NewSession(SessionConfig{Catalogs: testCatalogs(t), Tuning: tune})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// instantSession disables staging so equips apply structurally at once.
func instantSession(t *testing.T) *Session {
	return newTestSession(t, func(tu *tuning.Tuning) {
		tu.EquipTakesTime = false
		tu.TrainingTakesTime = false
	})
}

func wearDirect(t *testing.T, s *Session, troopID string, setIndex int, slot Slot, itemID string) {
	t.Helper()
	if !s.ApplyStructure(troopID, setIndex, slot, itemID) {
		t.Fatalf("ApplyStructure(%s, %d, %s, %s) failed", troopID, setIndex, slot, itemID)
	}
}
