package roster

import (
	"reflect"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotHead, "helmet")
	s.Stock().Set("saber", 3)
	if res := s.TryEquip("footman", 0, SlotWeapon0, "lance", true); !res.Ok || !res.Staged {
		t.Fatalf("stage equip: %+v", res)
	}
	if !s.StageTraining("footman", "polearm") {
		t.Fatalf("stage training")
	}

	exported := s.ExportState()

	restored := newTestSession(t, nil)
	restored.RestoreState(exported)

	if got := restored.ExportState(); !reflect.DeepEqual(got, exported) {
		t.Fatalf("round trip drifted:\n got %+v\nwant %+v", got, exported)
	}
	if restored.Gold() != s.Gold() {
		t.Fatalf("gold = %d, want %d", restored.Gold(), s.Gold())
	}
	if got := restored.Troop("footman").Set(0).Get(SlotHead); got != "helmet" {
		t.Fatalf("slot = %q, want helmet", got)
	}
	if _, ok := restored.StagedEquip("footman", 0, SlotWeapon0); !ok {
		t.Fatalf("pending equip lost")
	}
	if _, ok := restored.StagedTraining("footman", "polearm"); !ok {
		t.Fatalf("pending training lost")
	}

	// The restored session keeps ticking where the exported one left off.
	job, _ := restored.StagedEquip("footman", 0, SlotWeapon0)
	restored.AdvanceHours(job.Remaining)
	if got := restored.Troop("footman").Set(0).Get(SlotWeapon0); got != "lance" {
		t.Fatalf("restored job did not complete: %q", got)
	}
}

func TestRestoreDropsDanglingReferences(t *testing.T) {
	s := newTestSession(t, nil)

	st := &StateV1{
		Hours: 5,
		Gold:  700,
		Stock: map[string]int{"lance": 2, "phased_out_pike": 9},
		Troops: map[string]TroopStateV1{
			"footman": {
				Skills: map[string]int{"polearm": 80},
				Sets: []SetStateV1{
					{Slots: map[string]string{"weapon_0": "lance", "weapon_1": "phased_out_pike", "saddlebag": "lance"}},
					{Civilian: true, Slots: map[string]string{}},
				},
			},
			"disbanded": {Sets: []SetStateV1{{}}},
		},
		PendingEquip: []PendingEquipV1{
			{TroopID: "disbanded", Slot: "weapon_0", ItemID: "lance", Remaining: 2},
			{TroopID: "footman", Slot: "weapon_1", ItemID: "lance", Remaining: 2},
		},
		PendingTrain: []PendingTrainV1{
			{TroopID: "disbanded", SkillID: "polearm", Remaining: 3, PointsRemaining: 1, PointsPerHour: 1.0 / 3},
		},
	}
	s.RestoreState(st)

	if s.Gold() != 700 || s.Hours() != 5 {
		t.Fatalf("gold/hours = %d/%d, want 700/5", s.Gold(), s.Hours())
	}
	if s.Stock().Get("phased_out_pike") != 0 || s.Stock().Get("lance") != 2 {
		t.Fatalf("stock = %v", s.Stock().Export())
	}
	set := s.Troop("footman").Set(0)
	if set.Get(SlotWeapon0) != "lance" || set.Get(SlotWeapon1) != "" {
		t.Fatalf("dangling item survived restore: %q", set.Get(SlotWeapon1))
	}
	if _, ok := s.StagedEquip("footman", 0, SlotWeapon1); !ok {
		t.Fatalf("valid pending equip dropped")
	}
	if got := len(s.staging.equip); got != 1 {
		t.Fatalf("stale equip jobs kept: %d troop entries", got)
	}
	if got := len(s.staging.train); got != 0 {
		t.Fatalf("stale train jobs kept: %d troop entries", got)
	}
}
