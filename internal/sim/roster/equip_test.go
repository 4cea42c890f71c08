package roster

import (
	"testing"

	"troopforge.sim/internal/sim/tuning"
)

func TestTryEquipBuysWhenStockShort(t *testing.T) {
	s := newTestSession(t, func(tu *tuning.Tuning) { tu.StartingGold = 150 })

	res := s.TryEquip("footman", 0, SlotWeapon0, "lance", true)
	if !res.Ok {
		t.Fatalf("equip failed: %v", res.Reason)
	}
	if res.GoldDelta != -100 || s.Gold() != 50 {
		t.Fatalf("gold delta %d, balance %d; want -100, 50", res.GoldDelta, s.Gold())
	}
	if !res.Staged {
		t.Fatalf("an acquiring equip must stage when equipping takes time")
	}
	// The purchased copy is consumed, never parked in stock.
	if s.Stock().Get("lance") != 0 {
		t.Fatalf("stock = %d, want 0", s.Stock().Get("lance"))
	}
	// The loadout changes only at completion.
	if got := s.Troop("footman").Set(0).Get(SlotWeapon0); got != "" {
		t.Fatalf("slot already %q before completion", got)
	}

	s.AdvanceHours(1)
	if got := s.Troop("footman").Set(0).Get(SlotWeapon0); got != "lance" {
		t.Fatalf("slot = %q after completion, want lance", got)
	}
	if _, ok := s.StagedEquip("footman", 0, SlotWeapon0); ok {
		t.Fatalf("job must be gone after completion")
	}
}

func TestTryEquipConsumesStockBeforeGold(t *testing.T) {
	s := instantSession(t)
	s.Stock().Set("lance", 2)

	res := s.TryEquip("footman", 0, SlotWeapon0, "lance", false)
	if !res.Ok || res.GoldDelta != 0 {
		t.Fatalf("stocked equip must cost nothing: %+v", res)
	}
	if s.Stock().Get("lance") != 1 {
		t.Fatalf("stock = %d, want 1", s.Stock().Get("lance"))
	}
}

func TestTryEquipRejectsWithoutPurchaseOrGold(t *testing.T) {
	s := instantSession(t)

	res := s.TryEquip("footman", 0, SlotWeapon0, "lance", false)
	if res.Ok || res.Reason != ReasonNotEnoughStock {
		t.Fatalf("want NotEnoughStock, got %+v", res)
	}

	s2 := newTestSession(t, func(tu *tuning.Tuning) {
		tu.EquipTakesTime = false
		tu.StartingGold = 10
	})
	res = s2.TryEquip("footman", 0, SlotWeapon0, "lance", true)
	if res.Ok || res.Reason != ReasonNotEnoughGold {
		t.Fatalf("want NotEnoughGold, got %+v", res)
	}
	// Rejections leave no partial state.
	if s2.Gold() != 10 || s2.Stock().Get("lance") != 0 {
		t.Fatalf("rejected equip mutated state")
	}
}

func TestTryEquipCapabilityAndSlotChecks(t *testing.T) {
	s := instantSession(t)

	if res := s.TryEquip("footman", 0, SlotWeapon0, "greatsword", true); res.Ok || res.Reason != ReasonNotAllowed {
		t.Fatalf("over-tier, over-difficulty item must be NotAllowed: %+v", res)
	}
	if res := s.TryEquip("footman", 0, SlotHead, "lance", true); res.Ok || res.Reason != ReasonNotAllowed {
		t.Fatalf("wrong slot must be NotAllowed: %+v", res)
	}
	if res := s.TryEquip("footman", 1, SlotHead, "helmet", true); res.Ok || res.Reason != ReasonNotCivilian {
		t.Fatalf("battle item in civilian set must be NotCivilian: %+v", res)
	}
	if res := s.TryEquip("footman", 1, SlotHead, "cap", true); !res.Ok {
		t.Fatalf("civilian item in civilian set failed: %+v", res)
	}
	if res := s.TryEquip("ghost", 0, SlotHead, "cap", true); res.Ok || res.Reason != ReasonInvalid {
		t.Fatalf("unknown troop must be Invalid: %+v", res)
	}
}

func TestEquipUnequipRoundTrip(t *testing.T) {
	s := instantSession(t)
	startGold := s.Gold()

	if res := s.TryEquip("footman", 0, SlotWeapon0, "lance", true); !res.Ok {
		t.Fatalf("equip: %+v", res)
	}
	if s.Gold() != startGold-100 {
		t.Fatalf("gold = %d, want %d", s.Gold(), startGold-100)
	}

	res := s.TryUnequip("footman", 0, SlotWeapon0)
	if !res.Ok || res.RefundedCopies != 1 {
		t.Fatalf("unequip: %+v", res)
	}
	// The copy returns to stock; the gold does not come back.
	if s.Stock().Get("lance") != 1 {
		t.Fatalf("stock = %d, want 1", s.Stock().Get("lance"))
	}
	if s.Gold() != startGold-100 {
		t.Fatalf("unequip must never refund gold, balance %d", s.Gold())
	}

	// Re-equipping uses the freed copy, so the books balance to one purchase.
	if res := s.TryEquip("footman", 0, SlotWeapon0, "lance", false); !res.Ok {
		t.Fatalf("re-equip from stock: %+v", res)
	}
	if s.Gold() != startGold-100 || s.Stock().Get("lance") != 0 {
		t.Fatalf("round trip books off: gold %d, stock %d", s.Gold(), s.Stock().Get("lance"))
	}
}

func TestUnequipMountAlsoFreesHarness(t *testing.T) {
	s := instantSession(t)
	if res := s.TryEquip("footman", 0, SlotMount, "horse", true); !res.Ok {
		t.Fatalf("equip horse: %+v", res)
	}
	if res := s.TryEquip("footman", 0, SlotHarness, "saddle", true); !res.Ok {
		t.Fatalf("equip saddle: %+v", res)
	}

	res := s.TryUnequip("footman", 0, SlotMount)
	if !res.Ok || res.RefundedCopies != 2 {
		t.Fatalf("unequip mount: %+v, want 2 refunded copies", res)
	}
	set := s.Troop("footman").Set(0)
	if set.Get(SlotMount) != "" || set.Get(SlotHarness) != "" {
		t.Fatalf("mount and harness must both clear: %q/%q", set.Get(SlotMount), set.Get(SlotHarness))
	}
	if s.Stock().Get("horse") != 1 || s.Stock().Get("saddle") != 1 {
		t.Fatalf("stock horse=%d saddle=%d, want 1/1", s.Stock().Get("horse"), s.Stock().Get("saddle"))
	}
}

func TestStudioModeIsStructureOnly(t *testing.T) {
	s := newTestSession(t, nil)
	s.SetStudioMode(true)
	startGold := s.Gold()

	res := s.TryEquip("footman", 0, SlotWeapon0, "lance", false)
	if !res.Ok || res.Staged {
		t.Fatalf("studio equip must apply instantly: %+v", res)
	}
	if got := s.Troop("footman").Set(0).Get(SlotWeapon0); got != "lance" {
		t.Fatalf("slot = %q, want lance", got)
	}
	if s.Gold() != startGold || len(s.Stock().Export()) != 0 {
		t.Fatalf("studio mode touched the books")
	}

	if res := s.TryUnequip("footman", 0, SlotWeapon0); !res.Ok || res.RefundedCopies != 0 {
		t.Fatalf("studio unequip must not refund: %+v", res)
	}
}

func TestUnequipCancelsPendingJob(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotWeapon0, "saber")
	startGold := s.Gold()

	// Staging the lance over the saber refunds the saber's freed copy early.
	if res := s.TryEquip("footman", 0, SlotWeapon0, "lance", true); !res.Ok || !res.Staged {
		t.Fatalf("stage lance: %+v", res)
	}
	if s.Stock().Get("saber") != 1 {
		t.Fatalf("saber stock = %d after staging, want 1", s.Stock().Get("saber"))
	}

	res := s.TryUnequip("footman", 0, SlotWeapon0)
	if !res.Ok {
		t.Fatalf("unequip: %+v", res)
	}
	// One physical saber: the job's early refund is reversed before the
	// removal delta refunds it, so the copy exists exactly once.
	if got := s.Stock().Get("saber"); got != 1 {
		t.Fatalf("saber stock = %d after unequip, want 1", got)
	}
	// Cancelling the job also returns the lance purchase.
	if s.Gold() != startGold {
		t.Fatalf("gold = %d, want %d", s.Gold(), startGold)
	}
	if _, ok := s.StagedEquip("footman", 0, SlotWeapon0); ok {
		t.Fatalf("pending job must be cancelled")
	}

	// Nothing left to complete: the slot stays empty.
	s.AdvanceHours(3)
	if got := s.Troop("footman").Set(0).Get(SlotWeapon0); got != "" {
		t.Fatalf("slot = %q after ticking, want empty", got)
	}
	if got := s.Stock().Get("saber"); got != 1 {
		t.Fatalf("saber stock = %d after ticking, want 1", got)
	}
}

func TestUnequipMountCancelsPendingHarnessJob(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotMount, "horse")
	startGold := s.Gold()

	if res := s.TryEquip("footman", 0, SlotHarness, "saddle", true); !res.Ok || !res.Staged {
		t.Fatalf("stage saddle: %+v", res)
	}

	res := s.TryUnequip("footman", 0, SlotMount)
	if !res.Ok {
		t.Fatalf("unequip mount: %+v", res)
	}
	// The saddle was never worn; cancelling its job refunds the purchase in
	// gold, not in stock.
	if got := s.Stock().Get("saddle"); got != 0 {
		t.Fatalf("saddle stock = %d, want 0", got)
	}
	if s.Gold() != startGold {
		t.Fatalf("gold = %d, want %d", s.Gold(), startGold)
	}
	if got := s.Stock().Get("horse"); got != 1 {
		t.Fatalf("horse stock = %d, want 1", got)
	}
	if _, ok := s.StagedEquip("footman", 0, SlotHarness); ok {
		t.Fatalf("pending harness job must be cancelled")
	}
}
