package roster

import (
	"testing"

	"troopforge.sim/internal/sim/tuning"
)

func TestQuoteEquipBuysMissingCopies(t *testing.T) {
	s := newTestSession(t, nil)

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if !q.IsChange {
		t.Fatalf("expected a change")
	}
	if q.DeltaAdd != 1 || q.DeltaRemove != 0 {
		t.Fatalf("deltas = +%d/-%d, want +1/-0", q.DeltaAdd, q.DeltaRemove)
	}
	if q.CopiesFromStock != 0 || q.CopiesToBuy != 1 {
		t.Fatalf("stock split = %d from stock, %d to buy, want 0/1", q.CopiesFromStock, q.CopiesToBuy)
	}
	if q.GoldCost != 100 {
		t.Fatalf("GoldCost = %d, want 100", q.GoldCost)
	}
	if !q.WouldStage {
		t.Fatalf("an acquiring change must stage when equipping takes time")
	}
}

func TestQuoteEquipPrefersStock(t *testing.T) {
	s := newTestSession(t, nil)
	s.Stock().Set("lance", 1)

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if q.CopiesFromStock != 1 || q.CopiesToBuy != 0 || q.GoldCost != 0 {
		t.Fatalf("stocked copy must be free: %+v", q)
	}
}

func TestQuoteEquipSameItemIsNoop(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotWeapon0, "lance")

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if q.IsChange {
		t.Fatalf("re-equipping the worn item must not be a change")
	}
}

func TestQuoteEquipReplacementFreesOldItem(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotWeapon0, "saber")

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if q.DeltaAdd != 1 || q.DeltaRemove != 1 {
		t.Fatalf("deltas = +%d/-%d, want +1/-1", q.DeltaAdd, q.DeltaRemove)
	}
}

func TestQuoteEquipPoolsWithCounterpart(t *testing.T) {
	s := newTestSession(t, nil)
	// The counterpart already needs two lances; raising this troop's count
	// from 0 to 1 stays under the pooled peak, so nothing is acquired.
	wearDirect(t, s, "footman_f", 0, SlotWeapon0, "lance")
	wearDirect(t, s, "footman_f", 0, SlotWeapon1, "lance")

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if q.DeltaAdd != 0 {
		t.Fatalf("DeltaAdd = %d, want 0 (covered by counterpart pool)", q.DeltaAdd)
	}
	if q.GoldCost != 0 || q.WouldStage {
		t.Fatalf("a zero-delta change must be free and instant: %+v", q)
	}

	// A troop without a counterpart pays for its own first copy.
	q = s.QuoteEquip("loner", 0, SlotWeapon0, "lance")
	if q.DeltaAdd != 1 {
		t.Fatalf("loner DeltaAdd = %d, want 1", q.DeltaAdd)
	}
}

func TestQuoteDeleteSetPoolsRefunds(t *testing.T) {
	s := newTestSession(t, nil)
	wearDirect(t, s, "footman", 0, SlotWeapon0, "lance")
	wearDirect(t, s, "footman_f", 0, SlotWeapon0, "lance")

	// The counterpart still needs a lance, so deleting this set frees nothing.
	q := s.QuoteDeleteSet("footman", 0)
	if len(q.Refunds) != 0 {
		t.Fatalf("refunds = %v, want none while counterpart still needs the item", q.Refunds)
	}

	q = s.QuoteDeleteSet("loner", 0)
	if len(q.Refunds) != 0 {
		t.Fatalf("empty set refunds = %v, want none", q.Refunds)
	}
	wearDirect(t, s, "loner", 0, SlotWeapon0, "lance")
	q = s.QuoteDeleteSet("loner", 0)
	if q.Refunds["lance"] != 1 {
		t.Fatalf("refunds = %v, want lance:1", q.Refunds)
	}
}

func TestQuoteIsPureEvenWhenUnaffordable(t *testing.T) {
	s := newTestSession(t, func(tu *tuning.Tuning) { tu.StartingGold = 0 })

	before := s.Gold()
	q := s.QuoteEquip("footman", 0, SlotWeapon0, "lance")
	if q.GoldCost != 100 {
		t.Fatalf("GoldCost = %d, want 100", q.GoldCost)
	}
	if s.Gold() != before || s.Stock().Get("lance") != 0 {
		t.Fatalf("quote mutated session state")
	}
	if got := s.Troop("footman").Set(0).Get(SlotWeapon0); got != "" {
		t.Fatalf("quote mutated loadout: %q", got)
	}
}

func TestQuoteEquipRejectsUnknownItem(t *testing.T) {
	s := newTestSession(t, nil)

	q := s.QuoteEquip("footman", 0, SlotWeapon0, "excalibur")
	if q.IsChange || q.DeltaAdd != 0 || q.GoldCost != 0 {
		t.Fatalf("unknown item must quote as a no-op: %+v", q)
	}
}
