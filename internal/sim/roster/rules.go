package roster

import "troopforge.sim/internal/sim/tuning"

// CapabilityRule decides whether a troop may wear an item at all, ignoring
// stock and gold. Hosts may supply their own implementation.
type CapabilityRule interface {
	CanEquip(t *Troop, it *Item) (bool, LimitReason)
}

// RulePredicate returns the limit flags one rule raises, or 0.
type RulePredicate func(t *Troop, it *Item) LimitReason

// RuleSet is an explicit, statically-constructed list of predicates. No
// runtime discovery: the host decides the list at startup.
type RuleSet struct {
	rules []RulePredicate
}

func (rs *RuleSet) CanEquip(t *Troop, it *Item) (bool, LimitReason) {
	if t == nil {
		return false, 0
	}
	if it == nil {
		return true, 0 // unequip is always capability-clean
	}
	var reasons LimitReason
	for _, rule := range rs.rules {
		reasons |= rule(t, it)
	}
	return reasons == 0, reasons
}

// NewRuleSet builds the default capability rules from tuning.
func NewRuleSet(tune tuning.Tuning) *RuleSet {
	rs := &RuleSet{}

	// Skill requirement: the troop must meet the item's difficulty in its
	// relevant skill.
	rs.rules = append(rs.rules, func(t *Troop, it *Item) LimitReason {
		if it.Skill == "" {
			return 0
		}
		if it.Difficulty > t.Skills[it.Skill] {
			return LimitSkill
		}
		return 0
	})

	if tune.DisallowMountsForTier1 {
		rs.rules = append(rs.rules, func(t *Troop, it *Item) LimitReason {
			if it.Mount && t.Tier <= 1 {
				return LimitMountTier
			}
			return 0
		})
	}

	// Item tier may exceed troop tier by at most the configured difference.
	allowed := tune.AllowedTierDifference
	rs.rules = append(rs.rules, func(t *Troop, it *Item) LimitReason {
		if it.Tier-t.Tier > allowed {
			return LimitTierDifference
		}
		return 0
	})

	return rs
}
