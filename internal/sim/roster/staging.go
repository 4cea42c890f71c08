package roster

import (
	"fmt"
	"sort"
)

// PendingEquip is one staged, time-delayed equipment change. The loadout is
// untouched while the job is pending; the acquisition bookkeeping recorded
// here is exactly what rollback reverses.
type PendingEquip struct {
	TroopID   string
	SetIndex  int
	Slot      Slot
	ItemID    string
	OldItemID string

	Remaining int
	Carry     float64

	// Acquisition bookkeeping taken at stage time.
	FromStock int // copies consumed from stock
	Bought    int // copies purchased and consumed
	GoldSpent int // gold debited for Bought
	Refunded  int // old-item copies returned to stock early
}

// PendingTrain is one staged, point-accruing skill training job. Whole points
// complete as fractional hourly progress accumulates in Carry.
type PendingTrain struct {
	TroopID string
	SkillID string

	Remaining       int
	PointsRemaining int
	PointsPerHour   float64
	Carry           float64
}

// StagingStore keys pending jobs by troop id. Empty per-troop maps are pruned
// rather than kept as empty containers.
type StagingStore struct {
	equip map[string]map[string]*PendingEquip // troop id -> "slot:set" -> job
	train map[string]map[string]*PendingTrain // troop id -> skill id -> job
}

func NewStagingStore() *StagingStore {
	return &StagingStore{
		equip: map[string]map[string]*PendingEquip{},
		train: map[string]map[string]*PendingTrain{},
	}
}

func equipKey(slot Slot, setIndex int) string {
	return fmt.Sprintf("%d:%d", int(slot), setIndex)
}

func (st *StagingStore) getEquip(troopID, key string) *PendingEquip {
	if byKey, ok := st.equip[troopID]; ok {
		return byKey[key]
	}
	return nil
}

func (st *StagingStore) setEquip(troopID string, job *PendingEquip) {
	byKey, ok := st.equip[troopID]
	if !ok {
		byKey = map[string]*PendingEquip{}
		st.equip[troopID] = byKey
	}
	byKey[equipKey(job.Slot, job.SetIndex)] = job
}

func (st *StagingStore) removeEquip(troopID, key string) {
	if byKey, ok := st.equip[troopID]; ok {
		delete(byKey, key)
		if len(byKey) == 0 {
			delete(st.equip, troopID)
		}
	}
}

func (st *StagingStore) getTrain(troopID, skillID string) *PendingTrain {
	if bySkill, ok := st.train[troopID]; ok {
		return bySkill[skillID]
	}
	return nil
}

func (st *StagingStore) setTrain(troopID string, job *PendingTrain) {
	bySkill, ok := st.train[troopID]
	if !ok {
		bySkill = map[string]*PendingTrain{}
		st.train[troopID] = bySkill
	}
	bySkill[job.SkillID] = job
}

func (st *StagingStore) removeTrain(troopID, skillID string) {
	if bySkill, ok := st.train[troopID]; ok {
		delete(bySkill, skillID)
		if len(bySkill) == 0 {
			delete(st.train, troopID)
		}
	}
}

// troopIDsWithEquip returns troop ids with pending equip jobs, sorted so tick
// traversal is deterministic.
func (st *StagingStore) troopIDsWithEquip() []string {
	ids := make([]string, 0, len(st.equip))
	for id := range st.equip {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (st *StagingStore) troopIDsWithTrain() []string {
	ids := make([]string, 0, len(st.train))
	for id := range st.train {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (st *StagingStore) equipKeysFor(troopID string) []string {
	byKey := st.equip[troopID]
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (st *StagingStore) trainSkillsFor(troopID string) []string {
	bySkill := st.train[troopID]
	keys := make([]string, 0, len(bySkill))
	for k := range bySkill {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StagedEquip returns a copy of the pending equip job for (troop, slot, set).
func (s *Session) StagedEquip(troopID string, setIndex int, slot Slot) (PendingEquip, bool) {
	job := s.staging.getEquip(troopID, equipKey(slot, setIndex))
	if job == nil {
		return PendingEquip{}, false
	}
	return *job, true
}

// StagedEquips returns copies of all pending equip jobs for a troop, sorted
// by key.
func (s *Session) StagedEquips(troopID string) []PendingEquip {
	var out []PendingEquip
	for _, k := range s.staging.equipKeysFor(troopID) {
		out = append(out, *s.staging.equip[troopID][k])
	}
	return out
}

// RollbackStaged cancels the pending equip job for (troop, slot, set),
// reversing exactly the stock/gold effects taken when it was staged. The
// loadout is untouched: it was never mutated for a staged job.
func (s *Session) RollbackStaged(troopID string, setIndex int, slot Slot) bool {
	t := s.troops[troopID]
	if t == nil {
		s.logger.Printf("rollback: unknown troop %q", troopID)
		return false
	}
	job := s.staging.getEquip(troopID, equipKey(slot, setIndex))
	if job == nil {
		return false
	}
	s.rollbackEquipJob(t, job)
	s.writeAudit(AuditEntry{
		Op: "rollback", TroopID: troopID, SetIndex: setIndex,
		Slot: slot.String(), ItemID: job.ItemID,
		GoldDelta: job.GoldSpent, Ok: true,
	})
	return true
}

// rollbackEquipJob reverses the job's acquisition bookkeeping and removes it.
// Copies taken from stock go back to stock; purchased copies are refunded in
// gold; the old item's early refund is taken back (clamped by the ledger, so
// stock can never go negative).
func (s *Session) rollbackEquipJob(t *Troop, job *PendingEquip) {
	s.stock.Add(job.ItemID, job.FromStock)
	if job.GoldSpent > 0 {
		s.treasury.Change(job.GoldSpent)
	}
	s.stock.Add(job.OldItemID, -job.Refunded)
	s.staging.removeEquip(job.TroopID, equipKey(job.Slot, job.SetIndex))
}
