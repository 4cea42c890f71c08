package roster

// AdvanceHours drives staged jobs forward by whole simulated hours. Each job's
// completion is self-contained, and traversal is over sorted keys, so the
// outcome is independent of map iteration order.
func (s *Session) AdvanceHours(hours int) {
	for i := 0; i < hours; i++ {
		s.hours++
		s.tickEquipJobs()
		s.tickTrainJobs()
	}
}

func (s *Session) tickEquipJobs() {
	for _, troopID := range s.staging.troopIDsWithEquip() {
		for _, key := range s.staging.equipKeysFor(troopID) {
			job := s.staging.getEquip(troopID, key)
			if job == nil {
				continue
			}
			if job.Remaining > 0 {
				job.Remaining--
			}
			if job.Remaining <= 0 {
				s.completeEquipJob(job)
			}
		}
	}
}

// completeEquipJob applies the structural change exactly once and removes the
// entry. Jobs whose troop or item no longer resolves are dropped without
// touching the ledger: the defensive path must never corrupt stock counts.
func (s *Session) completeEquipJob(job *PendingEquip) {
	s.staging.removeEquip(job.TroopID, equipKey(job.Slot, job.SetIndex))

	t := s.troops[job.TroopID]
	if t == nil || t.Set(job.SetIndex) == nil {
		s.logger.Printf("staged equip dropped: troop %q set %d not resolvable", job.TroopID, job.SetIndex)
		return
	}
	if job.ItemID != "" && s.items[job.ItemID] == nil {
		s.logger.Printf("staged equip dropped: item %q not resolvable", job.ItemID)
		return
	}

	s.applyStructure(t, job.SetIndex, job.Slot, job.ItemID)
	s.writeAudit(AuditEntry{
		Op: "equip_complete", TroopID: job.TroopID, SetIndex: job.SetIndex,
		Slot: job.Slot.String(), ItemID: job.ItemID, Ok: true,
	})
}

func (s *Session) tickTrainJobs() {
	for _, troopID := range s.staging.troopIDsWithTrain() {
		for _, skillID := range s.staging.trainSkillsFor(troopID) {
			job := s.staging.getTrain(troopID, skillID)
			if job == nil {
				continue
			}
			if job.Remaining <= 0 || job.PointsRemaining <= 0 {
				s.staging.removeTrain(troopID, skillID)
				continue
			}

			job.Remaining--
			job.Carry += job.PointsPerHour

			steps := int(job.Carry)
			if steps > job.PointsRemaining {
				steps = job.PointsRemaining
			}
			if steps > 0 {
				s.applyTrainingPoints(job.TroopID, job.SkillID, steps)
				job.PointsRemaining -= steps
				job.Carry -= float64(steps)
			}

			if job.PointsRemaining <= 0 || job.Remaining <= 0 {
				// Any points still owed when time runs out complete now.
				if job.PointsRemaining > 0 {
					s.applyTrainingPoints(job.TroopID, job.SkillID, job.PointsRemaining)
				}
				s.staging.removeTrain(troopID, skillID)
			}
		}
	}
}
