package roster

// StageTraining queues one skill point of training for a troop. When training
// takes no time, the point is applied immediately. Re-staging the same skill
// accumulates: more hours, more points, and a refreshed points-per-hour rate;
// the fractional carry keeps converting elapsed hours into whole points.
func (s *Session) StageTraining(troopID, skillID string) bool {
	t := s.troops[troopID]
	if t == nil || skillID == "" {
		s.logger.Printf("stage_training: unknown troop %q", troopID)
		return false
	}

	if !s.tune.TrainingTakesTime || s.studio {
		s.applyTrainingPoints(troopID, skillID, 1)
		return true
	}

	hours := int(float64(s.tune.TrainingHoursPerPoint) * s.tune.TrainingTimeModifier)
	if hours < 1 {
		hours = 1
	}

	if job := s.staging.getTrain(troopID, skillID); job != nil {
		job.Remaining += hours
		job.PointsRemaining++
		job.PointsPerHour = float64(job.PointsRemaining) / float64(maxInt(1, job.Remaining))
		return true
	}

	s.staging.setTrain(troopID, &PendingTrain{
		TroopID:         troopID,
		SkillID:         skillID,
		Remaining:       hours,
		PointsRemaining: 1,
		PointsPerHour:   1 / float64(hours),
	})
	s.writeAudit(AuditEntry{Op: "stage_training", TroopID: troopID, SkillID: skillID, Ok: true})
	return true
}

// StagedTraining returns a copy of the pending training job for a skill.
func (s *Session) StagedTraining(troopID, skillID string) (PendingTrain, bool) {
	job := s.staging.getTrain(troopID, skillID)
	if job == nil {
		return PendingTrain{}, false
	}
	return *job, true
}

func (s *Session) applyTrainingPoints(troopID, skillID string, points int) {
	t := s.troops[troopID]
	if t == nil || points <= 0 {
		return
	}
	t.Skills[skillID] += points
	s.writeAudit(AuditEntry{Op: "train_complete", TroopID: troopID, SkillID: skillID, Ok: true})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
