package match

// RecordMergePlan describes how to fold one set of records into another while
// keeping at most one record per (match, member).
type RecordMergePlan struct {
	// Combined are destination records with the source counters added.
	Combined []Record
	// Moved are source records rewritten to their new owner.
	Moved []Record
	// Deleted are source record ids absorbed by a Combined record.
	Deleted []string
}

// PlanMemberRecordMerge moves every guest record onto targetMemberID.
func PlanMemberRecordMerge(guest, target []Record, targetMemberID string) RecordMergePlan {
	return planRecordMerge(guest, target,
		func(r Record) string { return r.MatchID },
		func(r Record) Record {
			r.MemberID = targetMemberID
			return r
		},
	)
}

// PlanMatchRecordMerge moves every record of a retired match onto canonicalMatchID.
func PlanMatchRecordMerge(retired, canonical []Record, canonicalMatchID string) RecordMergePlan {
	return planRecordMerge(retired, canonical,
		func(r Record) string { return r.MemberID },
		func(r Record) Record {
			r.MatchID = canonicalMatchID
			return r
		},
	)
}

func planRecordMerge(src, dst []Record, key func(Record) string, retarget func(Record) Record) RecordMergePlan {
	existing := make(map[string]Record, len(dst))
	for _, rec := range dst {
		existing[key(rec)] = rec
	}

	combined := make(map[string]Record)
	moved := make(map[string]Record)
	var combinedOrder, movedOrder []string
	plan := RecordMergePlan{}
	for _, rec := range src {
		k := key(rec)
		if target, ok := combined[k]; ok {
			combined[k] = target.Add(rec)
			plan.Deleted = append(plan.Deleted, rec.ID)
			continue
		}
		if target, ok := existing[k]; ok {
			combined[k] = target.Add(rec)
			combinedOrder = append(combinedOrder, k)
			plan.Deleted = append(plan.Deleted, rec.ID)
			continue
		}
		if target, ok := moved[k]; ok {
			moved[k] = target.Add(rec)
			plan.Deleted = append(plan.Deleted, rec.ID)
			continue
		}
		moved[k] = retarget(rec)
		movedOrder = append(movedOrder, k)
	}

	for _, k := range combinedOrder {
		plan.Combined = append(plan.Combined, combined[k])
	}
	for _, k := range movedOrder {
		plan.Moved = append(plan.Moved, moved[k])
	}
	return plan
}

// GoalMergePlan describes how the goal events of a retired match fold into the canonical one.
type GoalMergePlan struct {
	Moved   []Goal
	Deleted []string
}

// PlanMatchGoalMerge keeps the canonical match's member goals, brings over the
// retired match's member goals and drops anonymous opponent goals that the
// retired side recorded with named scorers.
func PlanMatchGoalMerge(retired, canonical []Goal, canonicalMatchID string) GoalMergePlan {
	plan := GoalMergePlan{}
	for _, goal := range retired {
		if !goal.IsMemberGoal() {
			plan.Deleted = append(plan.Deleted, goal.ID)
			continue
		}
		goal.MatchID = canonicalMatchID
		plan.Moved = append(plan.Moved, goal)
	}
	if len(plan.Moved) == 0 {
		return plan
	}
	for _, goal := range canonical {
		if !goal.IsMemberGoal() {
			plan.Deleted = append(plan.Deleted, goal.ID)
		}
	}
	return plan
}
