package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
)

type MergeRepository struct {
	store *Store
}

func NewMergeRepository(store *Store) *MergeRepository {
	return &MergeRepository{store: store}
}

func (r *MergeRepository) CreateRecordMergeRequest(_ context.Context, item merge.RecordMergeRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.recordMerges[item.ID]; exists {
		return duplicateError("record_merge_requests_pkey")
	}
	for _, existing := range r.store.recordMerges {
		if existing.GuestMemberID == item.GuestMemberID && existing.Status == merge.RecordMergePending {
			return duplicateError("record_merge_requests_pending_guest_key")
		}
	}
	r.store.recordMerges[item.ID] = item
	return nil
}

func (r *MergeRepository) GetRecordMergeRequest(_ context.Context, requestID string) (merge.RecordMergeRequest, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.recordMerges[requestID]
	return item, ok, nil
}

func (r *MergeRepository) GetPendingRecordMergeByGuest(_ context.Context, guestMemberID string) (merge.RecordMergeRequest, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.recordMerges {
		if item.GuestMemberID == guestMemberID && item.Status == merge.RecordMergePending {
			return item, true, nil
		}
	}
	return merge.RecordMergeRequest{}, false, nil
}

func (r *MergeRepository) ListRecordMergeRequestsByTarget(_ context.Context, userID string, status merge.RecordMergeStatus) ([]merge.RecordMergeRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.recordMergesWhere(func(item merge.RecordMergeRequest) bool {
		return item.TargetUserID == userID && (status == "" || item.Status == status)
	}), nil
}

func (r *MergeRepository) ListRecordMergeRequestsByTeam(_ context.Context, teamID string) ([]merge.RecordMergeRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return r.store.recordMergesWhere(func(item merge.RecordMergeRequest) bool {
		return item.TeamID == teamID
	}), nil
}

func (r *MergeRepository) UpdateRecordMergeStatus(_ context.Context, requestID string, from, to merge.RecordMergeStatus, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.recordMerges[requestID]
	if !ok || item.Status != from {
		return false, nil
	}
	item.Status = to
	item.UpdatedAt = at
	item.RespondedAt = &at
	r.store.recordMerges[requestID] = item
	return true, nil
}

func (r *MergeRepository) ApplyMemberMerge(_ context.Context, cmd merge.MemberMergeCommand) (merge.MemberMergeResult, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s := r.store
	guest, ok := s.members[cmd.GuestMemberID]
	if !ok {
		return merge.MemberMergeResult{}, fmt.Errorf("apply member merge: guest member %s not found", cmd.GuestMemberID)
	}
	if guest.Status == team.MemberStatusMerged {
		return merge.MemberMergeResult{}, merge.ErrGuestAlreadyMerged
	}
	if guest.Status != team.MemberStatusActive {
		return merge.MemberMergeResult{}, fmt.Errorf("apply member merge: guest member %s is %s", guest.ID, guest.Status)
	}

	var request merge.RecordMergeRequest
	if cmd.RequestID != "" {
		request, ok = s.recordMerges[cmd.RequestID]
		if !ok || request.Status != merge.RecordMergePending {
			return merge.MemberMergeResult{}, merge.ErrRequestNotPending
		}
	}

	switch {
	case cmd.NewTargetMember != nil:
		userID, _ := cmd.NewTargetMember.UserID()
		if _, found := s.memberByUser(cmd.NewTargetMember.TeamID, userID); found {
			return merge.MemberMergeResult{}, duplicateError("team_members_team_user_key")
		}
	case cmd.ActivateTarget:
		target, found := s.members[cmd.TargetMemberID]
		if !found || target.Status != team.MemberStatusPending {
			return merge.MemberMergeResult{}, fmt.Errorf("apply member merge: target member %s is not pending", cmd.TargetMemberID)
		}
	default:
		if _, found := s.members[cmd.TargetMemberID]; !found {
			return merge.MemberMergeResult{}, fmt.Errorf("apply member merge: target member %s not found", cmd.TargetMemberID)
		}
	}

	// Every check has passed; from here on the merge cannot fail halfway.
	if cmd.NewTargetMember != nil {
		s.members[cmd.NewTargetMember.ID] = *cmd.NewTargetMember
	} else if cmd.ActivateTarget {
		target := s.members[cmd.TargetMemberID]
		target.Status = team.MemberStatusActive
		s.members[target.ID] = target
	}

	guestRecords := s.recordsWhere(func(rec match.Record) bool { return rec.MemberID == guest.ID })
	targetRecords := s.recordsWhere(func(rec match.Record) bool { return rec.MemberID == cmd.TargetMemberID })
	plan := match.PlanMemberRecordMerge(guestRecords, targetRecords, cmd.TargetMemberID)
	s.applyRecordPlan(plan, cmd.At)

	result := merge.MemberMergeResult{
		RecordsMoved:    len(plan.Moved),
		RecordsCombined: len(plan.Combined),
	}
	for id, goal := range s.goals {
		changed := false
		if goal.ScorerMemberID == guest.ID {
			goal.ScorerMemberID = cmd.TargetMemberID
			result.GoalsMoved++
			changed = true
		}
		if goal.AssistMemberID == guest.ID {
			goal.AssistMemberID = cmd.TargetMemberID
			result.AssistsMoved++
			changed = true
		}
		if changed {
			s.goals[id] = goal
		}
	}
	for key, item := range s.attendance {
		if item.MemberID != guest.ID {
			continue
		}
		delete(s.attendance, key)
		targetKey := attendanceKey(item.MatchID, cmd.TargetMemberID)
		if _, exists := s.attendance[targetKey]; exists {
			continue
		}
		item.MemberID = cmd.TargetMemberID
		s.attendance[targetKey] = item
		result.AttendanceMoved++
	}

	at := cmd.At
	guest.Status = team.MemberStatusMerged
	guest.MergedTo = cmd.TargetMemberID
	guest.MergedAt = &at
	s.members[guest.ID] = guest

	if cmd.RequestID != "" {
		request.Status = merge.RecordMergeAccepted
		request.UpdatedAt = at
		request.RespondedAt = &at
		s.recordMerges[request.ID] = request
	}
	for id, invite := range s.recordMerges {
		if invite.GuestMemberID != guest.ID || invite.Status != merge.RecordMergePending {
			continue
		}
		invite.Status = merge.RecordMergeCancelled
		invite.UpdatedAt = at
		invite.RespondedAt = &at
		s.recordMerges[id] = invite
		result.InvitationsCancelled++
	}
	return result, nil
}

func (r *MergeRepository) CreateTeamMergeRequest(_ context.Context, item merge.TeamMergeRequest, disputes []merge.Dispute) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s := r.store
	if _, exists := s.teamMerges[item.ID]; exists {
		return duplicateError("team_merge_requests_pkey")
	}
	for _, existing := range s.teamMerges {
		if existing.RequesterTeamID == item.RequesterTeamID && existing.TargetTeamID == item.TargetTeamID && existing.Status.IsOpen() {
			return duplicateError("team_merge_requests_open_pair_key")
		}
	}

	order := make([]string, 0, len(item.Mappings))
	for _, m := range item.Mappings {
		m.RequestID = item.ID
		s.mappings[m.ID] = m
		order = append(order, m.ID)
	}
	for _, d := range disputes {
		s.disputes[d.ID] = d
	}
	s.mappingOrder[item.ID] = order
	item.Mappings = nil
	s.teamMerges[item.ID] = item
	return nil
}

func (r *MergeRepository) GetTeamMergeRequest(_ context.Context, requestID string) (merge.TeamMergeRequest, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.teamMerges[requestID]
	if !ok {
		return merge.TeamMergeRequest{}, false, nil
	}
	return r.store.withMappings(item), true, nil
}

func (r *MergeRepository) GetOpenTeamMergeRequest(_ context.Context, requesterTeamID, targetTeamID string) (merge.TeamMergeRequest, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.teamMerges {
		if item.RequesterTeamID == requesterTeamID && item.TargetTeamID == targetTeamID && item.Status.IsOpen() {
			return r.store.withMappings(item), true, nil
		}
	}
	return merge.TeamMergeRequest{}, false, nil
}

func (r *MergeRepository) ListTeamMergeRequestsByTeam(_ context.Context, teamID string) ([]merge.TeamMergeRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]merge.TeamMergeRequest, 0)
	for _, item := range r.store.teamMerges {
		if item.RequesterTeamID == teamID || item.TargetTeamID == teamID {
			out = append(out, r.store.withMappings(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MergeRepository) CloseTeamMergeRequest(_ context.Context, requestID string, to merge.TeamMergeStatus, at time.Time) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	item, ok := r.store.teamMerges[requestID]
	if !ok || !item.Status.IsOpen() {
		return false, nil
	}
	item.Status = to
	item.UpdatedAt = at
	item.ClosedAt = &at
	r.store.teamMerges[requestID] = item
	return true, nil
}

func (r *MergeRepository) GetDispute(_ context.Context, disputeID string) (merge.Dispute, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.disputes[disputeID]
	return item, ok, nil
}

func (r *MergeRepository) ListDisputesByRequest(_ context.Context, requestID string) ([]merge.Dispute, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]merge.Dispute, 0)
	for _, item := range r.store.disputes {
		if item.RequestID == requestID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MergeRepository) SaveDispute(_ context.Context, item merge.Dispute, expectedVersion int) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.disputes[item.ID]
	if !ok || stored.Version != expectedVersion || stored.State == merge.DisputeResolved {
		return false, nil
	}
	r.store.disputes[item.ID] = item
	return true, nil
}

func (r *MergeRepository) ApplyMapping(_ context.Context, cmd merge.ApplyMappingCommand) (merge.ApplyMappingResult, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s := r.store
	request, ok := s.teamMerges[cmd.RequestID]
	if !ok || !request.Status.IsOpen() {
		return merge.ApplyMappingResult{}, merge.ErrRequestClosed
	}
	mapping, ok := s.mappings[cmd.MappingID]
	if !ok || mapping.RequestID != cmd.RequestID {
		return merge.ApplyMappingResult{}, fmt.Errorf("apply mapping: mapping %s not found", cmd.MappingID)
	}
	if mapping.Status == merge.MappingApplied {
		return merge.ApplyMappingResult{}, merge.ErrMappingApplied
	}
	if cmd.Dispute != nil {
		stored, found := s.disputes[cmd.Dispute.ID]
		if !found || stored.Version != cmd.ExpectedVersion || stored.State == merge.DisputeResolved {
			return merge.ApplyMappingResult{}, merge.ErrDisputeStale
		}
	}

	result := merge.ApplyMappingResult{}
	switch cmd.Action {
	case merge.ActionCreateNew:
		if err := s.linkSingleMatch(cmd); err != nil {
			return merge.ApplyMappingResult{}, err
		}
	case merge.ActionLinkExisting, merge.ActionDispute:
		if err := s.mergeMatchPair(cmd, &result); err != nil {
			return merge.ApplyMappingResult{}, err
		}
	default:
		return merge.ApplyMappingResult{}, fmt.Errorf("apply mapping: unsupported action %q", cmd.Action)
	}

	at := cmd.At
	mapping.Status = merge.MappingApplied
	mapping.AppliedAt = &at
	s.mappings[mapping.ID] = mapping
	if cmd.Dispute != nil {
		s.disputes[cmd.Dispute.ID] = *cmd.Dispute
	}

	request = s.withMappings(request)
	request.Status = merge.DeriveRequestStatus(request.Mappings)
	request.UpdatedAt = at
	if request.Status == merge.TeamMergeApproved {
		request.ClosedAt = &at
	}
	request.Mappings = nil
	s.teamMerges[request.ID] = request

	result.RequestStatus = request.Status
	return result, nil
}

func (s *Store) linkSingleMatch(cmd merge.ApplyMappingCommand) error {
	matchID, opponent := cmd.RequesterMatchID, cmd.TargetTeamID
	if matchID == "" {
		matchID, opponent = cmd.TargetMatchID, cmd.RequesterTeamID
	}
	item, ok := s.matches[matchID]
	if !ok {
		return fmt.Errorf("apply mapping: match %s not found", matchID)
	}
	item.Opponent = match.RegisteredOpponent{TeamID: opponent}
	item.UpdatedAt = cmd.At
	s.matches[item.ID] = item
	return nil
}

// mergeMatchPair folds the target's match into the requester's canonical match.
func (s *Store) mergeMatchPair(cmd merge.ApplyMappingCommand, result *merge.ApplyMappingResult) error {
	canonical, ok := s.matches[cmd.RequesterMatchID]
	if !ok {
		return fmt.Errorf("apply mapping: match %s not found", cmd.RequesterMatchID)
	}
	retired, ok := s.matches[cmd.TargetMatchID]
	if !ok {
		return fmt.Errorf("apply mapping: match %s not found", cmd.TargetMatchID)
	}
	if canonical.IsRetired() || retired.IsRetired() {
		return fmt.Errorf("apply mapping: match already merged")
	}

	recordPlan := match.PlanMatchRecordMerge(
		s.recordsWhere(func(rec match.Record) bool { return rec.MatchID == retired.ID }),
		s.recordsWhere(func(rec match.Record) bool { return rec.MatchID == canonical.ID }),
		canonical.ID,
	)
	s.applyRecordPlan(recordPlan, cmd.At)
	result.RecordsMoved = len(recordPlan.Moved)
	result.RecordsCombined = len(recordPlan.Combined)

	goalPlan := match.PlanMatchGoalMerge(
		s.goalsWhere(func(g match.Goal) bool { return g.MatchID == retired.ID }),
		s.goalsWhere(func(g match.Goal) bool { return g.MatchID == canonical.ID }),
		canonical.ID,
	)
	for _, g := range goalPlan.Moved {
		s.goals[g.ID] = g
	}
	for _, id := range goalPlan.Deleted {
		delete(s.goals, id)
	}
	result.GoalsMoved = len(goalPlan.Moved)
	result.GoalsDropped = len(goalPlan.Deleted)

	for key, item := range s.attendance {
		if item.MatchID != retired.ID {
			continue
		}
		delete(s.attendance, key)
		item.MatchID = canonical.ID
		s.attendance[attendanceKey(canonical.ID, item.MemberID)] = item
	}
	for id, player := range s.opponentPlayers {
		if player.MatchID == retired.ID {
			delete(s.opponentPlayers, id)
		}
	}

	canonical.Opponent = match.RegisteredOpponent{TeamID: cmd.TargetTeamID}
	if cmd.ResolvedScore != nil {
		canonical.HomeScore, canonical.AwayScore = cmd.ResolvedScore.Home, cmd.ResolvedScore.Away
	}
	canonical.UpdatedAt = cmd.At
	s.matches[canonical.ID] = canonical

	retired.MergedInto = canonical.ID
	retired.UpdatedAt = cmd.At
	s.matches[retired.ID] = retired
	return nil
}

func (s *Store) withMappings(item merge.TeamMergeRequest) merge.TeamMergeRequest {
	ids := s.mappingOrder[item.ID]
	item.Mappings = make([]merge.Mapping, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.mappings[id]; ok {
			item.Mappings = append(item.Mappings, m)
		}
	}
	return item
}

func (s *Store) recordMergesWhere(keep func(merge.RecordMergeRequest) bool) []merge.RecordMergeRequest {
	out := make([]merge.RecordMergeRequest, 0)
	for _, item := range s.recordMerges {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
