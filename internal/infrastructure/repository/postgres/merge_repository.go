package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	qb "github.com/riskibarqy/teamsheet/internal/platform/querybuilder"
)

var openTeamMergeStatuses = []string{string(merge.TeamMergePending), string(merge.TeamMergeDispute)}

type MergeRepository struct {
	db *sqlx.DB
}

func NewMergeRepository(db *sqlx.DB) *MergeRepository {
	return &MergeRepository{db: db}
}

func (r *MergeRepository) CreateRecordMergeRequest(ctx context.Context, item merge.RecordMergeRequest) error {
	query, args, err := qb.InsertModel("record_merge_requests", recordMergeRequestInsertModel{
		PublicID:      item.ID,
		TeamID:        item.TeamID,
		GuestMemberID: item.GuestMemberID,
		TargetUserID:  item.TargetUserID,
		RequestedBy:   item.RequestedBy,
		Status:        string(item.Status),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create record merge request query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create record merge request: %w", err)
	}
	return nil
}

func (r *MergeRepository) GetRecordMergeRequest(ctx context.Context, requestID string) (merge.RecordMergeRequest, bool, error) {
	return getRecordMergeRequest(ctx, r.db, false, qb.Eq("public_id", requestID))
}

func (r *MergeRepository) GetPendingRecordMergeByGuest(ctx context.Context, guestMemberID string) (merge.RecordMergeRequest, bool, error) {
	return getRecordMergeRequest(ctx, r.db, false,
		qb.Eq("guest_member_public_id", guestMemberID),
		qb.Eq("status", string(merge.RecordMergePending)),
	)
}

func (r *MergeRepository) ListRecordMergeRequestsByTarget(ctx context.Context, userID string, status merge.RecordMergeStatus) ([]merge.RecordMergeRequest, error) {
	conds := []qb.Condition{qb.Eq("target_user_id", userID)}
	if status != "" {
		conds = append(conds, qb.Eq("status", string(status)))
	}
	return r.listRecordMergeRequests(ctx, "target", conds...)
}

func (r *MergeRepository) ListRecordMergeRequestsByTeam(ctx context.Context, teamID string) ([]merge.RecordMergeRequest, error) {
	return r.listRecordMergeRequests(ctx, "team", qb.Eq("team_public_id", teamID))
}

func (r *MergeRepository) UpdateRecordMergeStatus(ctx context.Context, requestID string, from, to merge.RecordMergeStatus, at time.Time) (bool, error) {
	return setRecordMergeStatus(ctx, r.db, requestID, from, to, at)
}

func (r *MergeRepository) ApplyMemberMerge(ctx context.Context, cmd merge.MemberMergeCommand) (merge.MemberMergeResult, error) {
	var result merge.MemberMergeResult
	err := withTx(ctx, r.db, "apply member merge", func(tx *sqlx.Tx) error {
		guest, found, err := lockMember(ctx, tx, cmd.GuestMemberID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("apply member merge: guest member %s not found", cmd.GuestMemberID)
		}
		if guest.Status == team.MemberStatusMerged {
			return merge.ErrGuestAlreadyMerged
		}
		if guest.Status != team.MemberStatusActive {
			return fmt.Errorf("apply member merge: guest member %s is %s", guest.ID, guest.Status)
		}

		if cmd.RequestID != "" {
			request, found, err := getRecordMergeRequest(ctx, tx, true, qb.Eq("public_id", cmd.RequestID))
			if err != nil {
				return err
			}
			if !found || request.Status != merge.RecordMergePending {
				return merge.ErrRequestNotPending
			}
		}

		if err := prepareMergeTarget(ctx, tx, cmd); err != nil {
			return err
		}

		guestRecords, err := listRecords(ctx, tx, "guest member", qb.Eq("member_public_id", guest.ID))
		if err != nil {
			return err
		}
		targetRecords, err := listRecords(ctx, tx, "target member", qb.Eq("member_public_id", cmd.TargetMemberID))
		if err != nil {
			return err
		}
		plan := match.PlanMemberRecordMerge(guestRecords, targetRecords, cmd.TargetMemberID)
		if err := applyRecordPlan(ctx, tx, plan, cmd.At); err != nil {
			return err
		}
		result.RecordsMoved = len(plan.Moved)
		result.RecordsCombined = len(plan.Combined)

		if result.GoalsMoved, err = repointGoals(ctx, tx, "scorer_member_public_id", guest.ID, cmd.TargetMemberID); err != nil {
			return err
		}
		if result.AssistsMoved, err = repointGoals(ctx, tx, "assist_member_public_id", guest.ID, cmd.TargetMemberID); err != nil {
			return err
		}
		if result.AttendanceMoved, err = moveMemberAttendance(ctx, tx, guest.ID, cmd.TargetMemberID); err != nil {
			return err
		}

		query, args, err := qb.Update("team_members").
			Set("status", string(team.MemberStatusMerged)).
			Set("merged_to", cmd.TargetMemberID).
			Set("merged_at", cmd.At).
			Where(qb.Eq("public_id", guest.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build mark guest merged query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mark guest merged: %w", err)
		}

		if cmd.RequestID != "" {
			if _, err := setRecordMergeStatus(ctx, tx, cmd.RequestID, merge.RecordMergePending, merge.RecordMergeAccepted, cmd.At); err != nil {
				return err
			}
		}
		result.InvitationsCancelled, err = cancelPendingInvitations(ctx, tx, guest.ID, cmd.At)
		return err
	})
	if err != nil {
		return merge.MemberMergeResult{}, err
	}
	return result, nil
}

func (r *MergeRepository) CreateTeamMergeRequest(ctx context.Context, item merge.TeamMergeRequest, disputes []merge.Dispute) error {
	return withTx(ctx, r.db, "create team merge request", func(tx *sqlx.Tx) error {
		query, args, err := qb.InsertModel("team_merge_requests", teamMergeRequestInsertModel{
			PublicID:        item.ID,
			RequesterTeamID: item.RequesterTeamID,
			TargetTeamID:    item.TargetTeamID,
			GuestTeamID:     item.GuestTeamID,
			RequestedBy:     item.RequestedBy,
			Status:          string(item.Status),
			CreatedAt:       item.CreatedAt,
			UpdatedAt:       item.UpdatedAt,
		}, "")
		if err != nil {
			return fmt.Errorf("build create team merge request query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create team merge request: %w", err)
		}

		for i, m := range item.Mappings {
			query, args, err := qb.InsertModel("team_merge_mappings", teamMergeMappingInsertModel{
				PublicID:         m.ID,
				RequestID:        item.ID,
				Position:         i,
				RequesterMatchID: optionalString(m.RequesterMatchID),
				TargetMatchID:    optionalString(m.TargetMatchID),
				ConflictType:     string(m.ConflictType),
				Action:           string(m.Action),
				Status:           string(m.Status),
			}, "")
			if err != nil {
				return fmt.Errorf("build create team merge mapping query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("create team merge mapping %s: %w", m.ID, err)
			}
		}

		for _, d := range disputes {
			query, args, err := qb.InsertModel("team_merge_disputes", teamMergeDisputeInsertModel{
				PublicID:              d.ID,
				RequestID:             d.RequestID,
				MappingID:             d.MappingID,
				RequesterRecordedHome: d.RequesterRecorded.Home,
				RequesterRecordedAway: d.RequesterRecorded.Away,
				TargetRecordedHome:    d.TargetRecorded.Home,
				TargetRecordedAway:    d.TargetRecorded.Away,
				State:                 string(d.State),
				Version:               d.Version,
				CreatedAt:             d.CreatedAt,
				UpdatedAt:             d.UpdatedAt,
			}, "")
			if err != nil {
				return fmt.Errorf("build create dispute query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("create dispute %s: %w", d.ID, err)
			}
		}
		return nil
	})
}

func (r *MergeRepository) GetTeamMergeRequest(ctx context.Context, requestID string) (merge.TeamMergeRequest, bool, error) {
	return getTeamMergeRequest(ctx, r.db, false, qb.Eq("public_id", requestID))
}

func (r *MergeRepository) GetOpenTeamMergeRequest(ctx context.Context, requesterTeamID, targetTeamID string) (merge.TeamMergeRequest, bool, error) {
	return getTeamMergeRequest(ctx, r.db, false,
		qb.Eq("requester_team_public_id", requesterTeamID),
		qb.Eq("target_team_public_id", targetTeamID),
		qb.InStrings("status", openTeamMergeStatuses),
	)
}

func (r *MergeRepository) ListTeamMergeRequestsByTeam(ctx context.Context, teamID string) ([]merge.TeamMergeRequest, error) {
	query, args, err := qb.Select("*").From("team_merge_requests").
		Where(qb.Expr("(requester_team_public_id = ? OR target_team_public_id = ?)", teamID, teamID)).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team merge requests query: %w", err)
	}

	var rows []teamMergeRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team merge requests: %w", err)
	}
	out := make([]merge.TeamMergeRequest, 0, len(rows))
	for _, row := range rows {
		mappings, err := listMappings(ctx, r.db, row.PublicID)
		if err != nil {
			return nil, err
		}
		out = append(out, teamMergeRequestFromRow(row, mappings))
	}
	return out, nil
}

func (r *MergeRepository) CloseTeamMergeRequest(ctx context.Context, requestID string, to merge.TeamMergeStatus, at time.Time) (bool, error) {
	query, args, err := qb.Update("team_merge_requests").
		Set("status", string(to)).
		Set("updated_at", at).
		Set("closed_at", at).
		Where(
			qb.Eq("public_id", requestID),
			qb.InStrings("status", openTeamMergeStatuses),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build close team merge request query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("close team merge request: %w", err)
	}
	affected, err := rowsAffected(result, "close team merge request")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MergeRepository) GetDispute(ctx context.Context, disputeID string) (merge.Dispute, bool, error) {
	return getDispute(ctx, r.db, disputeID, false)
}

func (r *MergeRepository) ListDisputesByRequest(ctx context.Context, requestID string) ([]merge.Dispute, error) {
	query, args, err := qb.Select("*").From("team_merge_disputes").
		Where(qb.Eq("request_public_id", requestID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list disputes query: %w", err)
	}

	var rows []teamMergeDisputeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	out := make([]merge.Dispute, 0, len(rows))
	for _, row := range rows {
		out = append(out, disputeFromRow(row))
	}
	return out, nil
}

func (r *MergeRepository) SaveDispute(ctx context.Context, item merge.Dispute, expectedVersion int) (bool, error) {
	return saveDispute(ctx, r.db, item, expectedVersion)
}

func (r *MergeRepository) ApplyMapping(ctx context.Context, cmd merge.ApplyMappingCommand) (merge.ApplyMappingResult, error) {
	var result merge.ApplyMappingResult
	err := withTx(ctx, r.db, "apply mapping", func(tx *sqlx.Tx) error {
		request, found, err := getTeamMergeRequest(ctx, tx, true, qb.Eq("public_id", cmd.RequestID))
		if err != nil {
			return err
		}
		if !found || !request.Status.IsOpen() {
			return merge.ErrRequestClosed
		}

		var mapping merge.Mapping
		for _, m := range request.Mappings {
			if m.ID == cmd.MappingID {
				mapping = m
			}
		}
		if mapping.ID == "" {
			return fmt.Errorf("apply mapping: mapping %s not found", cmd.MappingID)
		}
		if mapping.Status == merge.MappingApplied {
			return merge.ErrMappingApplied
		}
		if cmd.Dispute != nil {
			stored, found, err := getDispute(ctx, tx, cmd.Dispute.ID, true)
			if err != nil {
				return err
			}
			if !found || stored.Version != cmd.ExpectedVersion || stored.State == merge.DisputeResolved {
				return merge.ErrDisputeStale
			}
		}

		switch cmd.Action {
		case merge.ActionCreateNew:
			if err := linkSingleMatch(ctx, tx, cmd); err != nil {
				return err
			}
		case merge.ActionLinkExisting, merge.ActionDispute:
			if err := mergeMatchPair(ctx, tx, cmd, &result); err != nil {
				return err
			}
		default:
			return fmt.Errorf("apply mapping: unsupported action %q", cmd.Action)
		}

		query, args, err := qb.Update("team_merge_mappings").
			Set("status", string(merge.MappingApplied)).
			Set("applied_at", cmd.At).
			Where(qb.Eq("public_id", mapping.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build apply mapping query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("mark mapping applied: %w", err)
		}
		if cmd.Dispute != nil {
			if _, err := saveDispute(ctx, tx, *cmd.Dispute, cmd.ExpectedVersion); err != nil {
				return err
			}
		}

		mappings, err := listMappings(ctx, tx, request.ID)
		if err != nil {
			return err
		}
		status := merge.DeriveRequestStatus(mappings)
		update := qb.Update("team_merge_requests").
			Set("status", string(status)).
			Set("updated_at", cmd.At)
		if status == merge.TeamMergeApproved {
			update = update.Set("closed_at", cmd.At)
		}
		query, args, err = update.Where(qb.Eq("public_id", request.ID)).ToSQL()
		if err != nil {
			return fmt.Errorf("build update team merge status query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update team merge status: %w", err)
		}
		result.RequestStatus = status
		return nil
	})
	if err != nil {
		return merge.ApplyMappingResult{}, err
	}
	return result, nil
}

func (r *MergeRepository) listRecordMergeRequests(ctx context.Context, by string, conds ...qb.Condition) ([]merge.RecordMergeRequest, error) {
	query, args, err := qb.Select("*").From("record_merge_requests").
		Where(conds...).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list record merge requests by %s query: %w", by, err)
	}

	var rows []recordMergeRequestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list record merge requests by %s: %w", by, err)
	}
	out := make([]merge.RecordMergeRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordMergeRequestFromRow(row))
	}
	return out, nil
}

func getRecordMergeRequest(ctx context.Context, q sqlx.QueryerContext, forUpdate bool, conds ...qb.Condition) (merge.RecordMergeRequest, bool, error) {
	builder := qb.Select("*").From("record_merge_requests").Where(conds...)
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return merge.RecordMergeRequest{}, false, fmt.Errorf("build get record merge request query: %w", err)
	}

	var row recordMergeRequestTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return merge.RecordMergeRequest{}, false, nil
		}
		return merge.RecordMergeRequest{}, false, fmt.Errorf("get record merge request: %w", err)
	}
	return recordMergeRequestFromRow(row), true, nil
}

func setRecordMergeStatus(ctx context.Context, exec sqlx.ExecerContext, requestID string, from, to merge.RecordMergeStatus, at time.Time) (bool, error) {
	query, args, err := qb.Update("record_merge_requests").
		Set("status", string(to)).
		Set("updated_at", at).
		Set("responded_at", at).
		Where(
			qb.Eq("public_id", requestID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update record merge status query: %w", err)
	}
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update record merge status: %w", err)
	}
	affected, err := rowsAffected(result, "update record merge status")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// cancelPendingInvitations closes invitations that can no longer be accepted
// once the guest is merged.
func cancelPendingInvitations(ctx context.Context, exec sqlx.ExecerContext, guestMemberID string, at time.Time) (int, error) {
	query, args, err := qb.Update("record_merge_requests").
		Set("status", string(merge.RecordMergeCancelled)).
		Set("updated_at", at).
		Set("responded_at", at).
		Where(
			qb.Eq("guest_member_public_id", guestMemberID),
			qb.Eq("status", string(merge.RecordMergePending)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build cancel pending invitations query: %w", err)
	}
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cancel pending invitations: %w", err)
	}
	affected, err := rowsAffected(result, "cancel pending invitations")
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

func getTeamMergeRequest(ctx context.Context, q sqlx.QueryerContext, forUpdate bool, conds ...qb.Condition) (merge.TeamMergeRequest, bool, error) {
	builder := qb.Select("*").From("team_merge_requests").Where(conds...)
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return merge.TeamMergeRequest{}, false, fmt.Errorf("build get team merge request query: %w", err)
	}

	var row teamMergeRequestTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return merge.TeamMergeRequest{}, false, nil
		}
		return merge.TeamMergeRequest{}, false, fmt.Errorf("get team merge request: %w", err)
	}
	mappings, err := listMappings(ctx, q, row.PublicID)
	if err != nil {
		return merge.TeamMergeRequest{}, false, err
	}
	return teamMergeRequestFromRow(row, mappings), true, nil
}

func listMappings(ctx context.Context, q sqlx.QueryerContext, requestID string) ([]merge.Mapping, error) {
	query, args, err := qb.Select("*").From("team_merge_mappings").
		Where(qb.Eq("request_public_id", requestID)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list mappings query: %w", err)
	}

	var rows []teamMergeMappingTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	out := make([]merge.Mapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, mappingFromRow(row))
	}
	return out, nil
}

func getDispute(ctx context.Context, q sqlx.QueryerContext, disputeID string, forUpdate bool) (merge.Dispute, bool, error) {
	builder := qb.Select("*").From("team_merge_disputes").Where(qb.Eq("public_id", disputeID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return merge.Dispute{}, false, fmt.Errorf("build get dispute query: %w", err)
	}

	var row teamMergeDisputeTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return merge.Dispute{}, false, nil
		}
		return merge.Dispute{}, false, fmt.Errorf("get dispute: %w", err)
	}
	return disputeFromRow(row), true, nil
}

// saveDispute is a compare-and-set on (version, not resolved).
func saveDispute(ctx context.Context, exec sqlx.ExecerContext, item merge.Dispute, expectedVersion int) (bool, error) {
	requesterHome, requesterAway := scoreColumns(item.RequesterSubmitted)
	targetHome, targetAway := scoreColumns(item.TargetSubmitted)
	resolvedHome, resolvedAway := scoreColumns(item.Resolved)

	query, args, err := qb.Update("team_merge_disputes").
		Set("requester_submitted_home", requesterHome).
		Set("requester_submitted_away", requesterAway).
		Set("target_submitted_home", targetHome).
		Set("target_submitted_away", targetAway).
		Set("mismatch", item.Mismatch).
		Set("state", string(item.State)).
		Set("resolved_home", resolvedHome).
		Set("resolved_away", resolvedAway).
		Set("version", item.Version).
		Set("updated_at", item.UpdatedAt).
		Set("resolved_at", item.ResolvedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.Eq("version", expectedVersion),
			qb.NotEq("state", string(merge.DisputeResolved)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build save dispute query: %w", err)
	}
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("save dispute: %w", err)
	}
	affected, err := rowsAffected(result, "save dispute")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func lockMember(ctx context.Context, tx *sqlx.Tx, memberID string) (team.Member, bool, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(qb.Eq("public_id", memberID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build lock member query: %w", err)
	}

	var row teamMemberTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("lock member: %w", err)
	}
	return memberFromRow(row), true, nil
}

// prepareMergeTarget creates or activates the target membership when the command asks for it.
func prepareMergeTarget(ctx context.Context, tx *sqlx.Tx, cmd merge.MemberMergeCommand) error {
	switch {
	case cmd.NewTargetMember != nil:
		return insertMember(ctx, tx, *cmd.NewTargetMember)
	case cmd.ActivateTarget:
		query, args, err := qb.Update("team_members").
			Set("status", string(team.MemberStatusActive)).
			Where(
				qb.Eq("public_id", cmd.TargetMemberID),
				qb.Eq("status", string(team.MemberStatusPending)),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build activate target member query: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("activate target member: %w", err)
		}
		affected, err := rowsAffected(result, "activate target member")
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("apply member merge: target member %s is not pending", cmd.TargetMemberID)
		}
		return nil
	default:
		_, found, err := lockMember(ctx, tx, cmd.TargetMemberID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("apply member merge: target member %s not found", cmd.TargetMemberID)
		}
		return nil
	}
}

// applyRecordPlan deletes absorbed rows first so moved rows never collide on (match, member).
func applyRecordPlan(ctx context.Context, tx *sqlx.Tx, plan match.RecordMergePlan, at time.Time) error {
	if len(plan.Deleted) > 0 {
		query, args, err := qb.DeleteFrom("match_records").
			Where(qb.InStrings("public_id", plan.Deleted)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete merged records query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete merged records: %w", err)
		}
	}

	rows := make([]match.Record, 0, len(plan.Combined)+len(plan.Moved))
	rows = append(rows, plan.Combined...)
	rows = append(rows, plan.Moved...)
	for _, rec := range rows {
		query, args, err := qb.Update("match_records").
			Set("match_public_id", rec.MatchID).
			Set("member_public_id", rec.MemberID).
			Set("goals", rec.Goals).
			Set("assists", rec.Assists).
			Set("mom", rec.MOM).
			Set("clean_sheets", rec.CleanSheets).
			Set("updated_at", at).
			Where(qb.Eq("public_id", rec.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update merged record query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update merged record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func repointGoals(ctx context.Context, tx *sqlx.Tx, column, fromMemberID, toMemberID string) (int, error) {
	query, args, err := qb.Update("match_goals").
		Set(column, toMemberID).
		Where(qb.Eq(column, fromMemberID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build repoint goals query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("repoint goals %s: %w", column, err)
	}
	affected, err := rowsAffected(result, "repoint goals")
	return int(affected), err
}

// moveMemberAttendance keeps the target's own answer when both members answered for a match.
func moveMemberAttendance(ctx context.Context, tx *sqlx.Tx, guestID, targetID string) (int, error) {
	query, args, err := qb.DeleteFrom("match_attendance").
		Where(
			qb.Eq("member_public_id", guestID),
			qb.Expr("match_public_id IN (SELECT match_public_id FROM match_attendance WHERE member_public_id = ?)", targetID),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build drop duplicate attendance query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("drop duplicate attendance: %w", err)
	}

	query, args, err = qb.Update("match_attendance").
		Set("member_public_id", targetID).
		Where(qb.Eq("member_public_id", guestID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build move attendance query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("move attendance: %w", err)
	}
	affected, err := rowsAffected(result, "move attendance")
	return int(affected), err
}

func linkSingleMatch(ctx context.Context, tx *sqlx.Tx, cmd merge.ApplyMappingCommand) error {
	matchID, opponent := cmd.RequesterMatchID, cmd.TargetTeamID
	if matchID == "" {
		matchID, opponent = cmd.TargetMatchID, cmd.RequesterTeamID
	}
	if err := setRegisteredOpponent(ctx, tx, matchID, opponent, nil, cmd.At); err != nil {
		return fmt.Errorf("apply mapping: %w", err)
	}
	return nil
}

// mergeMatchPair folds the target's match into the requester's canonical match.
func mergeMatchPair(ctx context.Context, tx *sqlx.Tx, cmd merge.ApplyMappingCommand, result *merge.ApplyMappingResult) error {
	canonical, found, err := getMatch(ctx, tx, cmd.RequesterMatchID, true)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("apply mapping: match %s not found", cmd.RequesterMatchID)
	}
	retired, found, err := getMatch(ctx, tx, cmd.TargetMatchID, true)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("apply mapping: match %s not found", cmd.TargetMatchID)
	}
	if canonical.IsRetired() || retired.IsRetired() {
		return fmt.Errorf("apply mapping: match already merged")
	}

	retiredRecords, err := listRecords(ctx, tx, "retired match", qb.Eq("match_public_id", retired.ID))
	if err != nil {
		return err
	}
	canonicalRecords, err := listRecords(ctx, tx, "canonical match", qb.Eq("match_public_id", canonical.ID))
	if err != nil {
		return err
	}
	recordPlan := match.PlanMatchRecordMerge(retiredRecords, canonicalRecords, canonical.ID)
	if err := applyRecordPlan(ctx, tx, recordPlan, cmd.At); err != nil {
		return err
	}
	result.RecordsMoved = len(recordPlan.Moved)
	result.RecordsCombined = len(recordPlan.Combined)

	retiredGoals, err := listGoals(ctx, tx, "retired match", qb.Eq("match_public_id", retired.ID))
	if err != nil {
		return err
	}
	canonicalGoals, err := listGoals(ctx, tx, "canonical match", qb.Eq("match_public_id", canonical.ID))
	if err != nil {
		return err
	}
	goalPlan := match.PlanMatchGoalMerge(retiredGoals, canonicalGoals, canonical.ID)
	if len(goalPlan.Deleted) > 0 {
		query, args, err := qb.DeleteFrom("match_goals").
			Where(qb.InStrings("public_id", goalPlan.Deleted)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build drop merged goals query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("drop merged goals: %w", err)
		}
	}
	for _, g := range goalPlan.Moved {
		query, args, err := qb.Update("match_goals").
			Set("match_public_id", g.MatchID).
			Where(qb.Eq("public_id", g.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build move goal query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("move goal %s: %w", g.ID, err)
		}
	}
	result.GoalsMoved = len(goalPlan.Moved)
	result.GoalsDropped = len(goalPlan.Deleted)

	if err := moveMatchAttendance(ctx, tx, retired.ID, canonical.ID); err != nil {
		return err
	}
	query, args, err := qb.DeleteFrom("opponent_players").
		Where(qb.Eq("match_public_id", retired.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build drop opponent players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("drop opponent players: %w", err)
	}

	if err := setRegisteredOpponent(ctx, tx, canonical.ID, cmd.TargetTeamID, cmd.ResolvedScore, cmd.At); err != nil {
		return fmt.Errorf("apply mapping: %w", err)
	}
	query, args, err = qb.Update("matches").
		Set("merged_into", canonical.ID).
		Set("updated_at", cmd.At).
		Where(qb.Eq("public_id", retired.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build retire match query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("retire match: %w", err)
	}
	return nil
}

// moveMatchAttendance lets the retired match's answers replace the canonical ones.
func moveMatchAttendance(ctx context.Context, tx *sqlx.Tx, retiredID, canonicalID string) error {
	query, args, err := qb.DeleteFrom("match_attendance").
		Where(
			qb.Eq("match_public_id", canonicalID),
			qb.Expr("member_public_id IN (SELECT member_public_id FROM match_attendance WHERE match_public_id = ?)", retiredID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build drop replaced attendance query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("drop replaced attendance: %w", err)
	}

	query, args, err = qb.Update("match_attendance").
		Set("match_public_id", canonicalID).
		Where(qb.Eq("match_public_id", retiredID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build move match attendance query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("move match attendance: %w", err)
	}
	return nil
}

func setRegisteredOpponent(ctx context.Context, tx *sqlx.Tx, matchID, opponentTeamID string, score *match.Score, at time.Time) error {
	update := qb.Update("matches").
		Set("opponent_team_public_id", opponentTeamID).
		Set("guest_team_public_id", nil).
		Set("opponent_name", nil).
		Set("updated_at", at)
	if score != nil {
		update = update.Set("home_score", score.Home).Set("away_score", score.Away)
	}
	query, args, err := update.Where(qb.Eq("public_id", matchID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build link opponent query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("link opponent: %w", err)
	}
	affected, err := rowsAffected(result, "link opponent")
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("match %s not found", matchID)
	}
	return nil
}
