package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
)

const mergeKindRecord = "record"

type CreateRecordMergeInput struct {
	UserID         string
	TeamID         string
	GuestMemberID  string
	TargetUserCode string
}

type DirectMergeInput struct {
	UserID         string
	TeamID         string
	GuestMemberID  string
	TargetMemberID string
}

// MemberMergeOutcome reports what a merge moved.
type MemberMergeOutcome struct {
	GuestMemberID  string
	TargetMemberID string
	Request        *merge.RecordMergeRequest
	Result         merge.MemberMergeResult
}

type MemberMergeService struct {
	mergeRepo merge.Repository
	teamRepo  team.Repository
	userRepo  user.Repository
	idGen     idgen.Generator
	notifier  Notifier
	stats     statsInvalidator
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewMemberMergeService(
	mergeRepo merge.Repository,
	teamRepo team.Repository,
	userRepo user.Repository,
	idGen idgen.Generator,
	notifier Notifier,
	stats statsInvalidator,
	recorder metrics.Recorder,
) *MemberMergeService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if stats == nil {
		stats = nopInvalidator{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &MemberMergeService{
		mergeRepo: mergeRepo,
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		idGen:     idGen,
		notifier:  notifier,
		stats:     stats,
		metrics:   recorder,
		now:       time.Now,
	}
}

// CreateRequest invites a registered user, found by their public code, to claim a guest's history.
func (s *MemberMergeService) CreateRequest(ctx context.Context, input CreateRecordMergeInput) (merge.RecordMergeRequest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MemberMergeService.CreateRequest")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	code := user.NormalizeCode(input.TargetUserCode)
	if len(code) != user.CodeLength {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: user code must be %d characters", ErrInvalidInput, user.CodeLength)
	}

	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, input.UserID); err != nil {
		return merge.RecordMergeRequest{}, err
	}
	guest, err := s.activeGuest(ctx, item.ID, input.GuestMemberID)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}

	target, exists, err := s.userRepo.GetByCode(ctx, code)
	if err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("get user by code: %w", err)
	}
	if !exists {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: user code=%s", ErrNotFound, code)
	}
	if existing, found, err := s.teamRepo.GetMemberByUser(ctx, item.ID, target.ID); err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("get team membership: %w", err)
	} else if found && existing.IsActive() {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: user is already an active member, use a direct merge", ErrConflict)
	}
	if _, found, err := s.mergeRepo.GetPendingRecordMergeByGuest(ctx, guest.ID); err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("get pending merge request: %w", err)
	} else if found {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: guest already has a pending merge request", ErrConflict)
	}

	requestID, err := s.idGen.NewID()
	if err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("generate merge request id: %w", err)
	}
	now := s.now().UTC()
	request := merge.RecordMergeRequest{
		ID:            requestID,
		TeamID:        item.ID,
		GuestMemberID: guest.ID,
		TargetUserID:  target.ID,
		RequestedBy:   input.UserID,
		Status:        merge.RecordMergePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.mergeRepo.CreateRecordMergeRequest(ctx, request); err != nil {
		if isDuplicateConstraintError(err) {
			return merge.RecordMergeRequest{}, fmt.Errorf("%w: guest already has a pending merge request", ErrConflict)
		}
		return merge.RecordMergeRequest{}, fmt.Errorf("create merge request: %w", err)
	}
	s.metrics.IncMergeRequest(mergeKindRecord, "requested")

	s.notifier.Notify(ctx, notification.Notification{
		UserID:           target.ID,
		Type:             notification.TypeRecordMergeRequested,
		Title:            "Claim your match history",
		Message:          fmt.Sprintf("%s wants to merge the records of %q into your profile", item.Name, guest.GuestName()),
		RelatedTeamID:    item.ID,
		RelatedRequestID: request.ID,
	})
	return request, nil
}

// DirectMerge folds a guest into an existing active member without an invitation.
func (s *MemberMergeService) DirectMerge(ctx context.Context, input DirectMergeInput) (MemberMergeOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MemberMergeService.DirectMerge")
	defer span.End()

	item, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return MemberMergeOutcome{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(input.UserID)); err != nil {
		return MemberMergeOutcome{}, err
	}
	guest, err := s.guestMember(ctx, item.ID, input.GuestMemberID)
	if err != nil {
		return MemberMergeOutcome{}, err
	}

	targetID := strings.TrimSpace(input.TargetMemberID)
	target, exists, err := s.teamRepo.GetMember(ctx, targetID)
	if err != nil {
		return MemberMergeOutcome{}, fmt.Errorf("get team member: %w", err)
	}
	if !exists || target.TeamID != item.ID {
		return MemberMergeOutcome{}, fmt.Errorf("%w: member=%s", ErrNotFound, targetID)
	}
	if target.IsGuest() || !target.IsActive() {
		return MemberMergeOutcome{}, fmt.Errorf("%w: target must be an active registered member", ErrInvalidInput)
	}

	now := s.now().UTC()
	result, err := s.apply(ctx, merge.MemberMergeCommand{
		GuestMemberID:  guest.ID,
		TargetMemberID: target.ID,
		At:             now,
	})
	if err != nil {
		return MemberMergeOutcome{}, err
	}
	if result.InvitationsCancelled > 0 {
		logging.Default().InfoContext(ctx, "cancelled pending invitations for merged guest",
			"guest_member_id", guest.ID,
			"count", result.InvitationsCancelled,
		)
	}

	s.stats.InvalidateTeam(ctx, item.ID)
	return MemberMergeOutcome{GuestMemberID: guest.ID, TargetMemberID: target.ID, Result: result}, nil
}

// Accept is called by the invited user and merges inside the same transaction that closes the request.
func (s *MemberMergeService) Accept(ctx context.Context, userID, requestID string) (MemberMergeOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MemberMergeService.Accept", attribute.String("merge.request_id", requestID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	request, err := s.pendingRequestForTarget(ctx, userID, requestID)
	if err != nil {
		return MemberMergeOutcome{}, err
	}

	now := s.now().UTC()
	cmd := merge.MemberMergeCommand{
		GuestMemberID: request.GuestMemberID,
		RequestID:     request.ID,
		At:            now,
	}
	existing, found, err := s.teamRepo.GetMemberByUser(ctx, request.TeamID, userID)
	if err != nil {
		return MemberMergeOutcome{}, fmt.Errorf("get team membership: %w", err)
	}
	switch {
	case !found:
		memberID, err := s.idGen.NewID()
		if err != nil {
			return MemberMergeOutcome{}, fmt.Errorf("generate member id: %w", err)
		}
		cmd.TargetMemberID = memberID
		cmd.NewTargetMember = &team.Member{
			ID:       memberID,
			TeamID:   request.TeamID,
			Identity: team.Registered{UserID: userID},
			Role:     team.RoleMember,
			Status:   team.MemberStatusActive,
			JoinedAt: now,
		}
	case existing.Status == team.MemberStatusPending:
		cmd.TargetMemberID = existing.ID
		cmd.ActivateTarget = true
	default:
		cmd.TargetMemberID = existing.ID
	}

	result, err := s.apply(ctx, cmd)
	if err != nil {
		recordSpanError(span, err)
		if isDuplicateConstraintError(err) {
			return MemberMergeOutcome{}, fmt.Errorf("%w: membership changed while accepting, try again", ErrConflict)
		}
		return MemberMergeOutcome{}, err
	}
	s.metrics.IncMergeRequest(mergeKindRecord, "accepted")

	request.Status = merge.RecordMergeAccepted
	request.UpdatedAt = now
	request.RespondedAt = &now
	s.stats.InvalidateTeam(ctx, request.TeamID)
	s.notifier.Notify(ctx, notification.Notification{
		UserID:           request.RequestedBy,
		Type:             notification.TypeRecordMergeAccepted,
		Title:            "Merge accepted",
		Message:          fmt.Sprintf("%d match records were merged", result.RecordsMoved+result.RecordsCombined),
		RelatedTeamID:    request.TeamID,
		RelatedRequestID: request.ID,
	})

	return MemberMergeOutcome{
		GuestMemberID:  request.GuestMemberID,
		TargetMemberID: cmd.TargetMemberID,
		Request:        &request,
		Result:         result,
	}, nil
}

func (s *MemberMergeService) Reject(ctx context.Context, userID, requestID string) (merge.RecordMergeRequest, error) {
	request, err := s.pendingRequestForTarget(ctx, strings.TrimSpace(userID), requestID)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}

	request, err = s.transition(ctx, request, merge.RecordMergeRejected)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}
	s.notifier.Notify(ctx, notification.Notification{
		UserID:           request.RequestedBy,
		Type:             notification.TypeRecordMergeRejected,
		Title:            "Merge declined",
		Message:          "The invited player declined the record merge",
		RelatedTeamID:    request.TeamID,
		RelatedRequestID: request.ID,
	})
	return request, nil
}

// Cancel is open to the requester and to any manager of the team.
func (s *MemberMergeService) Cancel(ctx context.Context, userID, requestID string) (merge.RecordMergeRequest, error) {
	userID = strings.TrimSpace(userID)
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}
	if request.RequestedBy != userID {
		manager, err := isManager(ctx, s.teamRepo, request.TeamID, userID)
		if err != nil {
			return merge.RecordMergeRequest{}, err
		}
		if !manager {
			return merge.RecordMergeRequest{}, fmt.Errorf("%w: only the requester or a team manager can cancel", ErrForbidden)
		}
	}

	return s.transition(ctx, request, merge.RecordMergeCancelled)
}

func (s *MemberMergeService) ListIncoming(ctx context.Context, userID string) ([]merge.RecordMergeRequest, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.mergeRepo.ListRecordMergeRequestsByTarget(ctx, userID, merge.RecordMergePending)
	if err != nil {
		return nil, fmt.Errorf("list incoming merge requests: %w", err)
	}
	return items, nil
}

func (s *MemberMergeService) ListByTeam(ctx context.Context, userID, teamID string) ([]merge.RecordMergeRequest, error) {
	item, err := loadTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireManager(ctx, s.teamRepo, item.ID, strings.TrimSpace(userID)); err != nil {
		return nil, err
	}

	items, err := s.mergeRepo.ListRecordMergeRequestsByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team merge requests: %w", err)
	}
	return items, nil
}

func (s *MemberMergeService) apply(ctx context.Context, cmd merge.MemberMergeCommand) (merge.MemberMergeResult, error) {
	started := time.Now()
	result, err := s.mergeRepo.ApplyMemberMerge(ctx, cmd)
	switch {
	case errors.Is(err, merge.ErrGuestAlreadyMerged):
		s.metrics.IncMergeRequest(mergeKindRecord, "already_merged")
		return merge.MemberMergeResult{}, fmt.Errorf("%w: guest member=%s", ErrAlreadyMerged, cmd.GuestMemberID)
	case errors.Is(err, merge.ErrRequestNotPending):
		return merge.MemberMergeResult{}, fmt.Errorf("%w: merge request is no longer pending", ErrState)
	case err != nil:
		return merge.MemberMergeResult{}, fmt.Errorf("apply member merge: %w", err)
	}
	s.metrics.ObserveMergeApply(mergeKindRecord, time.Since(started).Seconds())
	s.metrics.IncMergeRequest(mergeKindRecord, "merged")
	return result, nil
}

func (s *MemberMergeService) transition(ctx context.Context, request merge.RecordMergeRequest, to merge.RecordMergeStatus) (merge.RecordMergeRequest, error) {
	now := s.now().UTC()
	ok, err := s.mergeRepo.UpdateRecordMergeStatus(ctx, request.ID, merge.RecordMergePending, to, now)
	if err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("update merge request status: %w", err)
	}
	if !ok {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: merge request is %s", ErrState, request.Status)
	}
	s.metrics.IncMergeRequest(mergeKindRecord, string(to))

	request.Status = to
	request.UpdatedAt = now
	request.RespondedAt = &now
	return request, nil
}

func (s *MemberMergeService) loadRequest(ctx context.Context, requestID string) (merge.RecordMergeRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}

	request, exists, err := s.mergeRepo.GetRecordMergeRequest(ctx, requestID)
	if err != nil {
		return merge.RecordMergeRequest{}, fmt.Errorf("get merge request: %w", err)
	}
	if !exists {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: merge request=%s", ErrNotFound, requestID)
	}
	return request, nil
}

func (s *MemberMergeService) pendingRequestForTarget(ctx context.Context, userID, requestID string) (merge.RecordMergeRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return merge.RecordMergeRequest{}, err
	}
	if request.TargetUserID != userID {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: only the invited user can respond", ErrForbidden)
	}
	if request.Status != merge.RecordMergePending {
		return merge.RecordMergeRequest{}, fmt.Errorf("%w: merge request is %s", ErrState, request.Status)
	}
	return request, nil
}

func (s *MemberMergeService) guestMember(ctx context.Context, teamID, memberID string) (team.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return team.Member{}, fmt.Errorf("%w: guest member id is required", ErrInvalidInput)
	}

	member, exists, err := s.teamRepo.GetMember(ctx, memberID)
	if err != nil {
		return team.Member{}, fmt.Errorf("get team member: %w", err)
	}
	if !exists || member.TeamID != teamID {
		return team.Member{}, fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}
	if !member.IsGuest() {
		return team.Member{}, fmt.Errorf("%w: member %s is not a guest", ErrInvalidInput, memberID)
	}
	return member, nil
}

func (s *MemberMergeService) activeGuest(ctx context.Context, teamID, memberID string) (team.Member, error) {
	member, err := s.guestMember(ctx, teamID, memberID)
	if err != nil {
		return team.Member{}, err
	}
	if member.Status == team.MemberStatusMerged {
		return team.Member{}, fmt.Errorf("%w: guest member=%s", ErrAlreadyMerged, member.ID)
	}
	return member, nil
}
