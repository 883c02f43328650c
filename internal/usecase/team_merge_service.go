package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	idgen "github.com/riskibarqy/teamsheet/internal/platform/id"
	"github.com/riskibarqy/teamsheet/internal/platform/metrics"
)

const mergeKindTeam = "team"

type FindRelatedMatchesInput struct {
	UserID       string
	TeamID       string
	TargetTeamID string
	// GuestTeamID narrows the requester side to one guest team instead of matching by name.
	GuestTeamID string
}

type MappingDecision struct {
	RequesterMatchID string
	TargetMatchID    string
	Action           merge.Action
}

type CreateTeamMergeInput struct {
	FindRelatedMatchesInput
	Decisions []MappingDecision
}

type SubmitDisputeScoreInput struct {
	UserID    string
	DisputeID string
	Home      int
	Away      int
	// Side is only needed when the caller manages both teams.
	Side merge.Side
}

type TeamMergeDetails struct {
	Request  merge.TeamMergeRequest
	Disputes []merge.Dispute
}

type DisputeSubmission struct {
	Dispute       merge.Dispute
	Outcome       merge.SubmitOutcome
	RequestStatus merge.TeamMergeStatus
}

type TeamMergeService struct {
	mergeRepo merge.Repository
	teamRepo  team.Repository
	matchRepo match.Repository
	idGen     idgen.Generator
	notifier  Notifier
	stats     statsInvalidator
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewTeamMergeService(
	mergeRepo merge.Repository,
	teamRepo team.Repository,
	matchRepo match.Repository,
	idGen idgen.Generator,
	notifier Notifier,
	stats statsInvalidator,
	recorder metrics.Recorder,
) *TeamMergeService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if stats == nil {
		stats = nopInvalidator{}
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &TeamMergeService{
		mergeRepo: mergeRepo,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		idGen:     idGen,
		notifier:  notifier,
		stats:     stats,
		metrics:   recorder,
		now:       time.Now,
	}
}

func (s *TeamMergeService) SearchTeamByCode(ctx context.Context, code string) (team.Team, error) {
	code = team.NormalizeCode(code)
	if len(code) != TeamCodeLength {
		return team.Team{}, fmt.Errorf("%w: team code must be %d characters", ErrInvalidInput, TeamCodeLength)
	}

	item, exists, err := s.teamRepo.GetByCode(ctx, code)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by code: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team code=%s", ErrNotFound, code)
	}
	return item, nil
}

// FindRelatedMatches pairs the finished matches both teams recorded against each other's guest placeholders.
func (s *TeamMergeService) FindRelatedMatches(ctx context.Context, input FindRelatedMatchesInput) ([]merge.Candidate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.FindRelatedMatches")
	defer span.End()

	requester, target, err := s.mergeParties(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.findCandidates(ctx, requester, target, strings.TrimSpace(input.GuestTeamID))
}

// CreateRequest stores the confirmed decisions. Every decision is checked against freshly computed candidates.
func (s *TeamMergeService) CreateRequest(ctx context.Context, input CreateTeamMergeInput) (TeamMergeDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.CreateRequest")
	defer span.End()

	requester, target, err := s.mergeParties(ctx, input.FindRelatedMatchesInput)
	if err != nil {
		return TeamMergeDetails{}, err
	}
	if _, found, err := s.mergeRepo.GetOpenTeamMergeRequest(ctx, requester.ID, target.ID); err != nil {
		return TeamMergeDetails{}, fmt.Errorf("get open team merge request: %w", err)
	} else if found {
		return TeamMergeDetails{}, fmt.Errorf("%w: an open merge request with this team already exists", ErrConflict)
	}

	candidates, err := s.findCandidates(ctx, requester, target, strings.TrimSpace(input.GuestTeamID))
	if err != nil {
		return TeamMergeDetails{}, err
	}
	requesterMatches := make(map[string]match.Match)
	targetMatches := make(map[string]match.Match)
	for _, c := range candidates {
		if c.RequesterMatch != nil {
			requesterMatches[c.RequesterMatch.ID] = *c.RequesterMatch
		}
		if c.TargetMatch != nil {
			targetMatches[c.TargetMatch.ID] = *c.TargetMatch
		}
	}

	now := s.now().UTC()
	requestID, err := s.idGen.NewID()
	if err != nil {
		return TeamMergeDetails{}, fmt.Errorf("generate team merge request id: %w", err)
	}
	used := make(map[string]struct{})
	mappings := make([]merge.Mapping, 0, len(input.Decisions))
	disputes := make([]merge.Dispute, 0)
	for i, decision := range input.Decisions {
		decision.RequesterMatchID = strings.TrimSpace(decision.RequesterMatchID)
		decision.TargetMatchID = strings.TrimSpace(decision.TargetMatchID)
		if !decision.Action.Valid() {
			return TeamMergeDetails{}, fmt.Errorf("%w: decision %d has unknown action %q", ErrInvalidInput, i, decision.Action)
		}
		if decision.Action == merge.ActionSkip {
			continue
		}
		for _, id := range []string{decision.RequesterMatchID, decision.TargetMatchID} {
			if id == "" {
				continue
			}
			if _, dup := used[id]; dup {
				return TeamMergeDetails{}, fmt.Errorf("%w: match %s appears in more than one decision", ErrInvalidInput, id)
			}
			used[id] = struct{}{}
		}

		mappingID, err := s.idGen.NewID()
		if err != nil {
			return TeamMergeDetails{}, fmt.Errorf("generate mapping id: %w", err)
		}
		mapping := merge.Mapping{
			ID:               mappingID,
			RequestID:        requestID,
			RequesterMatchID: decision.RequesterMatchID,
			TargetMatchID:    decision.TargetMatchID,
			Action:           decision.Action,
			Status:           merge.MappingPending,
		}

		reqMatch, reqOK := requesterMatches[decision.RequesterMatchID]
		tgtMatch, tgtOK := targetMatches[decision.TargetMatchID]
		switch decision.Action {
		case merge.ActionCreateNew:
			if (decision.RequesterMatchID == "") == (decision.TargetMatchID == "") {
				return TeamMergeDetails{}, fmt.Errorf("%w: decision %d: create_new takes exactly one match", ErrInvalidInput, i)
			}
			if (decision.RequesterMatchID != "" && !reqOK) || (decision.TargetMatchID != "" && !tgtOK) {
				return TeamMergeDetails{}, fmt.Errorf("%w: decision %d references a match that is not a merge candidate", ErrInvalidInput, i)
			}
			mapping.ConflictType = merge.ConflictNone
		case merge.ActionLinkExisting, merge.ActionDispute:
			if !reqOK || !tgtOK {
				return TeamMergeDetails{}, fmt.Errorf("%w: decision %d: %s needs a candidate match from each team", ErrInvalidInput, i, decision.Action)
			}
			pair := merge.ClassifyPair(requester.ID, reqMatch, target.ID, tgtMatch)
			mapping.ConflictType = pair.ConflictType
			if decision.Action == merge.ActionLinkExisting && pair.ConflictType != merge.ConflictScoreMatch {
				return TeamMergeDetails{}, fmt.Errorf("%w: decision %d: scores differ, use dispute instead of link_existing", ErrInvalidInput, i)
			}
			if decision.Action == merge.ActionDispute {
				disputeID, err := s.idGen.NewID()
				if err != nil {
					return TeamMergeDetails{}, fmt.Errorf("generate dispute id: %w", err)
				}
				disputes = append(disputes, merge.Dispute{
					ID:                disputeID,
					RequestID:         requestID,
					MappingID:         mappingID,
					RequesterRecorded: *pair.RequesterScore,
					TargetRecorded:    *pair.TargetScore,
					State:             merge.DisputeAwaitingBoth,
					CreatedAt:         now,
					UpdatedAt:         now,
				})
			}
		}
		mappings = append(mappings, mapping)
	}
	if len(mappings) == 0 {
		return TeamMergeDetails{}, fmt.Errorf("%w: at least one non-skip decision is required", ErrInvalidInput)
	}

	request := merge.TeamMergeRequest{
		ID:              requestID,
		RequesterTeamID: requester.ID,
		TargetTeamID:    target.ID,
		GuestTeamID:     strings.TrimSpace(input.GuestTeamID),
		RequestedBy:     strings.TrimSpace(input.UserID),
		Status:          merge.DeriveRequestStatus(mappings),
		Mappings:        mappings,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.mergeRepo.CreateTeamMergeRequest(ctx, request, disputes); err != nil {
		if isDuplicateConstraintError(err) {
			return TeamMergeDetails{}, fmt.Errorf("%w: an open merge request with this team already exists", ErrConflict)
		}
		return TeamMergeDetails{}, fmt.Errorf("create team merge request: %w", err)
	}
	s.metrics.IncMergeRequest(mergeKindTeam, "requested")

	s.notifyManagers(ctx, target.ID, notification.Notification{
		Type:             notification.TypeTeamMergeRequested,
		Title:            "Team merge requested",
		Message:          fmt.Sprintf("%s wants to link %d matches with your team", requester.Name, len(mappings)),
		RelatedTeamID:    requester.ID,
		RelatedRequestID: request.ID,
	})
	return TeamMergeDetails{Request: request, Disputes: disputes}, nil
}

// SubmitDisputeScore records one side's proposed final score. Agreement applies the mapping immediately.
func (s *TeamMergeService) SubmitDisputeScore(ctx context.Context, input SubmitDisputeScoreInput) (DisputeSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.SubmitDisputeScore", attribute.String("merge.dispute_id", input.DisputeID))
	defer span.End()

	score := match.Score{Home: input.Home, Away: input.Away}
	if err := score.Validate(); err != nil {
		return DisputeSubmission{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	disputeID := strings.TrimSpace(input.DisputeID)
	if disputeID == "" {
		return DisputeSubmission{}, fmt.Errorf("%w: dispute id is required", ErrInvalidInput)
	}
	dispute, exists, err := s.mergeRepo.GetDispute(ctx, disputeID)
	if err != nil {
		return DisputeSubmission{}, fmt.Errorf("get dispute: %w", err)
	}
	if !exists {
		return DisputeSubmission{}, fmt.Errorf("%w: dispute=%s", ErrNotFound, disputeID)
	}
	request, err := s.loadRequest(ctx, dispute.RequestID)
	if err != nil {
		return DisputeSubmission{}, err
	}
	if !request.Status.IsOpen() {
		return DisputeSubmission{}, fmt.Errorf("%w: merge request is %s", ErrState, request.Status)
	}
	side, err := s.callerSide(ctx, request, strings.TrimSpace(input.UserID), input.Side)
	if err != nil {
		return DisputeSubmission{}, err
	}
	mapping, ok := findMapping(request, dispute.MappingID)
	if !ok {
		return DisputeSubmission{}, fmt.Errorf("%w: mapping=%s", ErrNotFound, dispute.MappingID)
	}

	now := s.now().UTC()
	expected := dispute.Version
	outcome, err := dispute.Submit(side, score, now)
	switch {
	case errors.Is(err, merge.ErrDisputeResolved):
		return DisputeSubmission{}, fmt.Errorf("%w: dispute already resolved", ErrState)
	case err != nil:
		return DisputeSubmission{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	submission := DisputeSubmission{Dispute: dispute, Outcome: outcome, RequestStatus: request.Status}
	if outcome.State != merge.DisputeResolved {
		saved, err := s.mergeRepo.SaveDispute(ctx, dispute, expected)
		if err != nil {
			return DisputeSubmission{}, fmt.Errorf("save dispute: %w", err)
		}
		if !saved {
			return DisputeSubmission{}, fmt.Errorf("%w: dispute changed, reload and try again", ErrConflict)
		}
		s.metrics.IncDisputeSubmission(disputeMetricState(outcome))
		if outcome.WaitingFor == merge.WaitingForScoreMismatch {
			s.notifyBothSides(ctx, request, notification.Notification{
				Type:             notification.TypeDisputeScoreMismatch,
				Title:            "Dispute scores do not match",
				Message:          "Both teams submitted different final scores. Agree on one and submit again.",
				RelatedMatchID:   mapping.RequesterMatchID,
				RelatedRequestID: request.ID,
			})
		}
		return submission, nil
	}

	started := time.Now()
	result, err := s.mergeRepo.ApplyMapping(ctx, merge.ApplyMappingCommand{
		RequestID:        request.ID,
		MappingID:        mapping.ID,
		Action:           merge.ActionDispute,
		RequesterTeamID:  request.RequesterTeamID,
		TargetTeamID:     request.TargetTeamID,
		RequesterMatchID: mapping.RequesterMatchID,
		TargetMatchID:    mapping.TargetMatchID,
		ResolvedScore:    outcome.Resolved,
		Dispute:          &dispute,
		ExpectedVersion:  expected,
		At:               now,
	})
	if err != nil {
		return DisputeSubmission{}, mapApplyError(err)
	}
	s.metrics.ObserveMergeApply(mergeKindTeam, time.Since(started).Seconds())
	s.metrics.IncDisputeSubmission(disputeMetricState(outcome))
	s.invalidateBoth(ctx, request)

	submission.RequestStatus = result.RequestStatus
	s.notifyBothSides(ctx, request, notification.Notification{
		Type:             notification.TypeDisputeResolved,
		Title:            "Dispute resolved",
		Message:          fmt.Sprintf("Final score agreed at %d-%d", outcome.Resolved.Home, outcome.Resolved.Away),
		RelatedMatchID:   mapping.RequesterMatchID,
		RelatedRequestID: request.ID,
	})
	return submission, nil
}

// Approve applies every pending non-dispute mapping. Requests with open disputes cannot be approved.
func (s *TeamMergeService) Approve(ctx context.Context, userID, requestID string) (TeamMergeDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMergeService.Approve", attribute.String("merge.request_id", requestID))
	defer span.End()

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return TeamMergeDetails{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, request.TargetTeamID, strings.TrimSpace(userID)); err != nil {
		return TeamMergeDetails{}, err
	}
	if request.Status != merge.TeamMergePending {
		return TeamMergeDetails{}, fmt.Errorf("%w: merge request is %s", ErrState, request.Status)
	}

	started := time.Now()
	for _, mapping := range request.Mappings {
		if mapping.Status == merge.MappingApplied || mapping.Action == merge.ActionDispute {
			continue
		}
		_, err := s.mergeRepo.ApplyMapping(ctx, merge.ApplyMappingCommand{
			RequestID:        request.ID,
			MappingID:        mapping.ID,
			Action:           mapping.Action,
			RequesterTeamID:  request.RequesterTeamID,
			TargetTeamID:     request.TargetTeamID,
			RequesterMatchID: mapping.RequesterMatchID,
			TargetMatchID:    mapping.TargetMatchID,
			At:               s.now().UTC(),
		})
		if errors.Is(err, merge.ErrMappingApplied) {
			continue
		}
		if err != nil {
			recordSpanError(span, err)
			s.invalidateBoth(ctx, request)
			return TeamMergeDetails{}, mapApplyError(err)
		}
	}
	s.metrics.ObserveMergeApply(mergeKindTeam, time.Since(started).Seconds())
	s.invalidateBoth(ctx, request)

	details, err := s.details(ctx, request.ID)
	if err != nil {
		return TeamMergeDetails{}, err
	}
	s.metrics.IncMergeRequest(mergeKindTeam, string(details.Request.Status))
	s.notifyManagers(ctx, request.RequesterTeamID, notification.Notification{
		Type:             notification.TypeTeamMergeApproved,
		Title:            "Team merge approved",
		Message:          fmt.Sprintf("%d linked matches were applied", len(request.Mappings)),
		RelatedTeamID:    request.TargetTeamID,
		RelatedRequestID: request.ID,
	})
	return details, nil
}

func (s *TeamMergeService) Reject(ctx context.Context, userID, requestID string) (merge.TeamMergeRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return merge.TeamMergeRequest{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, request.TargetTeamID, strings.TrimSpace(userID)); err != nil {
		return merge.TeamMergeRequest{}, err
	}

	request, err = s.close(ctx, request, merge.TeamMergeRejected)
	if err != nil {
		return merge.TeamMergeRequest{}, err
	}
	s.notifyManagers(ctx, request.RequesterTeamID, notification.Notification{
		Type:             notification.TypeTeamMergeRejected,
		Title:            "Team merge rejected",
		Message:          "The other team rejected the merge request",
		RelatedTeamID:    request.TargetTeamID,
		RelatedRequestID: request.ID,
	})
	return request, nil
}

func (s *TeamMergeService) Cancel(ctx context.Context, userID, requestID string) (merge.TeamMergeRequest, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return merge.TeamMergeRequest{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, request.RequesterTeamID, strings.TrimSpace(userID)); err != nil {
		return merge.TeamMergeRequest{}, err
	}

	request, err = s.close(ctx, request, merge.TeamMergeCancelled)
	if err != nil {
		return merge.TeamMergeRequest{}, err
	}
	s.notifyManagers(ctx, request.TargetTeamID, notification.Notification{
		Type:             notification.TypeTeamMergeCancelled,
		Title:            "Team merge cancelled",
		Message:          "The requesting team cancelled the merge request",
		RelatedTeamID:    request.RequesterTeamID,
		RelatedRequestID: request.ID,
	})
	return request, nil
}

// GetRequest is visible to active members of both teams.
func (s *TeamMergeService) GetRequest(ctx context.Context, userID, requestID string) (TeamMergeDetails, error) {
	details, err := s.details(ctx, requestID)
	if err != nil {
		return TeamMergeDetails{}, err
	}
	userID = strings.TrimSpace(userID)
	if _, err := requireMember(ctx, s.teamRepo, details.Request.RequesterTeamID, userID); err == nil {
		return details, nil
	}
	if _, err := requireMember(ctx, s.teamRepo, details.Request.TargetTeamID, userID); err != nil {
		return TeamMergeDetails{}, err
	}
	return details, nil
}

func (s *TeamMergeService) ListByTeam(ctx context.Context, userID, teamID string) ([]merge.TeamMergeRequest, error) {
	item, err := loadTeam(ctx, s.teamRepo, teamID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.teamRepo, item.ID, strings.TrimSpace(userID)); err != nil {
		return nil, err
	}

	items, err := s.mergeRepo.ListTeamMergeRequestsByTeam(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list team merge requests: %w", err)
	}
	return items, nil
}

func (s *TeamMergeService) mergeParties(ctx context.Context, input FindRelatedMatchesInput) (team.Team, team.Team, error) {
	requester, err := loadTeam(ctx, s.teamRepo, input.TeamID)
	if err != nil {
		return team.Team{}, team.Team{}, err
	}
	if _, err := requireManager(ctx, s.teamRepo, requester.ID, strings.TrimSpace(input.UserID)); err != nil {
		return team.Team{}, team.Team{}, err
	}
	target, err := loadTeam(ctx, s.teamRepo, input.TargetTeamID)
	if err != nil {
		return team.Team{}, team.Team{}, err
	}
	if target.ID == requester.ID {
		return team.Team{}, team.Team{}, fmt.Errorf("%w: a team cannot merge with itself", ErrInvalidInput)
	}
	return requester, target, nil
}

func (s *TeamMergeService) findCandidates(ctx context.Context, requester, target team.Team, guestTeamID string) ([]merge.Candidate, error) {
	var requesterGuests []string
	if guestTeamID != "" {
		guest, exists, err := s.teamRepo.GetGuestTeam(ctx, guestTeamID)
		if err != nil {
			return nil, fmt.Errorf("get guest team: %w", err)
		}
		if !exists || guest.OwnerTeamID != requester.ID {
			return nil, fmt.Errorf("%w: guest team=%s", ErrNotFound, guestTeamID)
		}
		requesterGuests = []string{guest.ID}
	} else {
		ids, err := s.guestTeamsNamed(ctx, requester.ID, target.Name)
		if err != nil {
			return nil, err
		}
		requesterGuests = ids
	}
	targetGuests, err := s.guestTeamsNamed(ctx, target.ID, requester.Name)
	if err != nil {
		return nil, err
	}

	requesterMatches, err := s.finishedAgainstGuests(ctx, requester.ID, requesterGuests)
	if err != nil {
		return nil, err
	}
	targetMatches, err := s.finishedAgainstGuests(ctx, target.ID, targetGuests)
	if err != nil {
		return nil, err
	}
	return merge.PairMatches(requester.ID, requesterMatches, target.ID, targetMatches), nil
}

func (s *TeamMergeService) guestTeamsNamed(ctx context.Context, ownerTeamID, name string) ([]string, error) {
	guests, err := s.teamRepo.ListGuestTeams(ctx, ownerTeamID)
	if err != nil {
		return nil, fmt.Errorf("list guest teams: %w", err)
	}

	want := team.NormalizeName(name)
	out := make([]string, 0, 1)
	for _, guest := range guests {
		if team.NormalizeName(guest.Name) == want {
			out = append(out, guest.ID)
		}
	}
	return out, nil
}

func (s *TeamMergeService) finishedAgainstGuests(ctx context.Context, teamID string, guestTeamIDs []string) ([]match.Match, error) {
	if len(guestTeamIDs) == 0 {
		return nil, nil
	}

	items, err := s.matchRepo.ListByGuestTeams(ctx, teamID, guestTeamIDs)
	if err != nil {
		return nil, fmt.Errorf("list matches by guest teams: %w", err)
	}
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if item.IsFinished() {
			out = append(out, item)
		}
	}
	return out, nil
}

// callerSide picks the dispute side from the teams the caller manages.
func (s *TeamMergeService) callerSide(ctx context.Context, request merge.TeamMergeRequest, userID string, requested merge.Side) (merge.Side, error) {
	managesRequester, err := isManager(ctx, s.teamRepo, request.RequesterTeamID, userID)
	if err != nil {
		return "", err
	}
	managesTarget, err := isManager(ctx, s.teamRepo, request.TargetTeamID, userID)
	if err != nil {
		return "", err
	}

	switch requested {
	case merge.SideRequester:
		if !managesRequester {
			return "", fmt.Errorf("%w: you do not manage the requesting team", ErrForbidden)
		}
		return requested, nil
	case merge.SideTarget:
		if !managesTarget {
			return "", fmt.Errorf("%w: you do not manage the target team", ErrForbidden)
		}
		return requested, nil
	case "":
	default:
		return "", fmt.Errorf("%w: unknown dispute side %q", ErrInvalidInput, requested)
	}

	switch {
	case managesRequester && managesTarget:
		return "", fmt.Errorf("%w: you manage both teams, choose a side", ErrInvalidInput)
	case managesRequester:
		return merge.SideRequester, nil
	case managesTarget:
		return merge.SideTarget, nil
	default:
		return "", fmt.Errorf("%w: only managers of either team can submit scores", ErrForbidden)
	}
}

func (s *TeamMergeService) close(ctx context.Context, request merge.TeamMergeRequest, to merge.TeamMergeStatus) (merge.TeamMergeRequest, error) {
	now := s.now().UTC()
	ok, err := s.mergeRepo.CloseTeamMergeRequest(ctx, request.ID, to, now)
	if err != nil {
		return merge.TeamMergeRequest{}, fmt.Errorf("close team merge request: %w", err)
	}
	if !ok {
		return merge.TeamMergeRequest{}, fmt.Errorf("%w: merge request is %s", ErrState, request.Status)
	}
	s.metrics.IncMergeRequest(mergeKindTeam, string(to))

	request.Status = to
	request.UpdatedAt = now
	request.ClosedAt = &now
	return request, nil
}

func (s *TeamMergeService) loadRequest(ctx context.Context, requestID string) (merge.TeamMergeRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return merge.TeamMergeRequest{}, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}

	request, exists, err := s.mergeRepo.GetTeamMergeRequest(ctx, requestID)
	if err != nil {
		return merge.TeamMergeRequest{}, fmt.Errorf("get team merge request: %w", err)
	}
	if !exists {
		return merge.TeamMergeRequest{}, fmt.Errorf("%w: team merge request=%s", ErrNotFound, requestID)
	}
	return request, nil
}

func (s *TeamMergeService) details(ctx context.Context, requestID string) (TeamMergeDetails, error) {
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return TeamMergeDetails{}, err
	}
	disputes, err := s.mergeRepo.ListDisputesByRequest(ctx, request.ID)
	if err != nil {
		return TeamMergeDetails{}, fmt.Errorf("list disputes: %w", err)
	}
	return TeamMergeDetails{Request: request, Disputes: disputes}, nil
}

func (s *TeamMergeService) notifyManagers(ctx context.Context, teamID string, template notification.Notification) {
	managers, err := managerUserIDs(ctx, s.teamRepo, teamID)
	if err != nil {
		return
	}
	notes := make([]notification.Notification, 0, len(managers))
	for _, userID := range managers {
		note := template
		note.UserID = userID
		notes = append(notes, note)
	}
	s.notifier.Notify(ctx, notes...)
}

func (s *TeamMergeService) notifyBothSides(ctx context.Context, request merge.TeamMergeRequest, template notification.Notification) {
	template.RelatedTeamID = request.TargetTeamID
	s.notifyManagers(ctx, request.RequesterTeamID, template)
	template.RelatedTeamID = request.RequesterTeamID
	s.notifyManagers(ctx, request.TargetTeamID, template)
}

func (s *TeamMergeService) invalidateBoth(ctx context.Context, request merge.TeamMergeRequest) {
	s.stats.InvalidateTeam(ctx, request.RequesterTeamID)
	s.stats.InvalidateTeam(ctx, request.TargetTeamID)
}

func findMapping(request merge.TeamMergeRequest, mappingID string) (merge.Mapping, bool) {
	for _, m := range request.Mappings {
		if m.ID == mappingID {
			return m, true
		}
	}
	return merge.Mapping{}, false
}

func mapApplyError(err error) error {
	switch {
	case errors.Is(err, merge.ErrDisputeStale):
		return fmt.Errorf("%w: dispute changed, reload and try again", ErrConflict)
	case errors.Is(err, merge.ErrRequestClosed):
		return fmt.Errorf("%w: merge request is closed", ErrState)
	case errors.Is(err, merge.ErrMappingApplied):
		return fmt.Errorf("%w: mapping already applied", ErrState)
	default:
		return fmt.Errorf("apply mapping: %w", err)
	}
}

func disputeMetricState(outcome merge.SubmitOutcome) string {
	if outcome.WaitingFor == merge.WaitingForScoreMismatch {
		return "mismatch"
	}
	return string(outcome.State)
}
