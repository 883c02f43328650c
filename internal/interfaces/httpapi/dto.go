package httpapi

import (
	"strconv"
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	"github.com/riskibarqy/teamsheet/internal/domain/merge"
	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/domain/stats"
	"github.com/riskibarqy/teamsheet/internal/domain/team"
	"github.com/riskibarqy/teamsheet/internal/domain/user"
	"github.com/riskibarqy/teamsheet/internal/usecase"
)

type userDTO struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// publicUserDTO is what other users see after a code lookup.
type publicUserDTO struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

type teamDTO struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Region      string    `json:"region,omitempty"`
	OwnerUserID string    `json:"ownerUserId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type guestTeamDTO struct {
	ID          string    `json:"id"`
	OwnerTeamID string    `json:"ownerTeamId"`
	Name        string    `json:"name"`
	Region      string    `json:"region,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type memberDTO struct {
	ID       string     `json:"id"`
	TeamID   string     `json:"teamId"`
	UserID   string     `json:"userId,omitempty"`
	Name     string     `json:"name,omitempty"`
	IsGuest  bool       `json:"isGuest"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	MergedTo string     `json:"mergedTo,omitempty"`
	MergedAt *time.Time `json:"mergedAt,omitempty"`
	JoinedAt time.Time  `json:"joinedAt"`
}

type scoreDTO struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

type opponentDTO struct {
	Kind        string `json:"kind"`
	TeamID      string `json:"teamId,omitempty"`
	GuestTeamID string `json:"guestTeamId,omitempty"`
	Name        string `json:"name,omitempty"`
}

type matchDTO struct {
	ID         string      `json:"id"`
	TeamID     string      `json:"teamId"`
	Opponent   opponentDTO `json:"opponent"`
	MatchDate  time.Time   `json:"matchDate"`
	IsHome     bool        `json:"isHome"`
	Venue      string      `json:"venue,omitempty"`
	Score      scoreDTO    `json:"score"`
	Status     string      `json:"status"`
	Quarters   int         `json:"quarters"`
	MergedInto string      `json:"mergedInto,omitempty"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type recordDTO struct {
	ID          string `json:"id"`
	MatchID     string `json:"matchId"`
	MemberID    string `json:"memberId"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	MOM         int    `json:"mom"`
	CleanSheets int    `json:"cleanSheets"`
}

type goalDTO struct {
	ID               string `json:"id"`
	MatchID          string `json:"matchId"`
	ScoringTeamID    string `json:"scoringTeamId,omitempty"`
	ScorerMemberID   string `json:"scorerMemberId,omitempty"`
	OpponentPlayerID string `json:"opponentPlayerId,omitempty"`
	AssistMemberID   string `json:"assistMemberId,omitempty"`
	Type             string `json:"type"`
	Quarter          int    `json:"quarter,omitempty"`
	Minute           int    `json:"minute,omitempty"`
}

type matchDetailsDTO struct {
	Match   matchDTO    `json:"match"`
	Records []recordDTO `json:"records"`
	Goals   []goalDTO   `json:"goals"`
}

type recordedGoalDTO struct {
	Goal  goalDTO  `json:"goal"`
	Match matchDTO `json:"match"`
}

type attendanceDTO struct {
	MatchID   string    `json:"matchId"`
	MemberID  string    `json:"memberId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type opponentPlayerDTO struct {
	ID      string `json:"id"`
	MatchID string `json:"matchId"`
	Name    string `json:"name"`
}

type recordMergeRequestDTO struct {
	ID            string     `json:"id"`
	TeamID        string     `json:"teamId"`
	GuestMemberID string     `json:"guestMemberId"`
	TargetUserID  string     `json:"targetUserId"`
	RequestedBy   string     `json:"requestedBy"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
}

type memberMergeResultDTO struct {
	RecordsMoved    int `json:"recordsMoved"`
	RecordsCombined int `json:"recordsCombined"`
	GoalsMoved      int `json:"goalsMoved"`
	AssistsMoved    int `json:"assistsMoved"`
	AttendanceMoved int `json:"attendanceMoved"`
}

type memberMergeOutcomeDTO struct {
	GuestMemberID  string                 `json:"guestMemberId"`
	TargetMemberID string                 `json:"targetMemberId"`
	Request        *recordMergeRequestDTO `json:"request,omitempty"`
	Result         memberMergeResultDTO   `json:"result"`
}

type candidateDTO struct {
	RequesterMatch  *matchDTO `json:"requesterMatch,omitempty"`
	TargetMatch     *matchDTO `json:"targetMatch,omitempty"`
	ConflictType    string    `json:"conflictType"`
	SuggestedAction string    `json:"suggestedAction"`
	RequesterScore  *scoreDTO `json:"requesterScore,omitempty"`
	TargetScore     *scoreDTO `json:"targetScore,omitempty"`
}

type mappingDTO struct {
	ID               string     `json:"id"`
	RequesterMatchID string     `json:"requesterMatchId,omitempty"`
	TargetMatchID    string     `json:"targetMatchId,omitempty"`
	ConflictType     string     `json:"conflictType"`
	Action           string     `json:"action"`
	Status           string     `json:"status"`
	AppliedAt        *time.Time `json:"appliedAt,omitempty"`
}

type teamMergeRequestDTO struct {
	ID              string       `json:"id"`
	RequesterTeamID string       `json:"requesterTeamId"`
	TargetTeamID    string       `json:"targetTeamId"`
	GuestTeamID     string       `json:"guestTeamId,omitempty"`
	RequestedBy     string       `json:"requestedBy"`
	Status          string       `json:"status"`
	Mappings        []mappingDTO `json:"mappings"`
	CreatedAt       time.Time    `json:"createdAt"`
	ClosedAt        *time.Time   `json:"closedAt,omitempty"`
}

type disputeDTO struct {
	ID                 string    `json:"id"`
	RequestID          string    `json:"requestId"`
	MappingID          string    `json:"mappingId"`
	RequesterRecorded  scoreDTO  `json:"requesterRecorded"`
	TargetRecorded     scoreDTO  `json:"targetRecorded"`
	RequesterSubmitted *scoreDTO `json:"requesterSubmitted,omitempty"`
	TargetSubmitted    *scoreDTO `json:"targetSubmitted,omitempty"`
	Mismatch           bool      `json:"mismatch"`
	State              string    `json:"state"`
	Resolved           *scoreDTO `json:"resolved,omitempty"`
	Version            int       `json:"version"`
}

type teamMergeDetailsDTO struct {
	Request  teamMergeRequestDTO `json:"request"`
	Disputes []disputeDTO        `json:"disputes"`
}

type disputeSubmissionDTO struct {
	Dispute       disputeDTO `json:"dispute"`
	State         string     `json:"state"`
	WaitingFor    string     `json:"waitingFor,omitempty"`
	Resolved      *scoreDTO  `json:"resolved,omitempty"`
	RequestStatus string     `json:"requestStatus"`
}

type teamSeasonSummaryDTO struct {
	TeamID           string   `json:"teamId"`
	Season           int      `json:"season"`
	Played           int      `json:"played"`
	Wins             int      `json:"wins"`
	Draws            int      `json:"draws"`
	Losses           int      `json:"losses"`
	GoalsFor         int      `json:"goalsFor"`
	GoalsAgainst     int      `json:"goalsAgainst"`
	CleanSheets      int      `json:"cleanSheets"`
	LongestWinStreak int      `json:"longestWinStreak"`
	Form             []string `json:"form"`
}

type leaderboardEntryDTO struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Value    int    `json:"value"`
}

type leaderboardsDTO struct {
	Season      int                   `json:"season"`
	Scorers     []leaderboardEntryDTO `json:"scorers"`
	Assisters   []leaderboardEntryDTO `json:"assisters"`
	MOM         []leaderboardEntryDTO `json:"mom"`
	Appearances []leaderboardEntryDTO `json:"appearances"`
}

type goalDistributionDTO struct {
	Season    int            `json:"season"`
	Total     int            `json:"total"`
	ByType    map[string]int `json:"byType"`
	ByQuarter map[string]int `json:"byQuarter"`
}

type playerTotalsDTO struct {
	Appearances int `json:"appearances"`
	Goals       int `json:"goals"`
	Assists     int `json:"assists"`
	MOM         int `json:"mom"`
	CleanSheets int `json:"cleanSheets"`
}

type seasonTotalsDTO struct {
	Season int `json:"season"`
	playerTotalsDTO
}

type careerDTO struct {
	Seasons []seasonTotalsDTO `json:"seasons"`
	Total   playerTotalsDTO   `json:"total"`
}

type notificationDTO struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Message          string     `json:"message,omitempty"`
	RelatedTeamID    string     `json:"relatedTeamId,omitempty"`
	RelatedMatchID   string     `json:"relatedMatchId,omitempty"`
	RelatedRequestID string     `json:"relatedRequestId,omitempty"`
	ReadAt           *time.Time `json:"readAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

func userToDTO(v user.User) userDTO {
	return userDTO{
		ID:          v.ID,
		Code:        v.Code,
		DisplayName: v.DisplayName,
		Email:       v.Email,
		CreatedAt:   v.CreatedAt,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:          v.ID,
		Code:        v.Code,
		Name:        v.Name,
		Region:      v.Region,
		OwnerUserID: v.OwnerUserID,
		CreatedAt:   v.CreatedAt,
	}
}

func teamsToDTO(items []team.Team) []teamDTO {
	out := make([]teamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamToDTO(item))
	}
	return out
}

func guestTeamToDTO(v team.GuestTeam) guestTeamDTO {
	return guestTeamDTO{
		ID:          v.ID,
		OwnerTeamID: v.OwnerTeamID,
		Name:        v.Name,
		Region:      v.Region,
		CreatedAt:   v.CreatedAt,
	}
}

func memberToDTO(v team.Member, name string) memberDTO {
	out := memberDTO{
		ID:       v.ID,
		TeamID:   v.TeamID,
		Name:     name,
		Role:     string(v.Role),
		Status:   string(v.Status),
		MergedTo: v.MergedTo,
		MergedAt: v.MergedAt,
		JoinedAt: v.JoinedAt,
	}
	switch identity := v.Identity.(type) {
	case team.Registered:
		out.UserID = identity.UserID
	case team.Guest:
		out.IsGuest = true
		if out.Name == "" {
			out.Name = identity.Name
		}
	}
	return out
}

func scoreToDTO(v *match.Score) *scoreDTO {
	if v == nil {
		return nil
	}
	return &scoreDTO{Home: v.Home, Away: v.Away}
}

func opponentToDTO(v match.Opponent) opponentDTO {
	switch opp := v.(type) {
	case match.RegisteredOpponent:
		return opponentDTO{Kind: "team", TeamID: opp.TeamID}
	case match.GuestOpponent:
		return opponentDTO{Kind: "guest_team", GuestTeamID: opp.GuestTeamID}
	case match.NamedOpponent:
		return opponentDTO{Kind: "named", Name: opp.Name}
	default:
		return opponentDTO{}
	}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:         v.ID,
		TeamID:     v.TeamID,
		Opponent:   opponentToDTO(v.Opponent),
		MatchDate:  v.MatchDate,
		IsHome:     v.IsHome,
		Venue:      v.Venue,
		Score:      scoreDTO{Home: v.HomeScore, Away: v.AwayScore},
		Status:     string(v.Status),
		Quarters:   v.Quarters,
		MergedInto: v.MergedInto,
		UpdatedAt:  v.UpdatedAt,
	}
}

func matchPtrToDTO(v *match.Match) *matchDTO {
	if v == nil {
		return nil
	}
	out := matchToDTO(*v)
	return &out
}

func recordToDTO(v match.Record) recordDTO {
	return recordDTO{
		ID:          v.ID,
		MatchID:     v.MatchID,
		MemberID:    v.MemberID,
		Goals:       v.Goals,
		Assists:     v.Assists,
		MOM:         v.MOM,
		CleanSheets: v.CleanSheets,
	}
}

func goalToDTO(v match.Goal) goalDTO {
	return goalDTO{
		ID:               v.ID,
		MatchID:          v.MatchID,
		ScoringTeamID:    v.ScoringTeamID,
		ScorerMemberID:   v.ScorerMemberID,
		OpponentPlayerID: v.OpponentPlayerID,
		AssistMemberID:   v.AssistMemberID,
		Type:             string(v.Type),
		Quarter:          v.Quarter,
		Minute:           v.Minute,
	}
}

func matchDetailsToDTO(v usecase.MatchDetails) matchDetailsDTO {
	out := matchDetailsDTO{
		Match:   matchToDTO(v.Match),
		Records: make([]recordDTO, 0, len(v.Records)),
		Goals:   make([]goalDTO, 0, len(v.Goals)),
	}
	for _, rec := range v.Records {
		out.Records = append(out.Records, recordToDTO(rec))
	}
	for _, goal := range v.Goals {
		out.Goals = append(out.Goals, goalToDTO(goal))
	}
	return out
}

func attendanceToDTO(v match.Attendance) attendanceDTO {
	return attendanceDTO{
		MatchID:   v.MatchID,
		MemberID:  v.MemberID,
		Status:    string(v.Status),
		UpdatedAt: v.UpdatedAt,
	}
}

func recordMergeRequestToDTO(v merge.RecordMergeRequest) recordMergeRequestDTO {
	return recordMergeRequestDTO{
		ID:            v.ID,
		TeamID:        v.TeamID,
		GuestMemberID: v.GuestMemberID,
		TargetUserID:  v.TargetUserID,
		RequestedBy:   v.RequestedBy,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		RespondedAt:   v.RespondedAt,
	}
}

func recordMergeRequestsToDTO(items []merge.RecordMergeRequest) []recordMergeRequestDTO {
	out := make([]recordMergeRequestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, recordMergeRequestToDTO(item))
	}
	return out
}

func memberMergeOutcomeToDTO(v usecase.MemberMergeOutcome) memberMergeOutcomeDTO {
	out := memberMergeOutcomeDTO{
		GuestMemberID:  v.GuestMemberID,
		TargetMemberID: v.TargetMemberID,
		Result: memberMergeResultDTO{
			RecordsMoved:    v.Result.RecordsMoved,
			RecordsCombined: v.Result.RecordsCombined,
			GoalsMoved:      v.Result.GoalsMoved,
			AssistsMoved:    v.Result.AssistsMoved,
			AttendanceMoved: v.Result.AttendanceMoved,
		},
	}
	if v.Request != nil {
		req := recordMergeRequestToDTO(*v.Request)
		out.Request = &req
	}
	return out
}

func candidatesToDTO(items []merge.Candidate) []candidateDTO {
	out := make([]candidateDTO, 0, len(items))
	for _, item := range items {
		out = append(out, candidateDTO{
			RequesterMatch:  matchPtrToDTO(item.RequesterMatch),
			TargetMatch:     matchPtrToDTO(item.TargetMatch),
			ConflictType:    string(item.ConflictType),
			SuggestedAction: string(item.SuggestedAction),
			RequesterScore:  scoreToDTO(item.RequesterScore),
			TargetScore:     scoreToDTO(item.TargetScore),
		})
	}
	return out
}

func teamMergeRequestToDTO(v merge.TeamMergeRequest) teamMergeRequestDTO {
	out := teamMergeRequestDTO{
		ID:              v.ID,
		RequesterTeamID: v.RequesterTeamID,
		TargetTeamID:    v.TargetTeamID,
		GuestTeamID:     v.GuestTeamID,
		RequestedBy:     v.RequestedBy,
		Status:          string(v.Status),
		Mappings:        make([]mappingDTO, 0, len(v.Mappings)),
		CreatedAt:       v.CreatedAt,
		ClosedAt:        v.ClosedAt,
	}
	for _, m := range v.Mappings {
		out.Mappings = append(out.Mappings, mappingDTO{
			ID:               m.ID,
			RequesterMatchID: m.RequesterMatchID,
			TargetMatchID:    m.TargetMatchID,
			ConflictType:     string(m.ConflictType),
			Action:           string(m.Action),
			Status:           string(m.Status),
			AppliedAt:        m.AppliedAt,
		})
	}
	return out
}

func teamMergeRequestsToDTO(items []merge.TeamMergeRequest) []teamMergeRequestDTO {
	out := make([]teamMergeRequestDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamMergeRequestToDTO(item))
	}
	return out
}

func disputeToDTO(v merge.Dispute) disputeDTO {
	return disputeDTO{
		ID:                 v.ID,
		RequestID:          v.RequestID,
		MappingID:          v.MappingID,
		RequesterRecorded:  scoreDTO{Home: v.RequesterRecorded.Home, Away: v.RequesterRecorded.Away},
		TargetRecorded:     scoreDTO{Home: v.TargetRecorded.Home, Away: v.TargetRecorded.Away},
		RequesterSubmitted: scoreToDTO(v.RequesterSubmitted),
		TargetSubmitted:    scoreToDTO(v.TargetSubmitted),
		Mismatch:           v.Mismatch,
		State:              string(v.State),
		Resolved:           scoreToDTO(v.Resolved),
		Version:            v.Version,
	}
}

func teamMergeDetailsToDTO(v usecase.TeamMergeDetails) teamMergeDetailsDTO {
	out := teamMergeDetailsDTO{
		Request:  teamMergeRequestToDTO(v.Request),
		Disputes: make([]disputeDTO, 0, len(v.Disputes)),
	}
	for _, d := range v.Disputes {
		out.Disputes = append(out.Disputes, disputeToDTO(d))
	}
	return out
}

func disputeSubmissionToDTO(v usecase.DisputeSubmission) disputeSubmissionDTO {
	return disputeSubmissionDTO{
		Dispute:       disputeToDTO(v.Dispute),
		State:         string(v.Outcome.State),
		WaitingFor:    v.Outcome.WaitingFor,
		Resolved:      scoreToDTO(v.Outcome.Resolved),
		RequestStatus: string(v.RequestStatus),
	}
}

func teamSeasonSummaryToDTO(v stats.TeamSeasonSummary) teamSeasonSummaryDTO {
	form := make([]string, 0, len(v.Form))
	for _, result := range v.Form {
		form = append(form, string(result))
	}
	return teamSeasonSummaryDTO{
		TeamID:           v.TeamID,
		Season:           v.Season,
		Played:           v.Played,
		Wins:             v.Wins,
		Draws:            v.Draws,
		Losses:           v.Losses,
		GoalsFor:         v.GoalsFor,
		GoalsAgainst:     v.GoalsAgainst,
		CleanSheets:      v.CleanSheets,
		LongestWinStreak: v.LongestWinStreak,
		Form:             form,
	}
}

func leaderboardToDTO(entries []stats.LeaderboardEntry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, leaderboardEntryDTO{MemberID: entry.MemberID, Name: entry.Name, Value: entry.Value})
	}
	return out
}

func leaderboardsToDTO(v stats.Leaderboards) leaderboardsDTO {
	return leaderboardsDTO{
		Season:      v.Season,
		Scorers:     leaderboardToDTO(v.Scorers),
		Assisters:   leaderboardToDTO(v.Assisters),
		MOM:         leaderboardToDTO(v.MOM),
		Appearances: leaderboardToDTO(v.Appearances),
	}
}

func goalDistributionToDTO(v stats.GoalDistribution) goalDistributionDTO {
	out := goalDistributionDTO{
		Season:    v.Season,
		Total:     v.Total,
		ByType:    make(map[string]int, len(v.ByType)),
		ByQuarter: make(map[string]int, len(v.ByQuarter)),
	}
	for kind, count := range v.ByType {
		out.ByType[string(kind)] = count
	}
	for quarter, count := range v.ByQuarter {
		out.ByQuarter[quarterLabel(quarter)] = count
	}
	return out
}

func quarterLabel(quarter int) string {
	if quarter <= 0 {
		return "unknown"
	}
	return "Q" + strconv.Itoa(quarter)
}

func playerTotalsToDTO(v stats.PlayerTotals) playerTotalsDTO {
	return playerTotalsDTO{
		Appearances: v.Appearances,
		Goals:       v.Goals,
		Assists:     v.Assists,
		MOM:         v.MOM,
		CleanSheets: v.CleanSheets,
	}
}

func careerToDTO(v stats.Career) careerDTO {
	out := careerDTO{
		Seasons: make([]seasonTotalsDTO, 0, len(v.Seasons)),
		Total:   playerTotalsToDTO(v.Total),
	}
	for _, season := range v.Seasons {
		out.Seasons = append(out.Seasons, seasonTotalsDTO{Season: season.Season, playerTotalsDTO: playerTotalsToDTO(season.PlayerTotals)})
	}
	return out
}

func notificationToDTO(v notification.Notification) notificationDTO {
	return notificationDTO{
		ID:               v.ID,
		Type:             string(v.Type),
		Title:            v.Title,
		Message:          v.Message,
		RelatedTeamID:    v.RelatedTeamID,
		RelatedMatchID:   v.RelatedMatchID,
		RelatedRequestID: v.RelatedRequestID,
		ReadAt:           v.ReadAt,
		CreatedAt:        v.CreatedAt,
	}
}
