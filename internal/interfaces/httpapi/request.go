package httpapi

type registerUserRequest struct {
	DisplayName string `json:"displayName" validate:"omitempty,max=80"`
}

type createTeamRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Region string `json:"region" validate:"omitempty,max=120"`
}

type joinTeamRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=OWNER MANAGER MEMBER"`
}

type addGuestMemberRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type createGuestTeamRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Region string `json:"region" validate:"omitempty,max=120"`
}

type scheduleMatchRequest struct {
	OpponentTeamID string `json:"opponentTeamId" validate:"omitempty,max=64"`
	GuestTeamID    string `json:"guestTeamId" validate:"omitempty,max=64"`
	OpponentName   string `json:"opponentName" validate:"omitempty,max=120"`
	MatchDate      string `json:"matchDate" validate:"required"`
	IsHome         bool   `json:"isHome"`
	Venue          string `json:"venue" validate:"omitempty,max=200"`
	Quarters       int    `json:"quarters" validate:"gte=0,lte=8"`
}

type scoreRequest struct {
	Home *int `json:"home" validate:"required,gte=0"`
	Away *int `json:"away" validate:"required,gte=0"`
}

type recordGoalRequest struct {
	ScorerMemberID   string `json:"scorerMemberId" validate:"omitempty,max=64"`
	OpponentPlayerID string `json:"opponentPlayerId" validate:"omitempty,max=64"`
	AssistMemberID   string `json:"assistMemberId" validate:"omitempty,max=64"`
	ForOpponent      bool   `json:"forOpponent"`
	Type             string `json:"type" validate:"omitempty,oneof=normal penalty free_kick header own_goal"`
	Quarter          int    `json:"quarter" validate:"gte=0,lte=8"`
	Minute           int    `json:"minute" validate:"gte=0,lte=200"`
}

type upsertRecordRequest struct {
	MemberID    string `json:"memberId" validate:"required"`
	Goals       int    `json:"goals" validate:"gte=0"`
	Assists     int    `json:"assists" validate:"gte=0"`
	MOM         int    `json:"mom" validate:"gte=0,lte=1"`
	CleanSheets int    `json:"cleanSheets" validate:"gte=0,lte=1"`
}

type setAttendanceRequest struct {
	MemberID string `json:"memberId" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=attending absent maybe"`
}

type addOpponentPlayerRequest struct {
	Name string `json:"name" validate:"required,max=80"`
}

type createRecordMergeRequest struct {
	GuestMemberID  string `json:"guestMemberId" validate:"required"`
	TargetUserCode string `json:"targetUserCode" validate:"required,len=6,alphanum"`
}

type directMergeRequest struct {
	GuestMemberID  string `json:"guestMemberId" validate:"required"`
	TargetMemberID string `json:"targetMemberId" validate:"required"`
}

type findRelatedMatchesRequest struct {
	TargetTeamID string `json:"targetTeamId" validate:"required"`
	GuestTeamID  string `json:"guestTeamId" validate:"omitempty,max=64"`
}

type mappingDecisionRequest struct {
	RequesterMatchID string `json:"requesterMatchId" validate:"required_without=TargetMatchID"`
	TargetMatchID    string `json:"targetMatchId" validate:"required_without=RequesterMatchID"`
	Action           string `json:"action" validate:"required,oneof=create_new link_existing dispute skip"`
}

type createTeamMergeRequest struct {
	TargetTeamID string                   `json:"targetTeamId" validate:"required"`
	GuestTeamID  string                   `json:"guestTeamId" validate:"omitempty,max=64"`
	Decisions    []mappingDecisionRequest `json:"decisions" validate:"required,min=1,dive"`
}

type submitDisputeScoreRequest struct {
	Home *int   `json:"home" validate:"required,gte=0"`
	Away *int   `json:"away" validate:"required,gte=0"`
	Side string `json:"side" validate:"omitempty,oneof=requester target"`
}
