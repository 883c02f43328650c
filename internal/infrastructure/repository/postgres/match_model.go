package postgres

import (
	"time"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
)

type matchTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	TeamID         string    `db:"team_public_id"`
	OpponentTeamID *string   `db:"opponent_team_public_id"`
	GuestTeamID    *string   `db:"guest_team_public_id"`
	OpponentName   *string   `db:"opponent_name"`
	MatchDate      time.Time `db:"match_date"`
	IsHome         bool      `db:"is_home"`
	Venue          string    `db:"venue"`
	HomeScore      int       `db:"home_score"`
	AwayScore      int       `db:"away_score"`
	Status         string    `db:"status"`
	Quarters       int       `db:"quarters"`
	MergedInto     *string   `db:"merged_into"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID       string    `db:"public_id"`
	TeamID         string    `db:"team_public_id"`
	OpponentTeamID *string   `db:"opponent_team_public_id"`
	GuestTeamID    *string   `db:"guest_team_public_id"`
	OpponentName   *string   `db:"opponent_name"`
	MatchDate      time.Time `db:"match_date"`
	IsHome         bool      `db:"is_home"`
	Venue          string    `db:"venue"`
	HomeScore      int       `db:"home_score"`
	AwayScore      int       `db:"away_score"`
	Status         string    `db:"status"`
	Quarters       int       `db:"quarters"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type matchRecordTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	MatchID     string    `db:"match_public_id"`
	MemberID    string    `db:"member_public_id"`
	Goals       int       `db:"goals"`
	Assists     int       `db:"assists"`
	MOM         int       `db:"mom"`
	CleanSheets int       `db:"clean_sheets"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchRecordInsertModel struct {
	PublicID    string    `db:"public_id"`
	MatchID     string    `db:"match_public_id"`
	MemberID    string    `db:"member_public_id"`
	Goals       int       `db:"goals"`
	Assists     int       `db:"assists"`
	MOM         int       `db:"mom"`
	CleanSheets int       `db:"clean_sheets"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type matchGoalTableModel struct {
	ID               int64     `db:"id"`
	PublicID         string    `db:"public_id"`
	MatchID          string    `db:"match_public_id"`
	ScoringTeamID    *string   `db:"scoring_team_public_id"`
	ScorerMemberID   *string   `db:"scorer_member_public_id"`
	OpponentPlayerID *string   `db:"opponent_player_public_id"`
	AssistMemberID   *string   `db:"assist_member_public_id"`
	GoalType         string    `db:"goal_type"`
	Quarter          int       `db:"quarter"`
	Minute           int       `db:"minute"`
	CreatedAt        time.Time `db:"created_at"`
}

type matchGoalInsertModel struct {
	PublicID         string    `db:"public_id"`
	MatchID          string    `db:"match_public_id"`
	ScoringTeamID    *string   `db:"scoring_team_public_id"`
	ScorerMemberID   *string   `db:"scorer_member_public_id"`
	OpponentPlayerID *string   `db:"opponent_player_public_id"`
	AssistMemberID   *string   `db:"assist_member_public_id"`
	GoalType         string    `db:"goal_type"`
	Quarter          int       `db:"quarter"`
	Minute           int       `db:"minute"`
	CreatedAt        time.Time `db:"created_at"`
}

type matchAttendanceTableModel struct {
	MatchID   string    `db:"match_public_id"`
	MemberID  string    `db:"member_public_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

type opponentPlayerTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type opponentPlayerInsertModel struct {
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	var opponent match.Opponent
	switch {
	case row.OpponentTeamID != nil:
		opponent = match.RegisteredOpponent{TeamID: *row.OpponentTeamID}
	case row.GuestTeamID != nil:
		opponent = match.GuestOpponent{GuestTeamID: *row.GuestTeamID}
	default:
		opponent = match.NamedOpponent{Name: stringValue(row.OpponentName)}
	}
	return match.Match{
		ID:         row.PublicID,
		TeamID:     row.TeamID,
		Opponent:   opponent,
		MatchDate:  row.MatchDate,
		IsHome:     row.IsHome,
		Venue:      row.Venue,
		HomeScore:  row.HomeScore,
		AwayScore:  row.AwayScore,
		Status:     match.Status(row.Status),
		Quarters:   row.Quarters,
		MergedInto: stringValue(row.MergedInto),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// opponentColumns returns the three mutually exclusive opponent columns.
func opponentColumns(opponent match.Opponent) (teamID, guestTeamID, name *string) {
	switch opp := opponent.(type) {
	case match.RegisteredOpponent:
		return optionalString(opp.TeamID), nil, nil
	case match.GuestOpponent:
		return nil, optionalString(opp.GuestTeamID), nil
	case match.NamedOpponent:
		value := opp.Name
		return nil, nil, &value
	default:
		return nil, nil, nil
	}
}

func recordFromRow(row matchRecordTableModel) match.Record {
	return match.Record{
		ID:          row.PublicID,
		MatchID:     row.MatchID,
		MemberID:    row.MemberID,
		Goals:       row.Goals,
		Assists:     row.Assists,
		MOM:         row.MOM,
		CleanSheets: row.CleanSheets,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func recordInsertModel(rec match.Record) matchRecordInsertModel {
	return matchRecordInsertModel{
		PublicID:    rec.ID,
		MatchID:     rec.MatchID,
		MemberID:    rec.MemberID,
		Goals:       rec.Goals,
		Assists:     rec.Assists,
		MOM:         rec.MOM,
		CleanSheets: rec.CleanSheets,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func goalFromRow(row matchGoalTableModel) match.Goal {
	return match.Goal{
		ID:               row.PublicID,
		MatchID:          row.MatchID,
		ScoringTeamID:    stringValue(row.ScoringTeamID),
		ScorerMemberID:   stringValue(row.ScorerMemberID),
		OpponentPlayerID: stringValue(row.OpponentPlayerID),
		AssistMemberID:   stringValue(row.AssistMemberID),
		Type:             match.GoalType(row.GoalType),
		Quarter:          row.Quarter,
		Minute:           row.Minute,
		CreatedAt:        row.CreatedAt,
	}
}
