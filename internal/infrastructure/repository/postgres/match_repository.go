package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/teamsheet/internal/domain/match"
	qb "github.com/riskibarqy/teamsheet/internal/platform/querybuilder"
)

const recordUpsertSuffix = `ON CONFLICT (match_public_id, member_public_id)
DO UPDATE SET
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    mom = EXCLUDED.mom,
    clean_sheets = EXCLUDED.clean_sheets,
    updated_at = EXCLUDED.updated_at`

const recordBumpSuffix = `ON CONFLICT (match_public_id, member_public_id)
DO UPDATE SET
    goals = match_records.goals + EXCLUDED.goals,
    assists = match_records.assists + EXCLUDED.assists,
    updated_at = EXCLUDED.updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	opponentTeamID, guestTeamID, opponentName := opponentColumns(item.Opponent)
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:       item.ID,
		TeamID:         item.TeamID,
		OpponentTeamID: opponentTeamID,
		GuestTeamID:    guestTeamID,
		OpponentName:   opponentName,
		MatchDate:      item.MatchDate,
		IsHome:         item.IsHome,
		Venue:          item.Venue,
		HomeScore:      item.HomeScore,
		AwayScore:      item.AwayScore,
		Status:         string(item.Status),
		Quarters:       item.Quarters,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return getMatch(ctx, r.db, matchID, false)
}

func (r *MatchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Match, error) {
	return r.listMatches(ctx, "team",
		qb.Expr("(team_public_id = ? OR opponent_team_public_id = ?)", teamID, teamID),
		qb.IsNull("merged_into"),
	)
}

func (r *MatchRepository) ListByGuestTeams(ctx context.Context, teamID string, guestTeamIDs []string) ([]match.Match, error) {
	if len(guestTeamIDs) == 0 {
		return []match.Match{}, nil
	}
	return r.listMatches(ctx, "guest teams",
		qb.Eq("team_public_id", teamID),
		qb.InStrings("guest_team_public_id", guestTeamIDs),
		qb.IsNull("merged_into"),
	)
}

func (r *MatchRepository) ListByIDs(ctx context.Context, matchIDs []string) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return []match.Match{}, nil
	}
	return r.listMatches(ctx, "ids", qb.InStrings("public_id", matchIDs))
}

func (r *MatchRepository) UpdateScore(ctx context.Context, matchID string, score match.Score, at time.Time) error {
	return setMatchScore(ctx, r.db, matchID, score, at)
}

func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID string, from, to match.Status, at time.Time) (bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(to)).
		Set("updated_at", at).
		Where(
			qb.Eq("public_id", matchID),
			qb.Eq("status", string(from)),
			qb.IsNull("merged_into"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update match status query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update match status: %w", err)
	}
	affected, err := rowsAffected(result, "update match status")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *MatchRepository) ListRecordsByMatch(ctx context.Context, matchID string) ([]match.Record, error) {
	return listRecords(ctx, r.db, "match", qb.Eq("match_public_id", matchID))
}

func (r *MatchRepository) ListRecordsByMembers(ctx context.Context, memberIDs []string) ([]match.Record, error) {
	if len(memberIDs) == 0 {
		return []match.Record{}, nil
	}
	return listRecords(ctx, r.db, "members", qb.InStrings("member_public_id", memberIDs))
}

// UpsertRecord keeps one row per (match, member); the first id wins.
func (r *MatchRepository) UpsertRecord(ctx context.Context, item match.Record) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query, args, err := qb.InsertModel("match_records", recordInsertModel(item), recordUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert match record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match record: %w", err)
	}
	return nil
}

func (r *MatchRepository) AddGoal(ctx context.Context, goal match.Goal, delta match.Score) (match.Score, error) {
	var score match.Score
	err := withTx(ctx, r.db, "add goal", func(tx *sqlx.Tx) error {
		query, args, err := qb.InsertModel("match_goals", goalInsertModel(goal), "")
		if err != nil {
			return fmt.Errorf("build create goal query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
		if goal.CountsForScorer() {
			if err := bumpRecord(ctx, tx, goal.MatchID, goal.ScorerMemberID, 1, 0, goal.CreatedAt); err != nil {
				return err
			}
		}
		if goal.AssistMemberID != "" {
			if err := bumpRecord(ctx, tx, goal.MatchID, goal.AssistMemberID, 0, 1, goal.CreatedAt); err != nil {
				return err
			}
		}
		score, err = shiftMatchScore(ctx, tx, goal.MatchID, delta, goal.CreatedAt)
		return err
	})
	return score, err
}

func (r *MatchRepository) DeleteGoal(ctx context.Context, goal match.Goal, delta match.Score, at time.Time) (match.Score, error) {
	var score match.Score
	err := withTx(ctx, r.db, "delete goal", func(tx *sqlx.Tx) error {
		query, args, err := qb.DeleteFrom("match_goals").
			Where(qb.Eq("public_id", goal.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete goal query: %w", err)
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		affected, err := rowsAffected(result, "delete goal")
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("delete goal: goal %s not found", goal.ID)
		}

		if goal.CountsForScorer() {
			if err := bumpRecord(ctx, tx, goal.MatchID, goal.ScorerMemberID, -1, 0, at); err != nil {
				return err
			}
		}
		if goal.AssistMemberID != "" {
			if err := bumpRecord(ctx, tx, goal.MatchID, goal.AssistMemberID, 0, -1, at); err != nil {
				return err
			}
		}
		score, err = shiftMatchScore(ctx, tx, goal.MatchID, match.Score{Home: -delta.Home, Away: -delta.Away}, at)
		return err
	})
	return score, err
}

func (r *MatchRepository) GetGoal(ctx context.Context, goalID string) (match.Goal, bool, error) {
	query, args, err := qb.Select("*").From("match_goals").
		Where(qb.Eq("public_id", goalID)).
		ToSQL()
	if err != nil {
		return match.Goal{}, false, fmt.Errorf("build get goal query: %w", err)
	}

	var row matchGoalTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Goal{}, false, nil
		}
		return match.Goal{}, false, fmt.Errorf("get goal: %w", err)
	}
	return goalFromRow(row), true, nil
}

func (r *MatchRepository) ListGoalsByMatch(ctx context.Context, matchID string) ([]match.Goal, error) {
	return listGoals(ctx, r.db, "match", qb.Eq("match_public_id", matchID))
}

func (r *MatchRepository) ListGoalsByMatches(ctx context.Context, matchIDs []string) ([]match.Goal, error) {
	if len(matchIDs) == 0 {
		return []match.Goal{}, nil
	}
	return listGoals(ctx, r.db, "matches", qb.InStrings("match_public_id", matchIDs))
}

func (r *MatchRepository) UpsertAttendance(ctx context.Context, item match.Attendance) error {
	query, args, err := qb.InsertModel("match_attendance", matchAttendanceTableModel{
		MatchID:   item.MatchID,
		MemberID:  item.MemberID,
		Status:    string(item.Status),
		UpdatedAt: item.UpdatedAt,
	}, `ON CONFLICT (match_public_id, member_public_id)
DO UPDATE SET
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert attendance query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

func (r *MatchRepository) ListAttendance(ctx context.Context, matchID string) ([]match.Attendance, error) {
	query, args, err := qb.Select("*").From("match_attendance").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("member_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list attendance query: %w", err)
	}

	var rows []matchAttendanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	out := make([]match.Attendance, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Attendance{
			MatchID:   row.MatchID,
			MemberID:  row.MemberID,
			Status:    match.AttendanceStatus(row.Status),
			UpdatedAt: row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *MatchRepository) CreateOpponentPlayer(ctx context.Context, item match.OpponentPlayer) error {
	query, args, err := qb.InsertModel("opponent_players", opponentPlayerInsertModel{
		PublicID:  item.ID,
		MatchID:   item.MatchID,
		Name:      item.Name,
		CreatedAt: item.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create opponent player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create opponent player: %w", err)
	}
	return nil
}

func (r *MatchRepository) GetOpponentPlayer(ctx context.Context, playerID string) (match.OpponentPlayer, bool, error) {
	query, args, err := qb.Select("*").From("opponent_players").
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return match.OpponentPlayer{}, false, fmt.Errorf("build get opponent player query: %w", err)
	}

	var row opponentPlayerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.OpponentPlayer{}, false, nil
		}
		return match.OpponentPlayer{}, false, fmt.Errorf("get opponent player: %w", err)
	}
	return match.OpponentPlayer{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}, true, nil
}

func (r *MatchRepository) listMatches(ctx context.Context, by string, conds ...qb.Condition) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(conds...).
		OrderBy("match_date", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches by %s query: %w", by, err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by %s: %w", by, err)
	}
	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

// getMatch optionally locks the row for the rest of the surrounding transaction.
func getMatch(ctx context.Context, q sqlx.QueryerContext, matchID string, forUpdate bool) (match.Match, bool, error) {
	builder := qb.Select("*").From("matches").Where(qb.Eq("public_id", matchID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func setMatchScore(ctx context.Context, exec sqlx.ExecerContext, matchID string, score match.Score, at time.Time) error {
	query, args, err := qb.Update("matches").
		Set("home_score", score.Home).
		Set("away_score", score.Away).
		Set("updated_at", at).
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match score query: %w", err)
	}
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match score: %w", err)
	}
	affected, err := rowsAffected(result, "update match score")
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("update match score: match %s not found", matchID)
	}
	return nil
}

// shiftMatchScore adds delta to the stored score in SQL so concurrent goal
// entries on one match all count.
func shiftMatchScore(ctx context.Context, tx *sqlx.Tx, matchID string, delta match.Score, at time.Time) (match.Score, error) {
	query, args, err := shiftMatchScoreQuery(matchID, delta, at)
	if err != nil {
		return match.Score{}, err
	}
	var score match.Score
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&score.Home, &score.Away); err != nil {
		if isNotFound(err) {
			return match.Score{}, fmt.Errorf("update match score: match %s not found", matchID)
		}
		return match.Score{}, fmt.Errorf("update match score: %w", err)
	}
	return score, nil
}

func shiftMatchScoreQuery(matchID string, delta match.Score, at time.Time) (string, []any, error) {
	query, args, err := qb.Update("matches").
		SetExpr("home_score", "GREATEST(home_score + ?, 0)", delta.Home).
		SetExpr("away_score", "GREATEST(away_score + ?, 0)", delta.Away).
		Set("updated_at", at).
		Where(qb.Eq("public_id", matchID)).
		Suffix("RETURNING home_score, away_score").
		ToSQL()
	if err != nil {
		return "", nil, fmt.Errorf("build shift match score query: %w", err)
	}
	return query, args, nil
}

func listRecords(ctx context.Context, q sqlx.QueryerContext, by string, conds ...qb.Condition) ([]match.Record, error) {
	query, args, err := qb.Select("*").From("match_records").
		Where(conds...).
		OrderBy("match_public_id", "member_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list records by %s query: %w", by, err)
	}

	var rows []matchRecordTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list records by %s: %w", by, err)
	}
	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, recordFromRow(row))
	}
	return out, nil
}

func listGoals(ctx context.Context, q sqlx.QueryerContext, by string, conds ...qb.Condition) ([]match.Goal, error) {
	query, args, err := qb.Select("*").From("match_goals").
		Where(conds...).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list goals by %s query: %w", by, err)
	}

	var rows []matchGoalTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list goals by %s: %w", by, err)
	}
	out := make([]match.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, goalFromRow(row))
	}
	return out, nil
}

func goalInsertModel(goal match.Goal) matchGoalInsertModel {
	return matchGoalInsertModel{
		PublicID:         goal.ID,
		MatchID:          goal.MatchID,
		ScoringTeamID:    optionalString(goal.ScoringTeamID),
		ScorerMemberID:   optionalString(goal.ScorerMemberID),
		OpponentPlayerID: optionalString(goal.OpponentPlayerID),
		AssistMemberID:   optionalString(goal.AssistMemberID),
		GoalType:         string(goal.Type),
		Quarter:          goal.Quarter,
		Minute:           goal.Minute,
		CreatedAt:        goal.CreatedAt,
	}
}

// bumpRecord adds positive deltas through an upsert and floors negative deltas at zero.
func bumpRecord(ctx context.Context, exec sqlx.ExecerContext, matchID, memberID string, goals, assists int, at time.Time) error {
	if goals >= 0 && assists >= 0 {
		query, args, err := qb.InsertModel("match_records", matchRecordInsertModel{
			PublicID:  uuid.NewString(),
			MatchID:   matchID,
			MemberID:  memberID,
			Goals:     goals,
			Assists:   assists,
			CreatedAt: at,
			UpdatedAt: at,
		}, recordBumpSuffix)
		if err != nil {
			return fmt.Errorf("build bump record query: %w", err)
		}
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("bump record: %w", err)
		}
		return nil
	}

	query, args, err := qb.Update("match_records").
		SetExpr("goals", "GREATEST(goals + ?, 0)", goals).
		SetExpr("assists", "GREATEST(assists + ?, 0)", assists).
		Set("updated_at", at).
		Where(
			qb.Eq("match_public_id", matchID),
			qb.Eq("member_public_id", memberID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build decrement record query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("decrement record: %w", err)
	}
	return nil
}
