package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/teamsheet/internal/domain/team"
	qb "github.com/riskibarqy/teamsheet/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// CreateTeam inserts the team together with its owner membership.
func (r *TeamRepository) CreateTeam(ctx context.Context, item team.Team, owner team.Member) error {
	return withTx(ctx, r.db, "create team", func(tx *sqlx.Tx) error {
		query, args, err := qb.InsertModel("teams", teamInsertModel{
			PublicID:    item.ID,
			Code:        item.Code,
			Name:        item.Name,
			Region:      item.Region,
			OwnerUserID: item.OwnerUserID,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}, "")
		if err != nil {
			return fmt.Errorf("build create team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		return insertMember(ctx, tx, owner)
	})
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	return r.getTeam(ctx, "id", qb.Eq("public_id", teamID))
}

func (r *TeamRepository) GetByCode(ctx context.Context, code string) (team.Team, bool, error) {
	return r.getTeam(ctx, "code", qb.Eq("code", team.NormalizeCode(code)))
}

func (r *TeamRepository) ListByUser(ctx context.Context, userID string) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").
		From("teams t JOIN team_members tm ON tm.team_public_id = t.public_id").
		Where(
			qb.Eq("tm.user_id", userID),
			qb.Eq("tm.status", string(team.MemberStatusActive)),
		).
		OrderBy("t.name", "t.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams by user query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams by user: %w", err)
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) CreateMember(ctx context.Context, member team.Member) error {
	return insertMember(ctx, r.db, member)
}

func (r *TeamRepository) GetMember(ctx context.Context, memberID string) (team.Member, bool, error) {
	return getMember(ctx, r.db, "id", qb.Eq("public_id", memberID))
}

func (r *TeamRepository) GetMemberByUser(ctx context.Context, teamID, userID string) (team.Member, bool, error) {
	return getMember(ctx, r.db, "user",
		qb.Eq("team_public_id", teamID),
		qb.Eq("user_id", userID),
		qb.NotEq("status", string(team.MemberStatusMerged)),
	)
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	return r.listMembers(ctx, "team", qb.Eq("team_public_id", teamID))
}

func (r *TeamRepository) ListMembersByUser(ctx context.Context, userID string) ([]team.Member, error) {
	return r.listMembers(ctx, "user",
		qb.Eq("user_id", userID),
		qb.NotEq("status", string(team.MemberStatusMerged)),
	)
}

func (r *TeamRepository) UpdateMemberStatus(ctx context.Context, memberID string, from, to team.MemberStatus, _ time.Time) (bool, error) {
	query, args, err := qb.Update("team_members").
		Set("status", string(to)).
		Where(
			qb.Eq("public_id", memberID),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update member status query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update member status: %w", err)
	}
	affected, err := rowsAffected(result, "update member status")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TeamRepository) UpdateMemberRole(ctx context.Context, memberID string, role team.Role) error {
	query, args, err := qb.Update("team_members").
		Set("role", string(role)).
		Where(qb.Eq("public_id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update member role query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	affected, err := rowsAffected(result, "update member role")
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("update member role: member %s not found", memberID)
	}
	return nil
}

func (r *TeamRepository) DeleteMember(ctx context.Context, memberID string, expected team.MemberStatus) (bool, error) {
	query, args, err := qb.DeleteFrom("team_members").
		Where(
			qb.Eq("public_id", memberID),
			qb.Eq("status", string(expected)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete member query: %w", err)
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	affected, err := rowsAffected(result, "delete member")
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TeamRepository) CreateGuestTeam(ctx context.Context, item team.GuestTeam) error {
	query, args, err := qb.InsertModel("guest_teams", guestTeamInsertModel{
		PublicID:    item.ID,
		OwnerTeamID: item.OwnerTeamID,
		Name:        item.Name,
		Region:      item.Region,
		CreatedAt:   item.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build create guest team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create guest team: %w", err)
	}
	return nil
}

func (r *TeamRepository) GetGuestTeam(ctx context.Context, guestTeamID string) (team.GuestTeam, bool, error) {
	query, args, err := qb.Select("*").From("guest_teams").
		Where(qb.Eq("public_id", guestTeamID)).
		ToSQL()
	if err != nil {
		return team.GuestTeam{}, false, fmt.Errorf("build get guest team query: %w", err)
	}

	var row guestTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.GuestTeam{}, false, nil
		}
		return team.GuestTeam{}, false, fmt.Errorf("get guest team: %w", err)
	}
	return guestTeamFromRow(row), true, nil
}

func (r *TeamRepository) ListGuestTeams(ctx context.Context, ownerTeamID string) ([]team.GuestTeam, error) {
	query, args, err := qb.Select("*").From("guest_teams").
		Where(qb.Eq("owner_team_public_id", ownerTeamID)).
		OrderBy("name", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list guest teams query: %w", err)
	}

	var rows []guestTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list guest teams: %w", err)
	}
	out := make([]team.GuestTeam, 0, len(rows))
	for _, row := range rows {
		out = append(out, guestTeamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) getTeam(ctx context.Context, by string, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(cond).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by %s query: %w", by, err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by %s: %w", by, err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) listMembers(ctx context.Context, by string, conds ...qb.Condition) ([]team.Member, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(conds...).
		OrderBy("joined_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members by %s query: %w", by, err)
	}

	var rows []teamMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list members by %s: %w", by, err)
	}
	out := make([]team.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out, nil
}

func insertMember(ctx context.Context, exec sqlx.ExecerContext, member team.Member) error {
	query, args, err := qb.InsertModel("team_members", memberInsertModel(member), "")
	if err != nil {
		return fmt.Errorf("build create member query: %w", err)
	}
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func getMember(ctx context.Context, q sqlx.QueryerContext, by string, conds ...qb.Condition) (team.Member, bool, error) {
	query, args, err := qb.Select("*").From("team_members").Where(conds...).ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build get member by %s query: %w", by, err)
	}

	var row teamMemberTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get member by %s: %w", by, err)
	}
	return memberFromRow(row), true, nil
}
