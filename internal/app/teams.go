package app

import (
	"context"
	"strings"

	"groundwork/api/internal/roster"
	"groundwork/api/internal/store"
	"groundwork/api/internal/util"
)

type TeamInput struct {
	Name        string `json:"name"`
	Chapter     string `json:"chapter"`
	Description string `json:"description"`
}

type TeamMemberInput struct {
	MemberID string `json:"memberId"`
	RoleNote string `json:"roleNote"`
}

// TeamMemberView is one membership row with its display name reconciled
// against the directory, user map, and contact list.
type TeamMemberView struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	RoleNote string `json:"roleNote,omitempty"`
}

// TeamView is a team plus its resolved membership.
type TeamView struct {
	Team    store.Team       `json:"team"`
	Members []TeamMemberView `json:"members"`
}

func (s *Service) ListTeams(ctx context.Context, session Session) ([]TeamView, error) {
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	_, tables, err := s.buildEnv(ctx, session)
	if err != nil {
		return nil, err
	}
	views := make([]TeamView, 0, len(teams))
	for _, team := range teams {
		members, err := s.store.ListTeamMembers(ctx, team.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, TeamView{Team: team, Members: resolveMembers(members, tables)})
	}
	return views, nil
}

func (s *Service) GetTeam(ctx context.Context, session Session, teamID string) (TeamView, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return TeamView{}, err
	}
	members, err := s.store.ListTeamMembers(ctx, teamID)
	if err != nil {
		return TeamView{}, err
	}
	_, tables, err := s.buildEnv(ctx, session)
	if err != nil {
		return TeamView{}, err
	}
	return TeamView{Team: team, Members: resolveMembers(members, tables)}, nil
}

func (s *Service) CreateTeam(ctx context.Context, session Session, in TeamInput) (store.Team, error) {
	if strings.TrimSpace(in.Name) == "" {
		return store.Team{}, validationError("name is required")
	}
	return s.store.InsertTeam(ctx, store.Team{
		ID:          util.NewID("team"),
		Name:        strings.TrimSpace(in.Name),
		Chapter:     defaultChapter(in.Chapter),
		Description: strings.TrimSpace(in.Description),
		CreatedBy:   session.UserID,
	})
}

func (s *Service) UpdateTeam(ctx context.Context, teamID string, in TeamInput) (store.Team, error) {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return store.Team{}, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return store.Team{}, validationError("name is required")
	}
	team.Name = strings.TrimSpace(in.Name)
	team.Chapter = defaultChapter(in.Chapter)
	team.Description = strings.TrimSpace(in.Description)
	return s.store.UpdateTeam(ctx, team)
}

func (s *Service) DeleteTeam(ctx context.Context, teamID string) error {
	return s.store.DeleteTeam(ctx, teamID)
}

func (s *Service) AddTeamMember(ctx context.Context, teamID string, in TeamMemberInput) error {
	memberID := strings.TrimSpace(in.MemberID)
	if memberID == "" {
		return validationError("memberId is required")
	}
	if _, err := s.store.GetTeam(ctx, teamID); err != nil {
		return err
	}
	return s.store.AddTeamMember(ctx, store.TeamMember{
		TeamID:   teamID,
		MemberID: memberID,
		RoleNote: strings.TrimSpace(in.RoleNote),
	})
}

func (s *Service) RemoveTeamMember(ctx context.Context, teamID, memberID string) error {
	return s.store.RemoveTeamMember(ctx, teamID, memberID)
}

func resolveMembers(members []store.TeamMember, tables roster.LookupTables) []TeamMemberView {
	views := make([]TeamMemberView, 0, len(members))
	for _, m := range members {
		name, _ := roster.ResolveName(roster.ResolveRef{RawID: m.MemberID, Category: "contact"}, tables)
		views = append(views, TeamMemberView{
			MemberID: m.MemberID,
			Name:     name,
			RoleNote: m.RoleNote,
		})
	}
	return views
}
