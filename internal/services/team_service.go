package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamqa/teamqa-api/internal/constants"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"github.com/teamqa/teamqa-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrInvalidTeamName     = errors.New("team name cannot be empty")
	ErrInvalidSlug         = errors.New("slug must be lowercase letters, digits and hyphens")
	ErrSlugTaken           = errors.New("slug is already taken")
	ErrTeamMemberNotFound  = errors.New("team member not found")
	ErrNotTeamMember       = errors.New("user is not a member of this team")
	ErrNotTeamAdmin        = errors.New("admin role required")
	ErrSelfRoleChange      = errors.New("cannot change your own role")
	ErrSelfRemoval         = errors.New("cannot remove yourself; leave the team instead")
	ErrLastAdmin           = errors.New("team must have at least one admin")
	ErrInvalidRole         = errors.New("invalid role")
	ErrAlreadyMember       = errors.New("user is already a member of this team")
	ErrInvitePending       = errors.New("a pending invite for this email already exists")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteExpired       = errors.New("invite has expired")
	ErrInviteNotPending    = errors.New("invite is no longer pending")
	ErrInviteEmailMismatch = errors.New("invite was issued for a different email address")
	ErrTokenGeneration     = errors.New("failed to generate invite token")
)

// TeamService guards the team membership state: role changes, removals,
// self-leave and the invite lifecycle all preserve the rule that a non-empty
// team keeps at least one admin.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
	tagRepo  repository.TagRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository, tagRepo repository.TagRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
		tagRepo:  tagRepo,
	}
}

// CreateTeamInput represents parameters to create a new team.
type CreateTeamInput struct {
	Name        string
	Slug        string
	Description string
	CompanyName string
	CreatorID   uint64
}

// CreateTeam creates a team with the creator as its sole admin. This is the
// only path that produces a membership without an existing admin's approval.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidTeamName
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !utils.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}

	if _, err := s.teamRepo.FindBySlug(slug); err == nil {
		return nil, ErrSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	team := &models.Team{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		CompanyName: input.CompanyName,
	}

	if err := s.teamRepo.CreateWithAdmin(team, input.CreatorID); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// ListTeamsForUser returns the teams the user belongs to, with role.
func (s *TeamService) ListTeamsForUser(userID uint64) ([]models.TeamMember, error) {
	memberships, err := s.teamRepo.ListMembershipsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return memberships, nil
}

// GetTeamWithMembers returns a team and its full roster.
func (s *TeamService) GetTeamWithMembers(teamID uint64) (*models.Team, []models.TeamMember, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to find team: %w", err)
	}

	members, err := s.teamRepo.ListMembers(teamID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list team members: %w", err)
	}

	return team, members, nil
}

// UpdateTeamInput holds the editable team fields. The slug is immutable.
type UpdateTeamInput struct {
	Name        *string
	Description *string
	CompanyName *string
}

// UpdateTeam applies the provided fields to the team.
func (s *TeamService) UpdateTeam(teamID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidTeamName
		}
		team.Name = *input.Name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}
	if input.CompanyName != nil {
		team.CompanyName = *input.CompanyName
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}

	return team, nil
}

// ChangeRole promotes or demotes a member. Changing one's own role is
// forbidden, and the repository refuses any demotion that would leave the
// team without an admin.
func (s *TeamService) ChangeRole(teamID, actorID, targetID uint64, newRole models.TeamRole) error {
	if !newRole.Valid() {
		return ErrInvalidRole
	}
	if targetID == actorID {
		return ErrSelfRoleChange
	}

	if err := s.teamRepo.ChangeRole(teamID, targetID, newRole); err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			return ErrTeamMemberNotFound
		case errors.Is(err, repository.ErrLastAdmin):
			return ErrLastAdmin
		default:
			return fmt.Errorf("failed to change role: %w", err)
		}
	}

	return nil
}

// RemoveMember removes a member from the team. Self-removal must go through
// LeaveTeam so the last-member escape hatch applies.
func (s *TeamService) RemoveMember(teamID, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrSelfRemoval
	}

	if err := s.teamRepo.RemoveMember(teamID, targetID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			return ErrTeamMemberNotFound
		case errors.Is(err, repository.ErrLastAdmin):
			return ErrLastAdmin
		default:
			return fmt.Errorf("failed to remove member: %w", err)
		}
	}

	return nil
}

// LeaveTeam removes the caller's own membership. The sole admin may leave
// only when the team would be left empty; otherwise they must promote
// another admin first.
func (s *TeamService) LeaveTeam(teamID, userID uint64) error {
	if err := s.teamRepo.Leave(teamID, userID); err != nil {
		switch {
		case errors.Is(err, repository.ErrMemberNotFound):
			return ErrNotTeamMember
		case errors.Is(err, repository.ErrLastAdmin):
			return ErrLastAdmin
		default:
			return fmt.Errorf("failed to leave team: %w", err)
		}
	}

	return nil
}

// AddMemberByEmail lets an admin add an already-registered user directly.
func (s *TeamService) AddMemberByEmail(teamID uint64, email string) (*models.TeamMember, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.teamRepo.FindMember(teamID, user.ID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   user.ID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.teamRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	member.User = *user
	return member, nil
}

// CreateInvite issues a single-use, time-limited invite for an email address.
// The repository runs the member and pending-invite checks in the same
// transaction as the insert, so concurrent invites cannot both land.
func (s *TeamService) CreateInvite(teamID, inviterID uint64, email string) (*models.TeamInvite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, ErrTokenGeneration
	}

	now := time.Now()
	invite := &models.TeamInvite{
		TeamID:    teamID,
		Email:     email,
		InviterID: inviterID,
		Token:     token,
		Status:    models.InviteStatusPending,
		ExpiresAt: now.Add(constants.InviteTTL),
	}

	if err := s.teamRepo.CreateInvite(invite, now); err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteeAlreadyMember):
			return nil, ErrAlreadyMember
		case errors.Is(err, repository.ErrInvitePendingExists):
			return nil, ErrInvitePending
		default:
			return nil, fmt.Errorf("failed to create invite: %w", err)
		}
	}

	return invite, nil
}

// AcceptInvite redeems an invite token for the given user. Redemption is
// atomic: a token is consumed exactly once even under concurrent attempts,
// and accepting while already a member succeeds idempotently.
func (s *TeamService) AcceptInvite(userID uint64, token string) (*models.TeamInvite, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	invite, err := s.teamRepo.RedeemInvite(token, user, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteNotFound):
			return nil, ErrInviteNotFound
		case errors.Is(err, repository.ErrInviteExpired):
			return nil, ErrInviteExpired
		case errors.Is(err, repository.ErrInviteNotPending):
			return nil, ErrInviteNotPending
		case errors.Is(err, repository.ErrInviteEmailMismatch):
			return nil, ErrInviteEmailMismatch
		default:
			return nil, fmt.Errorf("failed to accept invite: %w", err)
		}
	}

	return invite, nil
}

// CancelInvite sets an invite to cancelled. Cancelling an already-cancelled
// or accepted invite is a no-op on top of the same terminal write.
func (s *TeamService) CancelInvite(teamID, inviteID uint64) error {
	if _, err := s.teamRepo.FindInvite(teamID, inviteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to find invite: %w", err)
	}

	if err := s.teamRepo.UpdateInviteStatus(inviteID, models.InviteStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel invite: %w", err)
	}

	return nil
}

// ListInvites returns a team's invites, with expired-but-pending rows
// reported as expired (expiry is a computed predicate, not a background job).
func (s *TeamService) ListInvites(teamID uint64) ([]models.TeamInvite, error) {
	invites, err := s.teamRepo.ListInvites(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}

	now := time.Now()
	for i := range invites {
		if invites[i].Status == models.InviteStatusPending && invites[i].IsExpired(now) {
			invites[i].Status = models.InviteStatusExpired
		}
	}

	return invites, nil
}

// ListTags returns the team's tag roster, most used first.
func (s *TeamService) ListTags(teamID uint64) ([]models.Tag, error) {
	tags, err := s.tagRepo.ListByTeam(teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// GetMember returns the caller's membership in the team, if any.
func (s *TeamService) GetMember(teamID, userID uint64) (*models.TeamMember, error) {
	member, err := s.teamRepo.FindMember(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	return member, nil
}
