package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type teamServiceTestEnv struct {
	db          *gorm.DB
	teamService *TeamService
	teamRepo    repository.TeamRepository
}

func setupTeamServiceTest(t *testing.T) teamServiceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamInvite{},
		&models.Tag{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	tagRepo := repository.NewTagRepository(db)
	teamService := NewTeamService(teamRepo, userRepo, tagRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return teamServiceTestEnv{
		db:          db,
		teamService: teamService,
		teamRepo:    teamRepo,
	}
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hashed",
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTeam(t *testing.T, env teamServiceTestEnv, slug string, adminID uint64) *models.Team {
	t.Helper()
	team, err := env.teamService.CreateTeam(CreateTeamInput{
		Name:      "Team " + slug,
		Slug:      slug,
		CreatorID: adminID,
	})
	require.NoError(t, err)
	return team
}

func addTestMember(t *testing.T, env teamServiceTestEnv, teamID, userID uint64, role models.TeamRole) {
	t.Helper()
	require.NoError(t, env.teamRepo.AddMember(&models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}))
}

func TestTeamService_CreateTeam_CreatorBecomesAdmin(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	member, err := env.teamRepo.FindMember(team.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, member.Role)
}

func TestTeamService_CreateTeam_RejectsBadSlug(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	_, err := env.teamService.CreateTeam(CreateTeamInput{
		Name:      "Bad Slug",
		Slug:      "Not A Slug!",
		CreatorID: admin.ID,
	})
	require.ErrorIs(t, err, ErrInvalidSlug)
}

func TestTeamService_CreateTeam_SlugTaken(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	createTestTeam(t, env, "platform", admin.ID)

	_, err := env.teamService.CreateTeam(CreateTeamInput{
		Name:      "Another",
		Slug:      "platform",
		CreatorID: admin.ID,
	})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestTeamService_ChangeRole_RefusesLastAdminDemotion(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	err := env.teamService.ChangeRole(team.ID, member.ID, admin.ID, models.RoleMember)
	require.ErrorIs(t, err, ErrLastAdmin)

	// The membership must be untouched.
	got, err := env.teamRepo.FindMember(team.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, got.Role)
}

func TestTeamService_ChangeRole_DemotionAllowedWithSecondAdmin(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	second := createServiceTestUser(t, env.db, "second@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, second.ID, models.RoleMember)

	require.NoError(t, env.teamService.ChangeRole(team.ID, admin.ID, second.ID, models.RoleAdmin))
	require.NoError(t, env.teamService.ChangeRole(team.ID, second.ID, admin.ID, models.RoleMember))

	got, err := env.teamRepo.FindMember(team.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, got.Role)
}

func TestTeamService_ChangeRole_RefusesSelfChange(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	err := env.teamService.ChangeRole(team.ID, admin.ID, admin.ID, models.RoleMember)
	require.ErrorIs(t, err, ErrSelfRoleChange)
}

func TestTeamService_ChangeRole_InvalidRole(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	err := env.teamService.ChangeRole(team.ID, admin.ID, member.ID, models.TeamRole("owner"))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestTeamService_RemoveMember_RefusesLastAdmin(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	err := env.teamService.RemoveMember(team.ID, member.ID, admin.ID)
	require.ErrorIs(t, err, ErrLastAdmin)
}

func TestTeamService_RemoveMember_RefusesSelf(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	err := env.teamService.RemoveMember(team.ID, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfRemoval)
}

func TestTeamService_RemoveMember_RemovesRegularMember(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	require.NoError(t, env.teamService.RemoveMember(team.ID, admin.ID, member.ID))

	_, err := env.teamRepo.FindMember(team.ID, member.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTeamService_LeaveTeam_SoleAdminWithMembersBlocked(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	err := env.teamService.LeaveTeam(team.ID, admin.ID)
	require.ErrorIs(t, err, ErrLastAdmin)
}

func TestTeamService_LeaveTeam_SoleMemberMayLeave(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	require.NoError(t, env.teamService.LeaveTeam(team.ID, admin.ID))

	members, err := env.teamRepo.ListMembers(team.ID)
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestTeamService_LeaveTeam_AdminLeavesWithSecondAdmin(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	second := createServiceTestUser(t, env.db, "second@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, second.ID, models.RoleAdmin)

	require.NoError(t, env.teamService.LeaveTeam(team.ID, admin.ID))
}

func TestTeamService_LeaveTeam_NotAMember(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	outsider := createServiceTestUser(t, env.db, "outsider@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	err := env.teamService.LeaveTeam(team.ID, outsider.ID)
	require.ErrorIs(t, err, ErrNotTeamMember)
}

func TestTeamService_CreateInvite(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "Invitee@Example.com")
	require.NoError(t, err)
	require.Equal(t, "invitee@example.com", invite.Email)
	require.Equal(t, models.InviteStatusPending, invite.Status)
	require.NotEmpty(t, invite.Token)
	require.True(t, invite.ExpiresAt.After(time.Now()))
}

func TestTeamService_CreateInvite_PendingConflict(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	_, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)

	_, err = env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.ErrorIs(t, err, ErrInvitePending)
}

func TestTeamService_CreateInvite_ExistingMemberConflict(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleMember)

	_, err := env.teamService.CreateInvite(team.ID, admin.ID, "member@example.com")
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestTeamService_CreateInvite_ExpiredInviteDoesNotBlockReissue(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	stale := &models.TeamInvite{
		TeamID:    team.ID,
		Email:     "invitee@example.com",
		InviterID: admin.ID,
		Token:     "stale-token",
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(stale).Error)

	// Only a live pending invite blocks reissue.
	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)
	require.NotEqual(t, stale.Token, invite.Token)
}

func TestTeamService_AcceptInvite(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	invitee := createServiceTestUser(t, env.db, "invitee@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)

	accepted, err := env.teamService.AcceptInvite(invitee.ID, invite.Token)
	require.NoError(t, err)
	require.Equal(t, team.ID, accepted.TeamID)
	require.Equal(t, models.InviteStatusAccepted, accepted.Status)

	member, err := env.teamRepo.FindMember(team.ID, invitee.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleMember, member.Role)
}

func TestTeamService_AcceptInvite_SingleUse(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	invitee := createServiceTestUser(t, env.db, "invitee@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)

	_, err = env.teamService.AcceptInvite(invitee.ID, invite.Token)
	require.NoError(t, err)

	require.NoError(t, env.teamService.LeaveTeam(team.ID, invitee.ID))

	// The token was consumed; rejoining needs a fresh invite.
	_, err = env.teamService.AcceptInvite(invitee.ID, invite.Token)
	require.ErrorIs(t, err, ErrInviteNotPending)
}

func TestTeamService_AcceptInvite_EmailMismatch(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	stranger := createServiceTestUser(t, env.db, "stranger@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)

	_, err = env.teamService.AcceptInvite(stranger.ID, invite.Token)
	require.ErrorIs(t, err, ErrInviteEmailMismatch)
}

func TestTeamService_AcceptInvite_Expired(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	invitee := createServiceTestUser(t, env.db, "invitee@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite := &models.TeamInvite{
		TeamID:    team.ID,
		Email:     "invitee@example.com",
		InviterID: admin.ID,
		Token:     "expired-token",
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(invite).Error)

	_, err := env.teamService.AcceptInvite(invitee.ID, invite.Token)
	require.ErrorIs(t, err, ErrInviteExpired)
}

func TestTeamService_AcceptInvite_AlreadyMemberIsIdempotent(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	member := createServiceTestUser(t, env.db, "member@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	addTestMember(t, env, team.ID, member.ID, models.RoleAdmin)

	invite := &models.TeamInvite{
		TeamID:    team.ID,
		Email:     "member@example.com",
		InviterID: admin.ID,
		Token:     "member-token",
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, env.db.Create(invite).Error)

	accepted, err := env.teamService.AcceptInvite(member.ID, invite.Token)
	require.NoError(t, err)
	require.Equal(t, models.InviteStatusAccepted, accepted.Status)

	// The existing membership and role are preserved.
	got, err := env.teamRepo.FindMember(team.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, got.Role)
}

func TestTeamService_AcceptInvite_UnknownToken(t *testing.T) {
	env := setupTeamServiceTest(t)
	invitee := createServiceTestUser(t, env.db, "invitee@example.com")

	_, err := env.teamService.AcceptInvite(invitee.ID, "no-such-token")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestTeamService_CancelInvite(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	invitee := createServiceTestUser(t, env.db, "invitee@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	invite, err := env.teamService.CreateInvite(team.ID, admin.ID, "invitee@example.com")
	require.NoError(t, err)

	require.NoError(t, env.teamService.CancelInvite(team.ID, invite.ID))

	_, err = env.teamService.AcceptInvite(invitee.ID, invite.Token)
	require.ErrorIs(t, err, ErrInviteNotPending)
}

func TestTeamService_ListInvites_ReportsExpired(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	stale := &models.TeamInvite{
		TeamID:    team.ID,
		Email:     "stale@example.com",
		InviterID: admin.ID,
		Token:     "stale-token",
		Status:    models.InviteStatusPending,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.db.Create(stale).Error)

	invites, err := env.teamService.ListInvites(team.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	require.Equal(t, models.InviteStatusExpired, invites[0].Status)
}

func TestTeamService_AddMemberByEmail(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")
	user := createServiceTestUser(t, env.db, "joiner@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	member, err := env.teamService.AddMemberByEmail(team.ID, "joiner@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, member.UserID)
	require.Equal(t, models.RoleMember, member.Role)

	_, err = env.teamService.AddMemberByEmail(team.ID, "joiner@example.com")
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestTeamService_UpdateTeam(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)

	name := "Renamed"
	desc := "Internal platform questions"
	updated, err := env.teamService.UpdateTeam(team.ID, UpdateTeamInput{
		Name:        &name,
		Description: &desc,
	})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, desc, updated.Description)
	require.Equal(t, team.Slug, updated.Slug)
}

func TestTeamService_ListTags_OrdersByUsage(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	team := createTestTeam(t, env, "platform", admin.ID)
	other := createTestTeam(t, env, "other", admin.ID)

	for _, tag := range []models.Tag{
		{TeamID: team.ID, Name: "deploy", QuestionCount: 3},
		{TeamID: team.ID, Name: "ci", QuestionCount: 7},
		{TeamID: team.ID, Name: "k8s", QuestionCount: 3},
		{TeamID: other.ID, Name: "deploy", QuestionCount: 99},
	} {
		require.NoError(t, env.db.Create(&tag).Error)
	}

	tags, err := env.teamService.ListTags(team.ID)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	require.Equal(t, "ci", tags[0].Name)
	// Ties fall back to name order.
	require.Equal(t, "deploy", tags[1].Name)
	require.Equal(t, "k8s", tags[2].Name)
}

func TestTeamService_ListTeamsForUser(t *testing.T) {
	env := setupTeamServiceTest(t)
	admin := createServiceTestUser(t, env.db, "admin@example.com")

	for i := 0; i < 3; i++ {
		createTestTeam(t, env, fmt.Sprintf("team-%d", i), admin.ID)
	}

	memberships, err := env.teamService.ListTeamsForUser(admin.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 3)
}
