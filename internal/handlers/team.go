package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/services"
)

// TeamHandler coordinates member-facing team HTTP handlers.
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam creates a team with the caller as its first admin.
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTeamRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Slug        string `json:"slug" binding:"required,max=100"`
		Description string `json:"description"`
		CompanyName string `json:"company_name" binding:"omitempty,max=255"`
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	team, err := h.teamService.CreateTeam(services.CreateTeamInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		CompanyName: req.CompanyName,
		CreatorID:   userID,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// ListTeams returns the teams the caller belongs to.
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	memberships, err := h.teamService.ListTeamsForUser(userID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	teams := make([]dto.TeamWithRoleDTO, len(memberships))
	for i, membership := range memberships {
		teams[i] = dto.ToTeamWithRoleDTO(membership)
	}

	c.JSON(http.StatusOK, gin.H{
		"teams": teams,
	})
}

// GetTeam returns team details with the full roster. Membership was already
// verified by RequireTeamAccess.
func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	member, _ := middleware.GetTeamMember(c)

	_, members, err := h.teamService.GetTeamWithMembers(team.ID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDetailDTO(team, members, member.Role))
}

// ListMembers returns the team roster.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	_, members, err := h.teamService.GetTeamWithMembers(team.ID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	memberDTOs := make([]dto.TeamMemberDTO, len(members))
	for i, member := range members {
		memberDTOs[i] = dto.ToTeamMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"members": memberDTOs,
	})
}

// ListTags returns the team's tag roster, most used first.
func (h *TeamHandler) ListTags(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	tags, err := h.teamService.ListTags(team.ID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	tagDTOs := make([]dto.TagDTO, len(tags))
	for i, tag := range tags {
		tagDTOs[i] = dto.ToTagDTO(tag)
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": tagDTOs,
	})
}

// LeaveTeam removes the caller's own membership.
func (h *TeamHandler) LeaveTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	userID, _ := middleware.GetUserID(c)

	if err := h.teamService.LeaveTeam(team.ID, userID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Left team successfully",
	})
}

// AcceptInvite redeems an invite token for the caller.
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AcceptInviteRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.teamService.AcceptInvite(userID, req.Token)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invite accepted",
		"team_id": invite.TeamID,
	})
}

func respondTeamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrTeamMemberNotFound),
		errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrNotTeamMember):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidTeamName),
		errors.Is(err, services.ErrInvalidSlug):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrSlugTaken),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrInvitePending):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrSelfRoleChange),
		errors.Is(err, services.ErrSelfRemoval),
		errors.Is(err, services.ErrInvalidRole):
		apierrors.InvalidOperation(c, err.Error())
	case errors.Is(err, services.ErrLastAdmin):
		apierrors.InvariantViolation(c, err.Error())
	case errors.Is(err, services.ErrInviteExpired):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInviteExpired, err.Error())
	case errors.Is(err, services.ErrInviteNotPending):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidState, err.Error())
	case errors.Is(err, services.ErrInviteEmailMismatch):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
