package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/dto"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/middleware"
	"github.com/teamqa/teamqa-api/internal/models"
	"github.com/teamqa/teamqa-api/internal/services"
)

// AdminHandler coordinates admin-only team management handlers. All routes
// are guarded by RequireTeamAdmin.
type AdminHandler struct {
	teamService *services.TeamService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(teamService *services.TeamService) *AdminHandler {
	return &AdminHandler{
		teamService: teamService,
	}
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// UpdateTeam edits team metadata. The slug cannot be changed.
func (h *AdminHandler) UpdateTeam(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	type UpdateTeamRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
		CompanyName *string `json:"company_name" binding:"omitempty,max=255"`
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.teamService.UpdateTeam(team.ID, services.UpdateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeamDTO(*updated))
}

// ListMembers returns the team roster for the admin console.
func (h *AdminHandler) ListMembers(c *gin.Context) {
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

// AddMember adds an already-registered user to the team by email.
func (h *AdminHandler) AddMember(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.teamService.AddMemberByEmail(team.ID, req.Email)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*member))
}

// ChangeRole promotes or demotes a member.
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	actorID, _ := middleware.GetUserID(c)

	targetID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	type ChangeRoleRequest struct {
		Role models.TeamRole `json:"role" binding:"required"`
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.teamService.ChangeRole(team.ID, actorID, targetID, req.Role); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated",
	})
}

// RemoveMember removes a member from the team.
func (h *AdminHandler) RemoveMember(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	actorID, _ := middleware.GetUserID(c)

	targetID, ok := paramID(c, "userId")
	if !ok {
		return
	}

	if err := h.teamService.RemoveMember(team.ID, actorID, targetID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed",
	})
}

// CreateInvite issues a single-use invite for an email address. The token is
// only returned here; listings never include it.
func (h *AdminHandler) CreateInvite(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	inviterID, _ := middleware.GetUserID(c)

	type CreateInviteRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.teamService.CreateInvite(team.ID, inviterID, req.Email)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"invite": dto.ToInviteDTO(*invite),
		"token":  invite.Token,
	})
}

// ListInvites returns the team's invites.
func (h *AdminHandler) ListInvites(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	invites, err := h.teamService.ListInvites(team.ID)
	if err != nil {
		respondTeamError(c, err)
		return
	}

	inviteDTOs := make([]dto.InviteDTO, len(invites))
	for i, invite := range invites {
		inviteDTOs[i] = dto.ToInviteDTO(invite)
	}

	c.JSON(http.StatusOK, gin.H{
		"invites": inviteDTOs,
	})
}

// CancelInvite marks an invite as cancelled.
func (h *AdminHandler) CancelInvite(c *gin.Context) {
	team, ok := middleware.GetTeam(c)
	if !ok {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	inviteID, ok := paramID(c, "inviteId")
	if !ok {
		return
	}

	if err := h.teamService.CancelInvite(team.ID, inviteID); err != nil {
		respondTeamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invite cancelled",
	})
}
