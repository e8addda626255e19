package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamqa/teamqa-api/internal/database"
	apierrors "github.com/teamqa/teamqa-api/internal/errors"
	"github.com/teamqa/teamqa-api/internal/models"
)

const (
	ContextKeyTeam       = "team"
	ContextKeyTeamMember = "team_member"
)

func loadMembership(c *gin.Context, team models.Team) bool {
	userID, exists := GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		c.Abort()
		return false
	}

	var member models.TeamMember
	err := database.GetDB().
		Where("team_id = ? AND user_id = ?", team.ID, userID).
		First(&member).Error
	if err != nil {
		// 404 rather than 403 to avoid leaking team existence
		apierrors.NotFound(c, "Team not found")
		c.Abort()
		return false
	}

	c.Set(ContextKeyTeam, team)
	c.Set(ContextKeyTeamMember, member)
	return true
}

// RequireTeamAccess resolves the :slug route parameter and checks that the
// caller is a member of that team.
func RequireTeamAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		var team models.Team
		if err := database.GetDB().Where("slug = ?", slug).First(&team).Error; err != nil {
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		if loadMembership(c, team) {
			c.Next()
		}
	}
}

// RequireTeamAdmin resolves the :teamId route parameter and checks that the
// caller holds the admin role in that team.
func RequireTeamAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		teamIDStr := c.Param("teamId")
		teamID, err := strconv.ParseUint(teamIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid team ID")
			c.Abort()
			return
		}

		var team models.Team
		if err := database.GetDB().First(&team, teamID).Error; err != nil {
			apierrors.NotFound(c, "Team not found")
			c.Abort()
			return
		}

		if !loadMembership(c, team) {
			return
		}

		memberInterface, _ := c.Get(ContextKeyTeamMember)
		member, ok := memberInterface.(models.TeamMember)
		if !ok || member.Role != models.RoleAdmin {
			apierrors.Forbidden(c, "Only team admins can perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetTeam retrieves the resolved team from context.
func GetTeam(c *gin.Context) (models.Team, bool) {
	teamInterface, exists := c.Get(ContextKeyTeam)
	if !exists {
		return models.Team{}, false
	}
	team, ok := teamInterface.(models.Team)
	return team, ok
}

// GetTeamMember retrieves the caller's membership from context.
func GetTeamMember(c *gin.Context) (models.TeamMember, bool) {
	memberInterface, exists := c.Get(ContextKeyTeamMember)
	if !exists {
		return models.TeamMember{}, false
	}
	member, ok := memberInterface.(models.TeamMember)
	return member, ok
}
