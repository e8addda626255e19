package repository

import (
	"errors"
	"time"

	"github.com/teamqa/teamqa-api/internal/models"
)

// Guard errors surfaced by transactional repository operations. Services map
// these onto user-facing errors.
var (
	// ErrLastAdmin is returned when a role change, removal or leave would
	// strip a team of its only admin.
	ErrLastAdmin = errors.New("team repository: operation would leave team without an admin")
	// ErrMemberNotFound is returned when the targeted membership row does not exist.
	ErrMemberNotFound = errors.New("team repository: member not found")
	// ErrInviteNotFound is returned when no invite matches the given token.
	ErrInviteNotFound = errors.New("team repository: invite not found")
	// ErrInviteExpired is returned when an invite is past its expiry.
	ErrInviteExpired = errors.New("team repository: invite expired")
	// ErrInviteNotPending is returned when an invite was already accepted or cancelled.
	ErrInviteNotPending = errors.New("team repository: invite is not pending")
	// ErrInviteEmailMismatch is returned when the redeeming user's email does not
	// match the invited address.
	ErrInviteEmailMismatch = errors.New("team repository: invite issued for a different email")
	// ErrInviteeAlreadyMember is returned when the invited address belongs to a
	// current member of the team.
	ErrInviteeAlreadyMember = errors.New("team repository: invitee is already a member")
	// ErrInvitePendingExists is returned when a live pending invite for the same
	// address already exists.
	ErrInvitePendingExists = errors.New("team repository: pending invite already exists")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by lowercased email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// TeamRepository defines the interface for team, membership and invite data
// access. The guarded operations run their invariant checks and mutations in
// a single transaction with the team's membership rows locked.
type TeamRepository interface {
	// CreateWithAdmin creates the team and its first admin membership atomically
	CreateWithAdmin(team *models.Team, creatorID uint64) error

	// FindByID finds a team by ID
	FindByID(id uint64) (*models.Team, error)

	// FindBySlug finds a team by slug
	FindBySlug(slug string) (*models.Team, error)

	// Update updates a team
	Update(team *models.Team) error

	// FindMember finds a specific team member
	FindMember(teamID, userID uint64) (*models.TeamMember, error)

	// ListMembers lists all members of a team
	ListMembers(teamID uint64) ([]models.TeamMember, error)

	// ListMembershipsByUser lists all teams a user is a member of
	ListMembershipsByUser(userID uint64) ([]models.TeamMember, error)

	// AddMember adds a membership row
	AddMember(member *models.TeamMember) error

	// ChangeRole updates a member's role, refusing to demote the last admin
	ChangeRole(teamID, targetID uint64, newRole models.TeamRole) error

	// RemoveMember deletes a membership, refusing to remove the last admin
	RemoveMember(teamID, targetID uint64) error

	// Leave deletes the caller's own membership. The sole admin may leave
	// only when they are also the team's only member.
	Leave(teamID, userID uint64) error

	// CreateInvite inserts the invite after checking, in one transaction, that
	// the address is not a current member and has no live pending invite
	CreateInvite(invite *models.TeamInvite, now time.Time) error

	// FindInvite finds an invite by ID within a team
	FindInvite(teamID, inviteID uint64) (*models.TeamInvite, error)

	// ListInvites lists a team's invites
	ListInvites(teamID uint64) ([]models.TeamInvite, error)

	// UpdateInviteStatus sets an invite's status
	UpdateInviteStatus(inviteID uint64, status models.InviteStatus) error

	// RedeemInvite atomically validates the token, inserts the membership and
	// marks the invite accepted. Redeeming while already a member succeeds
	// without duplicating the membership.
	RedeemInvite(token string, user *models.User, now time.Time) (*models.TeamInvite, error)
}

// QuestionFilter holds filtering and sorting options for listing questions
type QuestionFilter struct {
	TeamID     uint64
	Tag        string
	Search     string
	Unanswered bool
	Unaccepted bool
	SortBy     string // newest | active | votes | views
	Page       int
	PageSize   int
}

// QuestionRepository defines the interface for question data access
type QuestionRepository interface {
	// CreateWithTags creates a question and attaches its tags atomically
	CreateWithTags(question *models.Question, tagNames []string) error

	// FindByID finds a question by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Question, error)

	// IncrementViewCount bumps the view counter
	IncrementViewCount(id uint64) error

	// List retrieves questions with filtering, sorting and pagination
	List(filter QuestionFilter) ([]models.Question, int64, error)

	// UpdateWithTags saves the question and, when tagNames is non-nil,
	// replaces its tag set (old counts decremented, new counts incremented)
	UpdateWithTags(question *models.Question, tagNames []string) error

	// SetClosed flips the is_closed flag
	SetClosed(id uint64, closed bool) error

	// Delete removes a question and cascades to answers, comments, votes,
	// tag links and bookmarks in one transaction
	Delete(id uint64) error
}

// AnswerRepository defines the interface for answer data access
type AnswerRepository interface {
	// Create inserts the answer and bumps the question's answer count and
	// activity timestamp atomically
	Create(answer *models.Answer) error

	// FindByID finds an answer by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Answer, error)

	// ListByQuestion lists a question's answers, accepted first then by score
	ListByQuestion(questionID uint64) ([]models.Answer, error)

	// Update updates an answer
	Update(answer *models.Answer) error

	// Delete removes the answer with its comments and votes, decrementing the
	// question's answer count (floored at zero)
	Delete(id uint64) error

	// Accept marks the answer accepted after clearing any other accepted
	// answer on the same question
	Accept(questionID, answerID uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindByID(id uint64) (*models.Comment, error)
	ListByParent(parentType models.CommentParentType, parentID uint64) ([]models.Comment, error)
	Delete(id uint64) error
}

// VoteResult describes the outcome of applying a vote.
type VoteResult struct {
	Removed        bool
	Direction      models.VoteDirection
	NewScore       int64
	TargetAuthorID uint64
	QuestionID     uint64
	TeamID         uint64
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	// Apply runs the vote state machine for (voter, target) in one
	// transaction: toggle off on a repeated direction, switch with a +-2
	// delta otherwise, insert on no prior vote. The owning question's
	// activity timestamp is bumped on every mutation.
	Apply(voterID uint64, targetType models.VotableType, targetID uint64, direction models.VoteDirection) (*VoteResult, error)

	// Find returns the voter's current vote on the target, if any
	Find(voterID uint64, targetType models.VotableType, targetID uint64) (*models.Vote, error)
}

// TagRepository defines the interface for tag data access
type TagRepository interface {
	// ListByTeam lists a team's tags, most used first
	ListByTeam(teamID uint64) ([]models.Tag, error)
}

// BookmarkRepository defines the interface for bookmark data access
type BookmarkRepository interface {
	// Toggle adds the bookmark if absent, removes it if present, and reports
	// whether it now exists
	Toggle(userID, questionID uint64) (bool, error)

	// Exists reports whether the user bookmarked the question
	Exists(userID, questionID uint64) (bool, error)

	// ListByUser lists the user's bookmarks with questions preloaded
	ListByUser(userID uint64) ([]models.Bookmark, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByRecipient(recipientID uint64, page, pageSize int) ([]models.Notification, int64, error)
	MarkRead(recipientID, notificationID uint64) error
	MarkAllRead(recipientID uint64) error
	CountUnread(recipientID uint64) (int64, error)
}
