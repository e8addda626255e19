package models

import "time"

type InviteStatus string

const (
	InviteStatusPending   InviteStatus = "pending"
	InviteStatusAccepted  InviteStatus = "accepted"
	InviteStatusExpired   InviteStatus = "expired"
	InviteStatusCancelled InviteStatus = "cancelled"
)

type TeamInvite struct {
	ID        uint64       `gorm:"primarykey" json:"id"`
	TeamID    uint64       `gorm:"not null;index" json:"team_id"`
	Email     string       `gorm:"type:varchar(255);not null;index" json:"email"`
	InviterID uint64       `gorm:"not null" json:"inviter_id"`
	Token     string       `gorm:"type:varchar(128);uniqueIndex;not null" json:"-"`
	Status    InviteStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`

	// Relations
	Team    Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Inviter User `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
}

// IsExpired reports whether the invite is past its expiry, regardless of
// the stored status.
func (i *TeamInvite) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
