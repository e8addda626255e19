package models

import "time"

// VotableType identifies what kind of post a vote targets.
type VotableType string

const (
	VotableQuestion VotableType = "question"
	VotableAnswer   VotableType = "answer"
)

// Valid reports whether the votable type is one of the known kinds.
func (t VotableType) Valid() bool {
	return t == VotableQuestion || t == VotableAnswer
}

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// Valid reports whether the direction is up or down.
func (d VoteDirection) Valid() bool {
	return d == VoteUp || d == VoteDown
}

// Delta is the score contribution of a vote in this direction.
func (d VoteDirection) Delta() int64 {
	if d == VoteUp {
		return 1
	}
	return -1
}

// Vote is unique per (voter, target); direction changes update the row
// in place, re-votes in the same direction remove it.
type Vote struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	VotableType VotableType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_votes_voter_target" json:"votable_type"`
	VotableID   uint64        `gorm:"not null;uniqueIndex:idx_votes_voter_target" json:"votable_id"`
	VoterID     uint64        `gorm:"not null;uniqueIndex:idx_votes_voter_target" json:"voter_id"`
	Direction   VoteDirection `gorm:"type:varchar(10);not null" json:"direction"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Voter User `gorm:"foreignKey:VoterID" json:"voter,omitempty"`
}
