package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Question indexes for filtering and sorting
		{"questions", "idx_questions_team_id", "team_id"},
		{"questions", "idx_questions_author_id", "author_id"},
		{"questions", "idx_questions_last_activity_at", "last_activity_at"},
		{"questions", "idx_questions_score", "score"},
		{"questions", "idx_questions_created_at", "created_at"},

		// Answer indexes
		{"answers", "idx_answers_question_id", "question_id"},
		{"answers", "idx_answers_author_id", "author_id"},

		// Membership lookups hit both sides of the pair
		{"team_members", "idx_team_members_team_id", "team_id"},
		{"team_members", "idx_team_members_user_id", "user_id"},

		// Invite lookups by token and by pending email
		{"team_invites", "idx_team_invites_token", "token"},
		{"team_invites", "idx_team_invites_team_email", "team_id, email"},

		// Notification inbox
		{"notifications", "idx_notifications_recipient", "recipient_id, is_read"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
