package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamqa/teamqa-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type questionRepoTestEnv struct {
	db           *gorm.DB
	questionRepo QuestionRepository
	answerRepo   AnswerRepository
	team         *models.Team
	author       *models.User
}

func setupQuestionRepoTest(t *testing.T) questionRepoTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Question{},
		&models.Answer{},
		&models.Comment{},
		&models.Vote{},
		&models.Tag{},
		&models.QuestionTag{},
		&models.Bookmark{},
	)
	require.NoError(t, err)

	author := &models.User{Email: "author@example.com", PasswordHash: "hashed", FirstName: "A", LastName: "U"}
	require.NoError(t, db.Create(author).Error)

	team := &models.Team{Name: "Platform", Slug: "platform"}
	require.NoError(t, db.Create(team).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return questionRepoTestEnv{
		db:           db,
		questionRepo: NewQuestionRepository(db),
		answerRepo:   NewAnswerRepository(db),
		team:         team,
		author:       author,
	}
}

func (env questionRepoTestEnv) createQuestion(t *testing.T, title string, tags ...string) *models.Question {
	t.Helper()
	question := &models.Question{
		TeamID:   env.team.ID,
		AuthorID: env.author.ID,
		Title:    title,
		Body:     "body of " + title,
	}
	require.NoError(t, env.questionRepo.CreateWithTags(question, tags))
	return question
}

func (env questionRepoTestEnv) tagCount(t *testing.T, name string) int64 {
	t.Helper()
	var tag models.Tag
	err := env.db.Where("team_id = ? AND name = ?", env.team.ID, name).First(&tag).Error
	if err == gorm.ErrRecordNotFound {
		return 0
	}
	require.NoError(t, err)
	return tag.QuestionCount
}

func TestQuestionRepository_CreateWithTags(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Deploy howto", "deploy", "ci")

	stored, err := env.questionRepo.FindByID(question.ID, "Tags")
	require.NoError(t, err)
	require.Len(t, stored.Tags, 2)
	require.False(t, stored.LastActivityAt.IsZero())

	require.Equal(t, int64(1), env.tagCount(t, "deploy"))
	require.Equal(t, int64(1), env.tagCount(t, "ci"))
}

func TestQuestionRepository_SharedTagCounts(t *testing.T) {
	env := setupQuestionRepoTest(t)

	env.createQuestion(t, "First", "deploy")
	env.createQuestion(t, "Second", "deploy")

	require.Equal(t, int64(2), env.tagCount(t, "deploy"))

	var tagRows int64
	require.NoError(t, env.db.Model(&models.Tag{}).Count(&tagRows).Error)
	require.Equal(t, int64(1), tagRows)
}

func TestQuestionRepository_UpdateWithTags_ReplacesSet(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Deploy howto", "deploy", "ci")

	require.NoError(t, env.questionRepo.UpdateWithTags(question, []string{"ci", "k8s"}))

	stored, err := env.questionRepo.FindByID(question.ID, "Tags")
	require.NoError(t, err)
	require.Len(t, stored.Tags, 2)

	require.Equal(t, int64(0), env.tagCount(t, "deploy"))
	require.Equal(t, int64(1), env.tagCount(t, "ci"))
	require.Equal(t, int64(1), env.tagCount(t, "k8s"))
}

func TestQuestionRepository_UpdateWithTags_NilLeavesTagsAlone(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Deploy howto", "deploy")

	question.Title = "Deploy how-to"
	require.NoError(t, env.questionRepo.UpdateWithTags(question, nil))

	stored, err := env.questionRepo.FindByID(question.ID, "Tags")
	require.NoError(t, err)
	require.Equal(t, "Deploy how-to", stored.Title)
	require.Len(t, stored.Tags, 1)
	require.Equal(t, int64(1), env.tagCount(t, "deploy"))
}

func TestQuestionRepository_List_TagFilter(t *testing.T) {
	env := setupQuestionRepoTest(t)

	env.createQuestion(t, "Deploy howto", "deploy")
	env.createQuestion(t, "Testing guide", "testing")

	questions, total, err := env.questionRepo.List(QuestionFilter{
		TeamID: env.team.ID,
		Tag:    "deploy",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, questions, 1)
	require.Equal(t, "Deploy howto", questions[0].Title)
}

func TestQuestionRepository_List_Search(t *testing.T) {
	env := setupQuestionRepoTest(t)

	env.createQuestion(t, "Deploy howto")
	env.createQuestion(t, "Testing guide")

	questions, total, err := env.questionRepo.List(QuestionFilter{
		TeamID: env.team.ID,
		Search: "Testing",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Testing guide", questions[0].Title)
}

func TestQuestionRepository_List_UnansweredAndUnaccepted(t *testing.T) {
	env := setupQuestionRepoTest(t)

	answered := env.createQuestion(t, "Answered")
	accepted := env.createQuestion(t, "Accepted")
	env.createQuestion(t, "Open")

	answer := &models.Answer{QuestionID: answered.ID, AuthorID: env.author.ID, Body: "reply"}
	require.NoError(t, env.answerRepo.Create(answer))

	acceptedAnswer := &models.Answer{QuestionID: accepted.ID, AuthorID: env.author.ID, Body: "solution"}
	require.NoError(t, env.answerRepo.Create(acceptedAnswer))
	require.NoError(t, env.answerRepo.Accept(accepted.ID, acceptedAnswer.ID))

	questions, total, err := env.questionRepo.List(QuestionFilter{
		TeamID:     env.team.ID,
		Unanswered: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Open", questions[0].Title)

	// A question with answers but none accepted still counts as unaccepted.
	questions, total, err = env.questionRepo.List(QuestionFilter{
		TeamID:     env.team.ID,
		Unaccepted: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	for _, q := range questions {
		require.NotEqual(t, "Accepted", q.Title)
	}
}

func TestQuestionRepository_List_SortByVotes(t *testing.T) {
	env := setupQuestionRepoTest(t)

	low := env.createQuestion(t, "Low")
	high := env.createQuestion(t, "High")

	require.NoError(t, env.db.Model(&models.Question{}).Where("id = ?", low.ID).Update("score", 1).Error)
	require.NoError(t, env.db.Model(&models.Question{}).Where("id = ?", high.ID).Update("score", 5).Error)

	questions, _, err := env.questionRepo.List(QuestionFilter{
		TeamID: env.team.ID,
		SortBy: "votes",
	})
	require.NoError(t, err)
	require.Equal(t, "High", questions[0].Title)
}

func TestQuestionRepository_List_Pagination(t *testing.T) {
	env := setupQuestionRepoTest(t)

	for i := 0; i < 5; i++ {
		env.createQuestion(t, "Question")
	}

	questions, total, err := env.questionRepo.List(QuestionFilter{
		TeamID:   env.team.ID,
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	require.Equal(t, int64(5), total)
	require.Len(t, questions, 2)
}

func TestQuestionRepository_List_ScopedToTeam(t *testing.T) {
	env := setupQuestionRepoTest(t)

	other := &models.Team{Name: "Other", Slug: "other"}
	require.NoError(t, env.db.Create(other).Error)

	env.createQuestion(t, "Ours")
	foreign := &models.Question{TeamID: other.ID, AuthorID: env.author.ID, Title: "Theirs", Body: "b"}
	require.NoError(t, env.questionRepo.CreateWithTags(foreign, nil))

	questions, total, err := env.questionRepo.List(QuestionFilter{TeamID: env.team.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Ours", questions[0].Title)
}

func TestQuestionRepository_Delete_Cascades(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Doomed", "deploy")

	answer := &models.Answer{QuestionID: question.ID, AuthorID: env.author.ID, Body: "reply"}
	require.NoError(t, env.answerRepo.Create(answer))

	comment := &models.Comment{
		ParentType: models.CommentParentAnswer,
		ParentID:   answer.ID,
		AuthorID:   env.author.ID,
		Body:       "note",
	}
	require.NoError(t, env.db.Create(comment).Error)

	vote := &models.Vote{
		VotableType: models.VotableQuestion,
		VotableID:   question.ID,
		VoterID:     env.author.ID,
		Direction:   models.VoteUp,
	}
	require.NoError(t, env.db.Create(vote).Error)

	bookmark := &models.Bookmark{UserID: env.author.ID, QuestionID: question.ID}
	require.NoError(t, env.db.Create(bookmark).Error)

	require.NoError(t, env.questionRepo.Delete(question.ID))

	_, err := env.questionRepo.FindByID(question.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for model, name := range map[interface{}]string{
		&models.Answer{}:   "answers",
		&models.Comment{}:  "comments",
		&models.Vote{}:     "votes",
		&models.Bookmark{}: "bookmarks",
	} {
		var count int64
		require.NoError(t, env.db.Model(model).Count(&count).Error)
		require.Zero(t, count, "expected no %s to survive", name)
	}

	require.Equal(t, int64(0), env.tagCount(t, "deploy"))
}

func TestQuestionRepository_IncrementViewCount(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Popular")

	require.NoError(t, env.questionRepo.IncrementViewCount(question.ID))
	require.NoError(t, env.questionRepo.IncrementViewCount(question.ID))

	stored, err := env.questionRepo.FindByID(question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stored.ViewCount)
}

func TestAnswerRepository_CreateAndDeleteMaintainCount(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Counted")

	answer := &models.Answer{QuestionID: question.ID, AuthorID: env.author.ID, Body: "reply"}
	require.NoError(t, env.answerRepo.Create(answer))

	stored, err := env.questionRepo.FindByID(question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.AnswerCount)

	require.NoError(t, env.answerRepo.Delete(answer.ID))

	stored, err = env.questionRepo.FindByID(question.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), stored.AnswerCount)
}

func TestAnswerRepository_Accept_IsExclusive(t *testing.T) {
	env := setupQuestionRepoTest(t)

	question := env.createQuestion(t, "Solved twice")

	first := &models.Answer{QuestionID: question.ID, AuthorID: env.author.ID, Body: "first"}
	require.NoError(t, env.answerRepo.Create(first))
	second := &models.Answer{QuestionID: question.ID, AuthorID: env.author.ID, Body: "second"}
	require.NoError(t, env.answerRepo.Create(second))

	require.NoError(t, env.answerRepo.Accept(question.ID, first.ID))
	require.NoError(t, env.answerRepo.Accept(question.ID, second.ID))

	var accepted []models.Answer
	require.NoError(t, env.db.Where("question_id = ? AND is_accepted = ?", question.ID, true).
		Find(&accepted).Error)
	require.Len(t, accepted, 1)
	require.Equal(t, second.ID, accepted[0].ID)

	answers, err := env.answerRepo.ListByQuestion(question.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, answers[0].ID)
}
