package service

import (
	"Agora/internal/model"
	"Agora/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBestAnswerService(t *testing.T) (BestAnswerService, *gorm.DB, repository.TopicRepo, repository.PostRepo) {
	db := setupTestDB(t)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	return NewBestAnswerService(topicRepo, postRepo), db, topicRepo, postRepo
}

func countBestAnswers(t *testing.T, db *gorm.DB, topicID uint64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.Post{}).
		Where("topic_id = ? AND is_best_answer = ?", topicID, true).
		Count(&count).Error)
	return count
}

func TestMarkBestAnswer(t *testing.T) {
	svc, db, topicRepo, _ := setupBestAnswerService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "问答", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "提问")

	base := time.Now().Add(-time.Hour)
	first := seedPost(t, db, topic.ID, 200, 0, "答案一", base)
	second := seedPost(t, db, topic.ID, 201, 0, "答案二", base.Add(time.Minute))

	t.Run("topic author marks", func(t *testing.T) {
		require.NoError(t, svc.Mark(ctx, 1, 100, nil, first.ID))

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.BestAnswerID)
		assert.Equal(t, int64(1), countBestAnswers(t, db, topic.ID))
	})

	t.Run("re-mark swaps atomically", func(t *testing.T) {
		require.NoError(t, svc.Mark(ctx, 1, 100, nil, second.ID))

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.BestAnswerID)
		// 任意时刻至多一条带标记
		assert.Equal(t, int64(1), countBestAnswers(t, db, topic.ID))

		var old model.Post
		require.NoError(t, db.First(&old, first.ID).Error)
		assert.False(t, old.IsBestAnswer)
	})

	t.Run("marking current is a no-op", func(t *testing.T) {
		before, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)

		require.NoError(t, svc.Mark(ctx, 1, 100, nil, second.ID))

		after, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, before.StructVersion, after.StructVersion)
	})

	t.Run("stranger rejected", func(t *testing.T) {
		err := svc.Mark(ctx, 1, 999, nil, first.ID)
		assert.ErrorIs(t, err, UnauthorizedError)
	})

	t.Run("admin allowed", func(t *testing.T) {
		assert.NoError(t, svc.Mark(ctx, 1, 999, []string{"ADMIN"}, first.ID))
	})
}

func TestBestAnswerInterleavedMarks(t *testing.T) {
	svc, db, topicRepo, _ := setupBestAnswerService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "问答", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "提问")

	base := time.Now().Add(-time.Hour)
	first := seedPost(t, db, topic.ID, 200, 0, "答案一", base)
	second := seedPost(t, db, topic.ID, 201, 0, "答案二", base.Add(time.Minute))

	t.Run("late marker overrides without leaving stale flags", func(t *testing.T) {
		// 两次标记都基于未标记时的快照，交错提交后仍只剩一条标记
		require.NoError(t, topicRepo.SetBestAnswer(ctx, topic.ID, first.ID))
		require.NoError(t, topicRepo.SetBestAnswer(ctx, topic.ID, second.ID))

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.BestAnswerID)
		assert.Equal(t, int64(1), countBestAnswers(t, db, topic.ID))
	})

	t.Run("stale unmark leaves current answer intact", func(t *testing.T) {
		err := topicRepo.ClearBestAnswer(ctx, topic.ID, first.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Equal(t, int64(1), countBestAnswers(t, db, topic.ID))
	})

	t.Run("service maps stale unmark", func(t *testing.T) {
		err := svc.Unmark(ctx, 1, 100, nil, first.ID)
		assert.ErrorIs(t, err, ErrNotBestAnswer)
	})
}

func TestMarkTombstonedPost(t *testing.T) {
	svc, db, _, postRepo := setupBestAnswerService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "问答", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "提问")
	post := seedPost(t, db, topic.ID, 200, 0, "被删除的答案", time.Now())
	require.NoError(t, postRepo.DeletePost(ctx, post.ID, topic.ID))

	err := svc.Mark(ctx, 1, 100, nil, post.ID)
	assert.ErrorIs(t, err, ErrBestAnswerDeleted)
}

func TestUnmarkBestAnswer(t *testing.T) {
	svc, db, topicRepo, _ := setupBestAnswerService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "问答", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "提问")

	base := time.Now().Add(-time.Hour)
	best := seedPost(t, db, topic.ID, 200, 0, "最佳答案", base)
	other := seedPost(t, db, topic.ID, 201, 0, "普通答案", base.Add(time.Minute))
	require.NoError(t, svc.Mark(ctx, 1, 100, nil, best.ID))

	t.Run("unmark non-current rejected", func(t *testing.T) {
		err := svc.Unmark(ctx, 1, 100, nil, other.ID)
		assert.ErrorIs(t, err, ErrNotBestAnswer)
	})

	t.Run("unmark current clears both sides", func(t *testing.T) {
		require.NoError(t, svc.Unmark(ctx, 1, 100, nil, best.ID))

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), got.BestAnswerID)
		assert.Equal(t, int64(0), countBestAnswers(t, db, topic.ID))
	})

	t.Run("unmark again rejected", func(t *testing.T) {
		err := svc.Unmark(ctx, 1, 100, nil, best.ID)
		assert.ErrorIs(t, err, ErrNotBestAnswer)
	})
}

func TestBestAnswerCrossOrg(t *testing.T) {
	svc, db, _, _ := setupBestAnswerService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "问答", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "提问")
	post := seedPost(t, db, topic.ID, 200, 0, "答案", time.Now())

	err := svc.Mark(ctx, 2, 100, nil, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
