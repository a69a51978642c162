package service

import (
	"Agora/internal/api/config"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupEngagementService(t *testing.T) (EngagementService, *gorm.DB, repository.TopicRepo) {
	db := setupTestDB(t)
	setupTestRedis(t)
	setupTestConfig(t)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	engagementRepo := repository.NewEngagementRepo(db)
	return NewEngagementService(engagementRepo, topicRepo, postRepo), db, topicRepo
}

func TestToggleLike(t *testing.T) {
	svc, db, topicRepo := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "点赞目标")

	t.Run("first toggle likes", func(t *testing.T) {
		result, err := svc.ToggleLike(ctx, 1, 200, consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.True(t, result.Liked)
		assert.Equal(t, int64(1), result.LikesCount)

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.LikesCount)
	})

	t.Run("second toggle unlikes and restores", func(t *testing.T) {
		result, err := svc.ToggleLike(ctx, 1, 200, consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.False(t, result.Liked)
		assert.Equal(t, int64(0), result.LikesCount)

		var rows int64
		require.NoError(t, db.Model(&model.Like{}).
			Where("actor_id = ? AND target_id = ?", 200, topic.ID).
			Count(&rows).Error)
		assert.Equal(t, int64(0), rows)

		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.LikesCount)
	})

	t.Run("count equals liker population", func(t *testing.T) {
		for _, actor := range []uint64{201, 202, 203} {
			_, err := svc.ToggleLike(ctx, 1, actor, consts.TargetTypeTopic, topic.ID)
			require.NoError(t, err)
		}
		count, err := svc.GetLikesCount(ctx, consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("unlike already removed row reported", func(t *testing.T) {
		// 并发取消时行已不在，删除应显式上报而非静默成功
		repo := repository.NewEngagementRepo(db)
		err := repo.DeleteLike(ctx, 999, consts.TargetTypeTopic, topic.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestToggleLikeOnPost(t *testing.T) {
	svc, db, _ := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")
	post := seedPost(t, db, topic.ID, 200, 0, "回帖", time.Now())

	result, err := svc.ToggleLike(ctx, 1, 201, consts.TargetTypePost, post.ID)
	require.NoError(t, err)
	assert.True(t, result.Liked)

	var raw model.Post
	require.NoError(t, db.First(&raw, post.ID).Error)
	assert.Equal(t, int64(1), raw.LikesCount)

	t.Run("tombstoned post rejected", func(t *testing.T) {
		require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).Update("is_deleted", true).Error)
		_, err := svc.ToggleLike(ctx, 1, 202, consts.TargetTypePost, post.ID)
		assert.ErrorIs(t, err, ErrPostDeleted)
	})
}

func TestEngagementOnLockedTopic(t *testing.T) {
	svc, db, topicRepo := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "锁定主题")
	require.NoError(t, topicRepo.SetLocked(ctx, topic.ID, true))

	t.Run("allowed by default policy", func(t *testing.T) {
		config.Cfg.Engagement.AllowWhenLocked = true
		_, err := svc.ToggleLike(ctx, 1, 200, consts.TargetTypeTopic, topic.ID)
		assert.NoError(t, err)
	})

	t.Run("rejected when policy forbids", func(t *testing.T) {
		config.Cfg.Engagement.AllowWhenLocked = false
		defer func() { config.Cfg.Engagement.AllowWhenLocked = true }()
		_, err := svc.ToggleLike(ctx, 1, 201, consts.TargetTypeTopic, topic.ID)
		assert.ErrorIs(t, err, ErrTopicLocked)
	})
}

func TestRecordViewDedup(t *testing.T) {
	svc, db, topicRepo := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "浏览目标")

	t.Run("first view counted", func(t *testing.T) {
		result, err := svc.RecordView(ctx, 1, "u:200", consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.True(t, result.Counted)
		assert.Equal(t, int64(1), result.ViewsCount)
	})

	t.Run("repeat within window not counted", func(t *testing.T) {
		result, err := svc.RecordView(ctx, 1, "u:200", consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.False(t, result.Counted)
		assert.Equal(t, int64(1), result.ViewsCount)
	})

	t.Run("another visitor counted", func(t *testing.T) {
		result, err := svc.RecordView(ctx, 1, "s:visitor-uuid", consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.True(t, result.Counted)
		assert.Equal(t, int64(2), result.ViewsCount)
	})

	t.Run("topic views column synced", func(t *testing.T) {
		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ViewsCount)
	})

	t.Run("failed insert releases dedup window", func(t *testing.T) {
		require.NoError(t, db.Migrator().DropTable(&model.ViewRecord{}))
		_, err := svc.RecordView(ctx, 1, "u:300", consts.TargetTypeTopic, topic.ID)
		require.Error(t, err)

		// 窗口被释放，落库恢复后同一访问者的浏览不会丢
		require.NoError(t, db.AutoMigrate(&model.ViewRecord{}))
		result, err := svc.RecordView(ctx, 1, "u:300", consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.True(t, result.Counted)
	})
}

func TestGetEngagementState(t *testing.T) {
	svc, db, _ := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "状态目标")
	seedPost(t, db, topic.ID, 200, 0, "回帖", time.Now())
	require.NoError(t, db.Model(&model.Topic{}).Where("id = ?", topic.ID).Update("posts_count", 1).Error)

	_, err := svc.ToggleLike(ctx, 1, 300, consts.TargetTypeTopic, topic.ID)
	require.NoError(t, err)
	_, err = svc.RecordView(ctx, 1, "u:300", consts.TargetTypeTopic, topic.ID)
	require.NoError(t, err)

	t.Run("liker sees own state", func(t *testing.T) {
		state, err := svc.GetEngagementState(ctx, 300, consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.True(t, state.IsLiked)
		assert.Equal(t, int64(1), state.LikesCount)
		assert.Equal(t, int64(1), state.ViewsCount)
		assert.Equal(t, int64(1), state.PostsCount)
	})

	t.Run("anonymous never liked", func(t *testing.T) {
		state, err := svc.GetEngagementState(ctx, 0, consts.TargetTypeTopic, topic.ID)
		require.NoError(t, err)
		assert.False(t, state.IsLiked)
	})
}

func TestGetBatchLikes(t *testing.T) {
	svc, db, _ := setupEngagementService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	liked := seedTopic(t, db, 1, category.ID, 100, "有人点赞")
	quiet := seedTopic(t, db, 1, category.ID, 100, "无人问津")

	_, err := svc.ToggleLike(ctx, 1, 200, consts.TargetTypeTopic, liked.ID)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, 1, 201, consts.TargetTypeTopic, liked.ID)
	require.NoError(t, err)

	likes, err := svc.GetBatchLikes(ctx, consts.TargetTypeTopic, []uint64{liked.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes[liked.ID])
	assert.Equal(t, int64(0), likes[quiet.ID])

	empty, err := svc.GetBatchLikes(ctx, consts.TargetTypeTopic, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	t.Run("liked targets filtered per actor", func(t *testing.T) {
		likedIDs, err := svc.GetLikedTargets(ctx, 200, consts.TargetTypeTopic, []uint64{liked.ID, quiet.ID})
		require.NoError(t, err)
		assert.Equal(t, []uint64{liked.ID}, likedIDs)

		anonymous, err := svc.GetLikedTargets(ctx, 0, consts.TargetTypeTopic, []uint64{liked.ID})
		require.NoError(t, err)
		assert.Empty(t, anonymous)
	})
}
