package service

import (
	"Agora/internal/api/dto"
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

func setupPostService(t *testing.T) (PostService, *gorm.DB, repository.TopicRepo) {
	db := setupTestDB(t)
	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	return NewPostService(postRepo, topicRepo), db, topicRepo
}

func TestCreatePost(t *testing.T) {
	svc, db, topicRepo := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")

	t.Run("top level post", func(t *testing.T) {
		post, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
			TopicID: topic.ID,
			Content: "一楼",
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(0), post.ParentID)

		// 主题回帖计数同步增加
		got, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.PostsCount)
		assert.Equal(t, topic.StructVersion+1, got.StructVersion)
	})

	t.Run("nested reply", func(t *testing.T) {
		parent, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
			TopicID: topic.ID,
			Content: "父回帖",
		})
		require.NoError(t, err)

		reply, err := svc.CreatePost(ctx, 1, 201, &dto.PostCreateDTO{
			TopicID:  topic.ID,
			ParentID: parent.ID,
			Content:  "子回复",
		})
		require.NoError(t, err)
		assert.Equal(t, parent.ID, reply.ParentID)
	})

	t.Run("parent from another topic rejected", func(t *testing.T) {
		other := seedTopic(t, db, 1, category.ID, 100, "另一个主题")
		foreign := seedPost(t, db, other.ID, 100, 0, "别处的回帖", time.Now())

		_, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
			TopicID:  topic.ID,
			ParentID: foreign.ID,
			Content:  "挂错地方",
		})
		assert.ErrorIs(t, err, ErrParentMismatch)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
			TopicID:  topic.ID,
			ParentID: 999999,
			Content:  "幽灵父节点",
		})
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestCreatePostOnLockedTopic(t *testing.T) {
	svc, db, topicRepo := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "锁定主题")
	require.NoError(t, topicRepo.SetLocked(ctx, topic.ID, true))

	_, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
		TopicID: topic.ID,
		Content: "锁定后不可回帖",
	})
	assert.ErrorIs(t, err, ErrTopicLocked)
}

func TestReplyToTombstonedParent(t *testing.T) {
	svc, db, _ := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")

	parent, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
		TopicID: topic.ID,
		Content: "将被删除的父回帖",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeletePost(ctx, 1, 200, nil, parent.ID))

	// 墓碑父节点仍可挂接新回复，结构保持完整
	reply, err := svc.CreatePost(ctx, 1, 201, &dto.PostCreateDTO{
		TopicID:  topic.ID,
		ParentID: parent.ID,
		Content:  "回复墓碑",
	})
	require.NoError(t, err)
	assert.Equal(t, parent.ID, reply.ParentID)
}

func TestDeletePostTombstone(t *testing.T) {
	svc, db, topicRepo := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")

	post, err := svc.CreatePost(ctx, 1, 200, &dto.PostCreateDTO{
		TopicID:       topic.ID,
		Content:       "原始内容",
		AttachmentIDs: []string{"att-1"},
	})
	require.NoError(t, err)

	before, err := topicRepo.GetTopic(ctx, topic.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, 1, 200, nil, post.ID))

	t.Run("content masked", func(t *testing.T) {
		got, err := svc.GetPost(ctx, 1, post.ID)
		require.NoError(t, err)
		assert.True(t, got.IsDeleted)
		assert.Equal(t, consts.TombstoneContent, got.Content)
		assert.Nil(t, got.AttachmentIDs)
	})

	t.Run("row retained", func(t *testing.T) {
		var raw model.Post
		require.NoError(t, db.First(&raw, post.ID).Error)
		assert.Equal(t, "原始内容", raw.Content)
	})

	t.Run("posts count untouched until reconcile", func(t *testing.T) {
		after, err := topicRepo.GetTopic(ctx, topic.ID)
		require.NoError(t, err)
		assert.Equal(t, before.PostsCount, after.PostsCount)
		assert.Equal(t, before.StructVersion+1, after.StructVersion)
	})

	t.Run("double delete rejected", func(t *testing.T) {
		err := svc.DeletePost(ctx, 1, 200, nil, post.ID)
		assert.ErrorIs(t, err, ErrPostDeleted)
	})
}

func TestListTopLevelPosts(t *testing.T) {
	svc, db, _ := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")

	base := time.Now().Add(-time.Hour)
	first := seedPost(t, db, topic.ID, 200, 0, "一楼", base)
	second := seedPost(t, db, topic.ID, 201, 0, "二楼", base.Add(time.Minute))
	seedPost(t, db, topic.ID, 202, first.ID, "一楼的回复", base.Add(2*time.Minute))

	page, err := svc.ListTopLevelPosts(ctx, 1, topic.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	list, ok := page.List.([]*dto.PostDTO)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestPostOrgIsolation(t *testing.T) {
	svc, db, _ := setupPostService(t)
	ctx := context.Background()

	category := seedCategory(t, db, 1, "综合讨论", true)
	topic := seedTopic(t, db, 1, category.ID, 100, "主题")
	post := seedPost(t, db, topic.ID, 200, 0, "内部回帖", time.Now())

	_, err := svc.GetPost(ctx, 2, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
