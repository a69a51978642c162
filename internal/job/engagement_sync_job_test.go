package job

import (
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	redisPkg "Agora/internal/pkg/redis"
	"Agora/internal/repository"
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupJob(t *testing.T) (*EngagementSyncJob, *gorm.DB, *miniredis.Miniredis) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.Topic{}, &model.Post{}, &model.Like{}, &model.ViewRecord{}))

	mr := miniredis.RunT(t)
	redisPkg.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	topicRepo := repository.NewTopicRepository(db)
	postRepo := repository.NewPostRepository(db)
	engagementRepo := repository.NewEngagementRepo(db)
	return NewEngagementSyncJob(topicRepo, postRepo, engagementRepo), db, mr
}

// 软删除回帖不即时回收 posts_count，对账任务按存活行重算
func TestSyncTopicsReconcilesCounts(t *testing.T) {
	syncJob, db, _ := setupJob(t)
	ctx := context.Background()

	topic := &model.Topic{OrgID: 1, CategoryID: 1, UserID: 100, Title: "对账", Content: "正文", StructVersion: 1, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, db.Create(topic).Error)

	postRepo := repository.NewPostRepository(db)
	var posts []*model.Post
	for i := 0; i < 3; i++ {
		p := &model.Post{TopicID: topic.ID, UserID: 200, Content: "回帖", CreatedAt: time.Now(), UpdatedAt: time.Now()}
		require.NoError(t, postRepo.CreatePost(ctx, p))
		posts = append(posts, p)
	}
	require.NoError(t, postRepo.DeletePost(ctx, posts[0].ID, topic.ID))

	// 删除后计数列仍是 3，存在漂移
	var stale model.Topic
	require.NoError(t, db.First(&stale, topic.ID).Error)
	require.Equal(t, int64(3), stale.PostsCount)

	// 伪造一次缓存漂移
	likeKey := consts.TopicLikeKey + strconv.FormatUint(topic.ID, 10)
	require.NoError(t, redisPkg.SetWithExpiration(ctx, likeKey, 42, time.Hour))

	require.NoError(t, db.Create(&model.Like{ActorID: 300, TargetType: consts.TargetTypeTopic, TargetID: topic.ID, CreatedAt: time.Now()}).Error)
	require.NoError(t, redisPkg.SAdd(ctx, consts.TopicDirtyKey, strconv.FormatUint(topic.ID, 10)))

	syncJob.Run()

	var fixed model.Topic
	require.NoError(t, db.First(&fixed, topic.ID).Error)
	assert.Equal(t, int64(2), fixed.PostsCount)
	assert.Equal(t, int64(1), fixed.LikesCount)

	cached, err := redisPkg.GetInt64(ctx, likeKey)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached)

	// 脏集合已被清空
	members, err := redisPkg.GetSet(ctx, consts.TopicDirtyKey)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestSyncPostsReconcilesLikes(t *testing.T) {
	syncJob, db, _ := setupJob(t)
	ctx := context.Background()

	topic := &model.Topic{OrgID: 1, CategoryID: 1, UserID: 100, Title: "对账", Content: "正文", StructVersion: 1, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, db.Create(topic).Error)
	post := &model.Post{TopicID: topic.ID, UserID: 200, Content: "回帖", LikesCount: 99, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, db.Create(post).Error)

	require.NoError(t, db.Create(&model.Like{ActorID: 300, TargetType: consts.TargetTypePost, TargetID: post.ID, CreatedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&model.Like{ActorID: 301, TargetType: consts.TargetTypePost, TargetID: post.ID, CreatedAt: time.Now()}).Error)
	require.NoError(t, redisPkg.SAdd(ctx, consts.PostDirtyKey, strconv.FormatUint(post.ID, 10)))

	syncJob.Run()

	var fixed model.Post
	require.NoError(t, db.First(&fixed, post.ID).Error)
	assert.Equal(t, int64(2), fixed.LikesCount)
}

// 脏集合为空时对账什么也不做
func TestSyncWithEmptyDirtySet(t *testing.T) {
	syncJob, _, _ := setupJob(t)
	assert.NotPanics(t, func() { syncJob.Run() })
}
