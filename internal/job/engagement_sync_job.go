package job

import (
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/logger"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/util"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const countCacheExpiration = 7 * 24 * time.Hour

// EngagementSyncJob 交互计数对账：以点赞/浏览/回帖源表为准
// 重算脏目标的计数列并刷新缓存，缓存增减漂移由此自愈
type EngagementSyncJob struct {
	topicRepo      repository.TopicRepo
	postRepo       repository.PostRepo
	engagementRepo repository.EngagementRepo
}

func NewEngagementSyncJob(
	topicRepo repository.TopicRepo,
	postRepo repository.PostRepo,
	engagementRepo repository.EngagementRepo,
) *EngagementSyncJob {
	return &EngagementSyncJob{
		topicRepo:      topicRepo,
		postRepo:       postRepo,
		engagementRepo: engagementRepo,
	}
}

func (s *EngagementSyncJob) Run() {
	traceID := "job-engagement-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署下同一轮对账只跑一份
	locked, err := redis.TryLock(ctx, consts.EngagementSyncLockKey, traceID, 4*time.Minute, 1)
	if err != nil || !locked {
		log.InfoContext(ctx, "engagement sync skipped, another instance holds the lock")
		return
	}

	topicCount := s.syncTopics(ctx)
	postCount := s.syncPosts(ctx)

	log.InfoContext(ctx, "sync engagement counts success",
		"topic_count", topicCount,
		"post_count", postCount)
}

func (s *EngagementSyncJob) syncTopics(ctx context.Context) int {
	ids := s.drainDirtySet(ctx, consts.TopicDirtyKey)

	for _, id := range ids {
		likes, err := s.engagementRepo.CountLikesByTarget(ctx, consts.TargetTypeTopic, id)
		if err != nil {
			log.ErrorContext(ctx, "recount topic likes error", "id", id, "err", err)
			continue
		}
		views, err := s.engagementRepo.CountViewsByTarget(ctx, consts.TargetTypeTopic, id)
		if err != nil {
			log.ErrorContext(ctx, "recount topic views error", "id", id, "err", err)
			continue
		}
		posts, err := s.postRepo.CountLivePosts(ctx, id)
		if err != nil {
			log.ErrorContext(ctx, "recount topic posts error", "id", id, "err", err)
			continue
		}

		err = s.topicRepo.UpdateCounts(ctx, id, map[string]interface{}{
			"likes_count": likes,
			"views_count": views,
			"posts_count": posts,
		})
		if err != nil {
			log.ErrorContext(ctx, "update topic counts error", "id", id, "err", err)
			continue
		}

		idStr := strconv.FormatUint(id, 10)
		_ = redis.SetWithExpiration(ctx, consts.TopicLikeKey+idStr, likes, countCacheExpiration)
		_ = redis.SetWithExpiration(ctx, consts.TopicViewKey+idStr, views, countCacheExpiration)
		_ = redis.SetWithExpiration(ctx, consts.TopicPostKey+idStr, posts, countCacheExpiration)
	}
	return len(ids)
}

func (s *EngagementSyncJob) syncPosts(ctx context.Context) int {
	ids := s.drainDirtySet(ctx, consts.PostDirtyKey)

	for _, id := range ids {
		likes, err := s.engagementRepo.CountLikesByTarget(ctx, consts.TargetTypePost, id)
		if err != nil {
			log.ErrorContext(ctx, "recount post likes error", "id", id, "err", err)
			continue
		}

		if err = s.postRepo.UpdateLikesCount(ctx, id, likes); err != nil {
			log.ErrorContext(ctx, "update post likes error", "id", id, "err", err)
			continue
		}

		idStr := strconv.FormatUint(id, 10)
		_ = redis.SetWithExpiration(ctx, consts.PostLikeKey+idStr, likes, countCacheExpiration)
	}
	return len(ids)
}

// drainDirtySet RENAME 保证消费期间的新脏标记落在下一轮
func (s *EngagementSyncJob) drainDirtySet(ctx context.Context, dirtyKey string) []uint64 {
	processingKey := dirtyKey + ":processing"
	if err := redis.Rename(ctx, dirtyKey, processingKey); err != nil {
		return nil
	}

	members, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get dirty set error", "key", dirtyKey, "err", err)
		return nil
	}

	ids, err := util.StrSliceToUInt64Slice(members)
	if err != nil {
		log.ErrorContext(ctx, "convert dirty set error", "key", dirtyKey, "err", err)
		return nil
	}

	if err = redis.DeleteKey(ctx, processingKey); err != nil {
		log.ErrorContext(ctx, "delete processing set error", "key", dirtyKey, "err", err)
	}
	return ids
}
