package service

import (
	"Agora/internal/api/config"
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/redis"
	"Agora/internal/repository"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const cacheExpiration = 7 * 24 * time.Hour

type EngagementService interface {
	ToggleLike(ctx context.Context, orgID, actorID uint64, targetType int8, targetID uint64) (*dto.LikeToggleDTO, error)
	RecordView(ctx context.Context, orgID uint64, actorKey string, targetType int8, targetID uint64) (*dto.ViewReportDTO, error)
	GetLikesCount(ctx context.Context, targetType int8, targetID uint64) (int64, error)
	GetViewsCount(ctx context.Context, targetType int8, targetID uint64) (int64, error)
	GetBatchLikes(ctx context.Context, targetType int8, targetIDs []uint64) (map[uint64]int64, error)
	GetLikedTargets(ctx context.Context, actorID uint64, targetType int8, targetIDs []uint64) ([]uint64, error)
	IsLiked(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (bool, error)
	GetEngagementState(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (*dto.EngagementStateDTO, error)
}

type engagementServiceImpl struct {
	engagementRepo repository.EngagementRepo
	topicRepo      repository.TopicRepo
	postRepo       repository.PostRepo
}

func NewEngagementService(
	engagementRepo repository.EngagementRepo,
	topicRepo repository.TopicRepo,
	postRepo repository.PostRepo,
) EngagementService {
	return &engagementServiceImpl{
		engagementRepo: engagementRepo,
		topicRepo:      topicRepo,
		postRepo:       postRepo,
	}
}

// ToggleLike 点赞开关：先尝试写入，唯一键冲突说明已点过，转为取消。
// 计数列在仓储层事务内同步增减，缓存与脏集合尽力而为
func (s *engagementServiceImpl) ToggleLike(ctx context.Context, orgID, actorID uint64, targetType int8, targetID uint64) (*dto.LikeToggleDTO, error) {
	if err := s.checkTarget(ctx, orgID, targetType, targetID); err != nil {
		return nil, err
	}

	liked := true
	err := s.engagementRepo.InsertLike(ctx, &model.Like{
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		if !isDuplicateError(err) {
			return nil, err
		}
		if err := s.engagementRepo.DeleteLike(ctx, actorID, targetType, targetID); err != nil {
			// 点赞行已被并发的取消请求删掉
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrActionDuplicate
			}
			return nil, err
		}
		liked = false
	}

	key := likeCountKey(targetType, targetID)
	if liked {
		_ = redis.Incr(ctx, key)
	} else {
		_ = redis.Decr(ctx, key)
	}
	s.markDirty(ctx, targetType, targetID)

	count, err := s.engagementRepo.CountLikesByTarget(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	_ = redis.SetWithExpiration(ctx, key, count, cacheExpiration)

	return &dto.LikeToggleDTO{Liked: liked, LikesCount: count}, nil
}

// RecordView 浏览去重窗口内只记一次，窗口由 SETNX 过期时间实现
func (s *engagementServiceImpl) RecordView(ctx context.Context, orgID uint64, actorKey string, targetType int8, targetID uint64) (*dto.ViewReportDTO, error) {
	if err := s.checkTarget(ctx, orgID, targetType, targetID); err != nil {
		return nil, err
	}

	window := time.Duration(config.Cfg.Engagement.ViewWindowMinutes) * time.Minute
	dedupKey := consts.ViewDedupKey + actorKey + ":" + strconv.Itoa(int(targetType)) + ":" + strconv.FormatUint(targetID, 10)
	first, err := redis.SetNX(ctx, dedupKey, "1", window)
	if err != nil {
		return nil, err
	}

	if first {
		if err := s.engagementRepo.InsertView(ctx, &model.ViewRecord{
			ActorKey:   actorKey,
			TargetType: targetType,
			TargetID:   targetID,
			ViewedAt:   time.Now(),
		}); err != nil {
			// 记录没落库就释放窗口，避免这次浏览在整个窗口期内丢失
			_ = redis.DeleteKey(ctx, dedupKey)
			return nil, err
		}
		_ = redis.Incr(ctx, viewCountKey(targetType, targetID))
		s.markDirty(ctx, targetType, targetID)
	}

	count, err := s.GetViewsCount(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	return &dto.ViewReportDTO{Counted: first, ViewsCount: count}, nil
}

func (s *engagementServiceImpl) GetLikesCount(ctx context.Context, targetType int8, targetID uint64) (int64, error) {
	key := likeCountKey(targetType, targetID)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.engagementRepo.CountLikesByTarget(ctx, targetType, targetID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

func (s *engagementServiceImpl) GetViewsCount(ctx context.Context, targetType int8, targetID uint64) (int64, error) {
	key := viewCountKey(targetType, targetID)
	count, err := redis.GetInt64(ctx, key)
	if err == nil {
		return count, nil
	}
	realCount, err := s.engagementRepo.CountViewsByTarget(ctx, targetType, targetID)
	if err != nil {
		return 0, err
	}
	_ = redis.SetWithExpiration(ctx, key, realCount, cacheExpiration)
	return realCount, nil
}

// GetBatchLikes 批量读取点赞数，缓存未命中的逐个回源
func (s *engagementServiceImpl) GetBatchLikes(ctx context.Context, targetType int8, targetIDs []uint64) (map[uint64]int64, error) {
	result := make(map[uint64]int64, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}

	keys := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		keys[i] = likeCountKey(targetType, id)
	}
	cached, _ := redis.MGetValue(ctx, keys...)

	for i, id := range targetIDs {
		if cached != nil && i < len(cached) && cached[i] != nil {
			if str, ok := cached[i].(string); ok {
				if v, err := strconv.ParseInt(str, 10, 64); err == nil {
					result[id] = v
					continue
				}
			}
		}
		count, err := s.GetLikesCount(ctx, targetType, id)
		if err != nil {
			return nil, err
		}
		result[id] = count
	}
	return result, nil
}

// GetLikedTargets 过滤出 actor 点赞过的目标，匿名访问返回空
func (s *engagementServiceImpl) GetLikedTargets(ctx context.Context, actorID uint64, targetType int8, targetIDs []uint64) ([]uint64, error) {
	if actorID == 0 || len(targetIDs) == 0 {
		return []uint64{}, nil
	}
	return s.engagementRepo.GetLikedTargetIDs(ctx, actorID, targetType, targetIDs)
}

func (s *engagementServiceImpl) IsLiked(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	return s.engagementRepo.CheckLikeExists(ctx, actorID, targetType, targetID)
}

// GetEngagementState 详情页交互状态，三路并发读取
func (s *engagementServiceImpl) GetEngagementState(ctx context.Context, actorID uint64, targetType int8, targetID uint64) (*dto.EngagementStateDTO, error) {
	state := &dto.EngagementStateDTO{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.GetLikesCount(gCtx, targetType, targetID)
		state.LikesCount = count
		return err
	})
	g.Go(func() error {
		count, err := s.GetViewsCount(gCtx, targetType, targetID)
		state.ViewsCount = count
		return err
	})
	g.Go(func() error {
		liked, err := s.IsLiked(gCtx, actorID, targetType, targetID)
		state.IsLiked = liked
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if targetType == consts.TargetTypeTopic {
		key := consts.TopicPostKey + strconv.FormatUint(targetID, 10)
		if count, err := redis.GetInt64(ctx, key); err == nil {
			state.PostsCount = count
		} else if topic, err := s.topicRepo.GetTopic(ctx, targetID); err == nil && topic != nil {
			state.PostsCount = topic.PostsCount
			_ = redis.SetWithExpiration(ctx, key, topic.PostsCount, cacheExpiration)
		}
	}
	return state, nil
}

// checkTarget 校验目标存在且可交互，锁定主题是否可交互由配置决定
func (s *engagementServiceImpl) checkTarget(ctx context.Context, orgID uint64, targetType int8, targetID uint64) error {
	var topic *model.Topic

	switch targetType {
	case consts.TargetTypeTopic:
		t, err := s.topicRepo.GetTopic(ctx, targetID)
		if err != nil || t == nil || t.OrgID != orgID {
			return ErrTopicNotFound
		}
		if t.IsDeleted {
			return ErrTopicDeleted
		}
		topic = t
	case consts.TargetTypePost:
		post, err := s.postRepo.GetPost(ctx, targetID)
		if err != nil || post == nil {
			return ErrPostNotFound
		}
		if post.IsDeleted {
			return ErrPostDeleted
		}
		t, err := s.topicRepo.GetTopic(ctx, post.TopicID)
		if err != nil || t == nil || t.OrgID != orgID {
			return ErrPostNotFound
		}
		if t.IsDeleted {
			return ErrTopicDeleted
		}
		topic = t
	default:
		return ErrParamInvalid
	}

	if topic.IsLocked && !config.Cfg.Engagement.AllowWhenLocked {
		return ErrTopicLocked
	}
	return nil
}

func (s *engagementServiceImpl) markDirty(ctx context.Context, targetType int8, targetID uint64) {
	key := consts.PostDirtyKey
	if targetType == consts.TargetTypeTopic {
		key = consts.TopicDirtyKey
	}
	_ = redis.SAdd(ctx, key, strconv.FormatUint(targetID, 10))
}

func likeCountKey(targetType int8, targetID uint64) string {
	if targetType == consts.TargetTypeTopic {
		return consts.TopicLikeKey + strconv.FormatUint(targetID, 10)
	}
	return consts.PostLikeKey + strconv.FormatUint(targetID, 10)
}

func viewCountKey(targetType int8, targetID uint64) string {
	if targetType == consts.TargetTypeTopic {
		return consts.TopicViewKey + strconv.FormatUint(targetID, 10)
	}
	return consts.PostViewKey + strconv.FormatUint(targetID, 10)
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
