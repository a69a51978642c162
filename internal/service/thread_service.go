package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/redis"
	"Agora/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

const threadCacheExpiration = 10 * time.Minute

type ThreadService interface {
	GetThread(ctx context.Context, orgID, topicID uint64) (*dto.ThreadDTO, error)
	GetThreadPage(ctx context.Context, orgID, topicID uint64, page, pageSize int) (*dto.ThreadDTO, error)
}

type threadServiceImpl struct {
	topicRepo repository.TopicRepo
	postRepo  repository.PostRepo
}

func NewThreadService(topicRepo repository.TopicRepo, postRepo repository.PostRepo) ThreadService {
	return &threadServiceImpl{
		topicRepo: topicRepo,
		postRepo:  postRepo,
	}
}

// GetThread 组装完整话题树，结果按结构版本缓存，
// 任何结构变更都会改变版本号使旧缓存自然失效
func (s *threadServiceImpl) GetThread(ctx context.Context, orgID, topicID uint64) (*dto.ThreadDTO, error) {
	topic, err := s.getLiveTopic(ctx, orgID, topicID)
	if err != nil {
		return nil, err
	}

	cacheKey := consts.ThreadTreeKey + strconv.FormatUint(topicID, 10) + ":" + strconv.FormatInt(topic.StructVersion, 10)
	if cached, err := redis.GetValue(ctx, cacheKey); err == nil && cached != "" {
		var thread dto.ThreadDTO
		if err := json.Unmarshal([]byte(cached), &thread); err == nil {
			return &thread, nil
		}
	}

	posts, err := s.postRepo.GetPostsByTopicID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	topLevel, index := s.assemble(ctx, topicID, posts)

	thread := &dto.ThreadDTO{
		Topic: convertToTopicDTO(topic),
		Posts: topLevel,
		Total: int64(len(posts)),
	}
	if topic.BestAnswerID != 0 {
		if node, ok := index[topic.BestAnswerID]; ok {
			thread.BestAnswer = node
		}
	}

	if data, err := json.Marshal(thread); err == nil {
		_ = redis.SetWithExpiration(ctx, cacheKey, string(data), threadCacheExpiration)
	}
	return thread, nil
}

// GetThreadPage 分页返回一级回帖，每个一级节点仍携带完整的下级回复
func (s *threadServiceImpl) GetThreadPage(ctx context.Context, orgID, topicID uint64, page, pageSize int) (*dto.ThreadDTO, error) {
	topic, err := s.getLiveTopic(ctx, orgID, topicID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.GetPostsByTopicID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	topLevel, index := s.assemble(ctx, topicID, posts)

	total := int64(len(topLevel))
	start := (page - 1) * pageSize
	if start > len(topLevel) {
		start = len(topLevel)
	}
	end := start + pageSize
	if end > len(topLevel) {
		end = len(topLevel)
	}

	thread := &dto.ThreadDTO{
		Topic:    convertToTopicDTO(topic),
		Posts:    topLevel[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	if topic.BestAnswerID != 0 {
		if node, ok := index[topic.BestAnswerID]; ok {
			thread.BestAnswer = node
		}
	}
	return thread, nil
}

// assemble 两遍构建：先索引全部节点，再按时间序挂接，
// 挂接顺序与插入顺序无关，结果只由 created_at 决定
func (s *threadServiceImpl) assemble(ctx context.Context, topicID uint64, posts []*model.Post) ([]*dto.ThreadNodeDTO, map[uint64]*dto.ThreadNodeDTO) {
	index := make(map[uint64]*dto.ThreadNodeDTO, len(posts))
	for _, p := range posts {
		index[p.ID] = convertToThreadNode(p)
	}

	topLevel := make([]*dto.ThreadNodeDTO, 0)
	for _, p := range posts {
		node := index[p.ID]
		if p.ParentID == 0 {
			topLevel = append(topLevel, node)
			continue
		}
		parent, ok := index[p.ParentID]
		if !ok {
			// 父节点缺失属于数据异常，节点提升为一级保证可达
			log.WarnContext(ctx, "thread integrity anomaly",
				"topic_id", topicID, "post_id", p.ID, "parent_id", p.ParentID)
			topLevel = append(topLevel, node)
			continue
		}
		parent.Replies = append(parent.Replies, node)
	}
	return topLevel, index
}

func (s *threadServiceImpl) getLiveTopic(ctx context.Context, orgID, topicID uint64) (*model.Topic, error) {
	topic, err := s.topicRepo.GetTopic(ctx, topicID)
	if err != nil || topic == nil {
		return nil, ErrTopicNotFound
	}
	if topic.OrgID != orgID {
		return nil, ErrTopicNotFound
	}
	if topic.IsDeleted {
		return nil, ErrTopicDeleted
	}
	return topic, nil
}

func convertToThreadNode(post *model.Post) *dto.ThreadNodeDTO {
	node := &dto.ThreadNodeDTO{}
	_ = copier.Copy(node, post)
	if post.IsDeleted {
		node.Content = consts.TombstoneContent
		node.AttachmentIDs = nil
	}
	node.CreatedAt = post.CreatedAt.Format("2006-01-02 15:04:05")
	node.Replies = make([]*dto.ThreadNodeDTO, 0)
	return node
}
