package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/model"
	"Agora/internal/pkg/consts"
	"Agora/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type PostService interface {
	CreatePost(ctx context.Context, orgID, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error)
	GetPost(ctx context.Context, orgID, postID uint64) (*dto.PostDTO, error)
	UpdatePost(ctx context.Context, orgID, userID uint64, roles []string, postID uint64, req *dto.PostUpdateDTO) error
	DeletePost(ctx context.Context, orgID, userID uint64, roles []string, postID uint64) error
	ListTopLevelPosts(ctx context.Context, orgID, topicID uint64, page, pageSize int) (*dto.PageDTO, error)
	ListReplies(ctx context.Context, orgID, postID uint64, page, pageSize int) ([]*dto.PostDTO, error)
}

type postServiceImpl struct {
	postRepo  repository.PostRepo
	topicRepo repository.TopicRepo
}

func NewPostService(postRepo repository.PostRepo, topicRepo repository.TopicRepo) PostService {
	return &postServiceImpl{
		postRepo:  postRepo,
		topicRepo: topicRepo,
	}
}

func (s *postServiceImpl) CreatePost(ctx context.Context, orgID, userID uint64, req *dto.PostCreateDTO) (*dto.PostDTO, error) {
	topic, err := s.topicRepo.GetTopic(ctx, req.TopicID)
	if err != nil || topic == nil || topic.OrgID != orgID {
		return nil, ErrTopicNotFound
	}
	if topic.IsDeleted {
		return nil, ErrTopicDeleted
	}
	if topic.IsLocked {
		return nil, ErrTopicLocked
	}

	// 父节点允许是墓碑，结构保留；跨主题或不存在则拒绝
	if req.ParentID != 0 {
		parent, err := s.postRepo.GetPost(ctx, req.ParentID)
		if err != nil || parent == nil {
			return nil, ErrParentNotFound
		}
		if parent.TopicID != req.TopicID {
			return nil, ErrParentMismatch
		}
	}

	post := &model.Post{
		TopicID:       req.TopicID,
		UserID:        userID,
		ParentID:      req.ParentID,
		Content:       req.Content,
		AttachmentIDs: req.AttachmentIDs,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return convertToPostDTO(post), nil
}

func (s *postServiceImpl) GetPost(ctx context.Context, orgID, postID uint64) (*dto.PostDTO, error) {
	post, _, err := s.getPostInOrg(ctx, orgID, postID)
	if err != nil {
		return nil, err
	}
	return convertToPostDTO(post), nil
}

func (s *postServiceImpl) UpdatePost(ctx context.Context, orgID, userID uint64, roles []string, postID uint64, req *dto.PostUpdateDTO) error {
	post, _, err := s.getPostInOrg(ctx, orgID, postID)
	if err != nil {
		return err
	}
	if post.IsDeleted {
		return ErrPostDeleted
	}
	if post.UserID != userID && !isAdmin(roles) {
		return UnauthorizedError
	}
	return s.postRepo.UpdatePostContent(ctx, postID, req.Content, post.AttachmentIDs)
}

func (s *postServiceImpl) DeletePost(ctx context.Context, orgID, userID uint64, roles []string, postID uint64) error {
	post, _, err := s.getPostInOrg(ctx, orgID, postID)
	if err != nil {
		return err
	}
	if post.IsDeleted {
		return ErrPostDeleted
	}
	if post.UserID != userID && !isAdmin(roles) {
		return UnauthorizedError
	}
	return s.postRepo.DeletePost(ctx, postID, post.TopicID)
}

func (s *postServiceImpl) ListTopLevelPosts(ctx context.Context, orgID, topicID uint64, page, pageSize int) (*dto.PageDTO, error) {
	topic, err := s.topicRepo.GetTopic(ctx, topicID)
	if err != nil || topic == nil || topic.OrgID != orgID {
		return nil, ErrTopicNotFound
	}

	posts, total, err := s.postRepo.GetTopLevelPosts(ctx, topicID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		list = append(list, convertToPostDTO(p))
	}
	return &dto.PageDTO{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     list,
	}, nil
}

func (s *postServiceImpl) ListReplies(ctx context.Context, orgID, postID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	if _, _, err := s.getPostInOrg(ctx, orgID, postID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetRepliesByParentID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.PostDTO, 0, len(posts))
	for _, p := range posts {
		list = append(list, convertToPostDTO(p))
	}
	return list, nil
}

// getPostInOrg 取回帖并通过所属主题校验组织边界
func (s *postServiceImpl) getPostInOrg(ctx context.Context, orgID, postID uint64) (*model.Post, *model.Topic, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil || post == nil {
		return nil, nil, ErrPostNotFound
	}
	topic, err := s.topicRepo.GetTopic(ctx, post.TopicID)
	if err != nil || topic == nil || topic.OrgID != orgID {
		return nil, nil, ErrPostNotFound
	}
	return post, topic, nil
}

func convertToPostDTO(post *model.Post) *dto.PostDTO {
	item := &dto.PostDTO{}
	_ = copier.Copy(item, post)
	if post.IsDeleted {
		item.Content = consts.TombstoneContent
		item.AttachmentIDs = nil
	}
	item.CreatedAt = post.CreatedAt.Format("2006-01-02 15:04:05")
	item.UpdatedAt = post.UpdatedAt.Format("2006-01-02 15:04:05")
	return item
}
