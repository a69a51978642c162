package service

import (
	"Agora/internal/api/config"
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/es"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/util"
	"context"
	log "log/slog"
	"sort"
	"strings"
	"time"
)

type SearchService interface {
	Search(ctx context.Context, orgID uint64, req *dto.SearchReq) (*dto.SearchResultDTO, error)
	Suggest(ctx context.Context, keyword string) (*dto.SuggestDTO, error)
	Trending(ctx context.Context, windowDays, limit int) ([]*dto.TrendingTermDTO, error)
}

type searchServiceImpl struct {
	discussionRepo es.DiscussionRepo
}

func NewSearchService(discussionRepo es.DiscussionRepo) SearchService {
	return &searchServiceImpl{
		discussionRepo: discussionRepo,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, orgID uint64, req *dto.SearchReq) (*dto.SearchResultDTO, error) {
	filter := &es.SearchFilter{
		OrgID:      orgID,
		CategoryID: req.CategoryID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Sort:       req.Sort,
	}

	// 游标只在确定性排序下有意义，相关度排序退回 from/size
	from := req.Offset()
	if req.Cursor != "" && req.Sort != "relevance" {
		searchAfter, err := util.DecodeCursor(req.Cursor)
		if err != nil {
			return nil, ErrParamInvalid
		}
		filter.SearchAfter = searchAfter
		from = 0
	}

	hits, total, err := s.discussionRepo.SearchDiscussions(ctx, req.Query, filter, from, req.PageSize)
	if err != nil {
		log.ErrorContext(ctx, "discussion search failed", "err", err)
		return nil, ErrSearchUnavailable
	}

	// 热搜词统计尽力而为，不阻塞检索主路径
	go s.recordTerm(req.Query)

	list := make([]*dto.SearchHitDTO, 0, len(hits))
	for _, hit := range hits {
		list = append(list, convertToSearchHitDTO(hit))
	}

	result := &dto.SearchResultDTO{Total: total, Hits: list}
	if req.Sort != "relevance" && len(hits) == req.PageSize {
		result.NextCursor = util.EncodeCursor(hits[len(hits)-1].Sort)
	}
	return result, nil
}

func (s *searchServiceImpl) Suggest(ctx context.Context, keyword string) (*dto.SuggestDTO, error) {
	suggestions, err := s.discussionRepo.GetSuggestions(ctx, keyword)
	if err != nil {
		log.ErrorContext(ctx, "discussion suggest failed", "err", err)
		return nil, ErrSearchUnavailable
	}
	return &dto.SuggestDTO{Suggestions: suggestions}, nil
}

// Trending 合并窗口内按天分片的热搜榜
func (s *searchServiceImpl) Trending(ctx context.Context, windowDays, limit int) ([]*dto.TrendingTermDTO, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	if limit <= 0 {
		limit = 10
	}

	scores := make(map[string]int64)
	now := time.Now()
	for i := 0; i < windowDays; i++ {
		key := consts.SearchTermKey + now.AddDate(0, 0, -i).Format("20060102")
		entries, err := redis.ZRevRangeWithScores(ctx, key, 0, -1)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if term, ok := entry.Member.(string); ok {
				scores[term] += int64(entry.Score)
			}
		}
	}

	terms := make([]*dto.TrendingTermDTO, 0, len(scores))
	for term, count := range scores {
		terms = append(terms, &dto.TrendingTermDTO{Term: term, Count: count})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}

func (s *searchServiceImpl) recordTerm(query string) {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return
	}
	ctx := context.Background()
	key := consts.SearchTermKey + time.Now().Format("20060102")
	if err := redis.ZIncrBy(ctx, key, 1, term); err != nil {
		return
	}
	retention := config.Cfg.Search.TrendingRetentionDays
	if retention <= 0 {
		retention = 7
	}
	_ = redis.Expire(ctx, key, time.Duration(retention+1)*24*time.Hour)
}

func convertToSearchHitDTO(hit *es.DiscussionES) *dto.SearchHitDTO {
	excerpt := ""
	if len(hit.Highlight) > 0 {
		excerpt = hit.Highlight[0]
	} else {
		excerpt = hit.Content
		if len([]rune(excerpt)) > 120 {
			excerpt = string([]rune(excerpt)[:120]) + "..."
		}
	}
	return &dto.SearchHitDTO{
		DocType:    hit.DocType,
		EntityID:   hit.EntityID,
		TopicID:    hit.TopicID,
		TopicTitle: hit.TopicTitle,
		Title:      hit.Title,
		Excerpt:    excerpt,
		LikesCount: hit.LikesCount,
		Score:      hit.Score,
		CreatedAt:  hit.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
