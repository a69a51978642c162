package service

import (
	"Agora/internal/api/dto"
	"Agora/internal/pkg/consts"
	"Agora/internal/pkg/es"
	"Agora/internal/pkg/redis"
	"Agora/internal/pkg/util"
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDiscussionRepo struct {
	hits  []*es.DiscussionES
	total int64
	err   error
}

func (f *fakeDiscussionRepo) SearchDiscussions(_ context.Context, _ string, _ *es.SearchFilter, _, _ int) ([]*es.DiscussionES, int64, error) {
	return f.hits, f.total, f.err
}

func (f *fakeDiscussionRepo) GetSuggestions(_ context.Context, _ string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"如何部署", "如何排查超时"}, nil
}

func (f *fakeDiscussionRepo) IndexDiscussion(_ context.Context, _ *es.DiscussionES, _ int64) error {
	return f.err
}

func (f *fakeDiscussionRepo) DeleteDiscussion(_ context.Context, _ string) error {
	return f.err
}

func TestSearch(t *testing.T) {
	setupTestRedis(t)
	setupTestConfig(t)
	ctx := context.Background()

	t.Run("hits converted", func(t *testing.T) {
		svc := NewSearchService(&fakeDiscussionRepo{
			hits: []*es.DiscussionES{
				{
					DocType:    consts.DocTypeTopic,
					EntityID:   1,
					TopicID:    1,
					TopicTitle: "部署问题",
					Title:      "部署问题",
					Content:    "正文",
					Highlight:  []string{"<em>部署</em>问题"},
					Score:      3.2,
					CreatedAt:  time.Now(),
				},
			},
			total: 1,
		})

		result, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 10},
			Query:   "部署",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, "<em>部署</em>问题", result.Hits[0].Excerpt)
	})

	t.Run("excerpt truncated without highlight", func(t *testing.T) {
		long := make([]rune, 200)
		for i := range long {
			long[i] = '长'
		}
		svc := NewSearchService(&fakeDiscussionRepo{
			hits:  []*es.DiscussionES{{DocType: consts.DocTypePost, Content: string(long), CreatedAt: time.Now()}},
			total: 1,
		})

		result, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 10},
			Query:   "长",
		})
		require.NoError(t, err)
		assert.Len(t, []rune(result.Hits[0].Excerpt), 123)
	})

	t.Run("full page under deterministic sort yields cursor", func(t *testing.T) {
		svc := NewSearchService(&fakeDiscussionRepo{
			hits: []*es.DiscussionES{
				{DocType: consts.DocTypeTopic, Content: "一", Sort: []interface{}{float64(100), float64(1)}, CreatedAt: time.Now()},
				{DocType: consts.DocTypeTopic, Content: "二", Sort: []interface{}{float64(90), float64(2)}, CreatedAt: time.Now()},
			},
			total: 10,
		})

		result, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 2},
			Query:   "部署",
			Sort:    "recency",
		})
		require.NoError(t, err)
		require.NotEmpty(t, result.NextCursor)

		values, err := util.DecodeCursor(result.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, []interface{}{float64(90), float64(2)}, values)
	})

	t.Run("relevance sort never yields cursor", func(t *testing.T) {
		svc := NewSearchService(&fakeDiscussionRepo{
			hits:  []*es.DiscussionES{{DocType: consts.DocTypeTopic, Content: "一", CreatedAt: time.Now()}},
			total: 10,
		})
		result, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 1},
			Query:   "部署",
			Sort:    "relevance",
		})
		require.NoError(t, err)
		assert.Empty(t, result.NextCursor)
	})

	t.Run("garbage cursor rejected", func(t *testing.T) {
		svc := NewSearchService(&fakeDiscussionRepo{})
		_, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 10},
			Query:   "部署",
			Sort:    "recency",
			Cursor:  "%%%",
		})
		assert.ErrorIs(t, err, ErrParamInvalid)
	})

	t.Run("backend failure surfaces as unavailable", func(t *testing.T) {
		svc := NewSearchService(&fakeDiscussionRepo{err: errors.New("es down")})
		_, err := svc.Search(ctx, 1, &dto.SearchReq{
			PageReq: dto.PageReq{Page: 1, PageSize: 10},
			Query:   "部署",
		})
		assert.ErrorIs(t, err, ErrSearchUnavailable)
	})
}

func TestSuggest(t *testing.T) {
	setupTestRedis(t)
	setupTestConfig(t)
	svc := NewSearchService(&fakeDiscussionRepo{})

	result, err := svc.Suggest(context.Background(), "如何")
	require.NoError(t, err)
	assert.Len(t, result.Suggestions, 2)
}

func TestTrending(t *testing.T) {
	setupTestRedis(t)
	setupTestConfig(t)
	svc := NewSearchService(&fakeDiscussionRepo{})
	ctx := context.Background()

	today := consts.SearchTermKey + time.Now().Format("20060102")
	yesterday := consts.SearchTermKey + time.Now().AddDate(0, 0, -1).Format("20060102")
	stale := consts.SearchTermKey + time.Now().AddDate(0, 0, -10).Format("20060102")

	require.NoError(t, redis.ZIncrBy(ctx, today, 3, "部署"))
	require.NoError(t, redis.ZIncrBy(ctx, today, 2, "超时"))
	require.NoError(t, redis.ZIncrBy(ctx, yesterday, 2, "部署"))
	require.NoError(t, redis.ZIncrBy(ctx, yesterday, 2, "索引"))
	require.NoError(t, redis.ZIncrBy(ctx, stale, 100, "过期词"))

	t.Run("window merged and sorted", func(t *testing.T) {
		terms, err := svc.Trending(ctx, 7, 10)
		require.NoError(t, err)
		require.Len(t, terms, 3)
		assert.Equal(t, "部署", terms[0].Term)
		assert.Equal(t, int64(5), terms[0].Count)
		// 同分按词典序
		assert.Equal(t, "索引", terms[1].Term)
		assert.Equal(t, "超时", terms[2].Term)
	})

	t.Run("limit applied", func(t *testing.T) {
		terms, err := svc.Trending(ctx, 7, 1)
		require.NoError(t, err)
		require.Len(t, terms, 1)
		assert.Equal(t, "部署", terms[0].Term)
	})

	t.Run("narrow window excludes older days", func(t *testing.T) {
		terms, err := svc.Trending(ctx, 1, 10)
		require.NoError(t, err)
		require.Len(t, terms, 2)
		assert.Equal(t, int64(3), terms[0].Count)
	})
}
