package es

import (
	"context"
	"errors"
	"strconv"

	"Agora/internal/pkg/util"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

// MaxSearchDepth Elastic 深分页限制
const MaxSearchDepth = 400

type DiscussionRepo interface {
	SearchDiscussions(ctx context.Context, queryText string, filter *SearchFilter, from, size int) ([]*DiscussionES, int64, error)
	GetSuggestions(ctx context.Context, keyword string) ([]string, error)
	IndexDiscussion(ctx context.Context, doc *DiscussionES, version int64) error
	DeleteDiscussion(ctx context.Context, docID string) error
}

type DiscussionRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewDiscussionRepo(client *elasticsearch.TypedClient) DiscussionRepo {
	return &DiscussionRepoImpl{client: client}
}

func (s *DiscussionRepoImpl) SearchDiscussions(ctx context.Context, queryText string, filter *SearchFilter, from, size int) ([]*DiscussionES, int64, error) {
	if from >= MaxSearchDepth {
		return []*DiscussionES{}, 0, nil
	}

	filters := []types.Query{
		{Term: map[string]types.TermQuery{"org_id": {Value: filter.OrgID}}},
		{Term: map[string]types.TermQuery{"is_deleted": {Value: false}}},
	}
	if filter.CategoryID != 0 {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{"category_id": {Value: filter.CategoryID}},
		})
	}
	if filter.StartTime != "" || filter.EndTime != "" {
		dateRange := types.DateRangeQuery{}
		if filter.StartTime != "" {
			dateRange.Gte = &filter.StartTime
		}
		if filter.EndTime != "" {
			dateRange.Lte = &filter.EndTime
		}
		filters = append(filters, types.Query{
			Range: map[string]types.RangeQuery{"created_at": dateRange},
		})
	}

	boolQuery := &types.BoolQuery{
		Should: []types.Query{
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:  queryText,
					Fields: []string{"title^3", "topic_title^2", "content"},
					Boost:  util.PtrFloat32(2.0),
				},
			},
			{
				MultiMatch: &types.MultiMatchQuery{
					Query:     queryText,
					Fields:    []string{"title", "content"},
					Fuzziness: util.PtrStr("AUTO"),
					Boost:     util.PtrFloat32(0.5),
				},
			},
		},
		MinimumShouldMatch: 1,
		Filter:             filters,
	}

	req := s.client.Search().
		Index(DiscussionIndex).
		Query(&types.Query{Bool: boolQuery}).
		Highlight(&types.Highlight{
			Fields: map[string]types.HighlightField{
				"title":   {},
				"content": {},
			},
		}).
		From(from).
		Size(size)

	switch filter.Sort {
	case "recency":
		req.Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}, types.SortOptions{SortOptions: map[string]types.FieldSort{
			"entity_id": {Order: &sortorder.Desc},
		}})
	case "likes":
		req.Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"likes_count": {Order: &sortorder.Desc},
		}}, types.SortOptions{SortOptions: map[string]types.FieldSort{
			"entity_id": {Order: &sortorder.Desc},
		}})
	}

	// 游标翻页绕开 from 深度限制
	if len(filter.SearchAfter) > 0 {
		after := make([]types.FieldValue, len(filter.SearchAfter))
		for i, v := range filter.SearchAfter {
			after[i] = v
		}
		req.SearchAfter(after...).From(0)
	}

	return s.executeSearch(ctx, req)
}

func (s *DiscussionRepoImpl) GetSuggestions(ctx context.Context, keyword string) ([]string, error) {
	suggestKey := "discussion-suggest"

	suggester := types.NewSuggester()
	suggester.Suggesters[suggestKey] = types.FieldSuggester{
		Prefix: &keyword,
		Completion: &types.CompletionSuggester{
			Field: "title.suggestion",
			Fuzzy: &types.SuggestFuzziness{
				Fuzziness: util.PtrStr("AUTO"),
			},
			Size: util.PtrInt(5),
		},
	}

	res, err := s.client.Search().
		Index(DiscussionIndex).
		Suggest(suggester).
		Size(0).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0)
	if results, ok := res.Suggest[suggestKey]; ok {
		for _, r := range results {
			if cs, ok := r.(*types.CompletionSuggest); ok {
				for _, opt := range cs.Options {
					suggestions = append(suggestions, opt.Text)
				}
			}
		}
	}
	return suggestions, nil
}

// IndexDiscussion 外部版本号写入，低版本写入落后于当前文档时静默跳过
func (s *DiscussionRepoImpl) IndexDiscussion(ctx context.Context, doc *DiscussionES, version int64) error {
	_, err := s.client.Index(DiscussionIndex).
		Id(doc.ID).
		Document(doc).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *DiscussionRepoImpl) DeleteDiscussion(ctx context.Context, docID string) error {
	_, err := s.client.Delete(DiscussionIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *DiscussionRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*DiscussionES, int64, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if resp.Hits.Total != nil {
		total = resp.Hits.Total.Value
	}

	results := make([]*DiscussionES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc DiscussionES
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		if hit.Score_ != nil {
			doc.Score = float64(*hit.Score_)
		}
		for _, fragments := range hit.Highlight {
			doc.Highlight = append(doc.Highlight, fragments...)
		}
		if len(hit.Sort) > 0 {
			doc.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				doc.Sort[i] = v
			}
		}
		results = append(results, &doc)
	}
	return results, total, nil
}
