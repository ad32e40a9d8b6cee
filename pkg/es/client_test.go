package es

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProductQuery_KeywordAndCategorySubtree(t *testing.T) {
	body := BuildProductQuery(ProductQuery{
		Keyword:     "耳机",
		CategoryIDs: []string{"c1", "c2"},
		OnlyEnabled: true,
		From:        20,
		Size:        10,
	})
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"query": {"bool": {
			"must": [{"multi_match": {"query": "耳机", "fields": ["name^3", "category_path", "description"]}}],
			"filter": [
				{"terms": {"category_id": ["c1", "c2"]}},
				{"term": {"status": 1}}
			]
		}},
		"from": 20,
		"size": 10
	}`, string(raw))
}

func TestBuildProductQuery_NoKeywordSortsByUpdateTime(t *testing.T) {
	body := BuildProductQuery(ProductQuery{Size: 10})
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"query": {"bool": {"must": [{"match_all": {}}]}},
		"from": 0,
		"size": 10,
		"sort": [{"updated_at": {"order": "desc"}}]
	}`, string(raw))
}
