// internal/workers/data-access/lookup-benchmarks/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// BenchmarksByVertical resolves one vertical's aggregate profile document.
const BenchmarksByVertical = "benchmarks_by_vertical"

var (
	ErrUnknownQueryName = errors.New("unknown benchmark query")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingVertical  = errors.New("vertical is required")
)

// BenchmarkQuery defines the structure of a benchmark lookup request.
type BenchmarkQuery struct {
	Index    string
	Name     string
	Vertical string
	Size     int
}

// BuildQuery builds an Elasticsearch search request for a named benchmark query.
func BuildQuery(bq BenchmarkQuery) (*esapi.SearchRequest, error) {
	if bq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch bq.Name {
	case BenchmarksByVertical:
		if strings.TrimSpace(bq.Vertical) == "" {
			return nil, ErrMissingVertical
		}
		queryBody = buildVerticalQuery(bq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryName, bq.Name)
	}

	body, _ := json.Marshal(queryBody)

	size := bq.Size
	if size < 1 {
		size = 1
	}

	req := esapi.SearchRequest{
		Index: []string{bq.Index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}

	return &req, nil
}

// buildVerticalQuery matches a single vertical's profile. Verticals are
// indexed lowercase; the largest sample wins when several snapshots exist.
func buildVerticalQuery(bq BenchmarkQuery) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"vertical": strings.ToLower(strings.TrimSpace(bq.Vertical)),
			},
		},
		"sort": []map[string]interface{}{
			{"sampleSize": "desc"},
		},
	}
}
