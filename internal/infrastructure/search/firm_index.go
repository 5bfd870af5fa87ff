package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
	"github.com/oksasatya/firmhub/pkg/helpers"
)

// FirmsMapping is the index mapping for firm documents.
const FirmsMapping = `{
  "mappings": {
    "properties": {
      "id":         {"type": "keyword"},
      "name":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "area":       {"type": "text"},
      "offer":      {"type": "text"},
      "categories": {"type": "keyword"},
      "regions":    {"type": "keyword"},
      "vendor_id":  {"type": "keyword"},
      "image_url":  {"type": "keyword", "index": false},
      "created_at": {"type": "date"}
    }
  }
}`

const requestTimeout = 3 * time.Second

// FirmIndex stores firm documents in Elasticsearch.
type FirmIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewFirmIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *FirmIndex {
	return &FirmIndex{ES: es, Index: index, Logger: logger}
}

// EnsureIndex creates the firms index with FirmsMapping when missing.
func (i *FirmIndex) EnsureIndex(ctx context.Context) error {
	return helpers.EnsureIndex(ctx, i.ES, i.Index, FirmsMapping)
}

// Document builds the indexed representation of a firm.
func Document(f *entity.Firm) map[string]any {
	doc := map[string]any{
		"id":         f.ID,
		"name":       f.Name,
		"area":       f.Area,
		"offer":      f.Offer,
		"categories": entity.CategoryStrings(f.Categories),
		"regions":    entity.RegionStrings(f.Regions),
		"vendor_id":  f.VendorID,
		"created_at": f.CreatedAt.Format(time.RFC3339Nano),
	}
	if f.Image != nil {
		doc["image_url"] = f.Image.URL
	}
	return doc
}

func (i *FirmIndex) IndexFirm(ctx context.Context, f *entity.Firm) error {
	b, err := json.Marshal(Document(f))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.Index, DocumentID: f.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("index firm %s: %s", f.ID, res.Status())
	}
	return nil
}

func (i *FirmIndex) DeleteFirm(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: i.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, i.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete firm %s: %s", id, res.Status())
	}
	return nil
}

// BuildQuery returns the search body for q: multi_match on text fields plus term filters.
func BuildQuery(q repository.FirmSearchQuery) map[string]any {
	size := q.Size
	if size <= 0 || size > 50 {
		size = 10
	}
	boolQuery := map[string]any{}
	if q.Text != "" {
		boolQuery["must"] = []any{map[string]any{
			"multi_match": map[string]any{
				"query":     q.Text,
				"fields":    []string{"name^3", "area^2", "offer"},
				"fuzziness": "AUTO",
			},
		}}
	} else {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	var filters []any
	if q.Category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"categories": string(q.Category)}})
	}
	if q.Region != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"regions": string(q.Region)}})
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	return map[string]any{
		"query":   map[string]any{"bool": boolQuery},
		"size":    size,
		"_source": false,
	}
}

func (i *FirmIndex) SearchFirms(ctx context.Context, q repository.FirmSearchQuery) ([]string, error) {
	b, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.ES.Search(
		i.ES.Search.WithContext(c),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		if i.Logger != nil {
			i.Logger.WithField("status", res.Status()).Warn("es search response error")
		}
		return nil, fmt.Errorf("search firms: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var _ repository.FirmSearchIndex = (*FirmIndex)(nil)
