package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"gorm.io/gorm"

	"malldepot/model/entity"
)

var (
	serviceInstance *Service
	serviceOnce     sync.Once
)

// GetService returns the singleton search service.
func GetService() *Service {
	serviceOnce.Do(func() {
		serviceInstance = NewService()
	})
	return serviceInstance
}

// Service indexes warehouse items into Elasticsearch and serves full-text
// lookups over code, name, description and vendor name. The database stays
// the source of truth; search results are re-read from it by code.
type Service struct {
	client *elasticsearch.Client
	index  string
}

func NewService() *Service {
	host := os.Getenv("ELASTICSEARCH_HOST")
	if host == "" {
		host = "http://localhost:9200"
	}
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "malldepot_items"
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &Service{index: index}
	}

	return &Service{
		client: client,
		index:  index,
	}
}

// Available reports whether a client could be constructed. Callers degrade
// to database-only listing when it is false.
func (s *Service) Available() bool {
	return s.client != nil
}

type itemDocument struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	VendorName  string  `json:"vendor_name"`
	Status      string  `json:"status"`
	Price       float64 `json:"price_per_unit"`
	Stock       int     `json:"units_in_stock"`
}

// Reindex replaces the index contents with the current item table using the
// bulk API. Called from the reindex cron job and the CLI.
func (s *Service) Reindex(ctx context.Context, db *gorm.DB) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("elasticsearch not configured")
	}

	var items []entity.Item
	if err := db.Preload("Vendor").Find(&items).Error; err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	for _, item := range items {
		doc := itemDocument{
			Code:        item.Code,
			Name:        item.Name,
			Description: item.Description,
			Status:      string(item.Status),
			Price:       item.PricePerUnit,
			Stock:       item.UnitsInStock,
		}
		if item.Vendor != nil {
			doc.VendorName = item.Vendor.Name
		}
		meta := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, s.index, item.Code)
		buf.WriteString(meta)
		buf.WriteByte('\n')
		line, err := json.Marshal(doc)
		if err != nil {
			return 0, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	if buf.Len() == 0 {
		return 0, nil
	}

	res, err := s.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("elasticsearch bulk error: %s", res.String())
	}
	log.Printf("Indexed %d items into %s.", len(items), s.index)
	return len(items), nil
}

// Search returns the codes of matching items, best match first.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]string, int, error) {
	if s.client == nil {
		return nil, 0, fmt.Errorf("elasticsearch not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)

	body := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "code^2", "description", "vendor_name"},
			},
		},
	}

	bodyBytes, _ := json.Marshal(body)

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(bodyBytes)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("elasticsearch error: %s", res.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source itemDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	codes := make([]string, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		codes = append(codes, hit.Source.Code)
	}
	return codes, esResp.Hits.Total.Value, nil
}
