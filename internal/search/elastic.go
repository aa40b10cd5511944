package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"docvault/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const indexSchema = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"space_name": {"type": "text"},
			"folder_name": {"type": "text"},
			"project_name": {"type": "text"},
			"filename": {"type": "text"},
			"content": {"type": "text"},
			"file_path": {"type": "keyword"},
			"created_at": {"type": "date"}
		}
	}
}`

const (
	errFailedCreateSearchClientFmt = "failed to create search client: %w"
	errFailedCreateIndexFmt        = "failed to create index %s: %w"
	errFailedIndexDocumentFmt      = "failed to index document: %w"
	errFailedDeleteDocumentFmt     = "failed to delete document: %w"
	errFailedSearchFmt             = "search failed: %w"
	errSearchResponseFmt           = "search engine responded %s"
)

var searchFields = []string{"space_name", "folder_name", "project_name", "filename", "content"}

// Elastic implements Index against an Elasticsearch cluster.
type Elastic struct {
	es    *elasticsearch.Client
	index string
}

func NewElastic(cfg *config.SearchConfig) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Transport: &http.Transport{ResponseHeaderTimeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateSearchClientFmt, err)
	}

	return &Elastic{es: client, index: cfg.Index}, nil
}

func (e *Elastic) EnsureSchema(ctx context.Context) error {
	res, err := e.es.Indices.Create(
		e.index,
		e.es.Indices.Create.WithContext(ctx),
		e.es.Indices.Create.WithBody(strings.NewReader(indexSchema)),
	)
	if err != nil {
		return fmt.Errorf(errFailedCreateIndexFmt, e.index, err)
	}
	defer res.Body.Close()

	// 400 means the index already exists; schema creation is idempotent.
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf(errFailedCreateIndexFmt, e.index, responseError(res))
	}

	return nil
}

func (e *Elastic) Upsert(ctx context.Context, fileID uuid.UUID, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf(errFailedIndexDocumentFmt, err)
	}

	res, err := e.es.Index(
		e.index,
		bytes.NewReader(body),
		e.es.Index.WithContext(ctx),
		e.es.Index.WithDocumentID(fileID.String()),
	)
	if err != nil {
		return fmt.Errorf(errFailedIndexDocumentFmt, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf(errFailedIndexDocumentFmt, responseError(res))
	}

	return nil
}

func (e *Elastic) Delete(ctx context.Context, fileID uuid.UUID) error {
	res, err := e.es.Delete(
		e.index,
		fileID.String(),
		e.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf(errFailedDeleteDocumentFmt, err)
	}
	defer res.Body.Close()

	// A document that was never indexed is already gone.
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf(errFailedDeleteDocumentFmt, responseError(res))
	}

	return nil
}

type multiMatchQuery struct {
	Query struct {
		MultiMatch struct {
			Query  string   `json:"query"`
			Fields []string `json:"fields"`
		} `json:"multi_match"`
	} `json:"query"`
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID    string  `json:"_id"`
			Score float64 `json:"_score"`
		} `json:"hits"`
	} `json:"hits"`
}

func (e *Elastic) Search(ctx context.Context, query string) ([]Hit, error) {
	var q multiMatchQuery
	q.Query.MultiMatch.Query = query
	q.Query.MultiMatch.Fields = searchFields

	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf(errFailedSearchFmt, err)
	}

	res, err := e.es.Search(
		e.es.Search.WithContext(ctx),
		e.es.Search.WithIndex(e.index),
		e.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf(errFailedSearchFmt, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf(errFailedSearchFmt, responseError(res))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf(errFailedSearchFmt, err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		fileID, err := uuid.Parse(h.ID)
		if err != nil {
			continue
		}
		hits = append(hits, Hit{FileID: fileID, Score: h.Score})
	}

	return hits, nil
}

func responseError(res *esapi.Response) error {
	return fmt.Errorf(errSearchResponseFmt, res.Status())
}
