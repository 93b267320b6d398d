package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"

	"github.com/Skotchmaster/rbac_api/internal/models"
)

// Index keeps a full-text copy of test objects.
type Index interface {
	Put(ctx context.Context, obj models.TestObject) error
	Remove(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.TestObject, error)
}

type Config struct {
	URL      string
	Username string
	Password string
	// Transport replaces the HTTP transport; nil uses the default.
	Transport http.RoundTripper
}

// NewClient builds a client and checks the cluster answers.
func NewClient(ctx context.Context, cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("info", res)
	}
	return client, nil
}

type ESIndex struct {
	Client *elasticsearch.Client
	Name   string
}

func (x *ESIndex) Put(ctx context.Context, obj models.TestObject) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("encode test object: %w", err)
	}

	res, err := x.Client.Index(
		x.Name,
		&buf,
		x.Client.Index.WithContext(ctx),
		x.Client.Index.WithDocumentID(docID(obj.ID)),
		x.Client.Index.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("index test object: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index", res)
	}
	return nil
}

// Remove treats a missing document as already removed.
func (x *ESIndex) Remove(ctx context.Context, id uint) error {
	res, err := x.Client.Delete(
		x.Name,
		docID(id),
		x.Client.Delete.WithContext(ctx),
		x.Client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("delete test object: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete", res)
	}
	return nil
}

func (x *ESIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.TestObject, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := x.Client.Search(
		x.Client.Search.WithContext(ctx),
		x.Client.Search.WithIndex(x.Name),
		x.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search test objects: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.TestObject `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	items := make([]models.TestObject, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return r.Hits.Total.Value, items, nil
}

func docID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseError(op string, res *esapi.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, res.Status(), bytes.TrimSpace(b))
}
