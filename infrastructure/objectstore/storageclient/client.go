package storageclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/ticket-sales-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const storagePath = "/storage/v1"

// Client fala com a API REST do Supabase Storage
type Client interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	CreateBucket(ctx context.Context, name string, public bool) error
	PublicURL(bucket, key string) string
	List(ctx context.Context, bucket string, params ListParams) ([]ObjectInfo, error)
	Remove(ctx context.Context, bucket string, keys []string) error
}

type ListParams struct {
	Prefix string
	Limit  int
	Offset int
}

type ObjectInfo struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  struct {
		Size     int64  `json:"size"`
		MimeType string `json:"mimetype"`
	} `json:"metadata"`
}

type SupabaseClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return NewClientWithHTTP(cfg.Supabase.URL, cfg.Supabase.Key, &http.Client{
		Timeout: 30 * time.Second,
	})
}

// NewClientWithHTTP permite injetar o http.Client (testes e transportes customizados)
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Upload nunca sobrescreve: uma chave existente retorna KindAlreadyExists
func (c *SupabaseClient) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/object/"+escapePath(bucket)+"/"+escapePath(key), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")
	req.Header.Set("cache-control", "max-age=3600")

	err = c.do(req, nil)

	// no upload o caminho só tem bucket e chave, então 404 é sempre bucket inexistente
	var storageErr *Error
	if errors.As(err, &storageErr) && storageErr.StatusCode == http.StatusNotFound {
		storageErr.Kind = KindBucketNotFound
	}

	return err
}

func (c *SupabaseClient) CreateBucket(ctx context.Context, name string, public bool) error {
	payload, err := json.Marshal(map[string]any{
		"id":     name,
		"name":   name,
		"public": public,
	})
	if err != nil {
		return errors.Wrap(err, "storageclient: erro ao serializar bucket")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/bucket", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

// PublicURL segue a convenção de URLs públicas do storage; chave vazia não tem URL
func (c *SupabaseClient) PublicURL(bucket, key string) string {
	if key == "" || bucket == "" {
		return ""
	}
	return fmt.Sprintf("%s%s/object/public/%s/%s", c.baseURL, storagePath, escapePath(bucket), escapePath(key))
}

func (c *SupabaseClient) List(ctx context.Context, bucket string, params ListParams) ([]ObjectInfo, error) {
	if params.Limit <= 0 {
		params.Limit = 100
	}

	payload, err := json.Marshal(map[string]any{
		"prefix": params.Prefix,
		"limit":  params.Limit,
		"offset": params.Offset,
		"sortBy": map[string]string{"column": "created_at", "order": "asc"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "storageclient: erro ao serializar listagem")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/object/list/"+escapePath(bucket), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var objects []ObjectInfo
	if err := c.do(req, &objects); err != nil {
		return nil, err
	}

	return objects, nil
}

func (c *SupabaseClient) Remove(ctx context.Context, bucket string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"prefixes": keys})
	if err != nil {
		return errors.Wrap(err, "storageclient: erro ao serializar remoção")
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/object/"+escapePath(bucket), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

func (c *SupabaseClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+storagePath+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "storageclient: erro ao criar a requisição")
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *SupabaseClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "storageclient: erro ao executar %s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "storageclient: erro ao ler a resposta")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "storageclient: erro ao decodificar a resposta")
	}

	return nil
}

// escapePath escapa cada segmento mantendo as barras
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
