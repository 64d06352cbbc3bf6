// Package embedder - client gọi dịch vụ embedding cho semantic search.
package embedder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/CheckMateSG/users-product/internal/clients/httpclient"
	"github.com/CheckMateSG/users-product/internal/common"
)

// Client gọi embedding service qua httpclient dùng chung
type Client struct {
	http *httpclient.Client
}

// embedRequest / embedResponse là contract JSON của embedding service
type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewClient tạo mới một embedder client với retry/timeout mặc định.
// apiKey được gắn vào mọi request qua header x-api-key (bị redact khi log).
func NewClient(baseURL, apiKey string) *Client {
	return NewClientWithConfig(baseURL, apiKey, httpclient.DefaultRetries, httpclient.DefaultRetryDelay, httpclient.DefaultTimeout)
}

// NewClientWithConfig tạo embedder client với retry/timeout từ config
func NewClientWithConfig(baseURL, apiKey string, retries int, retryDelay, timeout time.Duration) *Client {
	headers := map[string]string{}
	if apiKey != "" {
		headers["x-api-key"] = apiKey
	}
	return &Client{
		http: httpclient.NewClient(httpclient.Config{
			BaseURL:    baseURL,
			Headers:    headers,
			Retries:    retries,
			RetryDelay: retryDelay,
			Timeout:    timeout,
		}),
	}
}

// Embed trả về vector embedding của đoạn text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, common.NewError(common.ErrCodeValidationFormat, "Không thể serialize embed request", common.StatusBadRequest, err.Error())
	}

	resp, err := c.http.Post(ctx, "/embed", body, nil)
	if err != nil {
		return nil, common.NewError(common.ErrCodeExternalService, "Embedding service không phản hồi", common.StatusServiceUnavailable, err.Error())
	}
	if resp.Status != 200 {
		return nil, common.NewError(common.ErrCodeExternalService, "Embedding service trả về lỗi", common.StatusServiceUnavailable, string(resp.Data))
	}

	var out embedResponse
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, common.NewError(common.ErrCodeExternalService, "Response của embedding service không hợp lệ", common.StatusServiceUnavailable, err.Error())
	}
	return out.Embedding, nil
}
