// Package httpclient - HTTP client dùng chung cho các tích hợp outbound.
// Hỗ trợ retry có giới hạn với exponential backoff, timeout từng attempt,
// interceptor request/response và redaction header nhạy cảm khi log.
package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/CheckMateSG/users-product/internal/logger"
)

// Giá trị mặc định khi Config không chỉ định
const (
	DefaultRetries    = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultTimeout    = 10 * time.Second
)

// Config cấu hình cho Client
type Config struct {
	BaseURL    string            // prefix cho các path tương đối
	Headers    map[string]string // header gắn vào mọi request
	Retries    int               // số lần retry tối đa, không tính attempt đầu (0 = không retry, âm = dùng mặc định)
	RetryDelay time.Duration     // delay cơ sở cho backoff
	Timeout    time.Duration     // timeout cho TỪNG attempt
}

// Response là kết quả của một request thành công (status < 400)
type Response struct {
	Data    []byte
	Status  int
	Headers http.Header
}

// Error mô tả request thất bại: 4xx ngay lập tức, hoặc transport/5xx sau khi
// đã hết retry. ResponseHeaders là bản đã redact (dành cho log và caller),
// không phải header gốc trên wire.
type Error struct {
	Message         string
	StatusCode      int // 0 nếu lỗi transport, không có response
	Code            string
	ResponseBody    []byte
	ResponseHeaders map[string]string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("httpclient: %s", e.Message)
}

// RequestInterceptor được gọi trước mỗi attempt, có thể sửa request
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor được gọi sau khi request kết thúc: onSuccess khi có
// Response, onError khi thất bại hẳn
type ResponseInterceptor struct {
	OnSuccess func(resp *Response)
	OnError   func(err *Error)
}

// Client là HTTP client với retry và interceptor.
// Không an toàn để đăng ký interceptor đồng thời với gọi request.
type Client struct {
	config       Config
	httpClient   *http.Client
	reqIntercept []RequestInterceptor
	resIntercept []ResponseInterceptor
	log          *logrus.Logger

	// sleep được inject trong test để không chờ backoff thật
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient tạo mới một Client từ config, điền các giá trị mặc định.
// Retries âm nghĩa là "dùng mặc định"; 0 là giá trị hợp lệ (không retry).
func NewClient(config Config) *Client {
	if config.Retries < 0 {
		config.Retries = DefaultRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultRetryDelay
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{},
		log:        logger.GetHTTPLogger(),
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// AddRequestInterceptor đăng ký interceptor chạy trước mỗi attempt,
// theo thứ tự đăng ký
func (c *Client) AddRequestInterceptor(fn RequestInterceptor) {
	c.reqIntercept = append(c.reqIntercept, fn)
}

// AddResponseInterceptor đăng ký interceptor chạy khi request kết thúc,
// theo thứ tự đăng ký
func (c *Client) AddResponseInterceptor(ri ResponseInterceptor) {
	c.resIntercept = append(c.resIntercept, ri)
}

// Get gửi GET request
func (c *Client) Get(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, headers)
}

// Post gửi POST request với body
func (c *Client) Post(ctx context.Context, path string, body []byte, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, headers)
}

// Put gửi PUT request với body
func (c *Client) Put(ctx context.Context, path string, body []byte, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, headers)
}

// Delete gửi DELETE request
func (c *Client) Delete(ctx context.Context, path string, headers map[string]string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, headers)
}

// Do thực hiện request với retry.
//
// Ngữ nghĩa retry:
//   - retry KHI: lỗi transport (không có response) hoặc status 5xx
//   - KHÔNG retry: 4xx — lỗi được raise ngay lập tức với status và response
//     detail đã redact, không tốn thêm attempt nào
//   - backoff trước attempt thứ n (n >= 2): RetryDelay * 2^(n-2)
//   - mỗi attempt có timeout riêng; ctx bị cancel thì dừng ngay
func (c *Client) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*Response, error) {
	fullURL, err := c.resolveURL(path)
	if err != nil {
		return nil, c.fail(&Error{Message: err.Error(), Code: "ERR_BAD_URL"})
	}

	var lastErr *Error
	attempts := c.config.Retries + 1
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := c.config.RetryDelay * time.Duration(1<<(attempt-2))
			c.log.WithFields(logrus.Fields{
				"url":     fullURL,
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("Retry request sau backoff")
			if err := c.sleep(ctx, delay); err != nil {
				return nil, c.fail(&Error{Message: err.Error(), Code: "ERR_CANCELED"})
			}
		}

		resp, retryable, attemptErr := c.doOnce(ctx, method, fullURL, body, headers)
		if attemptErr == nil {
			c.logResponse(method, fullURL, resp)
			for _, ri := range c.resIntercept {
				if ri.OnSuccess != nil {
					ri.OnSuccess(resp)
				}
			}
			return resp, nil
		}
		lastErr = attemptErr
		if !retryable {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, c.fail(lastErr)
}

// doOnce thực hiện đúng một attempt. retryable cho biết lỗi (nếu có) thuộc
// loại transient hay không.
func (c *Client) doOnce(ctx context.Context, method, fullURL string, body []byte, headers map[string]string) (resp *Response, retryable bool, outErr *Error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, fullURL, reader)
	if err != nil {
		return nil, false, &Error{Message: err.Error(), Code: "ERR_BAD_REQUEST"}
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, fn := range c.reqIntercept {
		if err := fn(req); err != nil {
			return nil, false, &Error{Message: err.Error(), Code: "ERR_INTERCEPTOR"}
		}
	}

	c.log.WithFields(logrus.Fields{
		"method":  method,
		"url":     fullURL,
		"headers": SanitizeHeaders(req.Header),
	}).Debug("Gửi request")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		// Lỗi transport: không có response, được phép retry
		return nil, true, &Error{Message: err.Error(), Code: "ERR_NETWORK"}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, true, &Error{Message: err.Error(), Code: "ERR_READ_BODY", StatusCode: httpResp.StatusCode}
	}

	if httpResp.StatusCode >= 500 {
		return nil, true, &Error{
			Message:         fmt.Sprintf("server trả về status %d", httpResp.StatusCode),
			StatusCode:      httpResp.StatusCode,
			Code:            "ERR_SERVER",
			ResponseBody:    data,
			ResponseHeaders: SanitizeHeaders(httpResp.Header),
		}
	}

	// 4xx là lỗi của phía gọi: raise ngay, không retry
	if httpResp.StatusCode >= 400 {
		return nil, false, &Error{
			Message:         fmt.Sprintf("server trả về status %d", httpResp.StatusCode),
			StatusCode:      httpResp.StatusCode,
			Code:            "ERR_CLIENT",
			ResponseBody:    data,
			ResponseHeaders: SanitizeHeaders(httpResp.Header),
		}
	}

	return &Response{Data: data, Status: httpResp.StatusCode, Headers: httpResp.Header}, false, nil
}

func (c *Client) resolveURL(path string) (string, error) {
	if c.config.BaseURL == "" {
		return path, nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

func (c *Client) fail(e *Error) error {
	c.log.WithFields(logrus.Fields{
		"error":  e.Message,
		"status": e.StatusCode,
		"code":   e.Code,
	}).Error("Request thất bại sau khi hết retry")
	for _, ri := range c.resIntercept {
		if ri.OnError != nil {
			ri.OnError(e)
		}
	}
	return e
}

func (c *Client) logResponse(method, fullURL string, resp *Response) {
	c.log.WithFields(logrus.Fields{
		"method":  method,
		"url":     fullURL,
		"status":  resp.Status,
		"headers": SanitizeHeaders(resp.Headers),
	}).Debug("Nhận response")
}
