package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient tạo client trỏ vào test server, thay sleep bằng hàm ghi lại
// delay để test không phải chờ backoff thật
func newTestClient(baseURL string, retries int) (*Client, *[]time.Duration) {
	c := NewClient(Config{
		BaseURL:    baseURL,
		Retries:    retries,
		RetryDelay: 1 * time.Second,
		Timeout:    5 * time.Second,
	})
	delays := &[]time.Duration{}
	c.sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c, delays
}

func TestRetryHetQuotaKhi5xx(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("X-Api-Key", "bi-mat")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, delays := newTestClient(srv.URL, 3)
	resp, err := c.Get(context.Background(), "/ping", nil)
	if resp != nil {
		t.Fatalf("Response phải là nil khi hết retry, nhận được %+v", resp)
	}
	if err == nil {
		t.Fatal("Phải trả về lỗi khi server luôn trả 503")
	}
	httpErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Lỗi phải có kiểu *Error, nhận được %T", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode phải là 503, nhận được %d", httpErr.StatusCode)
	}
	if httpErr.ResponseHeaders["X-Api-Key"] != "[REDACTED]" {
		t.Errorf("Header nhạy cảm trong lỗi phải bị redact, nhận được %q", httpErr.ResponseHeaders["X-Api-Key"])
	}
	if got := atomic.LoadInt32(&attempts); got != 4 {
		t.Errorf("Phải có đúng 4 attempt (1 + 3 retry), nhận được %d", got)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
	if len(*delays) != len(want) {
		t.Fatalf("Phải có %d lần backoff, nhận được %d", len(want), len(*delays))
	}
	for i, d := range want {
		if (*delays)[i] != d {
			t.Errorf("Backoff thứ %d phải là %v, nhận được %v", i+1, d, (*delays)[i])
		}
	}
}

func TestKhongRetryKhi4xx(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.Header().Set("X-Api-Key", "bi-mat")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}))
	defer srv.Close()

	c, delays := newTestClient(srv.URL, 3)
	resp, err := c.Get(context.Background(), "/missing", nil)
	if resp != nil {
		t.Fatalf("4xx phải raise lỗi ngay, không trả Response, nhận được %+v", resp)
	}
	if err == nil {
		t.Fatal("4xx phải raise lỗi ngay lập tức")
	}
	httpErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Lỗi phải có kiểu *Error, nhận được %T", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode phải là 404, nhận được %d", httpErr.StatusCode)
	}
	if string(httpErr.ResponseBody) != `{"error":"not found"}` {
		t.Errorf("Lỗi phải mang response body, nhận được %q", httpErr.ResponseBody)
	}
	if httpErr.ResponseHeaders["X-Api-Key"] != "[REDACTED]" {
		t.Errorf("Header nhạy cảm trong lỗi phải bị redact, nhận được %q", httpErr.ResponseHeaders["X-Api-Key"])
	}
	if httpErr.ResponseHeaders["Content-Type"] != "application/json" {
		t.Errorf("Header thường trong lỗi phải giữ nguyên, nhận được %q", httpErr.ResponseHeaders["Content-Type"])
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("4xx không được retry, phải có đúng 1 attempt, nhận được %d", got)
	}
	if len(*delays) != 0 {
		t.Errorf("Không được backoff khi không retry, nhận được %d lần", len(*delays))
	}
}

func TestThanhCongSauRetry(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, 3)
	resp, err := c.Get(context.Background(), "/flaky", nil)
	if err != nil {
		t.Fatalf("Request phải thành công ở attempt thứ 3: %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Errorf("Status phải là 200, nhận được %d", resp.Status)
	}
	if string(resp.Data) != `{"ok":true}` {
		t.Errorf("Body không đúng: %s", resp.Data)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("Phải dừng retry ngay khi thành công, nhận được %d attempt", got)
	}
}

func TestHeaderGuiTrenWireKhongBiRedact(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, 0)
	_, err := c.Get(context.Background(), "/", map[string]string{"Authorization": "Bearer secret-token"})
	if err != nil {
		t.Fatalf("Request thất bại: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Redaction chỉ áp dụng cho log, wire phải giữ giá trị gốc, nhận được %q", gotAuth)
	}
}

func TestSanitizeHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Cookie", "session=abc")
	h.Set("X-Api-Key", "key123")
	h.Set("Content-Type", "application/json")

	out := SanitizeHeaders(h)
	for _, name := range []string{"Authorization", "Cookie", "X-Api-Key"} {
		if out[name] != "[REDACTED]" {
			t.Errorf("Header %s phải bị redact, nhận được %q", name, out[name])
		}
	}
	if out["Content-Type"] != "application/json" {
		t.Errorf("Header thường phải giữ nguyên, nhận được %q", out["Content-Type"])
	}
	// Header gốc không được thay đổi
	if h.Get("Authorization") != "Bearer secret" {
		t.Error("SanitizeHeaders không được sửa header gốc")
	}
}

func TestInterceptorChayTheoThuTuDangKy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, 0)
	var order []string
	c.AddRequestInterceptor(func(req *http.Request) error {
		order = append(order, "req1")
		return nil
	})
	c.AddRequestInterceptor(func(req *http.Request) error {
		order = append(order, "req2")
		return nil
	})
	c.AddResponseInterceptor(ResponseInterceptor{
		OnSuccess: func(resp *Response) { order = append(order, "res1") },
	})
	c.AddResponseInterceptor(ResponseInterceptor{
		OnSuccess: func(resp *Response) { order = append(order, "res2") },
	})

	if _, err := c.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("Request thất bại: %v", err)
	}
	want := []string{"req1", "req2", "res1", "res2"}
	if len(order) != len(want) {
		t.Fatalf("Phải có %d lần gọi interceptor, nhận được %v", len(want), order)
	}
	for i, name := range want {
		if order[i] != name {
			t.Errorf("Interceptor thứ %d phải là %s, nhận được %s", i+1, name, order[i])
		}
	}
}

func TestRetriesBangKhongLaGiaTriHopLe(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Retries = 0 nghĩa là không retry, không bị coerce về mặc định
	c, delays := newTestClient(srv.URL, 0)
	if _, err := c.Get(context.Background(), "/", nil); err == nil {
		t.Fatal("Phải trả về lỗi khi server trả 500 và không có retry")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Retries = 0 phải cho đúng 1 attempt, nhận được %d", got)
	}
	if len(*delays) != 0 {
		t.Errorf("Không được backoff khi không retry, nhận được %d lần", len(*delays))
	}
}

func TestRetriesAmDungMacDinh(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, -1)
	if _, err := c.Get(context.Background(), "/", nil); err == nil {
		t.Fatal("Phải trả về lỗi khi server luôn trả 500")
	}
	if got := atomic.LoadInt32(&attempts); got != int32(DefaultRetries)+1 {
		t.Errorf("Retries âm phải dùng mặc định (%d retry), nhận được %d attempt", DefaultRetries, got)
	}
}

func TestOnErrorDuocGoiKhiThatBai(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := newTestClient(srv.URL, 1)
	var gotErr *Error
	c.AddResponseInterceptor(ResponseInterceptor{
		OnError: func(e *Error) { gotErr = e },
	})

	if _, err := c.Get(context.Background(), "/", nil); err == nil {
		t.Fatal("Phải trả về lỗi khi server luôn trả 500")
	}
	if gotErr == nil {
		t.Fatal("OnError phải được gọi khi request thất bại hẳn")
	}
	if gotErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode trong interceptor phải là 500, nhận được %d", gotErr.StatusCode)
	}
}
