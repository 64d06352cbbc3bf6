package httpclient

import (
	"net/http"
	"strings"
)

// Các header chứa credential, không bao giờ được xuất hiện trong log
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

const redactedValue = "[REDACTED]"

// SanitizeHeaders trả về bản copy của headers với các header nhạy cảm bị thay
// bằng [REDACTED] (so khớp không phân biệt hoa thường). Chỉ dùng cho log —
// request thật trên wire vẫn mang giá trị gốc.
func SanitizeHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for name, values := range headers {
		if sensitiveHeaders[strings.ToLower(name)] {
			out[name] = redactedValue
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}
