package common

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusAccepted  = 202 // Yêu cầu được chấp nhận
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest         = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized       = 401 // Chưa xác thực
	StatusForbidden          = 403 // Không có quyền truy cập
	StatusNotFound           = 404 // Không tìm thấy tài nguyên
	StatusConflict           = 409 // Xung đột dữ liệu
	StatusPreconditionFailed = 412 // Điều kiện tiên quyết không thỏa mãn
	StatusTooManyRequests    = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusBadGateway          = 502 // Gateway không hợp lệ
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
	StatusGatewayTimeout      = 504 // Gateway timeout
)

// Response Messages
const (
	// Success Messages
	MsgSuccess   = "Thao tác thành công"
	MsgCreated   = "Tạo mới thành công"
	MsgDuplicate = "Dữ liệu đã được xử lý trước đó"

	// Error Messages
	MsgBadRequest      = "Yêu cầu không hợp lệ"
	MsgNotFound        = "Không tìm thấy tài nguyên"
	MsgInternalError   = "Lỗi hệ thống"
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
	MsgInvalidFormat   = "Định dạng dữ liệu không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: DB_001)
	Category    string // Phân loại lỗi (ví dụ: Database)
	SubCategory string // Phân loại con (ví dụ: Query)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Lỗi dữ liệu không hợp lệ chung",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	ErrCodeDatabaseOperation = ErrorCode{
		Code:        "DB_003",
		Category:    "Database",
		SubCategory: "Operation",
		Description: "Thao tác không được hỗ trợ trên binding hiện tại",
	}

	ErrCodeDatabaseTransaction = ErrorCode{
		Code:        "DB_004",
		Category:    "Database",
		SubCategory: "Transaction",
		Description: "Lỗi giao dịch cơ sở dữ liệu",
	}

	// External Service Errors (EXT_xxx)
	ErrCodeExternalService = ErrorCode{
		Code:        "EXT_001",
		Category:    "External",
		SubCategory: "Service",
		Description: "Lỗi gọi dịch vụ bên ngoài",
	}

	// Business Logic Errors (BIZ_xxx)
	ErrCodeBusinessState = ErrorCode{
		Code:        "BIZ_001",
		Category:    "Business",
		SubCategory: "State",
		Description: "Lỗi trạng thái nghiệp vụ",
	}

	ErrCodeBusinessOperation = ErrorCode{
		Code:        "BIZ_002",
		Category:    "Business",
		SubCategory: "Operation",
		Description: "Lỗi thao tác nghiệp vụ",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	targetErr, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound    = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate   = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection  = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)
	ErrTransaction = NewError(ErrCodeDatabaseTransaction, "Lỗi giao dịch cơ sở dữ liệu", StatusInternalServerError, nil)

	// ErrCollectionGroupWrite: ghi dữ liệu trên repository bind vào collection group.
	// Đây là lỗi lập trình (binding sai), không phải lỗi runtime có thể recover.
	ErrCollectionGroupWrite = NewError(ErrCodeDatabaseOperation, "Không thể ghi dữ liệu trên collection group", StatusInternalServerError, nil)

	// ErrTransactionConflict: store đã hết số lần retry nội bộ cho optimistic transaction.
	ErrTransactionConflict = NewError(ErrCodeDatabaseTransaction, "Giao dịch bị xung đột sau khi hết số lần retry", StatusConflict, nil)
)

// Firestore Error Messages
const (
	MsgFirestoreNotFound     = "Không tìm thấy dữ liệu"
	MsgFirestoreExists       = "Dữ liệu đã tồn tại trong Firestore"
	MsgFirestoreUnavailable  = "Firestore không khả dụng"
	MsgFirestoreTimeout      = "Thao tác Firestore bị timeout"
	MsgFirestorePrecondition = "Điều kiện tiên quyết Firestore không thỏa mãn"
	MsgFirestoreInvalidArg   = "Truy vấn Firestore không hợp lệ"
	MsgFirestoreAuth         = "Lỗi xác thực Firestore"
	MsgFirestoreExhausted    = "Vượt quá hạn mức Firestore"
)

// Firestore Specific Errors
var (
	ErrFirestoreExists       = NewError(ErrCodeDatabaseQuery, MsgFirestoreExists, StatusConflict, nil)
	ErrFirestoreUnavailable  = NewError(ErrCodeDatabaseConnection, MsgFirestoreUnavailable, StatusServiceUnavailable, nil)
	ErrFirestoreTimeout      = NewError(ErrCodeDatabaseConnection, MsgFirestoreTimeout, StatusGatewayTimeout, nil)
	ErrFirestorePrecondition = NewError(ErrCodeDatabaseQuery, MsgFirestorePrecondition, StatusPreconditionFailed, nil)
	ErrFirestoreInvalidArg   = NewError(ErrCodeDatabaseQuery, MsgFirestoreInvalidArg, StatusBadRequest, nil)
	ErrFirestoreAuth         = NewError(ErrCodeDatabaseConnection, MsgFirestoreAuth, StatusUnauthorized, nil)
	ErrFirestoreExhausted    = NewError(ErrCodeDatabaseConnection, MsgFirestoreExhausted, StatusTooManyRequests, nil)
)

// ConvertFirestoreError chuyển đổi lỗi Firestore (gRPC status) sang lỗi hệ thống.
// Lỗi đã là *common.Error thì giữ nguyên, không convert lại.
func ConvertFirestoreError(err error) error {
	if err == nil {
		return nil
	}

	// Lỗi đã được chuẩn hóa (ví dụ ErrNotFound, ErrCollectionGroupWrite) giữ nguyên
	var customErr *Error
	if errors.As(err, &customErr) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrFirestoreExists
	case codes.Aborted:
		// Firestore tự retry transaction khi conflict; Aborted thoát ra ngoài
		// nghĩa là đã vượt trần retry nội bộ của store
		return ErrTransactionConflict
	case codes.Unavailable:
		return ErrFirestoreUnavailable
	case codes.DeadlineExceeded:
		return ErrFirestoreTimeout
	case codes.FailedPrecondition:
		return ErrFirestorePrecondition
	case codes.InvalidArgument:
		return ErrFirestoreInvalidArg
	case codes.PermissionDenied, codes.Unauthenticated:
		return ErrFirestoreAuth
	case codes.ResourceExhausted:
		return ErrFirestoreExhausted
	}

	// Nếu không tìm thấy lỗi cụ thể, trả về lỗi hệ thống chung kèm lỗi gốc
	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
