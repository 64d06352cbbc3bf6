package common

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConvertFirestoreErrorNil(t *testing.T) {
	if got := ConvertFirestoreError(nil); got != nil {
		t.Errorf("nil phải giữ nguyên nil, nhận được %v", got)
	}
}

func TestConvertFirestoreErrorGiuNguyenCustomError(t *testing.T) {
	// Lỗi đã chuẩn hóa không được convert lại
	got := ConvertFirestoreError(ErrCollectionGroupWrite)
	if !errors.Is(got, ErrCollectionGroupWrite) {
		t.Errorf("Lỗi *common.Error phải giữ nguyên, nhận được %v", got)
	}

	wrapped := fmt.Errorf("tầng ngoài: %w", ErrNotFound)
	got = ConvertFirestoreError(wrapped)
	if got != wrapped {
		t.Errorf("Lỗi wrap quanh *common.Error phải giữ nguyên, nhận được %v", got)
	}
}

func TestConvertFirestoreErrorTheoGrpcCode(t *testing.T) {
	cases := []struct {
		name string
		code codes.Code
		want error
	}{
		{"NotFound", codes.NotFound, ErrNotFound},
		{"AlreadyExists", codes.AlreadyExists, ErrFirestoreExists},
		{"Aborted", codes.Aborted, ErrTransactionConflict},
		{"Unavailable", codes.Unavailable, ErrFirestoreUnavailable},
		{"DeadlineExceeded", codes.DeadlineExceeded, ErrFirestoreTimeout},
		{"FailedPrecondition", codes.FailedPrecondition, ErrFirestorePrecondition},
		{"InvalidArgument", codes.InvalidArgument, ErrFirestoreInvalidArg},
		{"PermissionDenied", codes.PermissionDenied, ErrFirestoreAuth},
		{"Unauthenticated", codes.Unauthenticated, ErrFirestoreAuth},
		{"ResourceExhausted", codes.ResourceExhausted, ErrFirestoreExhausted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := status.Error(tc.code, tc.name)
			got := ConvertFirestoreError(in)
			if !errors.Is(got, tc.want) {
				t.Errorf("Code %v phải convert thành %v, nhận được %v", tc.code, tc.want, got)
			}
		})
	}
}

func TestConvertFirestoreErrorMacDinh(t *testing.T) {
	in := errors.New("lỗi không xác định")
	got := ConvertFirestoreError(in)

	var customErr *Error
	if !errors.As(got, &customErr) {
		t.Fatalf("Lỗi mặc định phải có kiểu *Error, nhận được %T", got)
	}
	if customErr.Code != ErrCodeDatabase {
		t.Errorf("Code phải là %v, nhận được %v", ErrCodeDatabase, customErr.Code)
	}
	if customErr.StatusCode != StatusInternalServerError {
		t.Errorf("StatusCode phải là %d, nhận được %d", StatusInternalServerError, customErr.StatusCode)
	}
}

func TestErrorIs(t *testing.T) {
	// errors.Is match khi cùng ErrorCode và cùng Message
	same := NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	if !errors.Is(same, ErrNotFound) {
		t.Error("Error cùng code và message phải match qua errors.Is")
	}
	otherMessage := NewError(ErrCodeDatabaseQuery, "lỗi khác", StatusNotFound, nil)
	if errors.Is(otherMessage, ErrNotFound) {
		t.Error("Error khác message không được match")
	}
	otherCode := NewError(ErrCodeDatabaseConnection, "Không tìm thấy dữ liệu", StatusServiceUnavailable, nil)
	if errors.Is(otherCode, ErrNotFound) {
		t.Error("Error khác code không được match")
	}
}
