// Package models chứa các kiểu dùng chung cho layer repository/base.
package models

// Model là interface tối thiểu mà mọi entity lưu trong Firestore phải thỏa mãn.
// ID không nằm trong payload lưu xuống store (field tag `firestore:"-"`);
// nó được suy ra từ vị trí document và gán lại qua SetID khi đọc lên.
type Model interface {
	// SetID gán document ID lấy từ document reference sau khi đọc/ghi
	SetID(id string)

	// GetID trả về document ID hiện tại (rỗng nếu entity chưa được ghi)
	GetID() string
}
