package baserepo

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"github.com/CheckMateSG/users-product/internal/common"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// BatchManager gom một chuỗi writes và commit chúng như một đơn vị atomic
// write-only (không có đọc xen kẽ).
//
// Vòng đời: Empty -> Staged* -> Committing -> Empty. Sau Commit (thành công
// hay thất bại) handle luôn được cấp mới, manager luôn tái sử dụng được.
//
// Batch handle là mutable state trong phạm vi MỘT caller logic; không an toàn
// khi stage đồng thời từ nhiều call site độc lập nếu không có điều phối ngoài.
type BatchManager struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
	log    *logrus.Logger
}

// NewBatchManager tạo mới một BatchManager với batch handle rỗng
func NewBatchManager(client *firestore.Client) *BatchManager {
	return &BatchManager{
		client: client,
		batch:  client.Batch(),
		log:    logger.GetDataLogger(),
	}
}

// GetBatch trả về batch handle hiện tại. Gọi nhiều lần trước khi commit
// trả về cùng một handle — writes tích lũy vào đó.
func (m *BatchManager) GetBatch() *firestore.WriteBatch {
	return m.batch
}

// Commit flush tất cả writes đã stage một cách atomic: hoặc tất cả được
// apply, hoặc không write nào được apply. Lỗi commit được log rồi
// propagate; caller không được giả định có partial apply.
// Dù thành công hay thất bại, một handle rỗng mới luôn được cấp sau commit.
func (m *BatchManager) Commit(ctx context.Context) error {
	defer m.Reset()

	if _, err := m.batch.Commit(ctx); err != nil {
		m.log.WithFields(logrus.Fields{
			"method": "Commit",
		}).WithError(err).Error("Batch commit thất bại")
		return common.ConvertFirestoreError(err)
	}

	m.log.WithFields(logrus.Fields{
		"method": "Commit",
	}).Info("Batch committed successfully")
	return nil
}

// Reset cấp một batch handle rỗng mới, bỏ mọi write đang stage
func (m *BatchManager) Reset() {
	m.batch = m.client.Batch()
}
