package baserepo

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	"github.com/CheckMateSG/users-product/internal/common"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// TransactionManager chạy unit of work trên transaction primitive của store.
//
// Firestore dùng optimistic concurrency: reads được snapshot tại thời điểm
// bắt đầu transaction, nếu một document đã đọc bị writer khác sửa trước khi
// commit thì store TỰ CHẠY LẠI toàn bộ callback, tới trần retry riêng của
// store rồi mới fail hẳn. Manager này không thêm lớp retry nào; chỉ log và
// chuẩn hóa lỗi thoát ra.
type TransactionManager struct {
	client *firestore.Client
	log    *logrus.Logger
}

// NewTransactionManager tạo mới một TransactionManager
func NewTransactionManager(client *firestore.Client) *TransactionManager {
	return &TransactionManager{
		client: client,
		log:    logger.GetDataLogger(),
	}
}

// RunTransaction chạy fn trong một transaction.
//
// fn có thể được store gọi lại nhiều lần khi conflict, nên fn phải không có
// side effect nào ngoài transaction handle (không gọi external API trong fn).
// Lỗi thoát ra từ fn hoặc từ store (hết trần retry -> transaction conflict)
// được log rồi propagate nguyên vẹn lên caller sau khi chuẩn hóa.
func (m *TransactionManager) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx *firestore.Transaction) error) error {
	err := m.client.RunTransaction(ctx, fn)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"method": "RunTransaction",
		}).WithError(err).Error("Transaction thất bại")
		return common.ConvertFirestoreError(err)
	}
	return nil
}
