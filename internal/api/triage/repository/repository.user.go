package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	baserepo "github.com/CheckMateSG/users-product/internal/api/base/repository"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// UserRepository quản lý collection `users`
type UserRepository struct {
	*baserepo.BaseRepositoryFirestore[models.User]
	log *logrus.Logger
}

// NewUserRepository tạo mới một UserRepository
func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{
		BaseRepositoryFirestore: baserepo.NewBaseRepositoryFirestore[models.User](
			client,
			baserepo.NewCollectionBinding(client.Collection(CollUsers)),
		),
		log: logger.GetDataLogger(),
	}
}

// FindByWhatsappId tìm user theo định danh kênh WhatsApp, (nil, nil) nếu chưa có
func (r *UserRepository) FindByWhatsappId(ctx context.Context, whatsappID string) (*models.User, error) {
	return r.QueryOne(ctx, r.Binding().Query().Where("whatsappId", "==", whatsappID))
}

// FindByTelegramId tìm user theo định danh kênh Telegram, (nil, nil) nếu chưa có
func (r *UserRepository) FindByTelegramId(ctx context.Context, telegramID string) (*models.User, error) {
	return r.QueryOne(ctx, r.Binding().Query().Where("telegramId", "==", telegramID))
}

// FindByEmailId tìm user theo email, (nil, nil) nếu chưa có
func (r *UserRepository) FindByEmailId(ctx context.Context, emailID string) (*models.User, error) {
	return r.QueryOne(ctx, r.Binding().Query().Where("emailId", "==", emailID))
}

// IncrementSubmissionCount ghi nhận user đã gửi thêm n submission: tăng
// submissionCount và giảm numSubmissionsRemaining cùng một lượng, trong MỘT
// update duy nhất để hai counter không bao giờ lệch nhau dù fail giữa chừng.
func (r *UserRepository) IncrementSubmissionCount(ctx context.Context, userID string, n int64) error {
	err := r.Update(ctx, userID, []firestore.Update{
		{Path: "submissionCount", Value: firestore.Increment(n)},
		{Path: "numSubmissionsRemaining", Value: firestore.Increment(-n)},
	})
	if err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{
		"method": "IncrementSubmissionCount",
		"userId": userID,
		"delta":  n,
	}).Info("Đã cập nhật quota submission của user")
	return nil
}

// IncrementReferralCount tăng referralCount của user
func (r *UserRepository) IncrementReferralCount(ctx context.Context, userID string) error {
	return r.Update(ctx, userID, []firestore.Update{
		{Path: "referralCount", Value: firestore.Increment(1)},
	})
}
