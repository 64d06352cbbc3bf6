package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	baserepo "github.com/CheckMateSG/users-product/internal/api/base/repository"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	"github.com/CheckMateSG/users-product/internal/common"
)

// SubmissionRepository quản lý subcollection `submissions`.
//
// Hai chế độ bind:
//   - messageID khác rỗng: bind vào submissions của MỘT message, đầy đủ
//     các operation đọc/ghi.
//   - messageID rỗng: bind vào collection group `submissions` (tất cả các
//     partition), chỉ đọc — các operation ghi trả về lỗi
//     ErrCollectionGroupWrite từ tầng base.
type SubmissionRepository struct {
	*baserepo.BaseRepositoryFirestore[models.Submission]
	messageID string
}

// NewSubmissionRepository tạo mới một SubmissionRepository.
// Truyền messageID rỗng để bind cross-partition (read-only).
func NewSubmissionRepository(client *firestore.Client, messageID string) *SubmissionRepository {
	var binding baserepo.FirestoreBinding
	if messageID != "" {
		binding = baserepo.NewCollectionBinding(
			client.Collection(CollMessages).Doc(messageID).Collection(CollSubmissions),
		)
	} else {
		binding = baserepo.NewCollectionGroupBinding(CollSubmissions, client.CollectionGroup(CollSubmissions))
	}
	return &SubmissionRepository{
		BaseRepositoryFirestore: baserepo.NewBaseRepositoryFirestore[models.Submission](client, binding),
		messageID:               messageID,
	}
}

// GetMessageSubmissions trả về tất cả submissions của message đang bind.
// Chỉ hợp lệ ở chế độ message-scoped.
func (r *SubmissionRepository) GetMessageSubmissions(ctx context.Context) ([]*models.Submission, error) {
	if r.messageID == "" {
		return nil, common.NewError(common.ErrCodeValidationInput,
			"GetMessageSubmissions yêu cầu repository bind theo message", common.StatusBadRequest, nil)
	}
	return r.GetAll(ctx)
}

// GetAllSubmissions trả về tất cả submissions trên toàn bộ các message.
// Chỉ hợp lệ ở chế độ collection group.
func (r *SubmissionRepository) GetAllSubmissions(ctx context.Context) ([]*models.Submission, error) {
	if r.messageID != "" {
		return nil, common.NewError(common.ErrCodeValidationInput,
			"GetAllSubmissions yêu cầu repository bind collection group", common.StatusBadRequest, nil)
	}
	return r.GetAll(ctx)
}

// FindUnreplied trả về các submissions chưa được reply
func (r *SubmissionRepository) FindUnreplied(ctx context.Context) ([]*models.Submission, error) {
	return r.QueryMany(ctx, r.Binding().Query().Where("isReplied", "==", false))
}

// FindBySourceUniqueId tìm submission theo dedup token, cross-partition.
// Trả về (nil, nil) nếu chưa có.
func (r *SubmissionRepository) FindBySourceUniqueId(ctx context.Context, sourceUniqueID string) (*models.Submission, error) {
	return r.QueryOne(ctx, r.Binding().Query().Where("sourceUniqueId", "==", sourceUniqueID))
}

// FindBySourceUniqueIdTx là biến thể trong transaction của FindBySourceUniqueId,
// dùng cho duplicate check của giao thức ghi idempotent
func (r *SubmissionRepository) FindBySourceUniqueIdTx(tx *firestore.Transaction, sourceUniqueID string) (*models.Submission, error) {
	return r.QueryOneTx(tx, r.Binding().Query().Where("sourceUniqueId", "==", sourceUniqueID))
}

// MarkAsReplied đánh dấu submission đã được reply, kèm category nếu có
func (r *SubmissionRepository) MarkAsReplied(ctx context.Context, submissionID string, replyCategory string) error {
	updates := []firestore.Update{
		{Path: "isReplied", Value: true},
		{Path: "isReplyImmediate", Value: false},
	}
	if replyCategory != "" {
		updates = append(updates, firestore.Update{Path: "replyCategory", Value: replyCategory})
	}
	return r.Update(ctx, submissionID, updates)
}
