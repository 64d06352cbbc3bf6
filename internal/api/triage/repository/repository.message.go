// Package repository - repository cho domain triage trên Firestore.
// MessageRepository chứa giao thức ghi idempotent (create-or-attach submission
// theo sourceUniqueId) — phần lõi đảm bảo at-most-once acceptance.
package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	baserepo "github.com/CheckMateSG/users-product/internal/api/base/repository"
	models "github.com/CheckMateSG/users-product/internal/api/triage/models"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// Tên các collection của domain triage
const (
	CollMessages    = "messages"
	CollSubmissions = "submissions"
	CollUsers       = "users"
)

// MessageRepository quản lý collection `messages` và subcollection
// `submissions` của từng message.
type MessageRepository struct {
	*baserepo.BaseRepositoryFirestore[models.Message]
	// groupSubmissions bind vào collection group `submissions` để chạy
	// duplicate check cross-partition trong transaction
	groupSubmissions *SubmissionRepository
	log              *logrus.Logger
}

// NewMessageRepository tạo mới một MessageRepository
func NewMessageRepository(client *firestore.Client) *MessageRepository {
	return &MessageRepository{
		BaseRepositoryFirestore: baserepo.NewBaseRepositoryFirestore[models.Message](
			client,
			baserepo.NewCollectionBinding(client.Collection(CollMessages)),
		),
		groupSubmissions: NewSubmissionRepository(client, ""),
		log:              logger.GetDataLogger(),
	}
}

// SubmissionRepositoryFor trả về repository bind vào subcollection
// submissions của một message cụ thể
func (r *MessageRepository) SubmissionRepositoryFor(messageID string) *SubmissionRepository {
	return NewSubmissionRepository(r.Client(), messageID)
}

// CreateMessageWithSubmission tạo đồng thời một Message mới và Submission đầu
// tiên của nó trong MỘT transaction, idempotent theo sourceUniqueID.
//
// Thuật toán trong transaction:
//  1. Query collection group `submissions` theo sourceUniqueId, limit 1,
//     ĐỌC TRONG TRANSACTION để existence check và write nằm cùng một snapshot
//     nhất quán (check-then-act ngoài transaction là TOCTOU race).
//  2. Đã tồn tại -> trả về (nil, nil, nil): duplicate delivery là điều kiện
//     bình thường của upstream at-least-once, không phải lỗi, không ghi gì.
//  3. Chưa tồn tại -> cấp phát ref cho Message và Submission, ghi cả hai,
//     tăng submissionCount bằng atomic increment (delta tương đối, để các
//     increment đồng thời từ transaction khác compose đúng) và trỏ
//     latestSubmission vào submission mới.
func (r *MessageRepository) CreateMessageWithSubmission(
	ctx context.Context,
	messageData *models.Message,
	submissionData *models.Submission,
	sourceUniqueID string,
) (*models.Message, *models.Submission, error) {
	log := r.log.WithFields(logrus.Fields{
		"method":         "CreateMessageWithSubmission",
		"sourceUniqueId": sourceUniqueID,
	})

	var createdMessage *models.Message
	var createdSubmission *models.Submission

	err := r.WithTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Store có thể chạy lại callback khi conflict: reset kết quả mỗi lần chạy
		createdMessage, createdSubmission = nil, nil

		existing, err := r.groupSubmissions.FindBySourceUniqueIdTx(tx, sourceUniqueID)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Warn("Submission với sourceUniqueId đã tồn tại, bỏ qua")
			return nil
		}

		messageRef := r.Binding().Collection().NewDoc()
		submissionRef := messageRef.Collection(CollSubmissions).NewDoc()

		if err := tx.Set(messageRef, messageData); err != nil {
			return err
		}
		if err := tx.Set(submissionRef, submissionData); err != nil {
			return err
		}
		if err := tx.Update(messageRef, []firestore.Update{
			{Path: "submissionCount", Value: firestore.Increment(1)},
			{Path: "latestSubmission", Value: submissionRef},
		}); err != nil {
			return err
		}

		msg := *messageData
		msg.SetID(messageRef.ID)
		sub := *submissionData
		sub.SetID(submissionRef.ID)
		createdMessage, createdSubmission = &msg, &sub
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if createdMessage != nil {
		log.WithFields(logrus.Fields{
			"messageId":    createdMessage.ID,
			"submissionId": createdSubmission.ID,
		}).Info("Đã tạo message và submission")
	}
	return createdMessage, createdSubmission, nil
}

// AddSubmission gắn một Submission mới vào Message đã tồn tại trong MỘT
// transaction, idempotent theo sourceUniqueID (cùng thuật toán với
// CreateMessageWithSubmission, bỏ bước tạo Message).
//
// Trả về (nil, nil) khi sourceUniqueID đã được xử lý trước đó.
func (r *MessageRepository) AddSubmission(
	ctx context.Context,
	messageID string,
	submissionData *models.Submission,
	sourceUniqueID string,
) (*models.Submission, error) {
	log := r.log.WithFields(logrus.Fields{
		"method":         "AddSubmission",
		"messageId":      messageID,
		"sourceUniqueId": sourceUniqueID,
	})

	var createdSubmission *models.Submission

	err := r.WithTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		createdSubmission = nil

		existing, err := r.groupSubmissions.FindBySourceUniqueIdTx(tx, sourceUniqueID)
		if err != nil {
			return err
		}
		if existing != nil {
			log.Warn("Submission với sourceUniqueId đã tồn tại, bỏ qua")
			return nil
		}

		messageRef := r.Binding().Collection().Doc(messageID)
		submissionRef := messageRef.Collection(CollSubmissions).NewDoc()

		if err := tx.Set(submissionRef, submissionData); err != nil {
			return err
		}
		// Message không tồn tại -> update fail khi commit, lỗi NotFound
		// propagate lên caller, submission không được ghi (atomic)
		if err := tx.Update(messageRef, []firestore.Update{
			{Path: "submissionCount", Value: firestore.Increment(1)},
			{Path: "latestSubmission", Value: submissionRef},
		}); err != nil {
			return err
		}

		sub := *submissionData
		sub.SetID(submissionRef.ID)
		createdSubmission = &sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	if createdSubmission != nil {
		log.WithField("submissionId", createdSubmission.ID).Info("Đã gắn submission vào message")
	}
	return createdSubmission, nil
}

// GetSubmissions trả về tất cả submissions của một message
func (r *MessageRepository) GetSubmissions(ctx context.Context, messageID string) ([]*models.Submission, error) {
	return r.SubmissionRepositoryFor(messageID).GetMessageSubmissions(ctx)
}

// FindUnassessedMessages trả về các message đã trigger voting nhưng chưa
// được assess
func (r *MessageRepository) FindUnassessedMessages(ctx context.Context) ([]*models.Message, error) {
	return r.QueryMany(ctx, r.Binding().Query().
		Where("isAssessed", "==", false).
		Where("isVotingTriggered", "==", true))
}

// IncrementSubmissionCount tăng submissionCount của message bằng atomic
// increment (delta tương đối, không read-modify-write)
func (r *MessageRepository) IncrementSubmissionCount(ctx context.Context, messageID string) error {
	return r.Update(ctx, messageID, []firestore.Update{
		{Path: "submissionCount", Value: firestore.Increment(1)},
	})
}

// FindExpiredAssessments trả về tối đa limit message đã assess, chưa đánh
// dấu expired và có assessmentExpiry trước thời điểm now
func (r *MessageRepository) FindExpiredAssessments(ctx context.Context, now time.Time, limit int) ([]*models.Message, error) {
	return r.QueryMany(ctx, r.Binding().Query().
		Where("isAssessed", "==", true).
		Where("assessmentExpired", "==", false).
		Where("assessmentExpiry", "<=", now).
		Limit(limit))
}

// MarkAssessmentsExpired đánh dấu assessmentExpired=true cho một loạt message
// trong MỘT batch atomic: hoặc tất cả được đánh dấu, hoặc không message nào.
func (r *MessageRepository) MarkAssessmentsExpired(ctx context.Context, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	return r.WithBatch(ctx, func(batch *firestore.WriteBatch) error {
		for _, id := range messageIDs {
			if err := r.UpdateBatch(batch, id, []firestore.Update{
				{Path: "assessmentExpired", Value: true},
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateAssessment cập nhật các trường assessment của message.
// Chỉ các field khác nil trong assessment mới được ghi.
func (r *MessageRepository) UpdateAssessment(ctx context.Context, messageID string, assessment models.MessageAssessment) error {
	updates := []firestore.Update{}
	if assessment.IsAssessed != nil {
		updates = append(updates, firestore.Update{Path: "isAssessed", Value: *assessment.IsAssessed})
	}
	if assessment.AssessmentTimestamp != nil {
		updates = append(updates, firestore.Update{Path: "assessmentTimestamp", Value: *assessment.AssessmentTimestamp})
	}
	if assessment.AssessmentExpiry != nil {
		updates = append(updates, firestore.Update{Path: "assessmentExpiry", Value: *assessment.AssessmentExpiry})
	}
	if assessment.TruthScore != nil {
		updates = append(updates, firestore.Update{Path: "truthScore", Value: *assessment.TruthScore})
	}
	if assessment.IsControversial != nil {
		updates = append(updates, firestore.Update{Path: "isControversial", Value: *assessment.IsControversial})
	}
	if len(updates) == 0 {
		return nil
	}
	return r.Update(ctx, messageID, updates)
}
