// Package worker - AssessmentExpiryWorker đánh dấu các assessment đã quá hạn
// theo chu kỳ, để downstream không tiếp tục phục vụ kết quả đã cũ.
package worker

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"

	triagerepo "github.com/CheckMateSG/users-product/internal/api/triage/repository"
	"github.com/CheckMateSG/users-product/internal/logger"
)

// AssessmentExpiryWorker quét các message có assessmentExpiry đã qua và chưa
// được đánh dấu expired, đánh dấu chúng theo từng batch atomic.
type AssessmentExpiryWorker struct {
	messages  *triagerepo.MessageRepository
	interval  time.Duration // Khoảng thời gian giữa các lần chạy (vd: 1h)
	batchSize int           // Số message tối đa mỗi batch (vd: 200)
}

// NewAssessmentExpiryWorker tạo worker mới
func NewAssessmentExpiryWorker(client *firestore.Client, interval time.Duration, batchSize int) *AssessmentExpiryWorker {
	if interval < time.Minute {
		interval = time.Hour
	}
	if batchSize <= 0 || batchSize > 200 {
		batchSize = 200
	}
	return &AssessmentExpiryWorker{
		messages:  triagerepo.NewMessageRepository(client),
		interval:  interval,
		batchSize: batchSize,
	}
}

// Start chạy worker trong vòng lặp.
func (w *AssessmentExpiryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("⏰ [ASSESSMENT_EXPIRY] Starting Assessment Expiry Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [ASSESSMENT_EXPIRY] Assessment Expiry Worker stopped")
			return
		case <-ticker.C:
			w.runBatch(ctx, log)
		}
	}
}

// runBatch chạy một đợt quét: lấy batch message hết hạn → đánh dấu expired.
func (w *AssessmentExpiryWorker) runBatch(ctx context.Context, log *logrus.Logger) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("⏰ [ASSESSMENT_EXPIRY] Panic khi xử lý, sẽ tiếp tục lần chạy tiếp theo")
		}
	}()

	totalProcessed := 0
	for {
		expired, err := w.messages.FindExpiredAssessments(ctx, time.Now(), w.batchSize)
		if err != nil {
			log.WithError(err).Error("⏰ [ASSESSMENT_EXPIRY] Lỗi lấy danh sách message hết hạn")
			return
		}
		if len(expired) == 0 {
			break
		}

		ids := make([]string, 0, len(expired))
		for _, m := range expired {
			ids = append(ids, m.ID)
		}
		if err := w.messages.MarkAssessmentsExpired(ctx, ids); err != nil {
			log.WithError(err).Error("⏰ [ASSESSMENT_EXPIRY] Lỗi đánh dấu batch hết hạn")
			return
		}
		totalProcessed += len(ids)

		log.WithFields(map[string]interface{}{
			"batchProcessed": len(ids),
			"totalProcessed": totalProcessed,
		}).Info("⏰ [ASSESSMENT_EXPIRY] Đã đánh dấu assessment hết hạn")

		if len(expired) < w.batchSize {
			break
		}
	}
}
