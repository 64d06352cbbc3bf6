// Package models - các model thuộc domain triage (Message, Submission, User).
package models

import (
	"time"

	"cloud.google.com/go/firestore"
)

// Message là aggregate root của domain triage: một tin nhắn đã được dedup,
// sở hữu subcollection `submissions` chứa các lần gửi của người dùng.
//
// ID không được lưu trong payload (tag `firestore:"-"`); nó được suy ra từ
// vị trí document và gán lại khi đọc.
//
// SubmissionCount là counter dẫn xuất, chỉ tăng qua atomic increment.
// LatestSubmission là weak reference trỏ tới submission mới nhất, chỉ dùng
// cho hiển thị/audit, không phải owned value.
type Message struct {
	ID                             string                 `firestore:"-" json:"id"`
	MachineCategory                string                 `firestore:"machineCategory" json:"machineCategory"`
	IsMachineCategorised           bool                   `firestore:"isMachineCategorised" json:"isMachineCategorised"`
	IsWronglyCategorisedIrrelevant bool                   `firestore:"isWronglyCategorisedIrrelevant" json:"isWronglyCategorisedIrrelevant"`
	Text                           *string                `firestore:"text" json:"text"`
	RedactedText                   *string                `firestore:"redactedText" json:"redactedText"`
	Caption                        *string                `firestore:"caption" json:"caption"`
	LatestSubmission               *firestore.DocumentRef `firestore:"latestSubmission" json:"-"`
	FirstTimestamp                 time.Time              `firestore:"firstTimestamp" json:"firstTimestamp"`
	LastTimestamp                  time.Time              `firestore:"lastTimestamp" json:"lastTimestamp"`
	LastRefreshedTimestamp         time.Time              `firestore:"lastRefreshedTimestamp" json:"lastRefreshedTimestamp"`
	IsVotingTriggered              bool                   `firestore:"isVotingTriggered" json:"isVotingTriggered"`
	IsAssessed                     bool                   `firestore:"isAssessed" json:"isAssessed"`
	AssessmentTimestamp            *time.Time             `firestore:"assessmentTimestamp" json:"assessmentTimestamp"`
	AssessmentExpiry               *time.Time             `firestore:"assessmentExpiry" json:"assessmentExpiry"`
	AssessmentExpired              bool                   `firestore:"assessmentExpired" json:"assessmentExpired"`
	TruthScore                     *float64               `firestore:"truthScore" json:"truthScore"`
	NumberPointScale               int                    `firestore:"numberPointScale" json:"numberPointScale"`
	IsControversial                *bool                  `firestore:"isControversial" json:"isControversial"`
	IsIrrelevant                   *bool                  `firestore:"isIrrelevant" json:"isIrrelevant"`
	IsHarmful                      *bool                  `firestore:"isHarmful" json:"isHarmful"`
	IsHarmless                     *bool                  `firestore:"isHarmless" json:"isHarmless"`
	Tags                           map[string]bool        `firestore:"tags" json:"tags"`
	PrimaryCategory                *string                `firestore:"primaryCategory" json:"primaryCategory"`
	CustomReply                    *CustomReply           `firestore:"customReply" json:"customReply"`
	GenerationStatus               *string                `firestore:"generationStatus" json:"generationStatus"`
	GenerationDocument             *firestore.DocumentRef `firestore:"generationDocument" json:"-"`
	SubmissionCount                int64                  `firestore:"submissionCount" json:"submissionCount"`
	AdminBroadcastMessageID        *string                `firestore:"adminBroadcastMessageId" json:"adminBroadcastMessageId"`
	Embedding                      firestore.Vector32     `firestore:"embedding" json:"-"`
}

// CustomReply là câu trả lời tùy chỉnh do admin đặt cho một message
type CustomReply struct {
	Type                 string                 `firestore:"type" json:"type"` // "text" hoặc "image"
	Text                 string                 `firestore:"text" json:"text"`
	Caption              *string                `firestore:"caption" json:"caption"`
	LastUpdatedBy        *firestore.DocumentRef `firestore:"lastUpdatedBy" json:"-"`
	LastUpdatedTimestamp time.Time              `firestore:"lastUpdatedTimestamp" json:"lastUpdatedTimestamp"`
}

// SetID gán document ID (implement basemodels.Model)
func (m *Message) SetID(id string) {
	m.ID = id
}

// GetID trả về document ID (implement basemodels.Model)
func (m *Message) GetID() string {
	return m.ID
}

// MessageAssessment chứa các trường assessment có thể cập nhật trên Message
type MessageAssessment struct {
	IsAssessed          *bool      `json:"isAssessed"`
	AssessmentTimestamp *time.Time `json:"assessmentTimestamp"`
	AssessmentExpiry    *time.Time `json:"assessmentExpiry"`
	TruthScore          *float64   `json:"truthScore"`
	IsControversial     *bool      `json:"isControversial"`
}
