package models

import (
	"time"

	"cloud.google.com/go/firestore"
)

// Submission là một lần gửi của người dùng, nằm dưới đúng một Message
// (messages/{messageId}/submissions/{id}), hoặc đọc cross-partition qua
// collection group `submissions`.
//
// SourceUniqueId là token dedup do upstream cung cấp (ví dụ delivery ID của
// kênh nhận tin). Tính unique trên toàn bộ population submission được enforce
// tại thời điểm ghi bằng existence check trong transaction, không phải bằng
// ràng buộc unique của store (store không có).
type Submission struct {
	ID                           string             `firestore:"-" json:"id"`
	Source                       string             `firestore:"source" json:"source"`
	SourceUniqueID               string             `firestore:"sourceUniqueId" json:"sourceUniqueId"`
	Timestamp                    time.Time          `firestore:"timestamp" json:"timestamp"`
	Type                         string             `firestore:"type" json:"type"` // "text" hoặc "image"
	Text                         *string            `firestore:"text" json:"text"`
	TextHash                     *string            `firestore:"textHash" json:"textHash"`
	Caption                      *string            `firestore:"caption" json:"caption"`
	CaptionHash                  *string            `firestore:"captionHash" json:"captionHash"`
	Sender                       *string            `firestore:"sender" json:"sender"`
	ImageType                    *string            `firestore:"imageType" json:"imageType"` // "convo", "email", "letter", "others"
	OcrVersion                   *string            `firestore:"ocrVersion" json:"ocrVersion"`
	From                         *string            `firestore:"from" json:"from"`
	Subject                      *string            `firestore:"subject" json:"subject"`
	Hash                         *string            `firestore:"hash" json:"hash"`
	MediaID                      *string            `firestore:"mediaId" json:"mediaId"`
	MimeType                     *string            `firestore:"mimeType" json:"mimeType"`
	StorageURL                   *string            `firestore:"storageUrl" json:"storageUrl"`
	IsForwarded                  *bool              `firestore:"isForwarded" json:"isForwarded"`
	IsFrequentlyForwarded        *bool              `firestore:"isFrequentlyForwarded" json:"isFrequentlyForwarded"`
	IsReplied                    bool               `firestore:"isReplied" json:"isReplied"`
	IsInterimPromptSent          *bool              `firestore:"isInterimPromptSent" json:"isInterimPromptSent"`
	IsInterimReplySent           *bool              `firestore:"isInterimReplySent" json:"isInterimReplySent"`
	IsMeaningfulInterimReplySent *bool              `firestore:"isMeaningfulInterimReplySent" json:"isMeaningfulInterimReplySent"`
	IsCommunityNoteSent          *bool              `firestore:"isCommunityNoteSent" json:"isCommunityNoteSent"`
	IsCommunityNoteCorrected     bool               `firestore:"isCommunityNoteCorrected" json:"isCommunityNoteCorrected"`
	IsCommunityNoteUseful        *bool              `firestore:"isCommunityNoteUseful" json:"isCommunityNoteUseful"`
	IsIrrelevantAppealed         *bool              `firestore:"isIrrelevantAppealed" json:"isIrrelevantAppealed"`
	ReplyCategory                *string            `firestore:"replyCategory" json:"replyCategory"`
	Embedding                    firestore.Vector32 `firestore:"embedding" json:"-"`
}

// SetID gán document ID (implement basemodels.Model)
func (s *Submission) SetID(id string) {
	s.ID = id
}

// GetID trả về document ID (implement basemodels.Model)
func (s *Submission) GetID() string {
	return s.ID
}
