package models

import (
	"time"
)

// UtmParameters chứa thông tin UTM tracking khi user lần đầu tương tác
type UtmParameters struct {
	Source   string `firestore:"source" json:"source"`
	Medium   string `firestore:"medium" json:"medium"`
	Content  string `firestore:"content" json:"content"`
	Campaign string `firestore:"campaign" json:"campaign"`
	Term     string `firestore:"term" json:"term"`
}

// User là aggregate độc lập, định danh qua một trong các identity channel
// (whatsappId, telegramId, emailId — mỗi channel tối đa một field được set).
//
// Invariant quota: SubmissionCount và NumSubmissionsRemaining phải di chuyển
// lockstep — mọi increment đều đi qua một update duy nhất tăng cái này và
// giảm cái kia cùng lượng (xem UsersRepository.IncrementSubmissionCount).
type User struct {
	ID                         string            `firestore:"-" json:"id"`
	WhatsappID                 *string           `firestore:"whatsappId" json:"whatsappId"`
	TelegramID                 *string           `firestore:"telegramId" json:"telegramId"`
	EmailID                    *string           `firestore:"emailId" json:"emailId"`
	AgeGroup                   *string           `firestore:"ageGroup" json:"ageGroup"` // "<20", "21-35", "36-50", "51-65", ">65"
	SubmissionCount            int64             `firestore:"submissionCount" json:"submissionCount"`
	FirstInteractionTime       time.Time         `firestore:"firstInteractionTime" json:"firstInteractionTime"`
	FirstMessageType           string            `firestore:"firstMessageType" json:"firstMessageType"` // "normal", "irrelevant", "prepopulated"
	LastSent                   *time.Time        `firestore:"lastSent" json:"lastSent"`
	InitialJourney             map[string]string `firestore:"initialJourney" json:"initialJourney"`
	ReferralID                 string            `firestore:"referralId" json:"referralId"`
	Utm                        UtmParameters     `firestore:"utm" json:"utm"`
	ReferralCount              int64             `firestore:"referralCount" json:"referralCount"`
	IsReferralMessageSent      bool              `firestore:"isReferralMessageSent" json:"isReferralMessageSent"`
	Language                   string            `firestore:"language" json:"language"` // "en" hoặc "cn"
	IsSubscribedUpdates        bool              `firestore:"isSubscribedUpdates" json:"isSubscribedUpdates"`
	IsIgnored                  bool              `firestore:"isIgnored" json:"isIgnored"`
	IsOnboardingComplete       bool              `firestore:"isOnboardingComplete" json:"isOnboardingComplete"`
	NumSubmissionsRemaining    int64             `firestore:"numSubmissionsRemaining" json:"numSubmissionsRemaining"`
	DailySubmissionLimit       int64             `firestore:"dailySubmissionLimit" json:"dailySubmissionLimit"`
	IsInterestedInSubscription *bool             `firestore:"isInterestedInSubscription" json:"isInterestedInSubscription"`
	IsInterestedAtALowerPoint  *bool             `firestore:"isInterestedAtALowerPoint" json:"isInterestedAtALowerPoint"`
	InterestedFor              []string          `firestore:"interestedFor" json:"interestedFor"`
	PriceWhereInterested       *float64          `firestore:"priceWhereInterested" json:"priceWhereInterested"`
	Feedback                   *string           `firestore:"feedback" json:"feedback"`
	Tier                       string            `firestore:"tier" json:"tier"` // "free" hoặc "paid"
	IsTester                   bool              `firestore:"isTester" json:"isTester"`
}

// SetID gán document ID (implement basemodels.Model)
func (u *User) SetID(id string) {
	u.ID = id
}

// GetID trả về document ID (implement basemodels.Model)
func (u *User) GetID() string {
	return u.ID
}
