package entity

import (
	"time"
)

const (
	TransactionPending   = "pending"
	TransactionConfirmed = "confirmed"
	TransactionCompleted = "completed"
	TransactionCancelled = "cancelled"
	TransactionDisputed  = "disputed"
)

var (
	TransactionStatuses = []string{TransactionPending, TransactionConfirmed, TransactionCompleted, TransactionCancelled, TransactionDisputed}
	PaymentMethods      = []string{"cash", "upi", "card", "wallet"}
)

type MeetingDetails struct {
	Location      string     `json:"location" firestore:"location" bson:"location"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty" firestore:"scheduledTime,omitempty" bson:"scheduledTime,omitempty"`
	Notes         string     `json:"notes" firestore:"notes" bson:"notes"`
}

type Rating struct {
	Score   int       `json:"score" firestore:"score" bson:"score"`
	Comment string    `json:"comment" firestore:"comment" bson:"comment"`
	Date    time.Time `json:"date" firestore:"date" bson:"date"`
}

type Transaction struct {
	ID             string          `json:"id" firestore:"id" bson:"_id"`
	ItemID         string          `json:"item" firestore:"itemId" bson:"itemId"`
	BuyerID        string          `json:"buyer" firestore:"buyerId" bson:"buyerId"`
	SellerID       string          `json:"seller" firestore:"sellerId" bson:"sellerId"`
	Amount         float64         `json:"amount" firestore:"amount" bson:"amount"`
	Status         string          `json:"status" firestore:"status" bson:"status"`
	PaymentMethod  string          `json:"paymentMethod" firestore:"paymentMethod" bson:"paymentMethod"`
	MeetingDetails *MeetingDetails `json:"meetingDetails,omitempty" firestore:"meetingDetails,omitempty" bson:"meetingDetails,omitempty"`
	EcoImpact      *EcoImpact      `json:"ecoImpact,omitempty" firestore:"ecoImpact,omitempty" bson:"ecoImpact,omitempty"`

	// BuyerRating is given by the buyer about the seller, SellerRating the other way round.
	BuyerRating  *Rating `json:"buyerRating,omitempty" firestore:"buyerRating,omitempty" bson:"buyerRating,omitempty"`
	SellerRating *Rating `json:"sellerRating,omitempty" firestore:"sellerRating,omitempty" bson:"sellerRating,omitempty"`

	// StatsApplied is set once the completion side effects ran.
	StatsApplied bool `json:"-" firestore:"statsApplied" bson:"statsApplied"`

	CompletedAt *time.Time `json:"completedAt,omitempty" firestore:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`

	Version int64 `json:"-" firestore:"version" bson:"version"`
}

func (t *Transaction) IsParty(userID string) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

type TransactionFilter struct {
	ItemID   string
	BuyerID  string
	SellerID string
	// PartyID matches either side.
	PartyID string
	Status  string
	Limit   int
	Offset  int
}

func (f TransactionFilter) Matches(t *Transaction) bool {
	if f.ItemID != "" && t.ItemID != f.ItemID {
		return false
	}
	if f.BuyerID != "" && t.BuyerID != f.BuyerID {
		return false
	}
	if f.SellerID != "" && t.SellerID != f.SellerID {
		return false
	}
	if f.PartyID != "" && !t.IsParty(f.PartyID) {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	return true
}

func IsValidPaymentMethod(v string) bool { return contains(PaymentMethods, v) }

func IsValidTransactionStatus(v string) bool { return contains(TransactionStatuses, v) }

type TransactionLog struct {
	ID            string    `json:"id" firestore:"id" bson:"_id"`
	TransactionID string    `json:"transactionId" firestore:"transactionId" bson:"transactionId"`
	FromStatus    string    `json:"fromStatus,omitempty" firestore:"fromStatus,omitempty" bson:"fromStatus,omitempty"`
	Status        string    `json:"status" firestore:"status" bson:"status"`
	Notes         string    `json:"notes,omitempty" firestore:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy     string    `json:"createdBy" firestore:"createdBy" bson:"createdBy"`
	CreatedAt     time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}
