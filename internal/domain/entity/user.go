package entity

import (
	"time"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleBoth   = "both"
)

const (
	BadgeNewcomer           = "newcomer"
	BadgeEcoWarrior         = "eco-warrior"
	BadgeTrustedSeller      = "trusted-seller"
	BadgeCommunityChampion  = "community-champion"
	BadgeVerifiedUser       = "verified-user"
	BadgeDigiLockerVerified = "digilocker-verified"
)

const (
	DocumentAadhaar        = "aadhaar"
	DocumentPAN            = "pan"
	DocumentDrivingLicense = "driving_license"
	DocumentPassport       = "passport"
)

const (
	DefaultTrustScore = 75
	DefaultEcoPoints  = 100
)

var DocumentTypes = []string{DocumentAadhaar, DocumentPAN, DocumentDrivingLicense, DocumentPassport}

type Address struct {
	Street  string `json:"street" firestore:"street" bson:"street"`
	City    string `json:"city" firestore:"city" bson:"city"`
	State   string `json:"state" firestore:"state" bson:"state"`
	ZipCode string `json:"zipCode" firestore:"zipCode" bson:"zipCode"`
	Country string `json:"country" firestore:"country" bson:"country"`
}

type DocumentData struct {
	Name           string `json:"name" firestore:"name" bson:"name"`
	DOB            string `json:"dob" firestore:"dob" bson:"dob"`
	Address        string `json:"address" firestore:"address" bson:"address"`
	DocumentNumber string `json:"documentNumber" firestore:"documentNumber" bson:"documentNumber"`
}

type DigiLockerVerification struct {
	IsVerified   bool          `json:"isVerified" firestore:"isVerified" bson:"isVerified"`
	DocumentID   string        `json:"documentId,omitempty" firestore:"documentId,omitempty" bson:"documentId,omitempty"`
	DocumentType string        `json:"documentType,omitempty" firestore:"documentType,omitempty" bson:"documentType,omitempty"`
	VerifiedAt   *time.Time    `json:"verifiedAt,omitempty" firestore:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
	DocumentData *DocumentData `json:"documentData,omitempty" firestore:"documentData,omitempty" bson:"documentData,omitempty"`

	// Pending handshake, never serialized to clients.
	State           string `json:"-" firestore:"state,omitempty" bson:"state,omitempty"`
	PendingDocument string `json:"-" firestore:"pendingDocument,omitempty" bson:"pendingDocument,omitempty"`
}

type ContactVerification struct {
	IsVerified bool       `json:"isVerified" firestore:"isVerified" bson:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty" firestore:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
}

type Verification struct {
	DigiLocker DigiLockerVerification `json:"digiLocker" firestore:"digiLocker" bson:"digiLocker"`
	Email      ContactVerification    `json:"email" firestore:"email" bson:"email"`
	Phone      ContactVerification    `json:"phone" firestore:"phone" bson:"phone"`
}

type BankDetails struct {
	AccountNumber     string `json:"accountNumber" firestore:"accountNumber" bson:"accountNumber"`
	IFSCCode          string `json:"ifscCode" firestore:"ifscCode" bson:"ifscCode"`
	AccountHolderName string `json:"accountHolderName" firestore:"accountHolderName" bson:"accountHolderName"`
}

type SellerProfile struct {
	BusinessName string       `json:"businessName" firestore:"businessName" bson:"businessName"`
	BusinessType string       `json:"businessType" firestore:"businessType" bson:"businessType"`
	GSTNumber    string       `json:"gstNumber,omitempty" firestore:"gstNumber,omitempty" bson:"gstNumber,omitempty"`
	BankDetails  *BankDetails `json:"bankDetails,omitempty" firestore:"bankDetails,omitempty" bson:"bankDetails,omitempty"`
	IsApproved   bool         `json:"isApproved" firestore:"isApproved" bson:"isApproved"`
	ApprovedAt   *time.Time   `json:"approvedAt,omitempty" firestore:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
}

type UserEcoImpact struct {
	CO2Saved     float64 `json:"co2Saved" firestore:"co2Saved" bson:"co2Saved"`
	WaterSaved   float64 `json:"waterSaved" firestore:"waterSaved" bson:"waterSaved"`
	ItemsRescued int     `json:"itemsRescued" firestore:"itemsRescued" bson:"itemsRescued"`
}

type User struct {
	ID           string   `json:"id" firestore:"id" bson:"_id"`
	Name         string   `json:"name" firestore:"name" bson:"name"`
	Email        string   `json:"email" firestore:"email" bson:"email"`
	PasswordHash string   `json:"-" firestore:"passwordHash" bson:"passwordHash"`
	Role         string   `json:"role" firestore:"role" bson:"role"`
	IsAdmin      bool     `json:"isAdmin" firestore:"isAdmin" bson:"isAdmin"`
	Avatar       string   `json:"avatar" firestore:"avatar" bson:"avatar"`
	Phone        string   `json:"phone" firestore:"phone" bson:"phone"`
	Address      *Address `json:"address,omitempty" firestore:"address,omitempty" bson:"address,omitempty"`

	IsVerified   bool         `json:"isVerified" firestore:"isVerified" bson:"isVerified"`
	Verification Verification `json:"verification" firestore:"verification" bson:"verification"`
	TrustScore   int          `json:"trustScore" firestore:"trustScore" bson:"trustScore"`
	Badges       []string     `json:"badges" firestore:"badges" bson:"badges"`

	EcoPoints      int           `json:"ecoPoints" firestore:"ecoPoints" bson:"ecoPoints"`
	EcoImpact      UserEcoImpact `json:"ecoImpact" firestore:"ecoImpact" bson:"ecoImpact"`
	TotalSales     int           `json:"totalSales" firestore:"totalSales" bson:"totalSales"`
	TotalPurchases int           `json:"totalPurchases" firestore:"totalPurchases" bson:"totalPurchases"`

	SellerProfile *SellerProfile `json:"sellerProfile,omitempty" firestore:"sellerProfile,omitempty" bson:"sellerProfile,omitempty"`

	LastActive time.Time `json:"lastActive" firestore:"lastActive" bson:"lastActive"`
	CreatedAt  time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`

	Version int64 `json:"-" firestore:"version" bson:"version"`
}

func (u *User) CanSell() bool {
	return u.Role == RoleSeller || u.Role == RoleBoth
}

func (u *User) CanBuy() bool {
	return u.Role == RoleBuyer || u.Role == RoleBoth
}

// HasRole reports whether the user's role is one of roles. Admins pass every check.
func (u *User) HasRole(roles ...string) bool {
	if u.IsAdmin {
		return true
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) HasBadge(badge string) bool {
	for _, b := range u.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// AddBadge appends badge once. Returns false when it was already present.
func (u *User) AddBadge(badge string) bool {
	if u.HasBadge(badge) {
		return false
	}
	u.Badges = append(u.Badges, badge)
	return true
}

func IsValidRole(v string) bool { return contains([]string{RoleBuyer, RoleSeller, RoleBoth}, v) }

func IsValidDocumentType(v string) bool { return contains(DocumentTypes, v) }
