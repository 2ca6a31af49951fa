package usecase

import (
	"context"
	"crypto/subtle"
	stderrors "errors"
	"strings"
	"time"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/internal/domain/service"
	"ecosprout/internal/infrastructure/digilocker"
	"ecosprout/internal/infrastructure/mq"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
)

type VerificationUseCase struct {
	userRepo repository.UserRepository
	verifier DocumentVerifier
	events   EventPublisher
}

func NewVerificationUseCase(userRepo repository.UserRepository, verifier DocumentVerifier, events EventPublisher) *VerificationUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	return &VerificationUseCase{
		userRepo: userRepo,
		verifier: verifier,
		events:   events,
	}
}

type InitiateVerificationInput struct {
	DocumentType string `json:"documentType" validate:"required,oneof=aadhaar pan driving_license passport"`
}

type CompleteVerificationInput struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

type BankDetailsInput struct {
	AccountNumber     string `json:"accountNumber" validate:"required,numeric,min=9,max=18"`
	IFSCCode          string `json:"ifscCode" validate:"required,len=11"`
	AccountHolderName string `json:"accountHolderName" validate:"required,max=100"`
}

type SellerProfileInput struct {
	BusinessName string            `json:"businessName" validate:"required,max=100"`
	BusinessType string            `json:"businessType" validate:"required,oneof=individual small_business enterprise ngo"`
	GSTNumber    string            `json:"gstNumber" validate:"omitempty,len=15,alphanum"`
	BankDetails  *BankDetailsInput `json:"bankDetails"`
}

type VerificationInitiation struct {
	AuthURL      string `json:"authUrl"`
	State        string `json:"state"`
	DocumentType string `json:"documentType"`
}

type VerificationStatus struct {
	IsVerified   bool                `json:"isVerified"`
	Verification entity.Verification `json:"verification"`
	TrustScore   int                 `json:"trustScore"`
	Badges       []string            `json:"badges"`
}

// Initiate starts a DigiLocker handshake and persists its state on the user.
// Starting again before completing replaces the previous state.
func (uc *VerificationUseCase) Initiate(ctx context.Context, actor Actor, input InitiateVerificationInput) (*VerificationInitiation, error) {
	if !entity.IsValidDocumentType(input.DocumentType) {
		return nil, errors.Validation("documentType must be one of aadhaar, pan, driving_license, passport")
	}

	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Verification.DigiLocker.IsVerified {
		return nil, errors.Conflict("DigiLocker verification already completed")
	}

	req, err := uc.verifier.AuthorizationRequest(ctx, input.DocumentType)
	if err != nil {
		return nil, errors.Internal("Failed to start verification", err)
	}

	_, err = uc.userRepo.UpdateFunc(ctx, actor.UserID, func(u *entity.User) error {
		if u.Verification.DigiLocker.IsVerified {
			return errors.Conflict("DigiLocker verification already completed")
		}
		u.Verification.DigiLocker.State = req.State
		u.Verification.DigiLocker.PendingDocument = input.DocumentType
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &VerificationInitiation{
		AuthURL:      req.AuthURL,
		State:        req.State,
		DocumentType: input.DocumentType,
	}, nil
}

// Complete checks the returned state against the stored one and, on a match,
// consumes it and grants the verification bonus. A mismatch changes nothing.
func (uc *VerificationUseCase) Complete(ctx context.Context, actor Actor, input CompleteVerificationInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user.Verification.DigiLocker.IsVerified {
		return nil, errors.Conflict("DigiLocker verification already completed")
	}
	if !stateMatches(user.Verification.DigiLocker.State, input.State) {
		return nil, errors.Validation("Invalid verification state")
	}

	docType := user.Verification.DigiLocker.PendingDocument
	doc, err := uc.verifier.FetchDocument(ctx, input.Code, docType, user.Name)
	if err != nil {
		if stderrors.Is(err, digilocker.ErrVerificationFailed) {
			return nil, errors.BadRequest("Document verification failed", err)
		}
		return nil, errors.Internal("Failed to fetch document", err)
	}

	updated, err := uc.userRepo.UpdateFunc(ctx, actor.UserID, func(u *entity.User) error {
		dl := &u.Verification.DigiLocker
		// Re-checked inside the write so a concurrent completion can't grant twice.
		if !stateMatches(dl.State, input.State) {
			return errors.Validation("Invalid verification state")
		}
		if !service.GrantVerification(u) {
			return errors.Conflict("DigiLocker verification already completed")
		}
		now := time.Now()
		data := doc.Data
		dl.State = ""
		dl.PendingDocument = ""
		dl.DocumentID = doc.ID
		dl.DocumentType = doc.Type
		dl.DocumentData = &data
		dl.VerifiedAt = &now
		service.AwardMilestoneBadges(u)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := uc.events.Publish(ctx, mq.EventUserVerified, map[string]interface{}{
		"userId":       updated.ID,
		"documentType": docType,
		"trustScore":   updated.TrustScore,
	}); err != nil {
		logger.Warn("Failed to publish %s: %v", mq.EventUserVerified, err)
	}

	return updated, nil
}

func (uc *VerificationUseCase) Status(ctx context.Context, actor Actor) (*VerificationStatus, error) {
	user, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}
	return &VerificationStatus{
		IsVerified:   user.IsVerified,
		Verification: user.Verification,
		TrustScore:   user.TrustScore,
		Badges:       badges,
	}, nil
}

// UpdateSellerProfile replaces the business details. Approval fields are kept.
func (uc *VerificationUseCase) UpdateSellerProfile(ctx context.Context, actor Actor, input SellerProfileInput) (*entity.User, error) {
	return uc.userRepo.UpdateFunc(ctx, actor.UserID, func(u *entity.User) error {
		if !u.HasRole(entity.RoleSeller, entity.RoleBoth) {
			return errors.Forbidden("Only sellers can maintain a seller profile", nil)
		}

		profile := &entity.SellerProfile{
			BusinessName: strings.TrimSpace(input.BusinessName),
			BusinessType: input.BusinessType,
			GSTNumber:    strings.ToUpper(strings.TrimSpace(input.GSTNumber)),
		}
		if input.BankDetails != nil {
			profile.BankDetails = &entity.BankDetails{
				AccountNumber:     input.BankDetails.AccountNumber,
				IFSCCode:          strings.ToUpper(input.BankDetails.IFSCCode),
				AccountHolderName: strings.TrimSpace(input.BankDetails.AccountHolderName),
			}
		}
		if u.SellerProfile != nil {
			profile.IsApproved = u.SellerProfile.IsApproved
			profile.ApprovedAt = u.SellerProfile.ApprovedAt
		}
		u.SellerProfile = profile
		return nil
	})
}

func stateMatches(stored, given string) bool {
	if stored == "" || given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
