package service

import "ecosprout/internal/domain/entity"

const (
	MinTrustScore = 0
	MaxTrustScore = 100

	VerificationTrustBonus = 15
	SaleTrustBonus         = 2
	PurchaseTrustBonus     = 1
)

// ClampTrustScore bounds score to [0, 100].
func ClampTrustScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}

// AdjustTrustScore is the only rule that moves a trust score.
func AdjustTrustScore(current, delta int) int {
	return ClampTrustScore(current + delta)
}

// GrantVerification marks the DigiLocker check as passed and applies its bonus
// and badge. It is a no-op returning false when the user is already verified.
func GrantVerification(user *entity.User) bool {
	if user.Verification.DigiLocker.IsVerified {
		return false
	}
	user.Verification.DigiLocker.IsVerified = true
	user.IsVerified = true
	user.TrustScore = AdjustTrustScore(user.TrustScore, VerificationTrustBonus)
	user.AddBadge(entity.BadgeDigiLockerVerified)
	return true
}
