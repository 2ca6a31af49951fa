package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecosprout/internal/domain/entity"
)

func TestAdjustTrustScore(t *testing.T) {
	tests := []struct {
		current, delta, want int
	}{
		{75, 15, 90},
		{90, 15, 100},
		{95, 15, 100},
		{100, 15, 100},
		{1, -5, 0},
		{50, 2, 52},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AdjustTrustScore(tt.current, tt.delta))
	}
}

func TestGrantVerification(t *testing.T) {
	for _, previous := range []int{90, 95, 100} {
		user := &entity.User{TrustScore: previous, Badges: []string{entity.BadgeNewcomer}}

		assert.True(t, GrantVerification(user))
		assert.Equal(t, min(previous+15, 100), user.TrustScore)
		assert.True(t, user.IsVerified)
		assert.True(t, user.Verification.DigiLocker.IsVerified)
		assert.Equal(t, []string{entity.BadgeNewcomer, entity.BadgeDigiLockerVerified}, user.Badges)
	}
}

func TestGrantVerification_OnlyOnce(t *testing.T) {
	user := &entity.User{TrustScore: entity.DefaultTrustScore}

	assert.True(t, GrantVerification(user))
	assert.False(t, GrantVerification(user))
	assert.Equal(t, 90, user.TrustScore)
	assert.Equal(t, []string{entity.BadgeDigiLockerVerified}, user.Badges)
}

func TestAwardMilestoneBadges(t *testing.T) {
	user := &entity.User{
		TrustScore:     95,
		TotalSales:     10,
		TotalPurchases: 15,
		EcoImpact:      entity.UserEcoImpact{ItemsRescued: 25},
		Badges:         []string{entity.BadgeNewcomer, entity.BadgeEcoWarrior},
	}

	added := AwardMilestoneBadges(user)

	assert.Equal(t, []string{entity.BadgeTrustedSeller, entity.BadgeCommunityChampion}, added)
	assert.Empty(t, AwardMilestoneBadges(user))
	assert.Len(t, user.Badges, 4)
}
