package service

import "ecosprout/internal/domain/entity"

const (
	EcoWarriorItems        = 10
	TrustedSellerSales     = 10
	TrustedSellerMinTrust  = 90
	CommunityChampionDeals = 25
)

// AwardMilestoneBadges appends any activity badge the user now qualifies for
// and returns the newly added ones.
func AwardMilestoneBadges(user *entity.User) []string {
	var added []string
	award := func(badge string, ok bool) {
		if ok && user.AddBadge(badge) {
			added = append(added, badge)
		}
	}

	award(entity.BadgeEcoWarrior, user.EcoImpact.ItemsRescued >= EcoWarriorItems)
	award(entity.BadgeTrustedSeller, user.TotalSales >= TrustedSellerSales && user.TrustScore >= TrustedSellerMinTrust)
	award(entity.BadgeCommunityChampion, user.TotalSales+user.TotalPurchases >= CommunityChampionDeals)
	award(entity.BadgeVerifiedUser, user.IsVerified && user.Verification.Email.IsVerified && user.Verification.Phone.IsVerified)
	return added
}
