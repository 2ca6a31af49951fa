package repository

import "ecosprout/internal/domain/entity"

// The memory driver hands out copies so callers can't mutate stored state
// without going through the repository.

func cloneItem(in *entity.Item) *entity.Item {
	out := *in
	out.Images = append([]entity.ItemImage(nil), in.Images...)
	out.Tags = append([]string(nil), in.Tags...)
	out.Favorites = append([]string(nil), in.Favorites...)
	if in.Location.Coordinates != nil {
		c := *in.Location.Coordinates
		out.Location.Coordinates = &c
	}
	if in.PromotedUntil != nil {
		t := *in.PromotedUntil
		out.PromotedUntil = &t
	}
	return &out
}

func cloneUser(in *entity.User) *entity.User {
	out := *in
	out.Badges = append([]string(nil), in.Badges...)
	if in.Address != nil {
		a := *in.Address
		out.Address = &a
	}
	if in.SellerProfile != nil {
		sp := *in.SellerProfile
		if in.SellerProfile.BankDetails != nil {
			bd := *in.SellerProfile.BankDetails
			sp.BankDetails = &bd
		}
		out.SellerProfile = &sp
	}
	if in.Verification.DigiLocker.DocumentData != nil {
		d := *in.Verification.DigiLocker.DocumentData
		out.Verification.DigiLocker.DocumentData = &d
	}
	return &out
}

func cloneTransaction(in *entity.Transaction) *entity.Transaction {
	out := *in
	if in.MeetingDetails != nil {
		m := *in.MeetingDetails
		out.MeetingDetails = &m
	}
	if in.EcoImpact != nil {
		e := *in.EcoImpact
		out.EcoImpact = &e
	}
	if in.BuyerRating != nil {
		r := *in.BuyerRating
		out.BuyerRating = &r
	}
	if in.SellerRating != nil {
		r := *in.SellerRating
		out.SellerRating = &r
	}
	return &out
}
