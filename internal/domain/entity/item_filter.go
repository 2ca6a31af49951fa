package entity

import (
	"sort"
	"strings"
)

const StatusAll = "all"

// Sortable item fields. Anything else falls back to DefaultSort.
var SortableFields = map[string]bool{
	"createdAt": true,
	"price":     true,
	"ecoScore":  true,
	"views":     true,
	"title":     true,
}

var DefaultSort = SortSpec{Field: "createdAt", Desc: true}

type SortSpec struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field". Unknown fields yield DefaultSort.
func ParseSort(raw string) SortSpec {
	raw = strings.TrimSpace(raw)
	desc := strings.HasPrefix(raw, "-")
	field := strings.TrimPrefix(raw, "-")
	if !SortableFields[field] {
		return DefaultSort
	}
	return SortSpec{Field: field, Desc: desc}
}

func (s SortSpec) String() string {
	if s.Desc {
		return "-" + s.Field
	}
	return s.Field
}

// ItemFilter holds AND-combined listing criteria. Empty strings and nil bounds
// mean "no constraint". Status "" matches any status.
type ItemFilter struct {
	SellerID  string
	Status    string
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	City      string
	Search    string

	Sort   SortSpec
	Limit  int
	Offset int
}

// Normalize drops sentinel values so stores only see real constraints.
func (f ItemFilter) Normalize() ItemFilter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == StatusAll {
		f.Category = ""
	}
	if f.Status == StatusAll {
		f.Status = ""
	}
	f.City = strings.TrimSpace(f.City)
	f.Search = strings.TrimSpace(f.Search)
	if f.Sort.Field == "" {
		f.Sort = DefaultSort
	}
	return f
}

// Matches applies every criterion in memory.
func (f ItemFilter) Matches(item *Item) bool {
	if f.SellerID != "" && item.SellerID != f.SellerID {
		return false
	}
	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Category != "" && f.Category != StatusAll && item.Category != f.Category {
		return false
	}
	if f.Condition != "" && item.Condition != f.Condition {
		return false
	}
	if f.MinPrice != nil && item.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && item.Price > *f.MaxPrice {
		return false
	}
	if f.City != "" && !containsFold(item.Location.City, f.City) {
		return false
	}
	if f.Search != "" && !f.matchesSearch(item) {
		return false
	}
	return true
}

func (f ItemFilter) matchesSearch(item *Item) bool {
	if containsFold(item.Title, f.Search) || containsFold(item.Description, f.Search) {
		return true
	}
	for _, tag := range item.Tags {
		if containsFold(tag, f.Search) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SortItems orders items in place. Ties keep the newest first so pages are stable.
func SortItems(items []*Item, spec SortSpec) {
	less := func(a, b *Item) int {
		switch spec.Field {
		case "price":
			return compareFloat(a.Price, b.Price)
		case "ecoScore":
			return compareFloat(a.EcoScore, b.EcoScore)
		case "views":
			return compareFloat(float64(a.Views), float64(b.Views))
		case "title":
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		c := less(items[i], items[j])
		if c == 0 {
			if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
				return items[i].CreatedAt.After(items[j].CreatedAt)
			}
			return items[i].ID < items[j].ID
		}
		if spec.Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// FilterAndPage runs the full listing pipeline over an unfiltered candidate set
// and returns the requested page plus the pre-pagination total.
func FilterAndPage(candidates []*Item, f ItemFilter) ([]*Item, int64) {
	f = f.Normalize()
	matched := make([]*Item, 0, len(candidates))
	for _, item := range candidates {
		if f.Matches(item) {
			matched = append(matched, item)
		}
	}
	SortItems(matched, f.Sort)

	total := int64(len(matched))
	if f.Offset < 0 || f.Offset >= len(matched) {
		return []*Item{}, total
	}
	end := len(matched)
	if f.Limit > 0 && f.Limit < end-f.Offset {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total
}
