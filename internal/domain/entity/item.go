package entity

import (
	"time"
)

const (
	CategoryElectronics = "electronics"
	CategoryFurniture   = "furniture"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategorySports      = "sports"
	CategoryHome        = "home"
	CategoryOther       = "other"
)

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

const (
	ItemStatusAvailable = "available"
	ItemStatusSold      = "sold"
	ItemStatusReserved  = "reserved"
	ItemStatusInactive  = "inactive"
)

var (
	Categories   = []string{CategoryElectronics, CategoryFurniture, CategoryClothing, CategoryBooks, CategorySports, CategoryHome, CategoryOther}
	Conditions   = []string{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}
	ItemStatuses = []string{ItemStatusAvailable, ItemStatusSold, ItemStatusReserved, ItemStatusInactive}
)

type ItemImage struct {
	ID       string `json:"id" firestore:"id" bson:"id"`
	URL      string `json:"url" firestore:"url" bson:"url"`
	PublicID string `json:"publicId" firestore:"publicId" bson:"publicId"`
}

type Coordinates struct {
	Latitude  float64 `json:"latitude" firestore:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" firestore:"longitude" bson:"longitude"`
}

type Location struct {
	Address     string       `json:"address" firestore:"address" bson:"address"`
	City        string       `json:"city" firestore:"city" bson:"city"`
	State       string       `json:"state" firestore:"state" bson:"state"`
	Coordinates *Coordinates `json:"coordinates,omitempty" firestore:"coordinates,omitempty" bson:"coordinates,omitempty"`
}

type EcoImpact struct {
	CO2Saved   float64 `json:"co2Saved" firestore:"co2Saved" bson:"co2Saved"`
	WaterSaved float64 `json:"waterSaved" firestore:"waterSaved" bson:"waterSaved"`
}

type Item struct {
	ID          string      `json:"id" firestore:"id" bson:"_id"`
	SellerID    string      `json:"seller" firestore:"sellerId" bson:"sellerId"`
	Title       string      `json:"title" firestore:"title" bson:"title"`
	Description string      `json:"description" firestore:"description" bson:"description"`
	Category    string      `json:"category" firestore:"category" bson:"category"`
	Condition   string      `json:"condition" firestore:"condition" bson:"condition"`
	Price       float64     `json:"price" firestore:"price" bson:"price"`
	Images      []ItemImage `json:"images" firestore:"images" bson:"images"`
	Location    Location    `json:"location" firestore:"location" bson:"location"`
	Tags        []string    `json:"tags" firestore:"tags" bson:"tags"`

	// Derived from category and condition, never client supplied.
	EcoScore  float64   `json:"ecoScore" firestore:"ecoScore" bson:"ecoScore"`
	EcoImpact EcoImpact `json:"ecoImpact" firestore:"ecoImpact" bson:"ecoImpact"`

	Status        string     `json:"status" firestore:"status" bson:"status"`
	Views         int64      `json:"views" firestore:"views" bson:"views"`
	Favorites     []string   `json:"favorites" firestore:"favorites" bson:"favorites"`
	IsPromoted    bool       `json:"isPromoted" firestore:"isPromoted" bson:"isPromoted"`
	PromotedUntil *time.Time `json:"promotedUntil,omitempty" firestore:"promotedUntil,omitempty" bson:"promotedUntil,omitempty"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt" bson:"updatedAt"`

	// Version guards optimistic read-modify-write in stores without transactions.
	Version int64 `json:"-" firestore:"version" bson:"version"`
}

// HasFavorite reports whether userID is in the favorites set.
func (i *Item) HasFavorite(userID string) bool {
	for _, id := range i.Favorites {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleFavorite flips userID's membership and returns true when it was added.
func (i *Item) ToggleFavorite(userID string) bool {
	for idx, id := range i.Favorites {
		if id == userID {
			i.Favorites = append(i.Favorites[:idx], i.Favorites[idx+1:]...)
			return false
		}
	}
	i.Favorites = append(i.Favorites, userID)
	return true
}

func IsValidCategory(v string) bool { return contains(Categories, v) }

func IsValidCondition(v string) bool { return contains(Conditions, v) }

func IsValidItemStatus(v string) bool { return contains(ItemStatuses, v) }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
