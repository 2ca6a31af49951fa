package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/internal/domain/service"
	"ecosprout/internal/infrastructure/mq"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
)

const (
	DefaultListingLimit = 12
	DefaultMyItemsLimit = 10

	MaxImageSize     = 5 << 20
	MaxPromotionDays = 30
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type ItemUseCase struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
	storage  service.FileStorage
	events   EventPublisher
	cache    ListingInvalidator
}

// NewItemUseCase wires the item flows. storage, events and cache may be nil.
func NewItemUseCase(
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	storage service.FileStorage,
	events EventPublisher,
	cache ListingInvalidator,
) *ItemUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &ItemUseCase{
		itemRepo: itemRepo,
		userRepo: userRepo,
		storage:  storage,
		events:   events,
		cache:    cache,
	}
}

type LocationInput struct {
	Address     string              `json:"address" validate:"required,max=200"`
	City        string              `json:"city" validate:"required,max=100"`
	State       string              `json:"state" validate:"required,max=100"`
	Coordinates *entity.Coordinates `json:"coordinates,omitempty"`
}

type ImageInput struct {
	URL      string `json:"url" validate:"required,url"`
	PublicID string `json:"publicId" validate:"max=200"`
}

type CreateItemInput struct {
	Title       string        `json:"title" validate:"required,min=3,max=100"`
	Description string        `json:"description" validate:"required,min=10,max=1000"`
	Category    string        `json:"category" validate:"required,oneof=electronics furniture clothing books sports home other"`
	Condition   string        `json:"condition" validate:"required,oneof=excellent good fair poor"`
	Price       *float64      `json:"price" validate:"required,gte=0"`
	Location    LocationInput `json:"location"`
	Images      []ImageInput  `json:"images" validate:"omitempty,max=10,dive"`
	Tags        []string      `json:"tags" validate:"omitempty,max=20,dive,max=30"`
}

// UpdateItemInput is the allow-list of owner-editable fields. Nil means unchanged.
type UpdateItemInput struct {
	Title       *string        `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string        `json:"description" validate:"omitempty,min=10,max=1000"`
	Category    *string        `json:"category" validate:"omitempty,oneof=electronics furniture clothing books sports home other"`
	Condition   *string        `json:"condition" validate:"omitempty,oneof=excellent good fair poor"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	Location    *LocationInput `json:"location"`
	Images      []ImageInput   `json:"images" validate:"omitempty,max=10,dive"`
	Tags        []string       `json:"tags" validate:"omitempty,max=20,dive,max=30"`
	Status      *string        `json:"status" validate:"omitempty,oneof=available sold reserved inactive"`
}

type PromoteItemInput struct {
	Days int `json:"days" validate:"required,min=1,max=30"`
}

// SellerSummary is the public slice of the owner attached to item responses.
type SellerSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	TrustScore int        `json:"trustScore"`
	IsVerified bool       `json:"isVerified"`
	TotalSales *int       `json:"totalSales,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	City       string     `json:"city,omitempty"`
	JoinedAt   *time.Time `json:"createdAt,omitempty"`
}

// ItemView is an item with its seller reference expanded.
type ItemView struct {
	*entity.Item
	Seller *SellerSummary `json:"seller"`
}

type ItemPage struct {
	Items []*ItemView
	Total int64
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, actor Actor, input CreateItemInput) (*ItemView, error) {
	if !actor.HasRole(entity.RoleSeller, entity.RoleBoth) {
		return nil, errors.Forbidden("Only sellers can list items", nil)
	}
	seller, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	item := &entity.Item{
		ID:          uuid.NewString(),
		SellerID:    seller.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Condition:   input.Condition,
		Location:    toLocation(input.Location),
		Images:      toImages(input.Images),
		Tags:        cleanTags(input.Tags),
		Status:      entity.ItemStatusAvailable,
		Favorites:   []string{},
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	service.ApplyEco(item)

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.publish(ctx, mq.EventItemCreated, map[string]interface{}{
		"itemId":   item.ID,
		"sellerId": item.SellerID,
		"category": item.Category,
		"ecoScore": item.EcoScore,
	})

	return &ItemView{Item: item, Seller: summarize(seller, false)}, nil
}

// ListItems returns the public catalogue: available items only.
func (uc *ItemUseCase) ListItems(ctx context.Context, filter entity.ItemFilter) (*ItemPage, error) {
	filter.SellerID = ""
	filter.Status = entity.ItemStatusAvailable
	if filter.Limit <= 0 {
		filter.Limit = DefaultListingLimit
	}
	return uc.list(ctx, filter)
}

// MyItems lists the caller's own items. An empty status means every status.
func (uc *ItemUseCase) MyItems(ctx context.Context, actor Actor, status string, limit, offset int) (*ItemPage, error) {
	if status == "" {
		status = entity.StatusAll
	}
	if status != entity.StatusAll && !entity.IsValidItemStatus(status) {
		return nil, errors.Validation("status must be one of available, sold, reserved, inactive, all")
	}
	if limit <= 0 {
		limit = DefaultMyItemsLimit
	}
	return uc.list(ctx, entity.ItemFilter{
		SellerID: actor.UserID,
		Status:   status,
		Sort:     entity.DefaultSort,
		Limit:    limit,
		Offset:   offset,
	})
}

func (uc *ItemUseCase) list(ctx context.Context, filter entity.ItemFilter) (*ItemPage, error) {
	items, total, err := uc.itemRepo.List(ctx, filter.Normalize())
	if err != nil {
		return nil, err
	}

	sellers := make(map[string]*SellerSummary)
	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		summary, ok := sellers[item.SellerID]
		if !ok {
			summary = uc.sellerSummary(ctx, item.SellerID, false)
			sellers[item.SellerID] = summary
		}
		views = append(views, &ItemView{Item: item, Seller: summary})
	}
	return &ItemPage{Items: views, Total: total}, nil
}

// GetItem counts a view and returns the item with its fuller seller profile.
func (uc *ItemUseCase) GetItem(ctx context.Context, id string) (*ItemView, error) {
	if err := uc.itemRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ItemView{Item: item, Seller: uc.sellerSummary(ctx, item.SellerID, true)}, nil
}

// UpdateItem applies the owner's edits to the latest stored copy, so counters
// and images written concurrently are kept.
func (uc *ItemUseCase) UpdateItem(ctx context.Context, actor Actor, id string, input UpdateItemInput) (*ItemView, error) {
	updated, err := uc.itemRepo.UpdateFunc(ctx, id, func(item *entity.Item) error {
		if !actor.CanManage(item.SellerID) {
			return errors.Forbidden("You don't have permission to update this item", nil)
		}
		applyItemInput(item, input)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)

	return &ItemView{Item: updated, Seller: uc.sellerSummary(ctx, updated.SellerID, false)}, nil
}

func applyItemInput(item *entity.Item, input UpdateItemInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Location != nil {
		item.Location = toLocation(*input.Location)
	}
	if input.Images != nil {
		item.Images = toImages(input.Images)
	}
	if input.Tags != nil {
		item.Tags = cleanTags(input.Tags)
	}
	if input.Status != nil {
		item.Status = *input.Status
	}

	rescore := false
	if input.Category != nil && *input.Category != item.Category {
		item.Category = *input.Category
		rescore = true
	}
	if input.Condition != nil && *input.Condition != item.Condition {
		item.Condition = *input.Condition
		rescore = true
	}
	if rescore {
		service.ApplyEco(item)
	}
}

func (uc *ItemUseCase) DeleteItem(ctx context.Context, actor Actor, id string) error {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(item.SellerID) {
		return errors.Forbidden("You don't have permission to delete this item", nil)
	}

	if err := uc.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.cache.Invalidate(ctx)

	if uc.storage != nil {
		for _, img := range item.Images {
			if img.PublicID == "" {
				continue
			}
			if err := uc.storage.Delete(ctx, img.PublicID); err != nil {
				logger.Warn("Failed to delete image %s of item %s: %v", img.PublicID, id, err)
			}
		}
	}
	return nil
}

// ToggleFavorite flips the caller's favorite on the item and reports the new state.
func (uc *ItemUseCase) ToggleFavorite(ctx context.Context, actor Actor, id string) (bool, error) {
	added, err := uc.itemRepo.ToggleFavorite(ctx, id, actor.UserID)
	if err != nil {
		return false, err
	}
	uc.cache.Invalidate(ctx)
	return added, nil
}

// UploadImage stores an image for the item and appends it to the image list.
// The content type is sniffed from the bytes, not taken from the client.
func (uc *ItemUseCase) UploadImage(ctx context.Context, actor Actor, id string, r io.Reader) (*entity.ItemImage, error) {
	if uc.storage == nil {
		return nil, errors.New("SERVICE_UNAVAILABLE", "Image storage is not configured", http.StatusServiceUnavailable, nil)
	}

	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(item.SellerID) {
		return nil, errors.Forbidden("You don't have permission to modify this item", nil)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, errors.BadRequest("Failed to read image", err)
	}
	if len(data) == 0 {
		return nil, errors.Validation("image is required")
	}
	if len(data) > MaxImageSize {
		return nil, errors.Validation("image must be 5 MB or smaller")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return nil, errors.Validation(fmt.Sprintf("unsupported image type %s", mtype.String()))
	}

	imageID := uuid.NewString()
	key := fmt.Sprintf("items/%s/%s%s", id, imageID, mtype.Extension())
	url, err := uc.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String())
	if err != nil {
		return nil, errors.Internal("Failed to store image", err)
	}

	image := entity.ItemImage{ID: imageID, URL: url, PublicID: key}
	if err := uc.itemRepo.AddImage(ctx, id, image); err != nil {
		if delErr := uc.storage.Delete(ctx, key); delErr != nil {
			logger.Warn("Failed to clean up orphaned image %s: %v", key, delErr)
		}
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return &image, nil
}

func (uc *ItemUseCase) PromoteItem(ctx context.Context, actor Actor, id string, input PromoteItemInput) (*entity.Item, error) {
	if input.Days < 1 || input.Days > MaxPromotionDays {
		return nil, errors.Validation("days must be between 1 and 30")
	}

	item, err := uc.itemRepo.UpdateFunc(ctx, id, func(item *entity.Item) error {
		if !actor.CanManage(item.SellerID) {
			return errors.Forbidden("You don't have permission to promote this item", nil)
		}
		until := time.Now().Add(time.Duration(input.Days) * 24 * time.Hour)
		item.IsPromoted = true
		item.PromotedUntil = &until
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx)
	return item, nil
}

// BackfillEcoScores computes eco fields for items stored before scoring existed.
func (uc *ItemUseCase) BackfillEcoScores(ctx context.Context) (int, error) {
	items, err := uc.itemRepo.ListUnscored(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, it := range items {
		_, err := uc.itemRepo.UpdateFunc(ctx, it.ID, func(item *entity.Item) error {
			service.ApplyEco(item)
			return nil
		})
		if err != nil {
			logger.Error("Failed to backfill eco score for item %s: %v", it.ID, err)
			continue
		}
		updated++
	}
	if updated > 0 {
		uc.cache.Invalidate(ctx)
	}
	return updated, nil
}

func (uc *ItemUseCase) sellerSummary(ctx context.Context, sellerID string, detailed bool) *SellerSummary {
	seller, err := uc.userRepo.GetByID(ctx, sellerID)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Warn("Failed to load seller %s: %v", sellerID, err)
		}
		return &SellerSummary{ID: sellerID}
	}
	return summarize(seller, detailed)
}

func summarize(u *entity.User, detailed bool) *SellerSummary {
	s := &SellerSummary{
		ID:         u.ID,
		Name:       u.Name,
		TrustScore: u.TrustScore,
		IsVerified: u.IsVerified,
	}
	if detailed {
		sales := u.TotalSales
		joined := u.CreatedAt
		s.TotalSales = &sales
		s.JoinedAt = &joined
		s.Phone = u.Phone
		if u.Address != nil {
			s.City = u.Address.City
		}
	}
	return s
}

func (uc *ItemUseCase) publish(ctx context.Context, eventType string, payload interface{}) {
	if err := uc.events.Publish(ctx, eventType, payload); err != nil {
		logger.Warn("Failed to publish %s: %v", eventType, err)
	}
}

func toLocation(in LocationInput) entity.Location {
	return entity.Location{
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Coordinates: in.Coordinates,
	}
}

func toImages(in []ImageInput) []entity.ItemImage {
	images := make([]entity.ItemImage, 0, len(in))
	for _, img := range in {
		images = append(images, entity.ItemImage{
			ID:       uuid.NewString(),
			URL:      img.URL,
			PublicID: img.PublicID,
		})
	}
	return images
}

// cleanTags lowercases, trims and de-duplicates tags, dropping empty ones.
func cleanTags(in []string) []string {
	tags := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}
