package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecosprout/internal/domain/entity"
	"ecosprout/internal/domain/repository"
	"ecosprout/internal/domain/service"
	"ecosprout/internal/infrastructure/mq"
	"ecosprout/pkg/errors"
	"ecosprout/pkg/logger"
)

const DefaultTransactionLimit = 10

const (
	partyBuyer  = "buyer"
	partySeller = "seller"
	partyAdmin  = "admin"
)

// transitions maps from-status to to-status to the parties allowed to make the move.
var transitions = map[string]map[string][]string{
	entity.TransactionPending: {
		entity.TransactionConfirmed: {partySeller},
		entity.TransactionCancelled: {partyBuyer, partySeller, partyAdmin},
	},
	entity.TransactionConfirmed: {
		entity.TransactionCompleted: {partyBuyer},
		entity.TransactionCancelled: {partyBuyer, partySeller, partyAdmin},
		entity.TransactionDisputed:  {partyBuyer, partySeller},
	},
	entity.TransactionDisputed: {
		entity.TransactionCompleted: {partyAdmin},
		entity.TransactionCancelled: {partyAdmin},
	},
}

type TransactionUseCase struct {
	transactionRepo repository.TransactionRepository
	itemRepo        repository.ItemRepository
	userRepo        repository.UserRepository
	events          EventPublisher
	cache           ListingInvalidator
}

func NewTransactionUseCase(
	transactionRepo repository.TransactionRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
	cache ListingInvalidator,
) *TransactionUseCase {
	if events == nil {
		events = noopPublisher{}
	}
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &TransactionUseCase{
		transactionRepo: transactionRepo,
		itemRepo:        itemRepo,
		userRepo:        userRepo,
		events:          events,
		cache:           cache,
	}
}

type MeetingDetailsInput struct {
	Location      string     `json:"location" validate:"max=200"`
	ScheduledTime *time.Time `json:"scheduledTime"`
	Notes         string     `json:"notes" validate:"max=500"`
}

type CreateTransactionInput struct {
	ItemID         string               `json:"itemId" validate:"required"`
	PaymentMethod  string               `json:"paymentMethod" validate:"required,oneof=cash upi card wallet"`
	MeetingDetails *MeetingDetailsInput `json:"meetingDetails"`
}

type UpdateTransactionStatusInput struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled disputed"`
	Notes  string `json:"notes" validate:"max=500"`
}

type RateTransactionInput struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, actor Actor, input CreateTransactionInput) (*entity.Transaction, error) {
	if !actor.HasRole(entity.RoleBuyer, entity.RoleBoth) {
		return nil, errors.Forbidden("Only buyers can start a purchase", nil)
	}
	if !entity.IsValidPaymentMethod(input.PaymentMethod) {
		return nil, errors.Validation("paymentMethod must be one of cash, upi, card, wallet")
	}

	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}
	if item.SellerID == actor.UserID {
		return nil, errors.Validation("You cannot buy your own item")
	}
	if item.Status != entity.ItemStatusAvailable {
		return nil, errors.Validation("Item is not available")
	}

	open, _, err := uc.transactionRepo.List(ctx, entity.TransactionFilter{
		ItemID:  item.ID,
		BuyerID: actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	for _, t := range open {
		if t.Status == entity.TransactionPending || t.Status == entity.TransactionConfirmed {
			return nil, errors.Conflict("You already have an open purchase for this item")
		}
	}

	snapshot := item.EcoImpact
	transaction := &entity.Transaction{
		ItemID:        item.ID,
		BuyerID:       actor.UserID,
		SellerID:      item.SellerID,
		Amount:        item.Price,
		Status:        entity.TransactionPending,
		PaymentMethod: input.PaymentMethod,
		EcoImpact:     &snapshot,
	}
	if md := input.MeetingDetails; md != nil {
		transaction.MeetingDetails = &entity.MeetingDetails{
			Location:      strings.TrimSpace(md.Location),
			ScheduledTime: md.ScheduledTime,
			Notes:         strings.TrimSpace(md.Notes),
		}
	}

	if err := uc.transactionRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}
	uc.writeLog(ctx, transaction.ID, "", entity.TransactionPending, "Transaction created", actor.UserID)

	return transaction, nil
}

func (uc *TransactionUseCase) GetTransactionByID(ctx context.Context, actor Actor, id string) (*entity.Transaction, error) {
	transaction, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && !transaction.IsParty(actor.UserID) {
		return nil, errors.Forbidden("You don't have permission to view this transaction", nil)
	}
	return transaction, nil
}

// ListTransactions lists the caller's transactions. side narrows to "buyer"
// or "seller"; empty means both.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, actor Actor, side, status string, limit, offset int) ([]*entity.Transaction, int64, error) {
	filter := entity.TransactionFilter{Status: status, Limit: limit, Offset: offset}
	switch side {
	case "":
		filter.PartyID = actor.UserID
	case partyBuyer:
		filter.BuyerID = actor.UserID
	case partySeller:
		filter.SellerID = actor.UserID
	default:
		return nil, 0, errors.Validation("role must be buyer or seller")
	}
	if status != "" && !entity.IsValidTransactionStatus(status) {
		return nil, 0, errors.Validation("status must be one of pending, confirmed, completed, cancelled, disputed")
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultTransactionLimit
	}
	return uc.transactionRepo.List(ctx, filter)
}

// ListAllTransactions is the admin view across every user.
func (uc *TransactionUseCase) ListAllTransactions(ctx context.Context, status string, limit, offset int) ([]*entity.Transaction, int64, error) {
	if status != "" && !entity.IsValidTransactionStatus(status) {
		return nil, 0, errors.Validation("status must be one of pending, confirmed, completed, cancelled, disputed")
	}
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	return uc.transactionRepo.List(ctx, entity.TransactionFilter{Status: status, Limit: limit, Offset: offset})
}

// UpdateStatus moves the transaction along its lifecycle. Reaching completed
// applies the sale to both users and the item exactly once.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, actor Actor, id string, input UpdateTransactionStatusInput) (*entity.Transaction, error) {
	var (
		from       string
		applyStats bool
	)

	transaction, err := uc.transactionRepo.UpdateFunc(ctx, id, func(t *entity.Transaction) error {
		// The store may retry this function, so outputs are reset each run.
		from, applyStats = "", false
		if !actor.IsAdmin && !t.IsParty(actor.UserID) {
			return errors.Forbidden("You don't have permission to update this transaction", nil)
		}

		allowed, ok := transitions[t.Status][input.Status]
		if !ok {
			return errors.Validation(fmt.Sprintf("Cannot change transaction from %s to %s", t.Status, input.Status))
		}
		if !actorMayTransition(actor, t, allowed) {
			return errors.Forbidden(fmt.Sprintf("You cannot mark this transaction %s", input.Status), nil)
		}

		from = t.Status
		t.Status = input.Status
		if input.Status == entity.TransactionCompleted {
			now := time.Now()
			t.CompletedAt = &now
			if !t.StatsApplied {
				t.StatsApplied = true
				applyStats = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.writeLog(ctx, transaction.ID, from, transaction.Status, input.Notes, actor.UserID)

	if applyStats {
		uc.applyCompletion(ctx, transaction)
	}
	return transaction, nil
}

func actorMayTransition(actor Actor, t *entity.Transaction, allowed []string) bool {
	for _, party := range allowed {
		switch party {
		case partyBuyer:
			if t.BuyerID == actor.UserID {
				return true
			}
		case partySeller:
			if t.SellerID == actor.UserID {
				return true
			}
		case partyAdmin:
			if actor.IsAdmin {
				return true
			}
		}
	}
	return false
}

// applyCompletion fans the sale out to the seller, the buyer and the item.
// Each write stands alone; failures are logged and the rest still run.
func (uc *TransactionUseCase) applyCompletion(ctx context.Context, t *entity.Transaction) {
	var impact entity.EcoImpact
	if t.EcoImpact != nil {
		impact = *t.EcoImpact
	}

	credit := func(user *entity.User, trustDelta int) {
		user.EcoImpact.CO2Saved = service.AddRounded(user.EcoImpact.CO2Saved, impact.CO2Saved)
		user.EcoImpact.WaterSaved = service.AddRounded(user.EcoImpact.WaterSaved, impact.WaterSaved)
		user.EcoImpact.ItemsRescued++
		user.TrustScore = service.AdjustTrustScore(user.TrustScore, trustDelta)
	}

	if _, err := uc.userRepo.UpdateFunc(ctx, t.SellerID, func(u *entity.User) error {
		u.TotalSales++
		credit(u, service.SaleTrustBonus)
		service.AwardMilestoneBadges(u)
		return nil
	}); err != nil {
		logger.LogTransactionError(t.ID, "credit seller", err)
	}

	if _, err := uc.userRepo.UpdateFunc(ctx, t.BuyerID, func(u *entity.User) error {
		u.TotalPurchases++
		credit(u, service.PurchaseTrustBonus)
		service.AwardMilestoneBadges(u)
		return nil
	}); err != nil {
		logger.LogTransactionError(t.ID, "credit buyer", err)
	}

	if _, err := uc.itemRepo.UpdateFunc(ctx, t.ItemID, func(item *entity.Item) error {
		item.Status = entity.ItemStatusSold
		return nil
	}); err != nil {
		logger.LogTransactionError(t.ID, "mark item sold", err)
	} else {
		uc.cache.Invalidate(ctx)
	}

	if err := uc.events.Publish(ctx, mq.EventTransactionCompleted, map[string]interface{}{
		"transactionId": t.ID,
		"itemId":        t.ItemID,
		"buyerId":       t.BuyerID,
		"sellerId":      t.SellerID,
		"amount":        t.Amount,
		"ecoImpact":     impact,
	}); err != nil {
		logger.Warn("Failed to publish %s: %v", mq.EventTransactionCompleted, err)
	}
}

// Rate records one side's rating of the other once the deal is completed.
func (uc *TransactionUseCase) Rate(ctx context.Context, actor Actor, id string, input RateTransactionInput) (*entity.Transaction, error) {
	if input.Score < 1 || input.Score > 5 {
		return nil, errors.Validation("score must be between 1 and 5")
	}

	return uc.transactionRepo.UpdateFunc(ctx, id, func(t *entity.Transaction) error {
		if !t.IsParty(actor.UserID) {
			return errors.Forbidden("Only the buyer or seller can rate this transaction", nil)
		}
		if t.Status != entity.TransactionCompleted {
			return errors.Validation("Only completed transactions can be rated")
		}

		rating := &entity.Rating{
			Score:   input.Score,
			Comment: strings.TrimSpace(input.Comment),
			Date:    time.Now(),
		}
		if t.BuyerID == actor.UserID {
			if t.BuyerRating != nil {
				return errors.Conflict("You have already rated this transaction")
			}
			t.BuyerRating = rating
			return nil
		}
		if t.SellerRating != nil {
			return errors.Conflict("You have already rated this transaction")
		}
		t.SellerRating = rating
		return nil
	})
}

func (uc *TransactionUseCase) GetTransactionLogs(ctx context.Context, actor Actor, id string) ([]*entity.TransactionLog, error) {
	if _, err := uc.GetTransactionByID(ctx, actor, id); err != nil {
		return nil, err
	}
	logs, err := uc.transactionRepo.ListLogsByTransactionID(ctx, id)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []*entity.TransactionLog{}
	}
	return logs, nil
}

func (uc *TransactionUseCase) writeLog(ctx context.Context, transactionID, from, to, notes, by string) {
	entry := &entity.TransactionLog{
		TransactionID: transactionID,
		FromStatus:    from,
		Status:        to,
		Notes:         strings.TrimSpace(notes),
		CreatedBy:     by,
		CreatedAt:     time.Now(),
	}
	if err := uc.transactionRepo.CreateLog(ctx, entry); err != nil {
		logger.LogTransactionError(transactionID, "write log", err)
	}
}
