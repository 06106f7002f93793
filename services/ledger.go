package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null"
	"gorm.io/gorm"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/models"
	"github.com/zsmartex/mlm/types"
)

// Posting describes one balance mutation.
type Posting struct {
	MemberID      int64
	Amount        decimal.Decimal
	Category      types.LedgerCategory
	Description   string
	Reference     models.Reference
	TransactionID string
}

func NewTransactionID(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// Credit adds amount to the member's commission balance and total earned in one
// transaction together with its ledger entry.
func (s *LedgerService) Credit(member_id int64, amount decimal.Decimal, category types.LedgerCategory, description string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = CreditTx(tx, Posting{
			MemberID:    member_id,
			Amount:      amount,
			Category:    category,
			Description: description,
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *LedgerService) Debit(member_id int64, amount decimal.Decimal, category types.LedgerCategory, description string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		entry, err = DebitTx(tx, Posting{
			MemberID:    member_id,
			Amount:      amount,
			Category:    category,
			Description: description,
		})
		return err
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

// CreditTx must run inside tx; the wallet row stays locked until tx ends.
func CreditTx(tx *gorm.DB, p Posting) (*models.LedgerEntry, error) {
	wallet, err := lockPostingWallet(tx, p)
	if err != nil {
		return nil, err
	}

	before := wallet.CommissionBalance
	if err := wallet.PlusFunds(tx, p.Amount); err != nil {
		return nil, err
	}

	return appendEntry(tx, wallet, p, types.LedgerKindCredit, before)
}

// DebitTx must run inside tx. It fails with ErrInsufficientBalance without touching the
// wallet when the commission balance does not cover amount.
func DebitTx(tx *gorm.DB, p Posting) (*models.LedgerEntry, error) {
	wallet, err := lockPostingWallet(tx, p)
	if err != nil {
		return nil, err
	}

	if wallet.CommissionBalance.LessThan(p.Amount) {
		return nil, detailed(ErrInsufficientBalance, "Insufficient balance. Required: %s, available: %s", p.Amount.StringFixed(2), wallet.CommissionBalance.StringFixed(2))
	}

	before := wallet.CommissionBalance
	if err := wallet.SubFunds(tx, p.Amount); err != nil {
		return nil, err
	}

	return appendEntry(tx, wallet, p, types.LedgerKindDebit, before)
}

func lockPostingWallet(tx *gorm.DB, p Posting) (*models.Wallet, error) {
	if !p.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if len(p.Category) == 0 {
		return nil, ErrInvalidCategory
	}

	wallet, err := models.LockWallet(tx, p.MemberID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}

	return wallet, nil
}

func appendEntry(tx *gorm.DB, wallet *models.Wallet, p Posting, kind types.LedgerKind, before decimal.Decimal) (*models.LedgerEntry, error) {
	transaction_id := p.TransactionID
	if len(transaction_id) == 0 {
		transaction_id = NewTransactionID("TX")
	}

	entry := &models.LedgerEntry{
		TransactionID: transaction_id,
		MemberID:      wallet.MemberID,
		WalletID:      wallet.ID,
		Kind:          kind,
		Category:      p.Category,
		Amount:        p.Amount,
		BalanceBefore: before,
		BalanceAfter:  wallet.CommissionBalance,
		ReferenceType: p.Reference.Type,
		ReferenceID:   p.Reference.ID,
		Description:   p.Description,
	}

	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *LedgerService) EnsureWallet(member_id int64) (*models.Wallet, error) {
	wallet := &models.Wallet{}

	if err := s.db.Where(models.Wallet{MemberID: member_id}).FirstOrCreate(wallet).Error; err != nil {
		return nil, err
	}

	return wallet, nil
}

func (s *LedgerService) Wallet(member_id int64) (*models.Wallet, error) {
	var wallet *models.Wallet

	err := s.db.Where("member_id = ?", member_id).First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWalletNotFound
	} else if err != nil {
		return nil, err
	}

	return wallet, nil
}

func (s *LedgerService) History(member_id int64, limit, page int) ([]*models.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	var entries []*models.LedgerEntry

	err := s.db.
		Where("member_id = ?", member_id).
		Order("id desc").
		Offset(page*limit - limit).
		Limit(limit).
		Find(&entries).Error

	return entries, err
}

// Rewards lists the member's rewards newest first, optionally filtered by state.
func (s *LedgerService) Rewards(member_id int64, state types.RewardState, limit, page int) ([]*models.Reward, error) {
	if limit <= 0 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	tx := s.db.Where("member_id = ?", member_id).Order("id desc")
	if len(state) > 0 {
		tx = tx.Where("state = ?", state)
	}

	var rewards []*models.Reward
	err := tx.Offset(page*limit - limit).Limit(limit).Find(&rewards).Error

	return rewards, err
}

type RewardStats struct {
	Pending       int64           `json:"pending"`
	Paid          int64           `json:"paid"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
}

func (s *LedgerService) RewardStats(member_id int64) (*RewardStats, error) {
	var rows []struct {
		State  types.RewardState
		Count  int64
		Amount decimal.Decimal
	}

	if err := s.db.Model(&models.Reward{}).
		Select("state, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount").
		Where("member_id = ?", member_id).
		Group("state").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &RewardStats{PendingAmount: decimal.Zero, PaidAmount: decimal.Zero}
	for _, row := range rows {
		switch row.State {
		case types.RewardStatePending:
			stats.Pending = row.Count
			stats.PendingAmount = row.Amount
		case types.RewardStatePaid:
			stats.Paid = row.Count
			stats.PaidAmount = row.Amount
		}
	}

	return stats, nil
}

type PayoutResult struct {
	Processed   int             `json:"processed"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Errors      []string        `json:"errors,omitempty"`
}

var rewardCategories = map[types.RewardType]types.LedgerCategory{
	types.RewardTypeOneTimeBonus:      types.CategoryRankBonus,
	types.RewardTypeMonthlyLeadership: types.CategoryLeadershipBonus,
	types.RewardTypeClubAchievement:   types.CategoryClubAchievement,
	types.RewardTypeClubRoyalty:       types.CategoryClubRoyalty,
}

// ProcessPendingBonuses pays every PENDING reward, each in its own transaction. A reward
// whose member has no wallet stays PENDING and is retried on the next run.
func (s *LedgerService) ProcessPendingBonuses() (*PayoutResult, error) {
	var ids []int64

	if err := s.db.Model(&models.Reward{}).
		Where("state = ?", types.RewardStatePending).
		Order("id asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	result := &PayoutResult{TotalAmount: decimal.Zero}

	for _, id := range ids {
		reward, err := s.PayReward(id)

		switch {
		case err == nil:
			result.Processed++
			result.TotalAmount = result.TotalAmount.Add(reward.Amount)
		case errors.Is(err, ErrRewardAlreadyPaid):
			// paid by a concurrent run
		case errors.Is(err, ErrWalletNotFound):
			config.Logger.Warnf("[ledger] reward %d left pending: wallet not found", id)
			result.Skipped++
		default:
			config.Logger.Errorf("[ledger] failed to pay reward %d: %v", id, err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("reward %d: %v", id, err))
		}
	}

	return result, nil
}

// PayReward credits one PENDING reward and marks it PAID.
func (s *LedgerService) PayReward(id int64) (*models.Reward, error) {
	var reward *models.Reward

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := models.Lock(tx).First(&reward, id).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRewardNotFound
		} else if err != nil {
			return err
		}

		if !reward.IsPending() {
			return ErrRewardAlreadyPaid
		}

		return payRewardTx(tx, reward, time.Now().UTC())
	})

	if err != nil {
		return nil, err
	}

	return reward, nil
}

func payRewardTx(tx *gorm.DB, reward *models.Reward, now time.Time) error {
	transaction_id := NewTransactionID(reward.RewardType)

	if _, err := CreditTx(tx, Posting{
		MemberID:      reward.MemberID,
		Amount:        reward.Amount,
		Category:      rewardCategories[reward.RewardType],
		Description:   reward.Notes,
		Reference:     reward.Reference(),
		TransactionID: transaction_id,
	}); err != nil {
		return err
	}

	reward.State = types.RewardStatePaid
	reward.PaidAt = null.TimeFrom(now)
	reward.TransactionID = null.StringFrom(transaction_id)
	if err := tx.Save(reward).Error; err != nil {
		return err
	}

	if reward.RewardType == types.RewardTypeOneTimeBonus {
		return tx.Model(&models.RankAchievement{}).
			Where("member_id = ? AND rank_id = ?", reward.MemberID, reward.ReferenceID).
			Updates(map[string]interface{}{"bonus_paid": true, "bonus_paid_at": now}).Error
	}

	return nil
}
