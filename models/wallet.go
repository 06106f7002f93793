package models

import (
	"errors"
	"strconv"
	"time"

	"github.com/gookit/validate"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrNegativeBalance = errors.New("wallet balance cannot be negative")

type Wallet struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	MemberID          int64           `json:"member_id" gorm:"uniqueIndex"`
	CommissionBalance decimal.Decimal `json:"commission_balance" gorm:"type:decimal(32,8);default:0" validate:"ValidateCommissionBalance"`
	TotalEarned       decimal.Decimal `json:"total_earned" gorm:"type:decimal(32,8);default:0"`
	TotalSpent        decimal.Decimal `json:"total_spent" gorm:"type:decimal(32,8);default:0"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (w Wallet) ValidateCommissionBalance(balance decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(decimal.Zero)
}

func (w *Wallet) BeforeSave(tx *gorm.DB) error {
	if v := validate.Struct(w); !v.Validate() {
		return ErrNegativeBalance
	}

	return nil
}

// LockWallet loads the member's wallet with a row lock held until tx ends.
func LockWallet(tx *gorm.DB, member_id int64) (*Wallet, error) {
	var wallet *Wallet

	if err := Lock(tx).Where("member_id = ?", member_id).First(&wallet).Error; err != nil {
		return nil, err
	}

	return wallet, nil
}

func (w *Wallet) PlusFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errors.New("Cannot add funds (member id: " + strconv.FormatInt(w.MemberID, 10) + ", amount: " + amount.String() + ", balance: " + w.CommissionBalance.String() + ").")
	}

	w.CommissionBalance = w.CommissionBalance.Add(amount)
	w.TotalEarned = w.TotalEarned.Add(amount)
	return tx.Save(w).Error
}

func (w *Wallet) SubFunds(tx *gorm.DB, amount decimal.Decimal) error {
	if !amount.IsPositive() || amount.GreaterThan(w.CommissionBalance) {
		return errors.New("Cannot subtract funds (member id: " + strconv.FormatInt(w.MemberID, 10) + ", amount: " + amount.String() + ", balance: " + w.CommissionBalance.String() + ").")
	}

	w.CommissionBalance = w.CommissionBalance.Sub(amount)
	w.TotalSpent = w.TotalSpent.Add(amount)
	return tx.Save(w).Error
}

type WalletJSON struct {
	MemberID          int64           `json:"member_id"`
	CommissionBalance decimal.Decimal `json:"commission_balance"`
	TotalEarned       decimal.Decimal `json:"total_earned"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
}

func (w *Wallet) ToJSON() WalletJSON {
	return WalletJSON{
		MemberID:          w.MemberID,
		CommissionBalance: w.CommissionBalance,
		TotalEarned:       w.TotalEarned,
		TotalSpent:        w.TotalSpent,
	}
}
