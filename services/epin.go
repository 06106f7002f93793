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

const epinCodePrefix = "EP"

// NewPinCode returns EP followed by 16 upper-case hex characters.
func NewPinCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return epinCodePrefix + strings.ToUpper(raw[:16])
}

type EPinService struct {
	db *gorm.DB
}

func NewEPinService(db *gorm.DB) *EPinService {
	return &EPinService{db: db}
}

type EPinGeneration struct {
	Pins        []*models.EPin      `json:"pins"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Fee         decimal.Decimal     `json:"fee"`
	TotalCost   decimal.Decimal     `json:"total_cost"`
	Entry       *models.LedgerEntry `json:"entry,omitempty"`
}

// GenerationCost returns the face total, the fee and what the issuer pays for count pins.
func GenerationCost(cfg *config.CompensationConfig, amount decimal.Decimal, count int) (total, fee, cost decimal.Decimal) {
	total = amount.Mul(decimal.NewFromInt(int64(count)))
	fee = total.Mul(cfg.EPin.FeePercent).Div(hundred).RoundBank(8)
	cost = total.Add(fee)
	return
}

// GenerateFromWallet debits the member's commission balance by the face total plus the fee
// and issues count pins, all or nothing.
func (s *EPinService) GenerateFromWallet(cfg *config.CompensationConfig, member_id int64, amount decimal.Decimal, count int) (*EPinGeneration, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if count < 1 || count > cfg.EPin.MaxWalletCount {
		return nil, detailed(ErrInvalidCount, "Count must be between 1 and %d", cfg.EPin.MaxWalletCount)
	}

	member, err := findMember(s.db, member_id)
	if err != nil {
		return nil, err
	}
	if member.Status == types.MemberStatusSuspended {
		return nil, ErrMemberSuspended
	}

	total, fee, cost := GenerationCost(cfg, amount, count)
	generation := &EPinGeneration{TotalAmount: total, Fee: fee, TotalCost: cost}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry, err := DebitTx(tx, Posting{
			MemberID:      member_id,
			Amount:        cost,
			Category:      types.CategoryEPinGeneration,
			Description:   fmt.Sprintf("Generated %d E-Pin(s) of %s, fee %s", count, amount.StringFixed(2), fee.StringFixed(2)),
			TransactionID: NewTransactionID("EPIN"),
		})
		if err != nil {
			return err
		}

		generation.Entry = entry

		pins, err := createPins(tx, member_id, types.EPinSourceWallet, amount, fee.Div(decimal.NewFromInt(int64(count))).RoundBank(8), count, cfg.EPin.DefaultExpiryDays)
		if err != nil {
			return err
		}

		generation.Pins = pins

		return nil
	})

	if err != nil {
		return nil, err
	}

	config.Logger.Infof("[epin] member %d generated %d pin(s) of %s for %s", member_id, count, amount, cost)

	return generation, nil
}

// GenerateByAdmin issues count pins without charging anyone. expiry_days of 0 falls back to the
// configured default.
func (s *EPinService) GenerateByAdmin(cfg *config.CompensationConfig, issuer_id int64, amount decimal.Decimal, count int, expiry_days int) ([]*models.EPin, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if count < 1 || count > cfg.EPin.MaxAdminCount {
		return nil, detailed(ErrInvalidCount, "Count must be between 1 and %d", cfg.EPin.MaxAdminCount)
	}
	if expiry_days < 0 {
		return nil, ErrInvalidExpiry
	}
	if expiry_days == 0 {
		expiry_days = cfg.EPin.DefaultExpiryDays
	}

	var pins []*models.EPin
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		pins, err = createPins(tx, issuer_id, types.EPinSourceAdmin, amount, decimal.Zero, count, expiry_days)
		return err
	})

	if err != nil {
		return nil, err
	}

	config.Logger.Infof("[epin] admin %d generated %d pin(s) of %s", issuer_id, count, amount)

	return pins, nil
}

func createPins(tx *gorm.DB, issuer_id int64, source types.EPinSource, amount, fee decimal.Decimal, count, expiry_days int) ([]*models.EPin, error) {
	expires_at := null.Time{}
	if expiry_days > 0 {
		expires_at = null.TimeFrom(time.Now().UTC().AddDate(0, 0, expiry_days))
	}

	pins := make([]*models.EPin, 0, count)
	for i := 0; i < count; i++ {
		pins = append(pins, &models.EPin{
			Code:      NewPinCode(),
			Amount:    amount,
			Fee:       fee,
			State:     types.EPinStateAvailable,
			Source:    source,
			IssuerID:  issuer_id,
			ExpiresAt: expires_at,
		})
	}

	if err := tx.Create(&pins).Error; err != nil {
		return nil, err
	}

	return pins, nil
}

type EPinVerification struct {
	Valid  bool         `json:"valid"`
	Reason string       `json:"reason,omitempty"`
	Pin    *models.EPin `json:"pin"`
}

// Verify reports whether code can be activated right now. It never changes the pin.
func (s *EPinService) Verify(code string) (*EPinVerification, error) {
	pin, err := s.findPin(code)
	if err != nil {
		return nil, err
	}

	verification := &EPinVerification{Pin: pin}

	switch {
	case pin.UsableAt(time.Now()):
		verification.Valid = true
	case pin.State == types.EPinStateAvailable, pin.State == types.EPinStateExpired:
		verification.Reason = ErrTokenExpired.Message
	case pin.State == types.EPinStateUsed:
		verification.Reason = "E-Pin has already been used"
	case pin.State == types.EPinStateBlocked:
		verification.Reason = "E-Pin is blocked"
	default:
		verification.Reason = ErrTokenNotAvailable.Message
	}

	return verification, nil
}

type EPinActivation struct {
	Pin   *models.EPin        `json:"pin"`
	Entry *models.LedgerEntry `json:"entry"`
}

// Activate consumes code on behalf of consumer_id and credits the face amount to target_id
// (the consumer when target_id is 0). An expired pin is moved to EXPIRED before the call
// fails with ErrTokenExpired.
func (s *EPinService) Activate(code string, consumer_id, target_id int64) (*EPinActivation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 0 {
		return nil, ErrInvalidCode
	}
	if target_id == 0 {
		target_id = consumer_id
	}

	target, err := findMember(s.db, target_id)
	if err != nil {
		return nil, err
	}
	if target.Status == types.MemberStatusSuspended {
		return nil, ErrMemberSuspended
	}

	activation := &EPinActivation{}
	expired := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var pin *models.EPin
		if err := models.Lock(tx).Where("code = ?", code).First(&pin).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		} else if err != nil {
			return err
		}

		now := time.Now().UTC()

		if pin.State != types.EPinStateAvailable {
			return detailed(ErrTokenNotAvailable, "E-Pin is %s", strings.ToLower(pin.State))
		}

		if pin.IsExpiredAt(now) {
			expired = true
			return tx.Model(pin).Update("state", types.EPinStateExpired).Error
		}

		result := tx.Model(&models.EPin{}).
			Where("id = ? AND state = ?", pin.ID, types.EPinStateAvailable).
			Updates(map[string]interface{}{
				"state":               types.EPinStateUsed,
				"consumer_id":         consumer_id,
				"activated_member_id": target_id,
				"used_at":             now,
			})
		if result.Error != nil {
			return result.Error
		} else if result.RowsAffected == 0 {
			return ErrTokenNotAvailable
		}

		pin.State = types.EPinStateUsed
		pin.ConsumerID = null.Int64From(consumer_id)
		pin.ActivatedMemberID = null.Int64From(target_id)
		pin.UsedAt = null.TimeFrom(now)

		entry, err := CreditTx(tx, Posting{
			MemberID:      target_id,
			Amount:        pin.Amount,
			Category:      types.CategoryEPinActivation,
			Description:   fmt.Sprintf("E-Pin %s activation", pin.Code),
			Reference:     pin.Reference(),
			TransactionID: NewTransactionID("EPIN"),
		})
		if err != nil {
			return err
		}

		if target.Status == types.MemberStatusInactive {
			if err := tx.Model(&models.Member{}).Where("id = ?", target_id).Update("status", types.MemberStatusActive).Error; err != nil {
				return err
			}
		}

		activation.Pin = pin
		activation.Entry = entry

		return nil
	})

	if err != nil {
		return nil, err
	}

	if expired {
		return nil, ErrTokenExpired
	}

	config.Logger.Infof("[epin] %s activated by member %d for member %d", code, consumer_id, target_id)

	return activation, nil
}

// Block takes an AVAILABLE pin out of circulation until it is unblocked.
func (s *EPinService) Block(code string) (*models.EPin, error) {
	return s.transition(code, types.EPinStateAvailable, types.EPinStateBlocked)
}

func (s *EPinService) Unblock(code string) (*models.EPin, error) {
	return s.transition(code, types.EPinStateBlocked, types.EPinStateAvailable)
}

func (s *EPinService) transition(code string, from, to types.EPinState) (*models.EPin, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 0 {
		return nil, ErrInvalidCode
	}

	var pin *models.EPin

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := models.Lock(tx).Where("code = ?", code).First(&pin).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		} else if err != nil {
			return err
		}

		if pin.State != from {
			return detailed(ErrTokenNotAvailable, "E-Pin is %s", strings.ToLower(pin.State))
		}

		pin.State = to
		return tx.Save(pin).Error
	})

	if err != nil {
		return nil, err
	}

	return pin, nil
}

type EPinStats struct {
	Total          int64           `json:"total"`
	Available      int64           `json:"available"`
	Used           int64           `json:"used"`
	Expired        int64           `json:"expired"`
	Blocked        int64           `json:"blocked"`
	TotalValue     decimal.Decimal `json:"total_value"`
	AvailableValue decimal.Decimal `json:"available_value"`
	UsedValue      decimal.Decimal `json:"used_value"`
}

// Stats counts pins per state; issuer_id 0 covers every issuer.
func (s *EPinService) Stats(issuer_id int64) (*EPinStats, error) {
	var rows []struct {
		State types.EPinState
		Count int64
		Value decimal.Decimal
	}

	tx := s.db.Model(&models.EPin{}).Select("state, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS value").Group("state")
	if issuer_id > 0 {
		tx = tx.Where("issuer_id = ?", issuer_id)
	}

	if err := tx.Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &EPinStats{TotalValue: decimal.Zero, AvailableValue: decimal.Zero, UsedValue: decimal.Zero}
	for _, row := range rows {
		stats.Total += row.Count
		stats.TotalValue = stats.TotalValue.Add(row.Value)

		switch row.State {
		case types.EPinStateAvailable:
			stats.Available = row.Count
			stats.AvailableValue = row.Value
		case types.EPinStateUsed:
			stats.Used = row.Count
			stats.UsedValue = row.Value
		case types.EPinStateExpired:
			stats.Expired = row.Count
		case types.EPinStateBlocked:
			stats.Blocked = row.Count
		}
	}

	return stats, nil
}

// List returns the pins of issuer_id, newest first, optionally filtered by state.
func (s *EPinService) List(issuer_id int64, state types.EPinState, limit, page int) ([]*models.EPin, error) {
	if limit <= 0 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}

	tx := s.db.Order("id desc")
	if issuer_id > 0 {
		tx = tx.Where("issuer_id = ?", issuer_id)
	}
	if len(state) > 0 {
		tx = tx.Where("state = ?", state)
	}

	var pins []*models.EPin
	err := tx.Offset(page*limit - limit).Limit(limit).Find(&pins).Error

	return pins, err
}

func (s *EPinService) findPin(code string) (*models.EPin, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) == 0 {
		return nil, ErrInvalidCode
	}

	var pin *models.EPin

	err := s.db.Where("code = ?", code).First(&pin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	} else if err != nil {
		return nil, err
	}

	return pin, nil
}
