package queries

import (
	"github.com/shopspring/decimal"

	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/types"
)

type GenerateEPinParams struct {
	Amount decimal.Decimal `json:"amount" form:"amount" validate:"ValidateAmount"`
	Count  int             `json:"count" form:"count" validate:"required|min:1"`
}

func (p GenerateEPinParams) ValidateAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}

func (p GenerateEPinParams) Messages() map[string]string {
	return helpers.VaildateMessage("epin.generate")
}

func (p GenerateEPinParams) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}

type AdminGenerateEPinParams struct {
	Amount     decimal.Decimal `json:"amount" form:"amount" validate:"ValidateAmount"`
	Count      int             `json:"count" form:"count" validate:"required|min:1"`
	ExpiryDays int             `json:"expiry_days" form:"expiry_days" validate:"uint"`
}

func (p AdminGenerateEPinParams) ValidateAmount(amount decimal.Decimal) bool {
	return amount.IsPositive()
}

func (p AdminGenerateEPinParams) Messages() map[string]string {
	return helpers.VaildateMessage("admin.epin")
}

func (p AdminGenerateEPinParams) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}

// ActivateEPinParams activates code for MemberUID, or for the caller when it is empty.
type ActivateEPinParams struct {
	Code      string `json:"code" form:"code" validate:"required"`
	MemberUID string `json:"member_uid" form:"member_uid"`
}

func (p ActivateEPinParams) Messages() map[string]string {
	return helpers.VaildateMessage("epin.activate")
}

func (p ActivateEPinParams) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}

type EPinFilters struct {
	State types.EPinState `query:"state" validate:"ValidateState"`
	Limit int             `query:"limit" validate:"uint|max:1000"`
	Page  int             `query:"page" validate:"uint"`
}

func (t EPinFilters) ValidateState(state types.EPinState) bool {
	switch state {
	case "", types.EPinStateAvailable, types.EPinStateUsed, types.EPinStateExpired, types.EPinStateBlocked:
		return true
	default:
		return false
	}
}

func (t EPinFilters) Messages() map[string]string {
	return helpers.VaildateMessage("epin")
}

func (t EPinFilters) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}
