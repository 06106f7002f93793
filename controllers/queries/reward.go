package queries

import (
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/types"
)

type RewardFilters struct {
	State types.RewardState `query:"state" validate:"ValidateState"`
	Limit int               `query:"limit" validate:"uint|max:1000"`
	Page  int               `query:"page" validate:"uint"`
}

func (t RewardFilters) ValidateState(state types.RewardState) bool {
	return state == "" || state == types.RewardStatePending || state == types.RewardStatePaid
}

func (t RewardFilters) Messages() map[string]string {
	return helpers.VaildateMessage("reward")
}

func (t RewardFilters) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}
