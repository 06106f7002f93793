package queries

import "github.com/zsmartex/mlm/controllers/helpers"

type AssignRankParams struct {
	RankID int64 `json:"rank_id" form:"rank_id" validate:"required|min:1"`
}

func (p AssignRankParams) Messages() map[string]string {
	return helpers.VaildateMessage("admin.rank")
}

func (p AssignRankParams) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}
