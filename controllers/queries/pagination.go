package queries

import "github.com/zsmartex/mlm/controllers/helpers"

type PaginationQueries struct {
	Limit int `query:"limit" validate:"uint|max:1000"`
	Page  int `query:"page" validate:"uint"`
}

func (t PaginationQueries) Messages() map[string]string {
	return helpers.VaildateMessage("wallet.history")
}

func (t PaginationQueries) Translates() map[string]string {
	return helpers.VaildateTranslateFields()
}
