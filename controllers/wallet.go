package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zsmartex/mlm/controllers/auth"
	"github.com/zsmartex/mlm/controllers/entities"
	"github.com/zsmartex/mlm/controllers/helpers"
	"github.com/zsmartex/mlm/controllers/queries"
	"github.com/zsmartex/mlm/models"
)

func LedgerEntryToEntity(entry *models.LedgerEntry) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		Kind:          entry.Kind,
		Category:      entry.Category,
		Amount:        entry.Amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		Description:   entry.Description,
		CreatedAt:     entry.CreatedAt,
	}
}

func GetWallet(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	wallet, err := helpers.Engine().Ledger.Wallet(CurrentUser.ID)
	if err != nil {
		return helpers.Fail(c, err)
	}

	return helpers.Success(c, "Wallet", wallet.ToJSON())
}

func GetWalletHistory(c *fiber.Ctx) error {
	CurrentUser := auth.GetCurrentUser(c)

	errors := new(helpers.Errors)
	params := new(queries.PaginationQueries)
	if err := c.QueryParser(params); err != nil {
		return c.Status(500).JSON(helpers.Errors{
			Errors: []string{"server.method.invalid_query"},
		})
	}

	helpers.Vaildate(params, errors)
	if errors.Size() > 0 {
		return c.Status(422).JSON(errors)
	}

	if params.Limit == 0 {
		params.Limit = 100
	}

	if params.Page == 0 {
		params.Page = 1
	}

	entries, err := helpers.Engine().Ledger.History(CurrentUser.ID, params.Limit, params.Page)
	if err != nil {
		return helpers.Fail(c, err)
	}

	entry_entities := make([]*entities.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		entry_entities = append(entry_entities, LedgerEntryToEntity(entry))
	}

	c.Response().Header.Add("page", strconv.FormatInt(int64(params.Page), 10))
	c.Response().Header.Add("per-page", strconv.FormatInt(int64(params.Limit), 10))

	return helpers.Success(c, "Wallet history", entry_entities)
}
