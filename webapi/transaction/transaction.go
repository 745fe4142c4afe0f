// Package transaction exposes the transaction endpoints: create, list,
// delete and balance.
package transaction

import (
	"strconv"

	"github.com/fintrackr/fintrackr/pkg/config"
	txsvc "github.com/fintrackr/fintrackr/pkg/service/transaction"
	"github.com/fintrackr/fintrackr/webapi/common"
	"github.com/fintrackr/fintrackr/webapi/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the transaction endpoints; all require
// authentication.
func Routes(app *fiber.App, txSvc *txsvc.Service, cfg *config.App) {
	app.Post("/transactions", middleware.JwtProtected(cfg.Jwt), Create(txSvc))
	app.Get("/transactions", middleware.JwtProtected(cfg.Jwt), List(txSvc))
	app.Get("/transactions/balance", middleware.JwtProtected(cfg.Jwt), Balance(txSvc))
	app.Delete("/transactions/:id", middleware.JwtProtected(cfg.Jwt), Delete(txSvc))
}

// Create records a transaction, normalizing the amount into the
// caller's preferred currency at today's rate.
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateTransactionInput true "Transaction fields"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails
// @Router /transactions [post]
func Create(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		input, err := common.BindAndValidate[CreateTransactionInput](c)
		if input == nil {
			return err
		}
		tx, err := txSvc.Create(c.Context(), userID, txsvc.CreateInput{
			Amount:   input.Amount,
			Type:     input.Type,
			Category: input.Category,
			Date:     input.Date,
			Currency: input.Currency,
			Note:     input.Note,
		})
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to create transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", newView(tx))
	}
}

// List returns the caller's transactions, newest first, with optional
// category, type and named date window filters. Without page and limit
// the whole filtered set is returned as one page.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param category query string false "Category substring filter"
// @Param type query string false "income or expense"
// @Param filterBy query string false "today, last7days, last30days, last3months or yeartodate"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /transactions [get]
func List(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}

		input := txsvc.ListInput{
			Category: c.Query("category"),
			Type:     c.Query("type"),
			FilterBy: c.Query("filterBy"),
		}
		input.Page, err = queryInt(c, "page")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid query", nil, "page must be an integer", fiber.StatusBadRequest)
		}
		input.Limit, err = queryInt(c, "limit")
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid query", nil, "limit must be an integer", fiber.StatusBadRequest)
		}

		result, err := txSvc.List(c.Context(), userID, input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", fiber.Map{
			"transactions":      newViews(result.Items),
			"page":              result.Page,
			"limit":             result.Limit,
			"totalPages":        result.TotalPages,
			"totalTransactions": result.Total,
		})
	}
}

// Balance returns the signed sum of normalized amounts, optionally for
// a single date.
// @Summary Get balance
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param date query string false "Restrict to one date (YYYY-MM-DD)"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /transactions/balance [get]
func Balance(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		balance, err := txSvc.Balance(c.Context(), userID, c.Query("date"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to fetch balance", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Balance fetched", fiber.Map{
			"balance": balance,
		})
	}
}

// Delete removes one of the caller's transactions. Rows owned by other
// users are indistinguishable from missing ones.
// @Summary Delete transaction
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction id"
// @Success 200 {object} common.Response
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [delete]
func Delete(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.UserID(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", nil, "Invalid token", fiber.StatusUnauthorized)
		}
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid transaction id", nil, "id must be a UUID", fiber.StatusBadRequest)
		}
		if err := txSvc.Delete(c.Context(), userID, id); err != nil {
			return common.ProblemDetailsJSON(c, "Failed to delete transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted", nil)
	}
}

func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
