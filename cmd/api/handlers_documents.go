package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/api"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/middleware"

	"github.com/ledgerline/inventory-core/internal/application"
)

type lineRequest struct {
	ItemID    string  `json:"itemId" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
	UnitPrice float64 `json:"unitPrice" binding:"gte=0"`
}

type expenseRequest struct {
	Description string  `json:"description" binding:"safe_string"`
	Amount      float64 `json:"amount" binding:"gte=0"`
}

func toLineInputs(lines []lineRequest) []application.LineInput {
	out := make([]application.LineInput, len(lines))
	for i, l := range lines {
		out[i] = application.LineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}

func toExpenseInputs(expenses []expenseRequest) []application.ExpenseInput {
	out := make([]application.ExpenseInput, len(expenses))
	for i, e := range expenses {
		out[i] = application.ExpenseInput{Description: e.Description, Amount: e.Amount}
	}
	return out
}

// dateOrZero leaves an absent date for the service to default
func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

type purchaseRequest struct {
	SupplierID    string           `json:"supplierId" binding:"required,seq_id"`
	Kind          string           `json:"kind" binding:"required,oneof=local import"`
	Date          *time.Time       `json:"date"`
	Items         []lineRequest    `json:"items" binding:"required,min=1,dive"`
	Expenses      []expenseRequest `json:"expenses" binding:"dive"`
	PaymentTypeID string           `json:"paymentTypeId"`
	CurrencyID    string           `json:"currencyId"`
	PaidAmount    float64          `json:"paidAmount" binding:"gte=0"`
	Note          string           `json:"note" binding:"max=1000,safe_string"`
}

func (r purchaseRequest) toCommand() application.PurchaseCommand {
	return application.PurchaseCommand{
		SupplierID:    r.SupplierID,
		Kind:          r.Kind,
		Date:          dateOrZero(r.Date),
		Items:         toLineInputs(r.Items),
		Expenses:      toExpenseInputs(r.Expenses),
		PaymentTypeID: r.PaymentTypeID,
		CurrencyID:    r.CurrencyID,
		PaidAmount:    r.PaidAmount,
		Note:          r.Note,
	}
}

func recordPurchaseHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req purchaseRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		purchase, err := service.RecordPurchase(c.Request.Context(), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, purchase)
	}
}

// updatePurchaseHandler replaces a purchase and answers with the stored result
func updatePurchaseHandler(ledger *application.LedgerService, queries *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req purchaseRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		id := c.Param("id")
		if err := ledger.UpdatePurchase(c.Request.Context(), id, req.toCommand()); err != nil {
			responder.RespondWithError(err)
			return
		}

		purchase, err := queries.GetPurchase(c.Request.Context(), id)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func deletePurchaseHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeletePurchase(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getPurchaseHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		purchase, err := service.GetPurchase(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

// listPurchasesHandler accepts search, supplierId, dateFrom and dateTo
func listPurchasesHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		purchases, err := service.ListPurchases(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		supplierID := c.Query("supplierId")
		purchases = api.Filter(purchases, func(p *application.PurchaseDTO) bool {
			return (supplierID == "" || p.SupplierID == supplierID) &&
				filter.MatchesDate(p.Date) &&
				filter.MatchesSearch(p.ID, p.SupplierID, p.Note)
		})
		c.JSON(http.StatusOK, api.Paginate(purchases, api.ParsePagination(c)))
	}
}

func purchaseLandingCostsHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := service.PurchaseLandingCosts(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

type landingCostPreviewRequest struct {
	Items    []lineRequest    `json:"items" binding:"required,dive"`
	Expenses []expenseRequest `json:"expenses" binding:"dive"`
}

// previewLandingCostsHandler allocates expenses over unsaved lines
func previewLandingCostsHandler(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req landingCostPreviewRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			middleware.NewErrorResponder(c, logger).RespondWithAppError(appErr)
			return
		}

		c.JSON(http.StatusOK, application.PreviewLandingCosts(toLineInputs(req.Items), toExpenseInputs(req.Expenses)))
	}
}

type saleRequest struct {
	ClientID      string        `json:"clientId" binding:"required,seq_id"`
	Date          *time.Time    `json:"date"`
	Items         []lineRequest `json:"items" binding:"required,min=1,dive"`
	PaymentTypeID string        `json:"paymentTypeId"`
	CurrencyID    string        `json:"currencyId"`
	PaidAmount    float64       `json:"paidAmount" binding:"gte=0"`
	Note          string        `json:"note" binding:"max=1000,safe_string"`
}

func (r saleRequest) toCommand() application.SaleCommand {
	return application.SaleCommand{
		ClientID:      r.ClientID,
		Date:          dateOrZero(r.Date),
		Items:         toLineInputs(r.Items),
		PaymentTypeID: r.PaymentTypeID,
		CurrencyID:    r.CurrencyID,
		PaidAmount:    r.PaidAmount,
		Note:          r.Note,
	}
}

func recordSaleHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req saleRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		sale, err := service.RecordSale(c.Request.Context(), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, sale)
	}
}

func updateSaleHandler(ledger *application.LedgerService, queries *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req saleRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		id := c.Param("id")
		if err := ledger.UpdateSale(c.Request.Context(), id, req.toCommand()); err != nil {
			responder.RespondWithError(err)
			return
		}

		sale, err := queries.GetSale(c.Request.Context(), id)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func deleteSaleHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteSale(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getSaleHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sale, err := service.GetSale(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

// listSalesHandler accepts search, clientId, dateFrom and dateTo
func listSalesHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sales, err := service.ListSales(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		clientID := c.Query("clientId")
		sales = api.Filter(sales, func(s *application.SaleDTO) bool {
			return (clientID == "" || s.ClientID == clientID) &&
				filter.MatchesDate(s.Date) &&
				filter.MatchesSearch(s.ID, s.ClientID, s.Note)
		})
		c.JSON(http.StatusOK, api.Paginate(sales, api.ParsePagination(c)))
	}
}

type purchaseReturnRequest struct {
	PurchaseID string        `json:"purchaseId" binding:"required,seq_id"`
	Date       *time.Time    `json:"date"`
	Items      []lineRequest `json:"items" binding:"required,min=1,dive"`
	Note       string        `json:"note" binding:"max=1000,safe_string"`
}

func recordPurchaseReturnHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req purchaseReturnRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		ret, err := service.RecordPurchaseReturn(c.Request.Context(), application.PurchaseReturnCommand{
			PurchaseID: req.PurchaseID,
			Date:       dateOrZero(req.Date),
			Items:      toLineInputs(req.Items),
			Note:       req.Note,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, ret)
	}
}

// applyPurchaseReturnHandler books a return against stock. Repeating it is harmless.
func applyPurchaseReturnHandler(ledger *application.LedgerService, queries *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		id := c.Param("id")
		if err := ledger.ApplyPurchaseReturnToStock(c.Request.Context(), id); err != nil {
			responder.RespondWithError(err)
			return
		}

		ret, err := queries.GetPurchaseReturn(c.Request.Context(), id)
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, ret)
	}
}

func deletePurchaseReturnHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeletePurchaseReturn(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getPurchaseReturnHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ret, err := service.GetPurchaseReturn(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, ret)
	}
}

// listPurchaseReturnsHandler lists returns, narrowed to one purchase by ?purchaseId=
func listPurchaseReturnsHandler(service *application.DocumentQueryService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		returns, err := service.ListPurchaseReturns(c.Request.Context(), c.Query("purchaseId"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		returns = api.Filter(returns, func(r *application.PurchaseReturnDTO) bool {
			return filter.MatchesDate(r.Date) && filter.MatchesSearch(r.ID, r.PurchaseID, r.SupplierID, r.Note)
		})
		c.JSON(http.StatusOK, api.Paginate(returns, api.ParsePagination(c)))
	}
}
