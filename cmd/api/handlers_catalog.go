package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/api"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/middleware"

	"github.com/ledgerline/inventory-core/internal/application"
)

type partyRequest struct {
	Name    string `json:"name" binding:"required,max=200,safe_string"`
	Phone   string `json:"phone" binding:"max=50,safe_string"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=500,safe_string"`
}

func (r partyRequest) toCommand() application.PartyCommand {
	return application.PartyCommand{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

// partyRoutes binds one party book's operations
type partyRoutes struct {
	create func(ctx context.Context, cmd application.PartyCommand) (*application.PartyDTO, error)
	update func(ctx context.Context, id string, cmd application.PartyCommand) (*application.PartyDTO, error)
	get    func(ctx context.Context, id string) (*application.PartyDTO, error)
	list   func(ctx context.Context) ([]*application.PartyDTO, error)
	delete func(ctx context.Context, id string) error
}

func registerPartyRoutes(group *gin.RouterGroup, routes partyRoutes, logger *logging.Logger) {
	group.POST("", func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req partyRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		party, err := routes.create(c.Request.Context(), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, party)
	})

	group.GET("", func(c *gin.Context) {
		parties, err := routes.list(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		parties = api.Filter(parties, func(p *application.PartyDTO) bool {
			return filter.MatchesSearch(p.ID, p.Name, p.Phone, p.Email)
		})
		c.JSON(http.StatusOK, api.Paginate(parties, api.ParsePagination(c)))
	})

	group.GET("/:id", func(c *gin.Context) {
		party, err := routes.get(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, party)
	})

	group.PUT("/:id", func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req partyRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		party, err := routes.update(c.Request.Context(), c.Param("id"), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, party)
	})

	group.DELETE("/:id", func(c *gin.Context) {
		if err := routes.delete(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func partyBalanceHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		balance, err := service.PartyBalance(c.Request.Context(), c.Param("type"), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, balance)
	}
}

type voucherRequest struct {
	PartyType     string     `json:"partyType" binding:"required,party_type"`
	PartyID       string     `json:"partyId" binding:"required,seq_id"`
	Date          *time.Time `json:"date"`
	Amount        float64    `json:"amount" binding:"gt=0"`
	PaymentTypeID string     `json:"paymentTypeId"`
	CurrencyID    string     `json:"currencyId"`
	Note          string     `json:"note" binding:"max=1000,safe_string"`
}

func createVoucherHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req voucherRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		voucher, err := service.CreateVoucher(c.Request.Context(), application.VoucherCommand{
			PartyType:     req.PartyType,
			PartyID:       req.PartyID,
			Date:          dateOrZero(req.Date),
			Amount:        req.Amount,
			PaymentTypeID: req.PaymentTypeID,
			CurrencyID:    req.CurrencyID,
			Note:          req.Note,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, voucher)
	}
}

// listVouchersHandler accepts partyId, dateFrom and dateTo
func listVouchersHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vouchers, err := service.ListVouchers(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		partyID := c.Query("partyId")
		vouchers = api.Filter(vouchers, func(v *application.VoucherDTO) bool {
			return (partyID == "" || v.PartyID == partyID) &&
				filter.MatchesDate(v.Date) &&
				filter.MatchesSearch(v.ID, v.PartyID, v.Note)
		})
		c.JSON(http.StatusOK, api.Paginate(vouchers, api.ParsePagination(c)))
	}
}

func getVoucherHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		voucher, err := service.GetVoucher(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, voucher)
	}
}

func deleteVoucherHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteVoucher(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type currencyRequest struct {
	Code      string  `json:"code" binding:"required,max=10,alphanum"`
	Name      string  `json:"name" binding:"max=100,safe_string"`
	Symbol    string  `json:"symbol" binding:"max=10,safe_string"`
	Digits    int32   `json:"digits" binding:"gte=0,lte=8"`
	Rate      float64 `json:"rate" binding:"gt=0"`
	IsDefault bool    `json:"isDefault"`
}

func (r currencyRequest) toCommand() application.CurrencyCommand {
	return application.CurrencyCommand{
		Code:      r.Code,
		Name:      r.Name,
		Symbol:    r.Symbol,
		Digits:    r.Digits,
		Rate:      r.Rate,
		IsDefault: r.IsDefault,
	}
}

func createCurrencyHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req currencyRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		currency, err := service.CreateCurrency(c.Request.Context(), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, currency)
	}
}

func updateCurrencyHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req currencyRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		currency, err := service.UpdateCurrency(c.Request.Context(), c.Param("id"), req.toCommand())
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, currency)
	}
}

func listCurrenciesHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		currencies, err := service.ListCurrencies(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, api.Paginate(currencies, api.ParsePagination(c)))
	}
}

func deleteCurrencyHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteCurrency(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type paymentTypeRequest struct {
	Name string `json:"name" binding:"required,max=100,safe_string"`
}

func createPaymentTypeHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req paymentTypeRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		paymentType, err := service.CreatePaymentType(c.Request.Context(), application.PaymentTypeCommand{Name: req.Name})
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, paymentType)
	}
}

func updatePaymentTypeHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req paymentTypeRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		paymentType, err := service.UpdatePaymentType(c.Request.Context(), c.Param("id"), application.PaymentTypeCommand{Name: req.Name})
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, paymentType)
	}
}

func listPaymentTypesHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentTypes, err := service.ListPaymentTypes(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, api.Paginate(paymentTypes, api.ParsePagination(c)))
	}
}

func deletePaymentTypeHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeletePaymentType(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type settingRequest struct {
	Name   string `json:"name" binding:"required,max=100,safe_string"`
	Symbol string `json:"symbol" binding:"max=10,safe_string"`
	Parent string `json:"parent" binding:"max=100,safe_string"`
}

// settingCategoryParam is the validated :category path segment
type settingCategoryParam struct {
	Category string `uri:"category" binding:"required,setting_category"`
}

func bindSettingCategory(c *gin.Context, logger *logging.Logger) (string, bool) {
	var param settingCategoryParam
	if err := c.ShouldBindUri(&param); err != nil {
		middleware.NewErrorResponder(c, logger).RespondBadRequest("unknown settings category: " + c.Param("category"))
		return "", false
	}
	return param.Category, true
}

func addSettingHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		category, ok := bindSettingCategory(c, logger)
		if !ok {
			return
		}

		var req settingRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		option, err := service.AddSettingOption(c.Request.Context(), application.SettingOptionCommand{
			Category: category,
			Name:     req.Name,
			Symbol:   req.Symbol,
			Parent:   req.Parent,
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		c.JSON(http.StatusCreated, option)
	}
}

func listSettingsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := bindSettingCategory(c, logger)
		if !ok {
			return
		}

		options, err := service.ListSettingOptions(c.Request.Context(), category)
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category, "options": options})
	}
}

func deleteSettingHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, ok := bindSettingCategory(c, logger)
		if !ok {
			return
		}

		if err := service.DeleteSettingOption(c.Request.Context(), category, c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
