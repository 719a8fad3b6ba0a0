package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/api"
	"github.com/ledgerline/inventory-core/pkg/errors"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/middleware"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/infrastructure/spreadsheet"
)

// maxUploadSize bounds spreadsheet uploads
const maxUploadSize = 10 << 20

type unitsRequest struct {
	PurchaseUnit      string  `json:"purchaseUnit" binding:"safe_string"`
	StorageUnit       string  `json:"storageUnit" binding:"safe_string"`
	SellingUnit       string  `json:"sellingUnit" binding:"safe_string"`
	PurchaseToStorage float64 `json:"purchaseToStorage" binding:"gte=0"`
	StorageToSelling  float64 `json:"storageToSelling" binding:"gte=0"`
}

func (r unitsRequest) toInput() application.UnitsInput {
	return application.UnitsInput{
		PurchaseUnit:      r.PurchaseUnit,
		StorageUnit:       r.StorageUnit,
		SellingUnit:       r.SellingUnit,
		PurchaseToStorage: r.PurchaseToStorage,
		StorageToSelling:  r.StorageToSelling,
	}
}

type itemRequest struct {
	Name         string       `json:"name" binding:"required,max=200,safe_string"`
	Barcode      string       `json:"barcode" binding:"max=64,safe_string"`
	Category     string       `json:"category" binding:"safe_string"`
	Brand        string       `json:"brand" binding:"safe_string"`
	UnitPrice    float64      `json:"unitPrice" binding:"gte=0"`
	OpeningStock float64      `json:"openingStock"`
	Units        unitsRequest `json:"units"`
}

func createItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req itemRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		item, err := service.CreateItem(c.Request.Context(), application.CreateItemCommand{
			Name:         req.Name,
			Barcode:      req.Barcode,
			Category:     req.Category,
			Brand:        req.Brand,
			UnitPrice:    req.UnitPrice,
			OpeningStock: req.OpeningStock,
			Units:        req.Units.toInput(),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

func updateItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		// openingStock is accepted for symmetry with create and ignored
		var req itemRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		item, err := service.UpdateItem(c.Request.Context(), c.Param("id"), application.UpdateItemCommand{
			Name:      req.Name,
			Barcode:   req.Barcode,
			Category:  req.Category,
			Brand:     req.Brand,
			UnitPrice: req.UnitPrice,
			Units:     req.Units.toInput(),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

func getItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := service.GetItem(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// listItemsHandler serves GET /items. ?barcode= looks up a single item.
func listItemsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		if barcode := c.Query("barcode"); barcode != "" {
			item, err := service.FindItemByBarcode(c.Request.Context(), barcode)
			if err != nil {
				responder.RespondWithError(err)
				return
			}
			c.JSON(http.StatusOK, item)
			return
		}

		items, err := service.ListItems(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		items = api.Filter(items, func(item *application.ItemDTO) bool {
			return filter.MatchesSearch(item.Name, item.Barcode, item.Category, item.Brand)
		})
		c.JSON(http.StatusOK, api.Paginate(items, api.ParsePagination(c)))
	}
}

func deleteItemHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// importItemsHandler creates items from an uploaded workbook's "file" field
func importItemsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		file, appErr := openUpload(c)
		if appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		defer file.Close()

		rows, err := spreadsheet.ParseItemImport(file)
		if err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		result, err := service.ImportItems(c.Request.Context(), itemCommands(rows))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func exportItemsHandler(service *application.CatalogService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		items, err := service.ListItems(c.Request.Context())
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		var buf bytes.Buffer
		if err := spreadsheet.ExportStockReport(&buf, stockRows(items)); err != nil {
			responder.RespondWithError(err)
			return
		}
		sendWorkbook(c, fmt.Sprintf("stock-%s.xlsx", time.Now().UTC().Format(time.DateOnly)), buf.Bytes())
	}
}

type stockEntryRequest struct {
	ItemID   string  `json:"itemId" binding:"required"`
	NewStock float64 `json:"newStock"`
}

type bulkStockRequest struct {
	Entries []stockEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// bulkUpdateStockHandler overwrites stock levels. Super-admin only.
func bulkUpdateStockHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req bulkStockRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.BulkUpdateStockCommand{Actor: middleware.GetUserID(c)}
		for _, e := range req.Entries {
			cmd.Entries = append(cmd.Entries, application.StockEntry{ItemID: e.ItemID, NewStock: e.NewStock})
		}

		if err := service.BulkUpdateItemStock(c.Request.Context(), cmd); err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"updated": len(cmd.Entries)})
	}
}

func verifyStockHandler(service *application.LedgerService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		drifts, err := service.VerifyStock(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		if drifts == nil {
			drifts = []application.StockDriftDTO{}
		}
		c.JSON(http.StatusOK, gin.H{
			"consistent": len(drifts) == 0,
			"drifts":     drifts,
		})
	}
}

func openUpload(c *gin.Context) (io.ReadCloser, *errors.AppError) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	header, err := c.FormFile("file")
	if err != nil {
		return nil, errors.ErrBadRequest("multipart field \"file\" is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, errors.ErrBadRequest("failed to read upload: " + err.Error())
	}
	return file, nil
}

func sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, spreadsheet.ContentType, data)
}

func countRows(rows []spreadsheet.CountRow) []application.CountRow {
	out := make([]application.CountRow, len(rows))
	for i, r := range rows {
		out[i] = application.CountRow{ItemID: r.ItemID, Barcode: r.Barcode, PhysicalQty: r.PhysicalQty}
	}
	return out
}

func itemCommands(rows []spreadsheet.ItemRow) []application.CreateItemCommand {
	out := make([]application.CreateItemCommand, len(rows))
	for i, r := range rows {
		out[i] = application.CreateItemCommand{
			Name:         r.Name,
			Barcode:      r.Barcode,
			Category:     r.Category,
			Brand:        r.Brand,
			UnitPrice:    r.UnitPrice,
			OpeningStock: r.OpeningStock,
		}
	}
	return out
}

func stockRows(items []*application.ItemDTO) []spreadsheet.StockRow {
	out := make([]spreadsheet.StockRow, len(items))
	for i, item := range items {
		out[i] = spreadsheet.StockRow{
			ItemID:    item.ID,
			Barcode:   item.Barcode,
			Name:      item.Name,
			Category:  item.Category,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice,
			Stock:     item.Stock,
		}
	}
	return out
}

func auditSheet(audit *application.AuditDTO) spreadsheet.AuditSheet {
	sheet := spreadsheet.AuditSheet{
		ID:          audit.ID,
		Status:      audit.Status,
		Rows:        make([]spreadsheet.AuditRow, len(audit.Items)),
		TotalImpact: audit.TotalImpact,
	}
	for i, row := range audit.Items {
		sheet.Rows[i] = spreadsheet.AuditRow{
			ItemID:      row.ItemID,
			ItemName:    row.ItemName,
			SystemQty:   row.SystemQty,
			PhysicalQty: row.PhysicalQty,
			Difference:  row.Difference,
			UnitPrice:   row.UnitPrice,
			Impact:      row.ImpactValue,
		}
	}
	return sheet
}
