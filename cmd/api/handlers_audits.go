package main

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/inventory-core/pkg/api"
	"github.com/ledgerline/inventory-core/pkg/logging"
	"github.com/ledgerline/inventory-core/pkg/middleware"

	"github.com/ledgerline/inventory-core/internal/application"
	"github.com/ledgerline/inventory-core/internal/infrastructure/spreadsheet"
)

type countRowRequest struct {
	ItemID      string  `json:"itemId"`
	Barcode     string  `json:"barcode"`
	PhysicalQty float64 `json:"physicalQty" binding:"gte=0"`
}

type createAuditRequest struct {
	Date      *time.Time        `json:"date"`
	Rows      []countRowRequest `json:"rows" binding:"required,min=1,dive"`
	CreatedBy string            `json:"createdBy" binding:"max=100,safe_string"`
}

// auditActor prefers the authenticated caller over a self-reported name
func auditActor(c *gin.Context, reported string) string {
	if userID := middleware.GetUserID(c); userID != "" {
		return userID
	}
	return reported
}

func createAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		var req createAuditRequest
		if appErr := middleware.BindAndValidate(c, &req); appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}

		cmd := application.CreateAuditCommand{
			Date:      dateOrZero(req.Date),
			CreatedBy: auditActor(c, req.CreatedBy),
		}
		for _, r := range req.Rows {
			cmd.Rows = append(cmd.Rows, application.CountRow{ItemID: r.ItemID, Barcode: r.Barcode, PhysicalQty: r.PhysicalQty})
		}

		audit, err := service.CreateAuditFromPhysicalCount(c.Request.Context(), cmd)
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, audit)
	}
}

// uploadAuditHandler creates a Draft audit from a counted workbook. The
// optional "createdBy" form field names the counter.
func uploadAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		file, appErr := openUpload(c)
		if appErr != nil {
			responder.RespondWithAppError(appErr)
			return
		}
		defer file.Close()

		rows, err := spreadsheet.ParsePhysicalCount(file)
		if err != nil {
			responder.RespondBadRequest(err.Error())
			return
		}

		audit, err := service.CreateAuditFromPhysicalCount(c.Request.Context(), application.CreateAuditCommand{
			Rows:      countRows(rows),
			CreatedBy: auditActor(c, middleware.SanitizeString(c.PostForm("createdBy"))),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		c.JSON(http.StatusCreated, audit)
	}
}

// listAuditsHandler accepts status, dateFrom and dateTo
func listAuditsHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		audits, err := service.ListAudits(c.Request.Context())
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}

		filter := api.ParseFilter(c)
		status := c.Query("status")
		audits = api.Filter(audits, func(a *application.AuditDTO) bool {
			return (status == "" || a.Status == status) &&
				filter.MatchesDate(a.Date) &&
				filter.MatchesSearch(a.ID, a.CreatedBy)
		})
		c.JSON(http.StatusOK, api.Paginate(audits, api.ParsePagination(c)))
	}
}

func getAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		audit, err := service.GetAudit(c.Request.Context(), c.Param("id"))
		if err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.JSON(http.StatusOK, audit)
	}
}

func exportAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		audit, err := service.GetAudit(c.Request.Context(), c.Param("id"))
		if err != nil {
			responder.RespondWithError(err)
			return
		}

		var buf bytes.Buffer
		if err := spreadsheet.ExportAudit(&buf, auditSheet(audit)); err != nil {
			responder.RespondWithError(err)
			return
		}
		sendWorkbook(c, audit.ID+".xlsx", buf.Bytes())
	}
}

// applyAuditHandler commits a Draft audit to stock. Super-admin only.
func applyAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger)

		audit, err := service.AuthorizeAndApplyAudit(c.Request.Context(), application.ApplyAuditCommand{
			AuditID: c.Param("id"),
			Actor:   middleware.GetUserID(c),
		})
		if err != nil {
			responder.RespondWithError(err)
			return
		}
		if audit == nil {
			responder.RespondNotFound("audit")
			return
		}

		c.JSON(http.StatusOK, audit)
	}
}

func deleteAuditHandler(service *application.ReconciliationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteAudit(c.Request.Context(), c.Param("id")); err != nil {
			middleware.NewErrorResponder(c, logger).RespondWithError(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
