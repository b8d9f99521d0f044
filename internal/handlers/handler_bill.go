package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
	"github.com/p-karari/hms-sub002/internal/middleware"
)

// billHandler handles HTTP requests related to bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
	voidService portssvc.BillAuditSvc
}

// newBillHandler creates a new billHandler.
func newBillHandler(billService portssvc.BillSvcFacade, voidService portssvc.BillAuditSvc) *billHandler {
	return &billHandler{billService: billService, voidService: voidService}
}

// registerBillRoutes registers routes related to bills.
func registerBillRoutes(rg *gin.RouterGroup, billService portssvc.BillSvcFacade, voidService portssvc.BillAuditSvc) {
	h := newBillHandler(billService, voidService)

	bills := rg.Group("/bills")
	{
		bills.POST("", h.createBill)
		bills.GET("", h.findBillByCorrelationID)
		bills.GET("/:billID", h.getBill)
		bills.POST("/:billID/line-items", h.addLineItem)
		bills.POST("/:billID/void", h.voidBill)
	}

	rg.GET("/patients/:patientHandle/bills", h.listPatientBills)
}

// createBill godoc
// @Summary Create a bill
// @Description Opens a bill for a patient with an optional initial batch of line items. The bill and its items are stored atomically.
// @Tags bills
// @Accept json
// @Produce json
// @Param bill body dto.CreateBillRequest true "Bill details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Patient or catalog entry not found"
// @Failure 409 {object} ErrorResponse "Duplicate correlation id"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	var req dto.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for CreateBill")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	billID, err := h.billService.CreateBill(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: billID})
}

// getBill godoc
// @Summary Get a bill
// @Description Returns a bill with all line items and payments. Voided rows are included and flagged.
// @Tags bills
// @Produce json
// @Param billID path int true "Bill ID"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse "Invalid bill ID"
// @Failure 404 {object} ErrorResponse "Bill not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills/{billID} [get]
func (h *billHandler) getBill(c *gin.Context) {
	billID, ok := idParam(c, "billID")
	if !ok {
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), billID)
	if err != nil {
		respondError(c, err, "Failed to get bill")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Debug("Bill retrieved", slog.Int64("bill_id", billID))
	c.JSON(http.StatusOK, dto.ToBillResponse(*bill))
}

// findBillByCorrelationID godoc
// @Summary Find a bill by correlation id
// @Description Returns the bill with the given external correlation id, in the same shape as a bill fetched by id.
// @Tags bills
// @Produce json
// @Param correlationId query string true "External correlation id of the bill"
// @Success 200 {object} dto.BillResponse
// @Failure 400 {object} ErrorResponse "Missing correlation id"
// @Failure 404 {object} ErrorResponse "Bill not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills [get]
func (h *billHandler) findBillByCorrelationID(c *gin.Context) {
	var params dto.FindBillParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "Invalid query parameters for FindBill")
		return
	}

	bill, err := h.billService.GetBillByCorrelationID(c.Request.Context(), params.CorrelationID)
	if err != nil {
		respondError(c, err, "Failed to find bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToBillResponse(*bill))
}

// addLineItem godoc
// @Summary Add a line item
// @Description Attaches a service or stock item to an open bill and recomputes the bill status.
// @Tags bills
// @Accept json
// @Produce json
// @Param billID path int true "Bill ID"
// @Param item body dto.LineItemSpec true "Line item"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Bill not found or voided"
// @Failure 409 {object} ErrorResponse "Concurrent update"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills/{billID}/line-items [post]
func (h *billHandler) addLineItem(c *gin.Context) {
	billID, ok := idParam(c, "billID")
	if !ok {
		return
	}
	var spec dto.LineItemSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		respondBindError(c, err, "Failed to bind JSON for AddLineItem")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	lineItemID, err := h.billService.AddLineItem(c.Request.Context(), billID, spec, actor)
	if err != nil {
		respondError(c, err, "Failed to add line item")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: lineItemID})
}

// voidBill godoc
// @Summary Void a bill
// @Description Soft-voids a bill header. Line items and payments are kept unchanged for audit.
// @Tags bills
// @Accept json
// @Param billID path int true "Bill ID"
// @Param void body dto.VoidRequest true "Void reason"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 404 {object} ErrorResponse "Bill not found or already voided"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills/{billID}/void [post]
func (h *billHandler) voidBill(c *gin.Context) {
	billID, ok := idParam(c, "billID")
	if !ok {
		return
	}
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for VoidBill")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	if err := h.voidService.VoidBill(c.Request.Context(), billID, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to void bill")
		return
	}
	c.Status(http.StatusNoContent)
}

// listPatientBills godoc
// @Summary List a patient's bills
// @Description Lists a patient's bills with line items and payments, newest first.
// @Tags bills
// @Produce json
// @Param patientHandle path string true "Patient handle"
// @Param includeVoided query bool false "Include voided bills"
// @Success 200 {object} dto.ListBillsResponse
// @Failure 404 {object} ErrorResponse "Patient not found"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /patients/{patientHandle}/bills [get]
func (h *billHandler) listPatientBills(c *gin.Context) {
	var params dto.ListBillsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err, "Invalid query parameters for ListBills")
		return
	}

	bills, err := h.billService.ListBillsForPatient(c.Request.Context(), c.Param("patientHandle"), params)
	if err != nil {
		respondError(c, err, "Failed to list bills")
		return
	}
	c.JSON(http.StatusOK, dto.ListBillsResponse{Bills: dto.ToBillResponses(bills)})
}
