package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
)

// lineItemHandler handles corrections of individual line items.
type lineItemHandler struct {
	auditService portssvc.LineItemAuditSvc
}

func registerLineItemRoutes(rg *gin.RouterGroup, auditService portssvc.LineItemAuditSvc) {
	h := &lineItemHandler{auditService: auditService}

	items := rg.Group("/line-items")
	{
		items.PATCH("/:lineItemID", h.updateLineItem)
		items.POST("/:lineItemID/void", h.voidLineItem)
	}
}

// updateLineItem godoc
// @Summary Update a line item
// @Description Changes price and/or quantity of an active line item and recomputes the bill status.
// @Tags line-items
// @Accept json
// @Param lineItemID path int true "Line item ID"
// @Param item body dto.UpdateLineItemRequest true "New price and/or quantity"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 404 {object} ErrorResponse "Line item not found or voided"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /line-items/{lineItemID} [patch]
func (h *lineItemHandler) updateLineItem(c *gin.Context) {
	lineItemID, ok := idParam(c, "lineItemID")
	if !ok {
		return
	}
	var req dto.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for UpdateLineItem")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	if err := h.auditService.UpdateLineItem(c.Request.Context(), lineItemID, req, actor); err != nil {
		respondError(c, err, "Failed to update line item")
		return
	}
	c.Status(http.StatusNoContent)
}

// voidLineItem godoc
// @Summary Void a line item
// @Description Soft-voids a line item and recomputes the bill status.
// @Tags line-items
// @Accept json
// @Param lineItemID path int true "Line item ID"
// @Param void body dto.VoidRequest true "Void reason"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 404 {object} ErrorResponse "Line item not found or already voided"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /line-items/{lineItemID}/void [post]
func (h *lineItemHandler) voidLineItem(c *gin.Context) {
	lineItemID, ok := idParam(c, "lineItemID")
	if !ok {
		return
	}
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for VoidLineItem")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	if err := h.auditService.VoidLineItem(c.Request.Context(), lineItemID, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to void line item")
		return
	}
	c.Status(http.StatusNoContent)
}
