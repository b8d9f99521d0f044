package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
)

// paymentHandler handles HTTP requests related to payments.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := &paymentHandler{paymentService: paymentService}

	rg.POST("/bills/:billID/payments", h.applyPayment)
	rg.POST("/payments/:paymentID/void", h.voidPayment)
}

// applyPayment godoc
// @Summary Apply a payment
// @Description Records a payment with its mode attributes, recomputes the bill status and issues a receipt number on first full settlement.
// @Tags payments
// @Accept json
// @Produce json
// @Param billID path int true "Bill ID"
// @Param payment body dto.ApplyPaymentRequest true "Payment details"
// @Success 201 {object} dto.CreatedResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or attributes"
// @Failure 404 {object} ErrorResponse "Bill or payment mode not found"
// @Failure 409 {object} ErrorResponse "Concurrent update"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /bills/{billID}/payments [post]
func (h *paymentHandler) applyPayment(c *gin.Context) {
	billID, ok := idParam(c, "billID")
	if !ok {
		return
	}
	var req dto.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for ApplyPayment")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	paymentID, err := h.paymentService.ApplyPayment(c.Request.Context(), billID, req, actor)
	if err != nil {
		respondError(c, err, "Failed to apply payment")
		return
	}
	c.JSON(http.StatusCreated, dto.CreatedResponse{ID: paymentID})
}

// voidPayment godoc
// @Summary Void a payment
// @Description Soft-voids a payment and recomputes the bill status. An issued receipt number is kept.
// @Tags payments
// @Accept json
// @Param paymentID path int true "Payment ID"
// @Param void body dto.VoidRequest true "Void reason"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse "Missing reason"
// @Failure 404 {object} ErrorResponse "Payment not found or already voided"
// @Failure 500 {object} ErrorResponse "Store error"
// @Security BearerAuth
// @Router /payments/{paymentID}/void [post]
func (h *paymentHandler) voidPayment(c *gin.Context) {
	paymentID, ok := idParam(c, "paymentID")
	if !ok {
		return
	}
	var req dto.VoidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Failed to bind JSON for VoidPayment")
		return
	}
	actor, ok := actorHandle(c)
	if !ok {
		return
	}

	if err := h.paymentService.VoidPayment(c.Request.Context(), paymentID, req.Reason, actor); err != nil {
		respondError(c, err, "Failed to void payment")
		return
	}
	c.Status(http.StatusNoContent)
}
