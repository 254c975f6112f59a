package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/internal/service"
	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

// PaymentService is the slice of the booking service used by payment handlers
type PaymentService interface {
	CreateOrder(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error)
	VerifyPayment(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error)
}

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	payments PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(payments PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreateOrder handles POST /api/payments/create-order
// Re-posting for a booking that already has a live order returns the
// same order, so checkout retries are safe.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.create_order")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		badRequest(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("booking_id", req.BookingID),
		attribute.Float64("amount", req.Amount),
	)

	order, err := h.payments.CreateOrder(ctx, req.BookingID, req.Amount)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.String("order_id", order.GatewayOrderID))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.FromOrder(order))
}

// Verify handles POST /api/payments/verify
// A verification failure is a business outcome, not a transport error:
// the response is HTTP 200 with status "failed". Only an unknown order
// is 404 and a malformed body 400.
func (h *PaymentHandler) Verify(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.payment.verify")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		badRequest(c, err)
		return
	}

	span.SetAttributes(
		attribute.String("order_id", req.RazorpayOrderID),
		attribute.String("payment_id", req.RazorpayPaymentID),
	)

	ticket, err := h.payments.VerifyPayment(ctx, service.VerifyPaymentInput{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		switch {
		case errors.Is(err, domain.ErrOrderNotFound),
			errors.Is(err, domain.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error: err.Error(),
				Code:  "NOT_FOUND",
			})
		case errors.Is(err, domain.ErrSignatureMismatch),
			errors.Is(err, domain.ErrBookingExpired),
			errors.Is(err, domain.ErrConflict):
			c.JSON(http.StatusOK, dto.VerifyPaymentResponse{Status: "failed"})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error: "internal server error",
				Code:  "INTERNAL_ERROR",
			})
		}
		return
	}

	span.SetAttributes(attribute.String("ticket_number", ticket.TicketNumber))
	span.SetStatus(codes.Ok, "")
	c.JSON(http.StatusOK, dto.VerifyPaymentResponse{
		Status:       "success",
		TicketNumber: ticket.TicketNumber,
	})
}
