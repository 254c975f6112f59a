package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/internal/service"
)

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	CreateOrderFunc   func(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error)
	VerifyPaymentFunc func(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error)
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, bookingID, amount)
	}
	return nil, nil
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, in)
	}
	return nil, nil
}

func setupPaymentRouter(svc PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewPaymentHandler(svc)
	router.POST("/api/payments/create-order", h.CreateOrder)
	router.POST("/api/payments/verify", h.Verify)
	return router
}

func TestCreateOrderHandler(t *testing.T) {
	order, err := domain.NewPaymentOrder("bkg-1", "order_abc", 500, "INR")
	require.NoError(t, err)

	svc := &MockPaymentService{
		CreateOrderFunc: func(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error) {
			assert.Equal(t, "bkg-1", bookingID)
			assert.Equal(t, 500.0, amount)
			return order, nil
		},
	}
	router := setupPaymentRouter(svc)

	w := postJSON(t, router, "/api/payments/create-order", dto.CreateOrderRequest{
		BookingID: "bkg-1",
		Amount:    500,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CreateOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "order_abc", resp.OrderID)
	assert.Equal(t, int64(50000), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
}

func TestCreateOrderHandlerErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown booking", domain.ErrBookingNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"amount mismatch", domain.ErrAmountMismatch, http.StatusBadRequest, "INVALID_REQUEST"},
		{"expired booking", domain.ErrBookingExpired, http.StatusGone, "EXPIRED"},
		{"already settled", domain.ErrInvalidTransition, http.StatusConflict, "CONFLICT"},
		{"gateway down", domain.ErrGateway, http.StatusBadGateway, "GATEWAY_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{
				CreateOrderFunc: func(ctx context.Context, bookingID string, amount float64) (*domain.PaymentOrder, error) {
					return nil, tt.err
				},
			}
			router := setupPaymentRouter(svc)

			w := postJSON(t, router, "/api/payments/create-order", dto.CreateOrderRequest{
				BookingID: "bkg-1",
				Amount:    500,
			})
			require.Equal(t, tt.wantStatus, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestCreateOrderHandlerValidation(t *testing.T) {
	router := setupPaymentRouter(&MockPaymentService{})

	w := postJSON(t, router, "/api/payments/create-order", map[string]interface{}{
		"booking_id": "bkg-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyHandlerSuccess(t *testing.T) {
	booking, err := domain.NewBooking("evt-1", "general", 1, 250, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)
	ticket, err := domain.NewTicket("TKT-AAAA1111", "payload", booking)
	require.NoError(t, err)

	svc := &MockPaymentService{
		VerifyPaymentFunc: func(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error) {
			assert.Equal(t, "order_abc", in.GatewayOrderID)
			assert.Equal(t, "pay_1", in.PaymentID)
			return ticket, nil
		},
	}
	router := setupPaymentRouter(svc)

	w := postJSON(t, router, "/api/payments/verify", dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_abc",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "TKT-AAAA1111", resp.TicketNumber)
}

func TestVerifyHandlerFailureIsHTTP200(t *testing.T) {
	// business failures come back as a well-formed "failed" response
	for _, failure := range []error{
		domain.ErrSignatureMismatch,
		domain.ErrBookingExpired,
		domain.ErrConflict,
	} {
		svc := &MockPaymentService{
			VerifyPaymentFunc: func(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error) {
				return nil, failure
			},
		}
		router := setupPaymentRouter(svc)

		w := postJSON(t, router, "/api/payments/verify", dto.VerifyPaymentRequest{
			RazorpayOrderID:   "order_abc",
			RazorpayPaymentID: "pay_1",
			RazorpaySignature: "bad-sig",
		})
		require.Equal(t, http.StatusOK, w.Code, "error %v", failure)

		var resp dto.VerifyPaymentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "failed", resp.Status)
		assert.Empty(t, resp.TicketNumber)
	}
}

func TestVerifyHandlerUnknownOrder(t *testing.T) {
	svc := &MockPaymentService{
		VerifyPaymentFunc: func(ctx context.Context, in service.VerifyPaymentInput) (*domain.Ticket, error) {
			return nil, domain.ErrOrderNotFound
		},
	}
	router := setupPaymentRouter(svc)

	w := postJSON(t, router, "/api/payments/verify", dto.VerifyPaymentRequest{
		RazorpayOrderID:   "order_unknown",
		RazorpayPaymentID: "pay_1",
		RazorpaySignature: "sig",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyHandlerValidation(t *testing.T) {
	router := setupPaymentRouter(&MockPaymentService{})

	w := postJSON(t, router, "/api/payments/verify", map[string]interface{}{
		"razorpay_order_id": "order_abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
