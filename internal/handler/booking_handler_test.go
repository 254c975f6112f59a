package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/internal/dto"
	"github.com/shankar0203/QuickQueue/internal/service"
)

// MockBookingService is a mock implementation of BookingService
type MockBookingService struct {
	CreateBookingFunc func(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error)
	GetBookingFunc    func(ctx context.Context, id string) (*domain.Booking, error)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error) {
	if m.CreateBookingFunc != nil {
		return m.CreateBookingFunc(ctx, in)
	}
	return nil, nil
}

func (m *MockBookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if m.GetBookingFunc != nil {
		return m.GetBookingFunc(ctx, id)
	}
	return nil, nil
}

func setupBookingRouter(svc BookingService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewBookingHandler(svc)
	router.POST("/api/bookings", h.Create)
	router.GET("/api/bookings/:id", h.Get)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBookingHandler(t *testing.T) {
	booking, err := domain.NewBooking("evt-1", "general", 2, 250, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)

	svc := &MockBookingService{
		CreateBookingFunc: func(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error) {
			return &service.CreateBookingResult{Booking: booking, Remaining: 8}, nil
		},
	}
	router := setupBookingRouter(svc)

	w := postJSON(t, router, "/api/bookings", dto.CreateBookingRequest{
		EventID:    "evt-1",
		TicketType: "general",
		Quantity:   2,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, booking.ID, resp.BookingID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 8, resp.Remaining)
	assert.Equal(t, 500.0, resp.TotalAmount)
	assert.Empty(t, resp.TicketNumber)
}

func TestCreateBookingHandlerFreeTicket(t *testing.T) {
	booking, err := domain.NewBooking("evt-1", "community", 1, 0, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)
	booking.Status = domain.BookingStatusPaid
	ticket, err := domain.NewTicket("TKT-AAAA1111", "payload", booking)
	require.NoError(t, err)

	svc := &MockBookingService{
		CreateBookingFunc: func(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error) {
			return &service.CreateBookingResult{Booking: booking, Remaining: 4, Ticket: ticket}, nil
		},
	}
	router := setupBookingRouter(svc)

	w := postJSON(t, router, "/api/bookings", dto.CreateBookingRequest{
		EventID:    "evt-1",
		TicketType: "community",
		Quantity:   1,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "paid", resp.Status)
	assert.Equal(t, "TKT-AAAA1111", resp.TicketNumber)
}

func TestCreateBookingHandlerValidation(t *testing.T) {
	router := setupBookingRouter(&MockBookingService{})

	// missing quantity and buyer fields
	w := postJSON(t, router, "/api/bookings", map[string]interface{}{
		"event_id": "evt-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
}

func TestCreateBookingHandlerSoldOut(t *testing.T) {
	svc := &MockBookingService{
		CreateBookingFunc: func(ctx context.Context, in service.CreateBookingInput) (*service.CreateBookingResult, error) {
			return nil, domain.ErrSoldOut
		},
	}
	router := setupBookingRouter(svc)

	w := postJSON(t, router, "/api/bookings", dto.CreateBookingRequest{
		EventID:    "evt-1",
		TicketType: "general",
		Quantity:   1,
		BuyerName:  "Asha",
		BuyerEmail: "asha@example.com",
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SOLD_OUT", resp.Code)
}

func TestGetBookingHandler(t *testing.T) {
	booking, err := domain.NewBooking("evt-1", "general", 1, 250, "Asha", "asha@example.com", "", "", 15*time.Minute)
	require.NoError(t, err)

	svc := &MockBookingService{
		GetBookingFunc: func(ctx context.Context, id string) (*domain.Booking, error) {
			if id == booking.ID {
				return booking, nil
			}
			return nil, domain.ErrBookingNotFound
		},
	}
	router := setupBookingRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+booking.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, booking.ID, resp.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/bookings/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
