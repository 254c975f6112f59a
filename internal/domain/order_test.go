package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRupeesToPaise(t *testing.T) {
	tests := []struct {
		rupees float64
		paise  int64
	}{
		{0, 0},
		{1, 100},
		{0.1, 10},
		{499.99, 49999},
		{123.45, 12345},
		{2500, 250000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.paise, RupeesToPaise(tt.rupees), "%.2f rupees", tt.rupees)
	}
}

func TestNewPaymentOrder(t *testing.T) {
	order, err := NewPaymentOrder("bkg-1", "order_abc", 499.99, "INR")
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, OrderStatusCreated, order.Status)
	assert.Equal(t, int64(49999), order.AmountPaise)
	assert.Equal(t, "INR", order.Currency)
}

func TestNewPaymentOrderValidation(t *testing.T) {
	_, err := NewPaymentOrder("", "order_abc", 100, "INR")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewPaymentOrder("bkg-1", "", 100, "INR")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = NewPaymentOrder("bkg-1", "order_abc", 0, "INR")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestOrderMarkPaidAndFailed(t *testing.T) {
	order, err := NewPaymentOrder("bkg-1", "order_abc", 100, "INR")
	require.NoError(t, err)

	order.MarkPaid("pay_123")
	assert.Equal(t, OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_123", order.PaymentID)

	order2, err := NewPaymentOrder("bkg-2", "order_def", 100, "INR")
	require.NoError(t, err)

	order2.MarkFailed()
	assert.Equal(t, OrderStatusFailed, order2.Status)
	assert.Empty(t, order2.PaymentID)
}
