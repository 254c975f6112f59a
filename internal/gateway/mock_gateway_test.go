package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGatewayCreateOrder(t *testing.T) {
	gw := NewMockGateway(nil)

	resp, err := gw.CreateOrder(context.Background(), &CreateOrderRequest{
		Amount:   49999,
		Currency: "INR",
		Receipt:  "bkg-1",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.OrderID, "order_mock_"))
	assert.Equal(t, int64(49999), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "created", resp.Status)
}

func TestMockGatewayDeclines(t *testing.T) {
	gw := NewMockGateway(&MockGatewayConfig{SuccessRate: 0})

	_, err := gw.CreateOrder(context.Background(), &CreateOrderRequest{
		Amount:   100,
		Currency: "INR",
	})
	assert.Error(t, err)
}

func TestMockGatewaySignatureRoundTrip(t *testing.T) {
	gw := NewMockGateway(&MockGatewayConfig{SuccessRate: 1, KeySecret: "test-secret"})

	sig := gw.Sign("order_mock_x", "pay_1")
	assert.True(t, gw.VerifySignature("order_mock_x", "pay_1", sig))
	assert.False(t, gw.VerifySignature("order_mock_x", "pay_2", sig))
	assert.False(t, gw.VerifySignature("order_mock_x", "pay_1", "tampered"))
}

func TestMockGatewaySetSuccessRate(t *testing.T) {
	gw := NewMockGateway(nil)
	gw.SetSuccessRate(0)

	_, err := gw.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.Error(t, err)

	gw.SetSuccessRate(1)
	_, err = gw.CreateOrder(context.Background(), &CreateOrderRequest{Amount: 100, Currency: "INR"})
	assert.NoError(t, err)
}

func TestMockGatewayFetchPayment(t *testing.T) {
	gw := NewMockGateway(nil)

	info, err := gw.FetchPayment(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", info.PaymentID)
	assert.Equal(t, "captured", info.Status)

	_, err = gw.FetchPayment(context.Background(), "")
	assert.Error(t, err)
}
