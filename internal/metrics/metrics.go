package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

var (
	// Booking counters
	BookingsReserved *telemetry.Counter
	BookingsSettled  *telemetry.Counter
	BookingsExpired  *telemetry.Counter
	BookingsFailed   *telemetry.Counter
	SoldOutRejects   *telemetry.Counter

	// Payment counters
	OrdersCreated        *telemetry.Counter
	PaymentVerifications *telemetry.Counter

	// Ticket counters
	TicketsIssued   *telemetry.Counter
	TicketCheckins  *telemetry.Counter

	// Histograms
	SettlementDuration *telemetry.Histogram
	RequestDuration    *telemetry.Histogram

	// Gauges
	PendingBookings *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	BookingsReserved, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_reservations_total",
		Description: "Total number of inventory reservations created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsSettled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_settlements_total",
		Description: "Total number of bookings settled as paid",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsExpired, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_expirations_total",
		Description: "Total number of bookings expired",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	BookingsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_failures_total",
		Description: "Total number of failed bookings",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SoldOutRejects, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "booking_sold_out_total",
		Description: "Total number of reservations rejected for lack of inventory",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	OrdersCreated, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payment_orders_total",
		Description: "Total number of gateway orders created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PaymentVerifications, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "payment_verifications_total",
		Description: "Total number of payment verification attempts by result",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsIssued, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "tickets_issued_total",
		Description: "Total number of tickets issued",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketCheckins, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_checkins_total",
		Description: "Total number of ticket check-ins",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SettlementDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "booking_settlement_duration_seconds",
		Description: "Duration from booking creation to settlement",
		Unit:        "s",
	}, []float64{1, 5, 10, 30, 60, 120, 300, 600, 900})
	if err != nil {
		return err
	}

	RequestDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "http_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	PendingBookings, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "booking_pending_current",
		Description: "Current number of bookings awaiting payment",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordReservation records an inventory reservation
func RecordReservation(ctx context.Context, eventID, ticketType string, quantity int) {
	if BookingsReserved != nil {
		BookingsReserved.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("ticket_type", ticketType),
			attribute.Int("quantity", quantity),
		)
	}
	if PendingBookings != nil {
		PendingBookings.Inc(ctx)
	}
}

// RecordSoldOut records a reservation rejected for lack of inventory
func RecordSoldOut(ctx context.Context, eventID, ticketType string) {
	if SoldOutRejects != nil {
		SoldOutRejects.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("ticket_type", ticketType),
		)
	}
}

// RecordSettlement records a booking reaching paid
func RecordSettlement(ctx context.Context, eventID string, durationSeconds float64) {
	if BookingsSettled != nil {
		BookingsSettled.Inc(ctx, attribute.String("event_id", eventID))
	}
	if SettlementDuration != nil {
		SettlementDuration.Record(ctx, durationSeconds, attribute.String("event_id", eventID))
	}
	if PendingBookings != nil {
		PendingBookings.Dec(ctx)
	}
}

// RecordExpiration records expired bookings
func RecordExpiration(ctx context.Context, eventID string, count int64) {
	if BookingsExpired != nil {
		BookingsExpired.Add(ctx, count, attribute.String("event_id", eventID))
	}
	if PendingBookings != nil {
		PendingBookings.Add(ctx, -count)
	}
}

// RecordFailure records a booking failure
func RecordFailure(ctx context.Context, eventID, reason string) {
	if BookingsFailed != nil {
		BookingsFailed.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("reason", reason),
		)
	}
	if PendingBookings != nil {
		PendingBookings.Dec(ctx)
	}
}

// RecordOrderCreated records a gateway order creation
func RecordOrderCreated(ctx context.Context, gatewayName string) {
	if OrdersCreated != nil {
		OrdersCreated.Inc(ctx, attribute.String("gateway", gatewayName))
	}
}

// RecordVerification records a payment verification attempt
func RecordVerification(ctx context.Context, result string) {
	if PaymentVerifications != nil {
		PaymentVerifications.Inc(ctx, attribute.String("result", result))
	}
}

// RecordTicketIssued records a ticket issuance
func RecordTicketIssued(ctx context.Context, eventID string) {
	if TicketsIssued != nil {
		TicketsIssued.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordCheckin records a ticket check-in
func RecordCheckin(ctx context.Context, eventID string) {
	if TicketCheckins != nil {
		TicketCheckins.Inc(ctx, attribute.String("event_id", eventID))
	}
}

// RecordRequestDuration records HTTP request duration
func RecordRequestDuration(ctx context.Context, operation string, durationSeconds float64) {
	if RequestDuration != nil {
		RequestDuration.Record(ctx, durationSeconds, attribute.String("operation", operation))
	}
}
