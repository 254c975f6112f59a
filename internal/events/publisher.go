package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shankar0203/QuickQueue/internal/domain"
	"github.com/shankar0203/QuickQueue/pkg/kafka"
	"github.com/shankar0203/QuickQueue/pkg/logger"
)

// Kafka topics for domain events
const (
	TopicBookingSettled = "booking.settled"
	TopicBookingExpired = "booking.expired"
	TopicTicketIssued   = "ticket.issued"
)

// BookingEvent is the payload for booking lifecycle events
type BookingEvent struct {
	EventType   string    `json:"event_type"`
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	TicketType  string    `json:"ticket_type"`
	Quantity    int       `json:"quantity"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// TicketIssuedEvent is the payload for ticket issuance events
type TicketIssuedEvent struct {
	EventType    string    `json:"event_type"`
	TicketNumber string    `json:"ticket_number"`
	BookingID    string    `json:"booking_id"`
	EventID      string    `json:"event_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher emits domain events to Kafka. Publishing is fire and
// forget: the booking flow never blocks or fails on a broker problem.
// A nil Publisher (or one with a nil producer) is a no-op, which is
// how deployments without Kafka run.
type Publisher struct {
	producer *kafka.Producer
}

// NewPublisher creates a publisher; producer may be nil
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload interface{}) {
	if p == nil || p.producer == nil {
		return
	}

	log := logger.Get()
	err := p.producer.ProduceJSON(ctx, topic, key, payload, func(err error) {
		if err != nil {
			log.Warn("failed to deliver domain event",
				zap.String("topic", topic),
				zap.String("key", key),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		log.Warn("failed to publish domain event",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
}

// BookingSettled emits a booking.settled event after a booking is paid
func (p *Publisher) BookingSettled(ctx context.Context, booking *domain.Booking) {
	p.publish(ctx, TopicBookingSettled, booking.ID, &BookingEvent{
		EventType:   TopicBookingSettled,
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		TicketType:  booking.TicketType,
		Quantity:    booking.Quantity,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		Timestamp:   time.Now(),
	})
}

// BookingExpired emits a booking.expired event after lazy or swept expiry
func (p *Publisher) BookingExpired(ctx context.Context, booking *domain.Booking) {
	p.publish(ctx, TopicBookingExpired, booking.ID, &BookingEvent{
		EventType:   TopicBookingExpired,
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		TicketType:  booking.TicketType,
		Quantity:    booking.Quantity,
		TotalAmount: booking.TotalAmount,
		Status:      string(booking.Status),
		Timestamp:   time.Now(),
	})
}

// TicketIssued emits a ticket.issued event after issuance
func (p *Publisher) TicketIssued(ctx context.Context, ticket *domain.Ticket) {
	p.publish(ctx, TopicTicketIssued, ticket.BookingID, &TicketIssuedEvent{
		EventType:    TopicTicketIssued,
		TicketNumber: ticket.TicketNumber,
		BookingID:    ticket.BookingID,
		EventID:      ticket.EventID,
		Timestamp:    time.Now(),
	})
}
