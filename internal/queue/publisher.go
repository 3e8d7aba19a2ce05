package queue

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends lifecycle events to a durable topic exchange. Publishing is
// strictly best-effort: a broker outage is logged and never surfaces into a
// state transition.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// Publish emits a reservation event under routing key
// "reservation.<status>". Safe to call on a nil Publisher.
func (p *Publisher) Publish(ev ReservationEvent) {
	if p == nil {
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[queue] could not marshal event for %s: %v", ev.Code, err)
		return
	}
	err = p.ch.PublishWithContext(context.Background(), p.exchange, "reservation."+ev.Status, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		log.Printf("[queue] publish failed for %s: %v", ev.Code, err)
	}
}
