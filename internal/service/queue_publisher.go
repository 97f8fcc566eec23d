// Package service publishes domain events to RabbitMQ. Publishing is
// best effort: errors are logged and returned so request handlers can
// ignore them without failing the order.
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/coffee-shop-api/internal/queue"
)

const orderQueueName = "order.events"

// PublishOrderPlaced sends an OrderPlacedEvent to the order.events queue.
func PublishOrderPlaced(ctx context.Context, event q.OrderPlacedEvent) error {
	event.Kind = q.KindOrderPlaced
	return publish(ctx, event)
}

// PublishOrderStatusChanged sends an OrderStatusChangedEvent to the
// order.events queue.
func PublishOrderStatusChanged(ctx context.Context, event q.OrderStatusChangedEvent) error {
	event.Kind = q.KindOrderStatusChanged
	return publish(ctx, event)
}

// publish opens a short-lived connection, declares the durable queue
// (idempotent) and sends one persistent JSON message.
func publish(ctx context.Context, event any) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", orderQueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
