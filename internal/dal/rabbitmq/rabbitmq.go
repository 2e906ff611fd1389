package rabbitmq

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
)

// Client represents a RabbitMQ client.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Publish sends one message on the client's channel.
func (r *Client) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return r.channel.Publish(exchange, key, mandatory, immediate, msg)
}

// Close closes the channel and connection for graceful shutdown.
func (r *Client) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}

// URL builds the broker address from the environment and config.
func URL() string {
	host := viper.GetString("rabbitmq.host")
	if host == "" {
		host = "rabbitmq"
	}
	port := viper.GetInt("rabbitmq.port")
	if port == 0 {
		port = 5672
	}

	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d/",
		os.Getenv("RABBITMQ_DEFAULT_USER"),
		os.Getenv("RABBITMQ_DEFAULT_PASS"),
		host,
		port,
	)
}

// MustNewClient creates a new RabbitMQ client.
func MustNewClient() *Client {
	conn, err := amqp.Dial(URL())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to RabbitMQ: %v", err))
	}

	channel, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			panic(fmt.Sprintf("Failed to close a connection: %v", closeErr))
		}
		panic(fmt.Sprintf("Failed to open a channel: %v", err))
	}

	slog.Info("RabbitMQ connected")

	return &Client{
		conn:    conn,
		channel: channel,
	}
}

type DeclareQueueConfig struct {
	Name       string
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DeclareQueue declares a queue with the given configuration.
func (r *Client) DeclareQueue(cfg DeclareQueueConfig) (amqp.Queue, error) {
	return r.channel.QueueDeclare(
		cfg.Name,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		cfg.Args,
	)
}

// MustDeclareTopology declares the ticket events queue from config and binds it
// to the configured exchange when one is set.
func (r *Client) MustDeclareTopology() {
	queue := viper.GetString("rabbitmq.queue")
	if queue == "" {
		queue = "ticket.events"
	}

	if _, err := r.DeclareQueue(DeclareQueueConfig{Name: queue, Durable: true}); err != nil {
		panic(fmt.Sprintf("Failed to declare queue: %v", err))
	}

	exchange := viper.GetString("rabbitmq.exchange")
	if exchange == "" {
		return
	}

	if err := r.channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		panic(fmt.Sprintf("Failed to declare exchange: %v", err))
	}
	if err := r.channel.QueueBind(queue, "ticket.#", exchange, false, nil); err != nil {
		panic(fmt.Sprintf("Failed to bind queue: %v", err))
	}

	slog.Info("RabbitMQ topology declared", "queue", queue, "exchange", exchange)
}
