package publish

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds the broker connection settings.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	// Topic is the prefix every sample topic is built on.
	Topic  string
	QoS    byte
	Retain bool
	// Timeout bounds connect and publish waits. Default: 5s.
	Timeout time.Duration
}

// DefaultClientID is used when Config.ClientID is empty.
const DefaultClientID = "keyframe"

// ErrTimeout is returned when the broker does not acknowledge in time.
var ErrTimeout = errors.New("mqtt: timed out")

// Publisher delivers one payload to a topic.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

// Client is a connected broker client implementing Publisher.
type Client struct {
	client  mqtt.Client
	qos     byte
	retain  bool
	timeout time.Duration
}

// Dial connects to the broker in cfg.
func Dial(cfg Config) (*Client, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt: broker url is required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			slog.Info("mqtt connected", "broker", cfg.Broker)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			slog.Warn("mqtt connection lost", "broker", cfg.Broker, "error", err)
		})
	c := mqtt.NewClient(opts)

	if err := wait(c.Connect(), cfg.Timeout); err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Broker, err)
	}
	return &Client{client: c, qos: cfg.QoS, retain: cfg.Retain, timeout: cfg.Timeout}, nil
}

// Publish sends payload and waits for the broker acknowledgement.
func (c *Client) Publish(topic string, payload []byte) error {
	if err := wait(c.client.Publish(topic, c.qos, c.retain, payload), c.timeout); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects, allowing in-flight messages 250ms to complete.
func (c *Client) Close() {
	c.client.Disconnect(250)
}

func wait(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return ErrTimeout
	}
	return token.Error()
}
