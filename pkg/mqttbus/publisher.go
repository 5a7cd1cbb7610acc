package mqttbus

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher is the publishing contract the services depend on. Payloads are
// JSON strings; QoS follows the topic policy.
type IPublisher interface {
	PublishMessage(payload string) error
	PublishRetained(payload string) error
	Close()
}

// Publisher publishes to a fixed topic.
type Publisher struct {
	client mqtt.Client
	topic  string
}

func NewPublisher(client mqtt.Client, topic string) *Publisher {
	return &Publisher{
		client: client,
		topic:  topic,
	}
}

// PublishMessage publishes at the topic's policy QoS.
func (p *Publisher) PublishMessage(payload string) error {
	return p.publish(payload, false)
}

// PublishRetained publishes with the retained flag so late subscribers see
// the last state immediately.
func (p *Publisher) PublishRetained(payload string) error {
	return p.publish(payload, true)
}

func (p *Publisher) publish(payload string, retained bool) error {
	token := p.client.Publish(p.topic, QoSFor(p.topic), retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.topic, token.Error())
	}
	return nil
}

// Close releases the client if it is still connected. Shared clients owned
// by a context should be left to their context instead.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Printf("mqttbus: publisher disconnected")
	}
}
