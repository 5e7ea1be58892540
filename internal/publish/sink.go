package publish

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/keyframe/internal/present"
)

// Message is the JSON payload of one published sample.
type Message struct {
	Target   string `json:"target"`
	Property string `json:"property"`
	Value    string `json:"value"`
	Seq      int64  `json:"seq"`
}

// MQTTSink is a present.Sink that publishes every sample.
//
// Not thread-safe: it is written from the scheduler's goroutine.
type MQTTSink struct {
	pub   Publisher
	topic string
	seq   int64
}

// NewMQTTSink publishes through pub under the topic prefix. A trailing
// slash on topic is ignored.
func NewMQTTSink(pub Publisher, topic string) *MQTTSink {
	return &MQTTSink{pub: pub, topic: strings.TrimSuffix(topic, "/")}
}

// WriteSample implements present.Sink.
func (s *MQTTSink) WriteSample(sample present.Sample) error {
	s.seq++
	payload, err := json.Marshal(Message{
		Target:   sample.Target,
		Property: sample.Property,
		Value:    sample.Value,
		Seq:      s.seq,
	})
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	return s.pub.Publish(s.Topic(sample.Target, sample.Property), payload)
}

// Published returns the number of samples handed to the publisher.
func (s *MQTTSink) Published() int64 {
	return s.seq
}

// Topic returns the topic for a target property. Topic separators and
// wildcards in names are replaced with underscores.
func (s *MQTTSink) Topic(target, property string) string {
	return s.topic + "/" + topicLevel(target) + "/" + topicLevel(property)
}

var levelReplacer = strings.NewReplacer("/", "_", "+", "_", "#", "_")

func topicLevel(name string) string {
	if name == "" {
		return "_"
	}
	return levelReplacer.Replace(name)
}
