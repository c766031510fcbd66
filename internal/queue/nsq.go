package queue

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nsqio/go-nsq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"code-execution-sandbox/internal/sandbox"
)

type NsqParams struct {
	Topic      string
	NsqAddress string
	NsqPort    int
}

// producer is the part of the nsq producer used to publish events.
type producer interface {
	Publish(topic string, body []byte) error
	Stop()
}

// NsqPublisher publishes a JSON encoded event to the configured topic for
// every completed execution.
type NsqPublisher struct {
	producer producer
	topic    string
}

func NewNsqPublisher(params *NsqParams) (*NsqPublisher, error) {
	if params.Topic == "" {
		return nil, errors.New("an NSQ topic is required to publish execution events")
	}

	address := fmt.Sprintf("%s:%d", params.NsqAddress, params.NsqPort)
	nsqProducer, err := nsq.NewProducer(address, nsq.NewConfig())

	if err != nil {
		return nil, errors.Wrap(err, "failed to create NSQ producer")
	}

	nsqProducer.SetLogger(nsqLogger{logger: log.Logger}, nsq.LogLevelWarning)

	if err := nsqProducer.Ping(); err != nil {
		log.Warn().Err(err).Str("address", address).Msg("NSQ is not reachable yet, events will be retried per publish")
	}

	return &NsqPublisher{producer: nsqProducer, topic: params.Topic}, nil
}

func (n *NsqPublisher) Publish(event *sandbox.ExecutionEvent) error {
	body, err := json.Marshal(event)

	if err != nil {
		return errors.Wrap(err, "failed to marshal execution event")
	}

	if err := n.producer.Publish(n.topic, body); err != nil {
		return errors.Wrapf(err, "failed to publish execution event to %s", n.topic)
	}

	return nil
}

func (n *NsqPublisher) Stop() {
	log.Info().Msg("stopping NSQ producer")

	n.producer.Stop()
}

// nsqLogger forwards the internal logs of the nsq client into zerolog.
type nsqLogger struct {
	logger zerolog.Logger
}

func (l nsqLogger) Output(_ int, s string) error {
	l.logger.Warn().Str("source", "nsq").Msg(strings.TrimSpace(s))
	return nil
}
