//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"tosgate/internal/audit"
	"tosgate/internal/platform/kafka/producer"
	"tosgate/pkg/testutil/containers"
)

type KafkaStoreIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestKafkaStoreIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaStoreIntegrationSuite))
}

func (s *KafkaStoreIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	cfg := producer.DefaultConfig(s.kafka.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	p, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = p
}

func (s *KafkaStoreIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

// Appended events must be consumable from the audit topic with their headers intact.
func (s *KafkaStoreIntegrationSuite) TestAppendDeliversEvent() {
	ctx := context.Background()
	topic := "tosgate-audit-it"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic))

	sink := audit.NewKafkaStore(audit.NewInMemoryStore(), s.producer, topic)
	s.Require().NoError(sink.Append(ctx, audit.Event{
		Timestamp: time.Now(),
		Action:    audit.ActionTermsAccepted,
		UserID:    "user-it",
		TermsID:   "tos_v1",
	}))

	record, err := s.kafka.WaitForRecord(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "user-it"
	})
	s.Require().NoError(err)
	s.Require().NotNil(record)

	var got audit.Event
	s.Require().NoError(json.Unmarshal(record.Value, &got))
	s.Equal(audit.ActionTermsAccepted, got.Action)
	s.Equal("tos_v1", got.TermsID)
	s.Require().Len(record.Headers, 1)
	s.Equal("terms_accepted", string(record.Headers[0].Value))
}

func (s *KafkaStoreIntegrationSuite) TestProducerHealth() {
	s.NoError(s.producer.Health(context.Background()))
}
