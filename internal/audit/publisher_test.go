package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"tosgate/internal/platform/kafka/producer"
)

type fakeProducer struct {
	messages []*producer.Message
	err      error
}

func (f *fakeProducer) Produce(_ context.Context, msg *producer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

// PublisherSuite covers sync and async emission plus the Kafka sink.
type PublisherSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func (s *PublisherSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) TestSyncEmitStampsTimestamp() {
	p := NewPublisher(s.store)
	s.Require().NoError(p.Emit(s.ctx, Event{Action: ActionTermsAccepted, UserID: "user-1", TermsID: "tos_v1"}))

	events, err := p.List(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.False(events[0].Timestamp.IsZero())
	s.Equal("tos_v1", events[0].TermsID)
}

func (s *PublisherSuite) TestAsyncEmitDrainsOnClose() {
	p := NewPublisher(s.store, WithAsyncBuffer(16))
	for i := 0; i < 10; i++ {
		s.Require().NoError(p.Emit(s.ctx, Event{Action: ActionTermsCreated, UserID: "admin"}))
	}
	p.Close()

	events, err := s.store.ListByUser(s.ctx, "admin")
	s.Require().NoError(err)
	s.Len(events, 10)
}

func (s *PublisherSuite) TestKafkaStorePublishesKeyedByUser() {
	prod := &fakeProducer{}
	sink := NewKafkaStore(s.store, prod, "tosgate.audit")

	s.Require().NoError(sink.Append(s.ctx, Event{Action: ActionTermsAccepted, UserID: "user-9", TermsID: "tos_v2"}))

	s.Require().Len(prod.messages, 1)
	msg := prod.messages[0]
	s.Equal("tosgate.audit", msg.Topic)
	s.Equal([]byte("user-9"), msg.Key)
	s.Equal("terms_accepted", msg.Headers["event_type"])

	var decoded Event
	s.Require().NoError(json.Unmarshal(msg.Value, &decoded))
	s.Equal("tos_v2", decoded.TermsID)

	local, err := sink.ListByUser(s.ctx, "user-9")
	s.Require().NoError(err)
	s.Len(local, 1)
}

func (s *PublisherSuite) TestKafkaStoreSurfacesProducerErrors() {
	sink := NewKafkaStore(s.store, &fakeProducer{err: errors.New("broker down")}, "tosgate.audit")
	err := sink.Append(s.ctx, Event{Action: ActionTermsAccepted, UserID: "user-9"})
	s.Require().Error(err)
	s.Contains(err.Error(), "broker down")
}

func (s *PublisherSuite) TestMemoryStoreKeepsMostRecentPerUser() {
	store := NewInMemoryStore(WithMaxEventsPerUser(2))
	p := NewPublisher(store)
	for _, tosID := range []string{"tos_v1", "tos_v2", "tos_v3"} {
		s.Require().NoError(p.Emit(s.ctx, Event{Action: ActionTermsAccepted, UserID: "user-1", TermsID: tosID}))
	}
	s.Require().NoError(p.Emit(s.ctx, Event{Action: ActionTermsAccepted, UserID: "user-2", TermsID: "tos_v1"}))

	events, err := p.List(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal("tos_v2", events[0].TermsID)
	s.Equal("tos_v3", events[1].TermsID)

	others, err := p.List(s.ctx, "user-2")
	s.Require().NoError(err)
	s.Len(others, 1)
}
