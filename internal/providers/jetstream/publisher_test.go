package jetstream_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	jetstreamapi "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chopperdaddy/punks-indexer/internal/adapter"
	"github.com/chopperdaddy/punks-indexer/internal/domain"
	"github.com/chopperdaddy/punks-indexer/internal/logger"
	"github.com/chopperdaddy/punks-indexer/internal/providers/jetstream"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

type publishedMsg struct {
	subject string
	data    []byte
}

type fakeJetStream struct {
	published []publishedMsg
}

func (js *fakeJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstreamapi.PublishOpt) (*jetstreamapi.PubAck, error) {
	js.published = append(js.published, publishedMsg{subject: subject, data: data})
	return &jetstreamapi.PubAck{}, nil
}

func (js *fakeJetStream) CreateOrUpdateConsumer(_ context.Context, _ string, _ jetstreamapi.ConsumerConfig) (adapter.Consumer, error) {
	return nil, nil
}

func (js *fakeJetStream) Consumer(_ context.Context, _, _ string) (adapter.Consumer, error) {
	return nil, nil
}

type fakeConn struct {
	closed bool
}

func (c *fakeConn) Close()               { c.closed = true }
func (c *fakeConn) LastError() error     { return nil }
func (c *fakeConn) ConnectedUrl() string { return "nats://fake" }

type fakeNatsJetStream struct {
	conn *fakeConn
	js   *fakeJetStream
}

func (f *fakeNatsJetStream) Connect(_ string, _ ...nats.Option) (adapter.NatsConn, adapter.JetStream, error) {
	return f.conn, f.js, nil
}

func TestPublishEventSubjectPerKind(t *testing.T) {
	natsJS := &fakeNatsJetStream{conn: &fakeConn{}, js: &fakeJetStream{}}

	pub, err := jetstream.NewPublisher(jetstream.Config{
		URL:        "nats://fake",
		StreamName: "MARKET_EVENTS",
	}, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	from := "0x1111111111111111111111111111111111111111"
	err = pub.PublishEvent(context.Background(), &domain.MarketEvent{
		Kind:        domain.KindOffer,
		PunkID:      "42",
		FromAddress: &from,
		Value:       "1000",
		TxHash:      "0xabc",
		BlockNumber: 7,
		Timestamp:   time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, natsJS.js.published, 1)
	assert.Equal(t, "market.events.offer", natsJS.js.published[0].subject)

	var decoded domain.MarketEvent
	require.NoError(t, adapter.NewJSON().Unmarshal(natsJS.js.published[0].data, &decoded))
	assert.Equal(t, "42", decoded.PunkID)
	assert.Equal(t, "1000", decoded.Value)
}

func TestPublisherClose(t *testing.T) {
	natsJS := &fakeNatsJetStream{conn: &fakeConn{}, js: &fakeJetStream{}}

	pub, err := jetstream.NewPublisher(jetstream.Config{URL: "nats://fake"}, natsJS, adapter.NewJSON())
	require.NoError(t, err)

	pub.Close()
	assert.True(t, natsJS.conn.closed)
}
