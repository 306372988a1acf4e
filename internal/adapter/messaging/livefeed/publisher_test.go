package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJetStream struct {
	infoErr    error
	addErr     error
	publishErr error
	added      *nats.StreamConfig
	subject    string
	data       []byte
	optCount   int
}

func (f *fakeJetStream) StreamInfo(string, ...nats.JSOpt) (*nats.StreamInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return &nats.StreamInfo{}, nil
}

func (f *fakeJetStream) AddStream(cfg *nats.StreamConfig, _ ...nats.JSOpt) (*nats.StreamInfo, error) {
	f.added = cfg
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &nats.StreamInfo{Config: *cfg}, nil
}

func (f *fakeJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	f.subject, f.data, f.optCount = subj, data, len(opts)
	if f.publishErr != nil {
		return nil, f.publishErr
	}
	return &nats.PubAck{Stream: "live_feed", Sequence: 1}, nil
}

func TestEnsureStream_Existing(t *testing.T) {
	js := &fakeJetStream{}
	p := newPublisher(nil, js, "live.openings", zerolog.Nop())

	require.NoError(t, p.ensureStream("live_feed"))
	assert.Nil(t, js.added)
}

func TestEnsureStream_CreatesMissing(t *testing.T) {
	js := &fakeJetStream{infoErr: nats.ErrStreamNotFound}
	p := newPublisher(nil, js, "live.openings", zerolog.Nop())

	require.NoError(t, p.ensureStream("live_feed"))
	require.NotNil(t, js.added)
	assert.Equal(t, "live_feed", js.added.Name)
	assert.Equal(t, []string{"live.openings"}, js.added.Subjects)
	assert.Equal(t, nats.FileStorage, js.added.Storage)
	assert.Equal(t, streamMaxAge, js.added.MaxAge)
}

func TestEnsureStream_Errors(t *testing.T) {
	p := newPublisher(nil, &fakeJetStream{infoErr: errors.New("timeout")}, "s", zerolog.Nop())
	assert.Error(t, p.ensureStream("live_feed"))

	p = newPublisher(nil, &fakeJetStream{infoErr: nats.ErrStreamNotFound, addErr: errors.New("denied")}, "s", zerolog.Nop())
	assert.Error(t, p.ensureStream("live_feed"))
}

func TestPublishOpening(t *testing.T) {
	js := &fakeJetStream{}
	p := newPublisher(nil, js, "live.openings", zerolog.Nop())

	event := domain.OpeningEvent{
		OpeningID:  uuid.New(),
		AccountID:  uuid.New(),
		CaseID:     uuid.New(),
		ItemID:     uuid.New(),
		ItemName:   "AWP | Asiimov (Field-Tested)",
		ItemRarity: domain.RarityCovert,
		ItemPrice:  1_250_000,
		OpenedAt:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishOpening(context.Background(), event))

	assert.Equal(t, "live.openings", js.subject)
	assert.Equal(t, 2, js.optCount)

	var got domain.OpeningEvent
	require.NoError(t, json.Unmarshal(js.data, &got))
	assert.Equal(t, event, got)
}

func TestPublishOpening_Error(t *testing.T) {
	p := newPublisher(nil, &fakeJetStream{publishErr: nats.ErrNoResponders}, "live.openings", zerolog.Nop())
	err := p.PublishOpening(context.Background(), domain.OpeningEvent{OpeningID: uuid.New()})
	assert.ErrorIs(t, err, nats.ErrNoResponders)
}

func TestPing_Disconnected(t *testing.T) {
	p := newPublisher(nil, &fakeJetStream{}, "s", zerolog.Nop())
	assert.Error(t, p.Ping(context.Background()))
	assert.Equal(t, "nats", p.Name())
	assert.NoError(t, p.Close())
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard{}.PublishOpening(context.Background(), domain.OpeningEvent{}))
}
