package subscriptions

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/interfaces"
	"github.com/sahamlabs/emiten/internal/models"
)

// fakeKV implements interfaces.KeyValueStorage in memory
type fakeKV struct {
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", interfaces.ErrNotFound
	}
	return v, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func newTestService() (*Service, *fakeKV) {
	kv := newFakeKV()
	return NewService(kv, arbor.NewLogger()), kv
}

func TestSubscribeCreatesAndAppends(t *testing.T) {
	svc, _ := newTestService()

	result, err := svc.Subscribe("alice", "banks")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, "Subscribed successfully", result.Message)

	result, err = svc.Subscribe("Alice", "oil & gas")
	require.NoError(t, err)
	assert.False(t, result.Created)

	topics, err := svc.Topics("ALICE")
	require.NoError(t, err)
	assert.Equal(t, []string{"BANKS", "OIL & GAS"}, topics)
}

func TestSubscribeDuplicateTopic(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Subscribe("alice", "banks")
	require.NoError(t, err)

	result, err := svc.Subscribe("alice", "Banks")
	require.NoError(t, err)
	assert.Equal(t, "Already subscribed to this topic", result.Message)

	topics, err := svc.Topics("alice")
	require.NoError(t, err)
	assert.Len(t, topics, 1)
}

func TestUnsubscribeRemovesTopic(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Subscribe("alice", "banks")
	require.NoError(t, err)
	_, err = svc.Subscribe("alice", "telecommunication")
	require.NoError(t, err)

	result, err := svc.Unsubscribe("alice", "banks")
	require.NoError(t, err)
	assert.Equal(t, "Unsubscribed successfully", result.Message)

	topics, err := svc.Topics("alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"TELECOMMUNICATION"}, topics)
}

func TestUnsubscribeLastTopicDeletesRecord(t *testing.T) {
	svc, kv := newTestService()

	_, err := svc.Subscribe("alice", "banks")
	require.NoError(t, err)

	_, err = svc.Unsubscribe("alice", "banks")
	require.NoError(t, err)

	_, err = svc.Topics("alice")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.Empty(t, kv.data)
}

func TestUnsubscribeUnknownUserAndTopic(t *testing.T) {
	svc, _ := newTestService()

	var verr *models.ValidationError
	_, err := svc.Unsubscribe("nobody", "banks")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))

	_, err = svc.Subscribe("alice", "banks")
	require.NoError(t, err)

	_, err = svc.Unsubscribe("alice", "telecommunication")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}

func TestSubscribeRequiresUserAndTopic(t *testing.T) {
	svc, _ := newTestService()

	var verr *models.ValidationError
	_, err := svc.Subscribe("", "banks")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))

	_, err = svc.Subscribe("alice", "  ")
	require.Error(t, err)
	assert.True(t, errors.As(err, &verr))
}
