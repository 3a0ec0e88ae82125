package kafka

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/nguyentranbao-ct/storefront/internal/config"
	"github.com/nguyentranbao-ct/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	event := models.CartEvent{
		Type:         models.EventCartSynced,
		UserID:       3,
		RemoteCartID: 21,
		Lines:        []models.CartLine{{ProductID: 1, Quantity: 2}},
		OccurredAt:   time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	t.Run("message keyed by user: ok", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			key, err := msg.Key.Encode()
			if err != nil {
				return err
			}
			if string(key) != "3" {
				return errors.New("unexpected key " + string(key))
			}
			if msg.Topic != "cart-events" {
				return errors.New("unexpected topic " + msg.Topic)
			}
			return nil
		})

		p, err := newSaramaPublisher(producer, "cart-events")
		require.NoError(t, err)
		require.NoError(t, p.Publish(t.Context(), event))
		require.NoError(t, p.Close())
	})

	t.Run("payload is the json event: ok", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got models.CartEvent
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got.Type != models.EventCartSynced || got.RemoteCartID != 21 {
				return errors.New("unexpected event payload")
			}
			return nil
		})

		p, err := newSaramaPublisher(producer, "cart-events")
		require.NoError(t, err)
		require.NoError(t, p.Publish(t.Context(), event))
		require.NoError(t, p.Close())
	})

	t.Run("broker failure: error", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		p, err := newSaramaPublisher(producer, "cart-events")
		require.NoError(t, err)
		err = p.Publish(t.Context(), event)
		assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
		require.NoError(t, p.Close())
	})
}

func TestNewEventPublisherDisabled(t *testing.T) {
	p, err := NewEventPublisher(&config.KafkaConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, &noopPublisher{}, p)
	assert.NoError(t, p.Publish(t.Context(), models.CartEvent{}))
	assert.NoError(t, p.Close())
}
