package repository

import (
	"context"
	"fmt"

	"CryptoSeason/internal/domain/models"
	domrepo "CryptoSeason/internal/domain/repository"
)

// Publisher is the subset of pkg/kafka.Producer used by the sink.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaSnapshotSink publishes each snapshot as one JSON message keyed by asset.
type KafkaSnapshotSink struct {
	pub   Publisher
	topic string
}

var _ domrepo.SnapshotSink = (*KafkaSnapshotSink)(nil)

func NewKafkaSnapshotSink(pub Publisher, topic string) *KafkaSnapshotSink {
	return &KafkaSnapshotSink{pub: pub, topic: topic}
}

func (s *KafkaSnapshotSink) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		return nil
	}
	if err := s.pub.Publish(ctx, s.topic, []byte(snap.Asset), snap); err != nil {
		return fmt.Errorf("publish snapshot %s: %w", snap.Asset, err)
	}
	return nil
}

func (s *KafkaSnapshotSink) Close() error {
	return s.pub.Close()
}
