package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.EqualError(t, err, "brokers are required")
}

func TestNewProducerAppliesOptions(t *testing.T) {
	p, err := NewProducer(
		WithBrokers([]string{"localhost:9092"}),
		WithCompression("zstd"),
		WithRequiredAcks(1),
		WithHashByKey(true),
		WithMaxAttempts(5),
	)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, kafka.Zstd, p.writer.Compression)
	assert.Equal(t, kafka.RequireOne, p.writer.RequiredAcks)
	assert.Equal(t, 5, p.writer.MaxAttempts)
	assert.IsType(t, &kafka.Hash{}, p.writer.Balancer)
}

func TestEncodeValue(t *testing.T) {
	b, err := encodeValue(map[string]int{"year": 2020})
	require.NoError(t, err)
	assert.JSONEq(t, `{"year":2020}`, string(b))

	b, err = encodeValue("raw")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	_, err = encodeValue(func() {})
	assert.Error(t, err)
}

func TestParseCompression(t *testing.T) {
	assert.Equal(t, kafka.Snappy, ParseCompression("snappy"))
	assert.Equal(t, kafka.Lz4, ParseCompression("lz4"))
	assert.Equal(t, kafka.Gzip, ParseCompression("bogus"))
}
