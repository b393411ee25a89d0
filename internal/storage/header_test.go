//go:build unit

package storage

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestDensity(t *testing.T) {
	t.Run("fits records besides footer", func(t *testing.T) {
		assert.Equal(t, int64(6), Density(512), "density of 512 byte blocks")
		assert.Equal(t, int64(55), Density(4096), "density of 4096 byte blocks")
	})
}

func TestMaxBuckets(t *testing.T) {
	t.Run("fits directory in header block", func(t *testing.T) {
		assert.Equal(t, int64(124), MaxBuckets(model.KindHash, 512), "primary directory slots")
		assert.Equal(t, int64(88), MaxBuckets(model.KindSecondary, 512), "secondary directory slots")
		assert.Equal(t, int64(0), MaxBuckets(model.KindHeap, 512), "heap has no directory")
	})
}

func TestHeaderToBytes(t *testing.T) {
	t.Run("lays out a primary header", func(t *testing.T) {
		// Prepare
		header := model.Header{Kind: model.KindHash, Density: 6, Records: 7, Buckets: 2, Heads: []int64{-1, 3}}

		// Execute
		buf, err := HeaderToBytes(header, 512)

		// Check
		assert.NoError(t, err, "converts header")
		assert.Len(t, buf, 512, "full block")
		assert.Equal(t, []byte{'H', 'T', 0, 0}, buf[:4], "magic tag")
		assert.Equal(t, []byte{6, 0, 0, 0}, buf[4:8], "density")
		assert.Equal(t, []byte{7, 0, 0, 0}, buf[8:12], "records")
		assert.Equal(t, []byte{2, 0, 0, 0}, buf[12:16], "buckets")
		assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 3, 0, 0, 0}, buf[16:24], "directory")
	})

	t.Run("rejects directory not matching bucket count", func(t *testing.T) {
		// Prepare
		header := model.Header{Kind: model.KindHash, Density: 6, Buckets: 3, Heads: []int64{-1}}

		// Execute
		_, err := HeaderToBytes(header, 512)

		// Check
		assert.True(t, errors.Is(err, errs.InvalidParameter{}), "invalid parameter")
	})

	t.Run("rejects too long primary file name", func(t *testing.T) {
		// Prepare
		header := model.Header{
			Kind:        model.KindSecondary,
			Density:     6,
			Buckets:     1,
			Attribute:   model.AttributeCity,
			PrimaryFile: strings.Repeat("x", int(conf.PrimaryFileLength)),
			Heads:       []int64{-1},
		}

		// Execute
		_, err := HeaderToBytes(header, 512)

		// Check
		assert.True(t, errors.Is(err, errs.InvalidParameter{}), "invalid parameter")
	})
}

func TestBytesToHeader(t *testing.T) {
	t.Run("round trips every kind", func(t *testing.T) {
		headers := []model.Header{
			{Kind: model.KindHeap, Density: 6, Records: 100},
			{Kind: model.KindHash, Density: 6, Records: 5, Buckets: 3, Heads: []int64{-1, 1, 2}},
			{Kind: model.KindSecondary, Density: 6, Records: 5, Buckets: 2, Attribute: model.AttributeSurname,
				PrimaryFile: "data.db", Heads: []int64{4, -1}},
		}

		for _, header := range headers {
			// Prepare
			buf, err := HeaderToBytes(header, 512)
			require.NoError(t, err, "converts header")

			// Execute
			decoded, err := BytesToHeader(buf, header.Kind)

			// Check
			assert.NoError(t, err, "converts bytes")
			assert.Equal(t, header, decoded, "same header")
		}
	})

	t.Run("rejects wrong kind", func(t *testing.T) {
		// Prepare
		buf, err := HeaderToBytes(model.Header{Kind: model.KindHeap, Density: 6}, 512)
		require.NoError(t, err, "converts header")

		// Execute
		_, err = BytesToHeader(buf, model.KindHash)

		// Check
		assert.True(t, errors.Is(err, errs.CorruptFile{}), "corrupt file")
	})

	t.Run("rejects unknown magic tag", func(t *testing.T) {
		// Prepare
		buf := make([]byte, 512)
		copy(buf, "XX")

		// Execute
		_, err := BytesToHeader(buf, model.KindHeap)

		// Check
		assert.True(t, errors.Is(err, errs.CorruptFile{}), "corrupt file")
	})

	t.Run("rejects head pointing at header block", func(t *testing.T) {
		// Prepare
		buf, err := HeaderToBytes(model.Header{Kind: model.KindHash, Density: 6, Buckets: 1, Heads: []int64{0}}, 512)
		require.NoError(t, err, "converts header")

		// Execute
		_, err = BytesToHeader(buf, model.KindHash)

		// Check
		assert.True(t, errors.Is(err, errs.CorruptFile{}), "corrupt file")
	})

	t.Run("rejects zero density", func(t *testing.T) {
		// Prepare
		buf, err := HeaderToBytes(model.Header{Kind: model.KindHeap, Density: 0}, 512)
		require.NoError(t, err, "converts header")

		// Execute
		_, err = BytesToHeader(buf, model.KindHeap)

		// Check
		assert.True(t, errors.Is(err, errs.CorruptFile{}), "corrupt file")
	})
}
