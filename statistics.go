package statichash

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/overflow"
	"github.com/gostonefire/statichash/internal/storage"
	"math"
)

// BucketStatistics - Chain statistics for one bucket. Empty buckets have all counts at zero.
//   - Bucket is the bucket number
//   - Blocks is the number of blocks in the chain
//   - Records is the number of records (or entries) in the chain
//   - MinRecordsPerBlock and MaxRecordsPerBlock are the smallest and largest block record counts
//   - AvgRecordsPerBlock is Records / Blocks
//   - HasOverflow is true when the chain has more than one block
type BucketStatistics struct {
	Bucket             int64
	Blocks             int64
	Records            int64
	MinRecordsPerBlock int64
	MaxRecordsPerBlock int64
	AvgRecordsPerBlock float64
	HasOverflow        bool
}

// Statistics - Collision statistics for a primary or secondary hash index
//   - Kind is "hash" or "secondary"
//   - TotalBlocks is the number of blocks in the file, header block included
//   - Buckets holds one BucketStatistics per bucket
//   - MinRecordsPerBucket and MaxRecordsPerBucket are the smallest and largest bucket record counts
//   - AvgRecordsPerBucket and AvgBlocksPerBucket are averages over all buckets
//   - OverflowBuckets is the number of buckets with more than one block
type Statistics struct {
	Kind                string
	TotalBlocks         int64
	Buckets             []BucketStatistics
	MinRecordsPerBucket int64
	MaxRecordsPerBucket int64
	AvgRecordsPerBucket float64
	AvgBlocksPerBucket  float64
	OverflowBuckets     int64
}

// HashStatistics - Walks every bucket chain of a hash index and returns its collision statistics. The file is
// opened in a session of its own and is never written to, so it must not be open elsewhere.
//   - c is a Conf struct with the block store holding the file
//   - name is the name of a primary or secondary hash index file
func HashStatistics(c Conf, name string) (stats Statistics, err error) {
	s, err := openSession(c, name, model.KindHash, model.KindSecondary)
	if err != nil {
		return
	}
	defer func() {
		err = errors.Join(err, s.close(false))
	}()

	slotLength := conf.RecordLength
	if s.header.Kind == model.KindSecondary {
		slotLength = conf.EntryLength
	}
	chains := overflow.NewChains(s.store, s.fd, slotLength, s.header.Density)

	stats.Kind = s.header.Kind.String()
	stats.TotalBlocks, err = s.store.BlockCount(s.fd)
	if err != nil {
		err = errs.NewStorageFailure("count blocks", err)
		return
	}

	var recordSum, blockSum int64
	stats.MinRecordsPerBucket = math.MaxInt64
	stats.Buckets = make([]BucketStatistics, s.header.Buckets)

	for bucket, head := range s.header.Heads {
		bs := BucketStatistics{Bucket: int64(bucket), MinRecordsPerBlock: math.MaxInt64}

		bs.Blocks, err = chains.Walk(head, func(_ storage.Pinned, footer model.Footer) (stop bool, err error) {
			bs.Records += footer.Records
			bs.MinRecordsPerBlock = min(bs.MinRecordsPerBlock, footer.Records)
			bs.MaxRecordsPerBlock = max(bs.MaxRecordsPerBlock, footer.Records)
			return
		})
		if err != nil {
			return
		}

		if bs.Blocks == 0 {
			bs.MinRecordsPerBlock = 0
		} else {
			bs.AvgRecordsPerBlock = float64(bs.Records) / float64(bs.Blocks)
		}
		bs.HasOverflow = bs.Blocks > 1
		stats.Buckets[bucket] = bs

		stats.MinRecordsPerBucket = min(stats.MinRecordsPerBucket, bs.Records)
		stats.MaxRecordsPerBucket = max(stats.MaxRecordsPerBucket, bs.Records)
		recordSum += bs.Records
		blockSum += bs.Blocks
		if bs.HasOverflow {
			stats.OverflowBuckets++
		}
	}

	stats.AvgRecordsPerBucket = float64(recordSum) / float64(s.header.Buckets)
	stats.AvgBlocksPerBucket = float64(blockSum) / float64(s.header.Buckets)

	return
}
