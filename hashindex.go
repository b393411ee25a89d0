package statichash

import (
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/hash"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/overflow"
	"github.com/gostonefire/statichash/internal/storage"
	"slices"
)

// HashIndexInfo - Information about an open primary hash index
//   - Density is the number of records per data block
//   - Buckets is the fixed number of buckets
//   - Records is the number of records stored
type HashIndexInfo struct {
	Density int64
	Buckets int64
	Records int64
}

// HashIndex - A static hash table of full records keyed by identifier. The bucket directory lives in the header
// block, each bucket is a chain of data blocks.
type HashIndex struct {
	session *session
	chains  *overflow.Chains
}

// CreateHashIndex - Creates a new primary hash index with every bucket empty
//   - c is a Conf struct with the block store to create the file in
//   - name is the name of the file to create, it must not exist
//   - buckets is the fixed number of buckets, it is limited by how many directory slots fit in the header block
func CreateHashIndex(c Conf, name string, buckets int64) (err error) {
	c, err = c.validate()
	if err != nil {
		return
	}

	maxBuckets := storage.MaxBuckets(model.KindHash, c.Store.BlockSize())
	if buckets <= 0 || buckets > maxBuckets {
		err = errs.NewInvalidParameter("number of buckets must be within 1..%d, got %d", maxBuckets, buckets)
		return
	}

	header := model.Header{
		Kind:    model.KindHash,
		Density: storage.Density(c.Store.BlockSize()),
		Buckets: buckets,
		Heads:   emptyDirectory(buckets),
	}

	err = createFile(c, name, header)

	return
}

// OpenHashIndex - Opens an existing primary hash index. A file that is not a primary hash index fails with
// errs.CorruptFile.
//
// It returns:
//   - hashIndex is a pointer to a HashIndex, close it with Close
//   - hashIndexInfo is a HashIndexInfo struct with the header metadata
//   - err is a standard error, if something went wrong
func OpenHashIndex(c Conf, name string) (hashIndex *HashIndex, hashIndexInfo HashIndexInfo, err error) {
	s, err := openSession(c, name, model.KindHash)
	if err != nil {
		return
	}

	hashIndex = &HashIndex{
		session: s,
		chains:  overflow.NewChains(s.store, s.fd, conf.RecordLength, s.header.Density),
	}
	hashIndexInfo = hashIndex.Info()

	return
}

// Info - Returns the header metadata as of now
func (H *HashIndex) Info() HashIndexInfo {
	return HashIndexInfo{
		Density: H.session.header.Density,
		Buckets: H.session.header.Buckets,
		Records: H.session.header.Records,
	}
}

// Close - Writes the header, bucket directory included, back to the file and closes it
func (H *HashIndex) Close() (err error) {
	return H.session.close(true)
}

// BucketNo - Returns the bucket an identifier hashes to
func (H *HashIndex) BucketNo(id int32) int64 {
	return hash.IntBucket(id, H.session.header.Buckets)
}

// Insert - Adds a record to the chain of its bucket. Records are not checked for duplicate identifiers.
//
// It returns:
//   - blockNo is the block the record was written into, usable as reference in a secondary index
//   - err is a standard error, if something went wrong
func (H *HashIndex) Insert(record Record) (blockNo int64, err error) {
	err = H.session.checkOpen()
	if err != nil {
		return
	}

	encoded := make([]byte, conf.RecordLength)
	err = storage.RecordToBytes(record, encoded)
	if err != nil {
		return
	}

	header := &H.session.header
	bucket := H.BucketNo(record.Id)

	head, blockNo, err := H.chains.Append(header.Heads[bucket], func(slot []byte) error {
		copy(slot, encoded)
		return nil
	})
	if err != nil {
		return
	}

	header.Heads[bucket] = head
	header.Records++

	return
}

// Get - Walks the chain of the bucket the identifier hashes to and returns the first record with that identifier.
//
// It returns:
//   - record is the matching record, if not found an error of type errs.NoRecordFound is also returned
//   - blocksVisited is the number of blocks visited in the chain, also when nothing was found
//   - err is either of type errs.NoRecordFound or a standard error, if something went wrong
func (H *HashIndex) Get(id int32) (record Record, blocksVisited int64, err error) {
	err = H.session.checkOpen()
	if err != nil {
		return
	}

	var found bool
	head := H.session.header.Heads[H.BucketNo(id)]

	blocksVisited, err = H.chains.Walk(head, func(block storage.Pinned, footer model.Footer) (stop bool, err error) {
		var slot []byte
		var slotId int32
		for i := int64(0); i < footer.Records; i++ {
			slot, err = block.Slot(i)
			if err != nil {
				return
			}
			slotId, err = storage.RecordId(slot)
			if err != nil {
				return
			}
			if slotId == id {
				record, err = storage.BytesToRecord(slot)
				found = true
				stop = true
				return
			}
		}
		return
	})
	if err != nil {
		return
	}

	if !found {
		err = errs.NoRecordFound{}
	}

	return
}

// ScanBlock - Calls fn for every record in a data block until fn returns true
func (H *HashIndex) ScanBlock(blockNo int64, fn func(record Record) (stop bool)) (err error) {
	return H.session.scanBlock(blockNo, fn)
}

// emptyDirectory - Returns a bucket directory with every bucket empty
func emptyDirectory(buckets int64) []int64 {
	return slices.Repeat([]int64{conf.EmptyBlock}, int(buckets))
}
