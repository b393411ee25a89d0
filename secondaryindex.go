package statichash

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/hash"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/overflow"
	"github.com/gostonefire/statichash/internal/storage"
)

// BlockScanner - Gives access to the records of one data block of a primary file. Both HashIndex and HeapFile
// implement it, so a secondary index can be built over either using the block numbers their Insert returns.
type BlockScanner interface {
	ScanBlock(blockNo int64, fn func(record Record) (stop bool)) error
}

// SecondaryIndexInfo - Information about an open secondary hash index
//   - Density is the number of entries per data block
//   - Buckets is the fixed number of buckets
//   - Entries is the number of entries stored
//   - Attribute is the indexed record attribute
//   - PrimaryFile is the name of the primary file given at creation, kept for reference only
type SecondaryIndexInfo struct {
	Density     int64
	Buckets     int64
	Entries     int64
	Attribute   Attribute
	PrimaryFile string
}

// SecondaryIndex - A static hash table over one text attribute. It stores (key, primary block) entries only,
// so every lookup is verified against the records of the referenced primary blocks.
type SecondaryIndex struct {
	session *session
	chains  *overflow.Chains
}

// CreateSecondaryIndex - Creates a new secondary hash index with every bucket empty. Invalid attributes are
// rejected with errs.InvalidAttribute before anything is written.
//   - c is a Conf struct with the block store to create the file in
//   - name is the name of the file to create, it must not exist
//   - attribute is the record attribute to index, one of name, surname, city and record
//   - buckets is the fixed number of buckets, it is limited by how many directory slots fit in the header block
//   - primaryFile is the name of the primary file that will be indexed
func CreateSecondaryIndex(c Conf, name, attribute string, buckets int64, primaryFile string) (err error) {
	a, err := storage.ValidateAttribute(attribute)
	if err != nil {
		return
	}

	c, err = c.validate()
	if err != nil {
		return
	}

	maxBuckets := storage.MaxBuckets(model.KindSecondary, c.Store.BlockSize())
	if buckets <= 0 || buckets > maxBuckets {
		err = errs.NewInvalidParameter("number of buckets must be within 1..%d, got %d", maxBuckets, buckets)
		return
	}

	header := model.Header{
		Kind:        model.KindSecondary,
		Density:     storage.Density(c.Store.BlockSize()),
		Buckets:     buckets,
		Attribute:   a,
		PrimaryFile: primaryFile,
		Heads:       emptyDirectory(buckets),
	}

	err = createFile(c, name, header)

	return
}

// OpenSecondaryIndex - Opens an existing secondary hash index. A file that is not a secondary index fails with
// errs.CorruptFile. The primary file is not opened, it is given to Lookup instead.
//
// It returns:
//   - secondaryIndex is a pointer to a SecondaryIndex, close it with Close
//   - secondaryIndexInfo is a SecondaryIndexInfo struct with the header metadata
//   - err is a standard error, if something went wrong
func OpenSecondaryIndex(c Conf, name string) (secondaryIndex *SecondaryIndex, secondaryIndexInfo SecondaryIndexInfo, err error) {
	s, err := openSession(c, name, model.KindSecondary)
	if err != nil {
		return
	}

	secondaryIndex = &SecondaryIndex{
		session: s,
		chains:  overflow.NewChains(s.store, s.fd, conf.EntryLength, s.header.Density),
	}
	secondaryIndexInfo = secondaryIndex.Info()

	return
}

// Info - Returns the header metadata as of now
func (S *SecondaryIndex) Info() SecondaryIndexInfo {
	return SecondaryIndexInfo{
		Density:     S.session.header.Density,
		Buckets:     S.session.header.Buckets,
		Entries:     S.session.header.Records,
		Attribute:   S.session.header.Attribute,
		PrimaryFile: S.session.header.PrimaryFile,
	}
}

// Close - Writes the header, bucket directory and entry count included, back to the file and closes it
func (S *SecondaryIndex) Close() (err error) {
	return S.session.close(true)
}

// BucketNo - Returns the bucket a key hashes to
func (S *SecondaryIndex) BucketNo(key string) int64 {
	return hash.StringBucket(key, S.session.header.Buckets)
}

// Insert - Adds an entry for the record's indexed attribute pointing at the primary block the record lives in
//   - record is the record as it was inserted in the primary file
//   - primaryBlockNo is the block number the primary Insert returned
func (S *SecondaryIndex) Insert(record Record, primaryBlockNo int64) (err error) {
	err = S.session.checkOpen()
	if err != nil {
		return
	}
	if primaryBlockNo <= 0 {
		err = errs.NewInvalidParameter("primary block %d is not a data block", primaryBlockNo)
		return
	}

	key, ok := record.Value(S.session.header.Attribute)
	if !ok {
		err = errs.NewInvalidAttribute("unknown attribute %q", S.session.header.Attribute)
		return
	}

	encoded := make([]byte, conf.EntryLength)
	err = storage.EntryToBytes(model.Entry{Key: key, BlockNo: primaryBlockNo}, encoded)
	if err != nil {
		return
	}

	header := &S.session.header
	bucket := S.BucketNo(key)

	head, _, err := S.chains.Append(header.Heads[bucket], func(slot []byte) error {
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

// Lookup - Returns every record of the primary file whose indexed attribute equals value. Entries with a matching
// key only point out candidate blocks, each candidate block is scanned in the primary file and the attribute is
// compared again. A record is returned once even if several entries lead to its block.
//   - primary is the open primary file the index was built over
//   - value is the attribute value to search for
//
// It returns:
//   - records is the matching records in the order they were found, empty if none
//   - blocksVisited is the number of secondary index blocks visited
//   - err is a standard error, if something went wrong
func (S *SecondaryIndex) Lookup(primary BlockScanner, value string) (records []Record, blocksVisited int64, err error) {
	err = S.session.checkOpen()
	if err != nil {
		return
	}
	if primary == nil {
		err = errs.NewInvalidParameter("a primary file must be given")
		return
	}

	var candidates []int64
	seenBlocks := roaring.New()
	head := S.session.header.Heads[S.BucketNo(value)]

	blocksVisited, err = S.chains.Walk(head, func(block storage.Pinned, footer model.Footer) (stop bool, err error) {
		var slot []byte
		var entry model.Entry
		for i := int64(0); i < footer.Records; i++ {
			slot, err = block.Slot(i)
			if err != nil {
				return
			}
			entry, err = storage.BytesToEntry(slot)
			if err != nil {
				return
			}
			if entry.Key == value && seenBlocks.CheckedAdd(uint32(entry.BlockNo)) {
				candidates = append(candidates, entry.BlockNo)
			}
		}
		return
	})
	if err != nil {
		return
	}

	attribute := S.session.header.Attribute
	seenIds := roaring.New()
	for _, blockNo := range candidates {
		err = primary.ScanBlock(blockNo, func(record Record) bool {
			if v, _ := record.Value(attribute); v == value && seenIds.CheckedAdd(uint32(record.Id)) {
				records = append(records, record)
			}
			return false
		})
		if err != nil {
			return
		}
	}

	return
}
