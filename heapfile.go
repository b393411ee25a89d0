package statichash

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/storage"
)

// HeapInfo - Information about an open heap file
//   - Density is the number of records per data block
//   - Records is the number of records stored
type HeapInfo struct {
	Density int64
	Records int64
}

// HeapFile - An append only, unordered, sequence of data blocks following the header block. Record i is always
// found in block 1 + i/density, slot i%density.
type HeapFile struct {
	session *session
}

// CreateHeapFile - Creates a new heap file holding only its header block
//   - c is a Conf struct with the block store to create the file in
//   - name is the name of the file to create, it must not exist
func CreateHeapFile(c Conf, name string) (err error) {
	c, err = c.validate()
	if err != nil {
		return
	}

	header := model.Header{
		Kind:    model.KindHeap,
		Density: storage.Density(c.Store.BlockSize()),
	}

	err = createFile(c, name, header)

	return
}

// OpenHeapFile - Opens an existing heap file. A file that is not a heap file fails with errs.CorruptFile.
//
// It returns:
//   - heapFile is a pointer to a HeapFile, close it with Close
//   - heapInfo is a HeapInfo struct with the header metadata
//   - err is a standard error, if something went wrong
func OpenHeapFile(c Conf, name string) (heapFile *HeapFile, heapInfo HeapInfo, err error) {
	s, err := openSession(c, name, model.KindHeap)
	if err != nil {
		return
	}

	heapFile = &HeapFile{session: s}
	heapInfo = heapFile.Info()

	return
}

// Info - Returns the header metadata as of now
func (H *HeapFile) Info() HeapInfo {
	return HeapInfo{Density: H.session.header.Density, Records: H.session.header.Records}
}

// Close - Writes the header back to the file and closes it
func (H *HeapFile) Close() (err error) {
	return H.session.close(true)
}

// Insert - Appends a record after the last one inserted, allocating a new block when the last one is full.
//
// It returns:
//   - blockNo is the block the record was written into, usable as reference in a secondary index
//   - err is a standard error, if something went wrong
func (H *HeapFile) Insert(record Record) (blockNo int64, err error) {
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
	target := 1 + header.Records/header.Density
	slotNo := header.Records % header.Density

	block, err := storage.Pin(H.session.store, H.session.fd, target, conf.RecordLength, header.Density)
	if errors.Is(err, errs.NotAllocatedBlock{}) {
		block, err = storage.Allocate(H.session.store, H.session.fd, conf.RecordLength, header.Density)
		if err == nil && block.BlockNo != target {
			_ = block.Release(false)
			err = errs.NewCorruptFile("heap file allocated block %d while expecting block %d", block.BlockNo, target)
		}
	}
	if err != nil {
		return
	}

	var dirty bool
	defer func() {
		releaseErr := block.Release(dirty)
		if err == nil {
			err = releaseErr
		}
	}()

	footer, err := block.Footer()
	if err != nil {
		return
	}
	if footer.Records != slotNo {
		err = errs.NewCorruptFile("heap block %d holds %d records, header expects %d", target, footer.Records, slotNo)
		return
	}

	slot, err := block.Slot(slotNo)
	if err != nil {
		return
	}
	copy(slot, encoded)
	footer.Records++
	dirty = true

	err = block.SetFooter(footer)
	if err != nil {
		return
	}

	header.Records++
	blockNo = target

	return
}

// Find - Scans every data block in order for the record with the given identifier and stops at the first match.
//
// It returns:
//   - record is the matching record, if not found an error of type errs.NoRecordFound is also returned
//   - blocksVisited is the number of data blocks scanned, also when nothing was found
//   - err is either of type errs.NoRecordFound or a standard error, if something went wrong
func (H *HeapFile) Find(id int32) (record Record, blocksVisited int64, err error) {
	err = H.session.checkOpen()
	if err != nil {
		return
	}

	count, err := H.session.store.BlockCount(H.session.fd)
	if err != nil {
		err = errs.NewStorageFailure("count blocks", err)
		return
	}

	var found bool
	for blockNo := int64(1); blockNo < count && !found; blockNo++ {
		blocksVisited++
		err = H.session.scanBlock(blockNo, func(r Record) bool {
			if r.Id == id {
				record = r
				found = true
			}
			return found
		})
		if err != nil {
			return
		}
	}

	if !found {
		err = errs.NoRecordFound{}
	}

	return
}

// ScanBlock - Calls fn for every record in a data block until fn returns true
func (H *HeapFile) ScanBlock(blockNo int64, fn func(record Record) (stop bool)) (err error) {
	return H.session.scanBlock(blockNo, fn)
}
