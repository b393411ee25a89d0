// Package statichash implements static, block resident, file structures: an append only heap file, a primary hash
// index keyed by record identifier and a secondary hash index over a record text attribute. All of them are
// built on an interfaces.BlockStore and keep their header block in memory while open.
package statichash

import (
	"fmt"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/interfaces"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/storage"
	"log/slog"
	"slices"
)

// Record - A fixed size data record, text attributes must be shorter than their on-disk field
// (name 15, surname 20, city 20, record 15 bytes)
type Record = model.Record

// Attribute - Names a text attribute of a Record
type Attribute = model.Attribute

// Record attributes that a secondary index can be built over
const (
	AttributeName    = model.AttributeName
	AttributeSurname = model.AttributeSurname
	AttributeCity    = model.AttributeCity
	AttributeText    = model.AttributeText
)

// Conf - Is a struct passed to every create and open function
//   - Store is the block store holding the files
//   - Logger receives info logging on open and close, nil discards it
type Conf struct {
	Store  interfaces.BlockStore
	Logger *slog.Logger
}

// session - One open structure: its file descriptor and the header block held in memory until close
type session struct {
	store  interfaces.BlockStore
	logger *slog.Logger
	name   string
	fd     int
	header model.Header
	closed bool
}

// validate - Checks the Conf and fills in defaults
func (C Conf) validate() (c Conf, err error) {
	c = C
	if c.Store == nil {
		err = errs.NewInvalidParameter("a block store must be given")
		return
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}

	return
}

// createFile - Creates a file holding only header block 0. The header is encoded before any I/O so that invalid
// parameters leave nothing behind.
func createFile(c Conf, name string, header model.Header) (err error) {
	c, err = c.validate()
	if err != nil {
		return
	}
	if name == "" {
		err = errs.NewInvalidParameter("file name can not be empty")
		return
	}

	buf, err := storage.HeaderToBytes(header, c.Store.BlockSize())
	if err != nil {
		return
	}

	err = c.Store.CreateFile(name)
	if err != nil {
		err = errs.NewStorageFailure(fmt.Sprintf("create file %s", name), err)
		return
	}

	fd, err := c.Store.OpenFile(name)
	if err != nil {
		err = errs.NewStorageFailure(fmt.Sprintf("open new file %s", name), err)
		return
	}

	err = writeHeaderBlock(c.Store, fd, buf, true)
	if err != nil {
		_ = c.Store.CloseFile(fd)
		return
	}

	err = c.Store.CloseFile(fd)
	if err != nil {
		err = errs.NewStorageFailure(fmt.Sprintf("close new file %s", name), err)
		return
	}

	c.Logger.Info("file created", "file", name, "kind", header.Kind.String(), "density", header.Density, "buckets", header.Buckets)

	return
}

// openSession - Opens a file, reads its header block and checks that it holds one of the accepted kinds.
// On failure the file is closed again.
func openSession(c Conf, name string, accepted ...model.Kind) (s *session, err error) {
	c, err = c.validate()
	if err != nil {
		return
	}

	fd, err := c.Store.OpenFile(name)
	if err != nil {
		err = errs.NewStorageFailure(fmt.Sprintf("open file %s", name), err)
		return
	}

	header, err := readHeaderBlock(c.Store, fd, accepted)
	if err != nil {
		_ = c.Store.CloseFile(fd)
		return
	}

	s = &session{store: c.Store, logger: c.Logger, name: name, fd: fd, header: header}

	s.logger.Info("file opened", "file", name, "kind", header.Kind.String(), "density", header.Density,
		"buckets", header.Buckets, "records", header.Records)

	return
}

// close - Writes the in-memory header back to block 0 (if persist is set) and closes the file.
// The session is closed even if writing the header fails, a second call is a no-op.
func (S *session) close(persist bool) (err error) {
	if S.closed {
		return
	}
	S.closed = true

	if persist {
		var buf []byte
		buf, err = storage.HeaderToBytes(S.header, S.store.BlockSize())
		if err == nil {
			err = writeHeaderBlock(S.store, S.fd, buf, false)
		}
	}

	closeErr := S.store.CloseFile(S.fd)
	if closeErr != nil && err == nil {
		err = errs.NewStorageFailure(fmt.Sprintf("close file %s", S.name), closeErr)
	}
	if err != nil {
		return
	}

	S.logger.Info("file closed", "file", S.name, "kind", S.header.Kind.String(), "records", S.header.Records)

	return
}

// checkOpen - Returns an error if the session has been closed
func (S *session) checkOpen() (err error) {
	if S.closed {
		err = errs.NewInvalidParameter("file %s is closed", S.name)
	}

	return
}

// scanBlock - Calls fn for every filled record slot of a data block of a heap file or a primary hash index
func (S *session) scanBlock(blockNo int64, fn func(record Record) (stop bool)) (err error) {
	err = S.checkOpen()
	if err != nil {
		return
	}
	if blockNo <= 0 {
		err = errs.NewInvalidParameter("block %d is not a data block", blockNo)
		return
	}

	block, err := storage.Pin(S.store, S.fd, blockNo, conf.RecordLength, S.header.Density)
	if err != nil {
		return
	}
	defer func() {
		releaseErr := block.Release(false)
		if err == nil {
			err = releaseErr
		}
	}()

	footer, err := block.Footer()
	if err != nil {
		return
	}

	var slot []byte
	var record Record
	for i := int64(0); i < footer.Records; i++ {
		slot, err = block.Slot(i)
		if err != nil {
			return
		}
		record, err = storage.BytesToRecord(slot)
		if err != nil {
			return
		}
		if fn(record) {
			return
		}
	}

	return
}

// readHeaderBlock - Reads block 0 and converts it to a Header of one of the accepted kinds
func readHeaderBlock(store interfaces.BlockStore, fd int, accepted []model.Kind) (header model.Header, err error) {
	block, err := store.GetBlock(fd, 0)
	if err != nil {
		err = errs.NewStorageFailure("get header block", err)
		return
	}
	buf := slices.Clone(block.Data())
	err = store.UnpinBlock(block)
	if err != nil {
		err = errs.NewStorageFailure("unpin header block", err)
		return
	}

	kind, err := storage.KindOf(buf)
	if err != nil {
		return
	}
	if !slices.Contains(accepted, kind) {
		err = errs.NewCorruptFile("file holds a %s structure, not a %s", kind, accepted[0])
		return
	}

	header, err = storage.BytesToHeader(buf, kind)

	return
}

// writeHeaderBlock - Writes buf to block 0, allocating it first for a new file
func writeHeaderBlock(store interfaces.BlockStore, fd int, buf []byte, allocate bool) (err error) {
	if allocate {
		var blockNo int64
		blockNo, err = store.AllocateBlock(fd)
		if err != nil {
			err = errs.NewStorageFailure("allocate header block", err)
			return
		}
		if blockNo != 0 {
			err = errs.NewCorruptFile("header allocated as block %d in a file that should be empty", blockNo)
			return
		}
	}

	block, err := store.GetBlock(fd, 0)
	if err != nil {
		err = errs.NewStorageFailure("get header block", err)
		return
	}

	copy(block.Data(), buf)
	store.MarkDirty(block)

	err = store.UnpinBlock(block)
	if err != nil {
		err = errs.NewStorageFailure("unpin header block", err)
	}

	return
}
