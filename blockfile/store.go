package blockfile

import (
	"container/list"
	"errors"
	"fmt"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/interfaces"
	"github.com/gostonefire/statichash/internal/conf"
	"io"
	"log/slog"
	"math"
	"os"
)

// DefaultPoolBlocks - Number of block frames kept in memory unless configured otherwise
const DefaultPoolBlocks = 64

// Conf - Is a struct to be passed in the call to NewStore
//   - BlockSize is the size of every block in every file, zero gives conf.DefaultBlockSize
//   - PoolBlocks is the number of block frames kept in memory across all open files, zero gives DefaultPoolBlocks
//   - Logger receives debug logging of file and block activity, nil discards it
type Conf struct {
	BlockSize  int64
	PoolBlocks int
	Logger     *slog.Logger
}

// IOStats - Counters of block store activity
//   - Reads is the number of blocks read from disk
//   - Writes is the number of blocks written to disk (allocations included)
//   - Hits is the number of GetBlock calls served from memory
//   - Pinned is the number of currently pinned frames
type IOStats struct {
	Reads  int64
	Writes int64
	Hits   int64
	Pinned int64
}

// openFile - Book keeping for one open file
type openFile struct {
	name   string
	file   *os.File
	blocks int64
	unlock func() error
}

// Store - A file backed implementation of interfaces.BlockStore. Blocks are cached in a fixed number of frames,
// unpinned frames are kept in least recently used order and are the only ones that can be evicted.
// A Store is not safe for concurrent use.
type Store struct {
	blockSize  int64
	poolBlocks int
	logger     *slog.Logger
	files      map[int]*openFile
	names      map[string]int
	nextFd     int
	frames     map[frameKey]*frame
	lru        *list.List
	stats      IOStats
}

// NewStore - Returns a pointer to a new Store
//   - storeConf is a Conf struct, its zero value gives a store with default settings
func NewStore(storeConf Conf) (store *Store, err error) {
	if storeConf.BlockSize == 0 {
		storeConf.BlockSize = conf.DefaultBlockSize
	}
	if storeConf.BlockSize < conf.FooterLength+conf.RecordLength {
		err = fmt.Errorf("block size %d too small, must be at least %d", storeConf.BlockSize, conf.FooterLength+conf.RecordLength)
		return
	}
	if storeConf.PoolBlocks == 0 {
		storeConf.PoolBlocks = DefaultPoolBlocks
	}
	if storeConf.PoolBlocks < 2 {
		err = fmt.Errorf("pool must hold at least 2 blocks, got %d", storeConf.PoolBlocks)
		return
	}
	if storeConf.Logger == nil {
		storeConf.Logger = slog.New(slog.DiscardHandler)
	}

	store = &Store{
		blockSize:  storeConf.BlockSize,
		poolBlocks: storeConf.PoolBlocks,
		logger:     storeConf.Logger,
		files:      make(map[int]*openFile),
		names:      make(map[string]int),
		frames:     make(map[frameKey]*frame),
		lru:        list.New(),
	}

	return
}

// BlockSize - Returns the fixed size of every block
func (S *Store) BlockSize() int64 {
	return S.blockSize
}

// Stats - Returns a snapshot of the store counters
func (S *Store) Stats() IOStats {
	stats := S.stats
	for _, f := range S.frames {
		if f.pins > 0 {
			stats.Pinned++
		}
	}

	return stats
}

// CreateFile - Creates a new, empty, file. It fails if the file already exists.
func (S *Store) CreateFile(name string) (err error) {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0644)
	if err != nil {
		err = fmt.Errorf("error while creating block file: %w", err)
		return
	}

	err = file.Close()
	if err != nil {
		err = fmt.Errorf("error while closing new block file: %w", err)
		return
	}

	S.logger.Debug("block file created", "file", name)

	return
}

// OpenFile - Opens an existing file and returns a file descriptor. A file can only be open once at a time.
func (S *Store) OpenFile(name string) (fd int, err error) {
	if _, ok := S.names[name]; ok {
		err = fmt.Errorf("block file %s is already open", name)
		return
	}

	file, err := os.OpenFile(name, os.O_RDWR, 0644)
	if err != nil {
		err = fmt.Errorf("unable to open existing block file: %w", err)
		return
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		err = fmt.Errorf("unable to stat block file: %w", err)
		return
	}
	if stat.Size()%S.blockSize != 0 {
		_ = file.Close()
		err = fmt.Errorf("size of block file %s (%d) is not a multiple of block size %d", name, stat.Size(), S.blockSize)
		return
	}

	unlock, err := lockFile(file)
	if err != nil {
		_ = file.Close()
		err = fmt.Errorf("unable to lock block file %s: %w", name, err)
		return
	}

	S.nextFd++
	fd = S.nextFd
	S.files[fd] = &openFile{name: name, file: file, blocks: stat.Size() / S.blockSize, unlock: unlock}
	S.names[name] = fd

	S.logger.Debug("block file opened", "file", name, "fd", fd, "blocks", S.files[fd].blocks)

	return
}

// CloseFile - Writes back dirty blocks of the file, drops its frames from memory and closes it
func (S *Store) CloseFile(fd int) (err error) {
	of, err := S.getFile(fd)
	if err != nil {
		return
	}

	for key, f := range S.frames {
		if key.fd == fd && f.pins > 0 {
			err = fmt.Errorf("block %d of %s is still pinned", key.blockNo, of.name)
			return
		}
	}

	for key, f := range S.frames {
		if key.fd != fd {
			continue
		}
		if f.dirty {
			err = S.writeFrame(of, f)
			if err != nil {
				return
			}
		}
		if f.elem != nil {
			S.lru.Remove(f.elem)
		}
		delete(S.frames, key)
	}

	delete(S.files, fd)
	delete(S.names, of.name)

	syncErr := of.file.Sync()
	unlockErr := of.unlock()
	closeErr := of.file.Close()
	err = errors.Join(syncErr, unlockErr, closeErr)
	if err != nil {
		err = fmt.Errorf("error while closing block file %s: %w", of.name, err)
		return
	}

	S.logger.Debug("block file closed", "file", of.name, "fd", fd)

	return
}

// AllocateBlock - Appends a zero filled block to the file and returns its block number
func (S *Store) AllocateBlock(fd int) (blockNo int64, err error) {
	of, err := S.getFile(fd)
	if err != nil {
		return
	}
	if of.blocks >= math.MaxInt32 {
		err = fmt.Errorf("block file %s can not grow beyond %d blocks", of.name, math.MaxInt32)
		return
	}

	_, err = of.file.WriteAt(make([]byte, S.blockSize), of.blocks*S.blockSize)
	if err != nil {
		err = fmt.Errorf("error while appending block to %s: %w", of.name, err)
		return
	}
	S.stats.Writes++

	blockNo = of.blocks
	of.blocks++

	S.logger.Debug("block allocated", "file", of.name, "block", blockNo)

	return
}

// BlockCount - Returns the number of allocated blocks in the file
func (S *Store) BlockCount(fd int) (count int64, err error) {
	of, err := S.getFile(fd)
	if err != nil {
		return
	}

	count = of.blocks

	return
}

// GetBlock - Pins and returns a block, reading it from disk if it is not already in memory
func (S *Store) GetBlock(fd int, blockNo int64) (block interfaces.Block, err error) {
	of, err := S.getFile(fd)
	if err != nil {
		return
	}
	if blockNo < 0 || blockNo >= of.blocks {
		err = errs.NewNotAllocatedBlock(blockNo, of.blocks)
		return
	}

	key := frameKey{fd: fd, blockNo: blockNo}
	if f, ok := S.frames[key]; ok {
		S.pin(f)
		S.stats.Hits++
		block = f
		return
	}

	buf, err := S.freeFrame()
	if err != nil {
		return
	}

	_, err = of.file.ReadAt(buf, blockNo*S.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("error while reading block %d from %s: %w", blockNo, of.name, err)
		return
	}
	err = nil
	S.stats.Reads++

	f := &frame{key: key, data: buf}
	S.frames[key] = f
	S.pin(f)
	block = f

	return
}

// MarkDirty - Marks a pinned block as changed
func (S *Store) MarkDirty(block interfaces.Block) {
	if f, ok := block.(*frame); ok {
		f.dirty = true
	}
}

// UnpinBlock - Releases a pinned block, when no pins remain the block becomes eligible for eviction
func (S *Store) UnpinBlock(block interfaces.Block) (err error) {
	f, ok := block.(*frame)
	if !ok || S.frames[f.key] != f {
		err = fmt.Errorf("block was not handed out by this store")
		return
	}
	if f.pins == 0 {
		err = fmt.Errorf("block %d is not pinned", f.key.blockNo)
		return
	}

	f.pins--
	if f.pins == 0 {
		f.elem = S.lru.PushFront(f)
	}

	return
}

// getFile - Returns book keeping for an open file descriptor
func (S *Store) getFile(fd int) (of *openFile, err error) {
	of, ok := S.files[fd]
	if !ok {
		err = fmt.Errorf("invalid file descriptor %d", fd)
	}

	return
}
