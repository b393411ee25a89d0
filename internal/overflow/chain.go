package overflow

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/interfaces"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/storage"
)

// appendState - Where an insert stands relative to the chain it walks
type appendState int

const (
	// atHeadEmpty - The bucket has no chain yet
	atHeadEmpty appendState = iota
	// walking - The visited block is full and has a successor
	walking
	// atTailFull - The visited block is full and is the chain tail
	atTailFull
	// atTailWithRoom - The visited block has free slots
	atTailWithRoom
)

// Chains - Operates on the bucket chains of one open file. Every chain is a singly linked list of data blocks
// terminated by conf.EmptyBlock, blocks are filled left to right and never compacted.
type Chains struct {
	store      interfaces.BlockStore
	fd         int
	slotLength int64
	density    int64
}

// NewChains - Returns a pointer to a new Chains
//   - store is the block store the file is open in
//   - fd is the file descriptor of the open file
//   - slotLength is the length of one record or entry
//   - density is the number of slots per block as recorded in the file header
func NewChains(store interfaces.BlockStore, fd int, slotLength, density int64) *Chains {
	return &Chains{store: store, fd: fd, slotLength: slotLength, density: density}
}

// Append - Writes one slot into the chain starting at head. The chain is walked from its head: a full block with a
// successor is passed, a full tail gets a new block linked after it, a block with room takes the slot.
//   - head is the first block of the chain or conf.EmptyBlock for an empty bucket
//   - write is called with the slot to fill
//
// It returns:
//   - newHead is the (possibly new) first block of the chain
//   - blockNo is the block the slot was written into
//   - err is a standard error, if something went wrong
func (C *Chains) Append(head int64, write func(slot []byte) error) (newHead, blockNo int64, err error) {
	newHead = head

	state := walking
	if head == conf.EmptyBlock {
		state = atHeadEmpty
	}

	maxBlocks, err := C.blockCount()
	if err != nil {
		return
	}

	current := head
	for visited := int64(0); ; visited++ {
		if visited > maxBlocks {
			err = errs.NewCorruptFile("chain starting at block %d does not terminate", head)
			return
		}

		switch state {
		case atHeadEmpty:
			blockNo, err = C.newTail(write)
			newHead = blockNo
			return
		case walking:
			state, current, blockNo, err = C.step(current, write)
			if err != nil || state != walking {
				return
			}
		}
	}
}

// Walk - Visits every block of the chain starting at head in order, the block is pinned only while fn runs.
// fn gets the filled part of the block and may stop the walk by returning stop set to true.
//
// It returns:
//   - visited is the number of blocks visited
//   - err is a standard error or the error returned by fn
func (C *Chains) Walk(head int64, fn func(block storage.Pinned, footer model.Footer) (stop bool, err error)) (visited int64, err error) {
	maxBlocks, err := C.blockCount()
	if err != nil {
		return
	}

	current := head
	for current != conf.EmptyBlock {
		if visited >= maxBlocks {
			err = errs.NewCorruptFile("chain starting at block %d does not terminate", head)
			return
		}
		visited++

		var stop bool
		current, stop, err = C.visit(current, fn)
		if err != nil || stop {
			return
		}
	}

	return
}

// step - Pins one block of a chain during Append and acts on it according to its state
func (C *Chains) step(blockNo int64, write func(slot []byte) error) (state appendState, next, written int64, err error) {
	block, err := C.pin(blockNo)
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

	switch {
	case footer.Records < C.density:
		state = atTailWithRoom
	case footer.NextBlock != conf.EmptyBlock:
		state = walking
	default:
		state = atTailFull
	}

	switch state {
	case walking:
		next = footer.NextBlock
	case atTailWithRoom:
		var slot []byte
		slot, err = block.Slot(footer.Records)
		if err != nil {
			return
		}
		err = write(slot)
		if err != nil {
			return
		}
		footer.Records++
		dirty = true
		err = block.SetFooter(footer)
		written = blockNo
	case atTailFull:
		written, err = C.newTail(write)
		if err != nil {
			return
		}
		footer.NextBlock = written
		dirty = true
		err = block.SetFooter(footer)
	}

	return
}

// visit - Pins one block during Walk, hands it to fn and returns the next block in chain
func (C *Chains) visit(blockNo int64, fn func(block storage.Pinned, footer model.Footer) (stop bool, err error)) (next int64, stop bool, err error) {
	block, err := C.pin(blockNo)
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

	stop, err = fn(block, footer)
	next = footer.NextBlock

	return
}

// newTail - Allocates a block, writes the first slot and leaves it as a one slot chain tail
func (C *Chains) newTail(write func(slot []byte) error) (blockNo int64, err error) {
	block, err := storage.Allocate(C.store, C.fd, C.slotLength, C.density)
	if err != nil {
		return
	}
	blockNo = block.BlockNo

	defer func() {
		releaseErr := block.Release(true)
		if err == nil {
			err = releaseErr
		}
	}()

	slot, err := block.Slot(0)
	if err != nil {
		return
	}
	err = write(slot)
	if err != nil {
		return
	}

	err = block.SetFooter(model.Footer{Records: 1, NextBlock: conf.EmptyBlock})

	return
}

// pin - Pins a block that a chain refers to, a missing block means the chain is broken
func (C *Chains) pin(blockNo int64) (block storage.Pinned, err error) {
	if blockNo <= 0 {
		err = errs.NewCorruptFile("chain refers to block %d", blockNo)
		return
	}

	block, err = storage.Pin(C.store, C.fd, blockNo, C.slotLength, C.density)
	if errors.Is(err, errs.NotAllocatedBlock{}) {
		err = errs.NewStorageFailure("follow chain", err)
	}

	return
}

// blockCount - Returns the block count of the file, used to detect cycles in corrupt chains
func (C *Chains) blockCount() (count int64, err error) {
	count, err = C.store.BlockCount(C.fd)
	if err != nil {
		err = errs.NewStorageFailure("count blocks", err)
	}

	return
}
