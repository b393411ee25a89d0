package storage

import (
	"errors"
	"fmt"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/interfaces"
)

// Pinned - A data block pinned in the block store together with its accessor
type Pinned struct {
	DataBlock
	store   interfaces.BlockStore
	block   interfaces.Block
	BlockNo int64
}

// Pin - Pins a data block and wraps it in a DataBlock accessor.
// A block that is not allocated is reported as errs.NotAllocatedBlock, any other store error as errs.StorageFailure.
func Pin(store interfaces.BlockStore, fd int, blockNo, slotLength, density int64) (pinned Pinned, err error) {
	block, err := store.GetBlock(fd, blockNo)
	if err != nil {
		if !errors.Is(err, errs.NotAllocatedBlock{}) {
			err = errs.NewStorageFailure(fmt.Sprintf("get block %d", blockNo), err)
		}
		return
	}

	dataBlock, err := NewDataBlock(block.Data(), slotLength, density)
	if err != nil {
		_ = store.UnpinBlock(block)
		return
	}

	pinned = Pinned{DataBlock: dataBlock, store: store, block: block, BlockNo: blockNo}

	return
}

// Allocate - Appends a new block to the file, pins it and initializes its footer to an empty chain tail
func Allocate(store interfaces.BlockStore, fd int, slotLength, density int64) (pinned Pinned, err error) {
	blockNo, err := store.AllocateBlock(fd)
	if err != nil {
		err = errs.NewStorageFailure("allocate block", err)
		return
	}

	pinned, err = Pin(store, fd, blockNo, slotLength, density)
	if err != nil {
		if errors.Is(err, errs.NotAllocatedBlock{}) {
			err = errs.NewStorageFailure(fmt.Sprintf("get allocated block %d", blockNo), err)
		}
		return
	}

	err = pinned.SetFooter(emptyFooter)
	if err != nil {
		_ = pinned.Release(false)
		return
	}
	store.MarkDirty(pinned.block)

	return
}

// Release - Unpins the block, marking it dirty first if it was changed
func (P Pinned) Release(dirty bool) (err error) {
	if dirty {
		P.store.MarkDirty(P.block)
	}

	err = P.store.UnpinBlock(P.block)
	if err != nil {
		err = errs.NewStorageFailure(fmt.Sprintf("unpin block %d", P.BlockNo), err)
	}

	return
}
