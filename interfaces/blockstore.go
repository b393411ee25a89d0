package interfaces

// Block - A pinned block buffer handed out by a BlockStore. Data returns the full block of BlockSize bytes; the
// slice may be mutated while the block is pinned and must not be used after it has been unpinned.
type Block interface {
	// Data - Returns the block contents
	Data() []byte

	// BlockNo - Returns the block number within its file
	BlockNo() int64
}

// BlockStore - Interface to the block oriented storage that heap files and hash indexes are built on.
// It supplies block allocation, pinning of blocks in memory and dirty block tracking, the interpretation of block
// contents is left entirely to the caller.
type BlockStore interface {
	// CreateFile - Creates a new, empty, file. It fails if the file already exists.
	CreateFile(name string) error

	// OpenFile - Opens an existing file and returns a file descriptor to use in subsequent calls
	OpenFile(name string) (fd int, err error)

	// CloseFile - Writes back any dirty blocks and closes the file. It fails if blocks of the file are still pinned.
	CloseFile(fd int) error

	// AllocateBlock - Appends a new zero filled block to the file and returns its block number
	AllocateBlock(fd int) (blockNo int64, err error)

	// GetBlock - Pins and returns a block. If blockNo has not been allocated yet the error is of
	// type errs.NotAllocatedBlock, which callers may use as the signal to allocate.
	GetBlock(fd int, blockNo int64) (block Block, err error)

	// BlockCount - Returns the number of allocated blocks in the file
	BlockCount(fd int) (count int64, err error)

	// MarkDirty - Marks a pinned block as changed so that it is written back before it leaves memory
	MarkDirty(block Block)

	// UnpinBlock - Releases a pinned block
	UnpinBlock(block Block) error

	// BlockSize - Returns the fixed size of every block
	BlockSize() int64
}
