package errs

import "fmt"

// StorageFailure - Custom error to inform that a call to the block store failed. It is fatal for the operation
// that received it and the block store error is kept as cause.
type StorageFailure struct {
	msg   string
	cause error
}

// NewStorageFailure - Returns a StorageFailure wrapping the block store error
//   - op is a short description of what was attempted, e.g. "get block 3"
//   - cause is the error returned from the block store
func NewStorageFailure(op string, cause error) StorageFailure {
	return StorageFailure{msg: fmt.Sprintf("storage failure while trying to %s", op), cause: cause}
}

// Error - Used to notify that the block store failed
func (E StorageFailure) Error() string {
	msg := E.msg
	if msg == "" {
		msg = "storage failure"
	}
	if E.cause != nil {
		return fmt.Sprintf("%s: %s", msg, E.cause)
	}
	return msg
}

// Unwrap - Returns the block store error that caused the failure
func (E StorageFailure) Unwrap() error {
	return E.cause
}

// Is - Matches any StorageFailure regardless of message and cause
func (E StorageFailure) Is(target error) bool {
	_, ok := target.(StorageFailure)
	return ok
}

// NotAllocatedBlock - Custom error to inform that a block number has not been allocated in a file yet
type NotAllocatedBlock struct {
	msg string
}

// NewNotAllocatedBlock - Returns a NotAllocatedBlock naming the block and the current block count
func NewNotAllocatedBlock(blockNo, blockCount int64) NotAllocatedBlock {
	return NotAllocatedBlock{msg: fmt.Sprintf("block %d not allocated, file has %d blocks", blockNo, blockCount)}
}

// Error - Used to notify that a block is not allocated
func (E NotAllocatedBlock) Error() string {
	if E.msg == "" {
		return "block not allocated"
	}
	return E.msg
}

// Is - Matches any NotAllocatedBlock regardless of message
func (E NotAllocatedBlock) Is(target error) bool {
	_, ok := target.(NotAllocatedBlock)
	return ok
}

// CorruptFile - Custom error to inform that a file header does not describe the expected structure
type CorruptFile struct {
	msg string
}

// NewCorruptFile - Returns a CorruptFile with a formatted message
func NewCorruptFile(format string, a ...any) CorruptFile {
	return CorruptFile{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify that a file is corrupt
func (E CorruptFile) Error() string {
	if E.msg == "" {
		return "corrupt file"
	}
	return E.msg
}

// Is - Matches any CorruptFile regardless of message
func (E CorruptFile) Is(target error) bool {
	_, ok := target.(CorruptFile)
	return ok
}

// InvalidAttribute - Custom error to inform that an attribute name or attribute value can not be used
type InvalidAttribute struct {
	msg string
}

// NewInvalidAttribute - Returns an InvalidAttribute with a formatted message
func NewInvalidAttribute(format string, a ...any) InvalidAttribute {
	return InvalidAttribute{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify that an attribute is invalid
func (E InvalidAttribute) Error() string {
	if E.msg == "" {
		return "invalid attribute"
	}
	return E.msg
}

// Is - Matches any InvalidAttribute regardless of message
func (E InvalidAttribute) Is(target error) bool {
	_, ok := target.(InvalidAttribute)
	return ok
}

// InvalidParameter - Custom error to inform that a parameter given at create or open time is out of range
type InvalidParameter struct {
	msg string
}

// NewInvalidParameter - Returns an InvalidParameter with a formatted message
func NewInvalidParameter(format string, a ...any) InvalidParameter {
	return InvalidParameter{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify that a parameter is invalid
func (E InvalidParameter) Error() string {
	if E.msg == "" {
		return "invalid parameter"
	}
	return E.msg
}

// Is - Matches any InvalidParameter regardless of message
func (E InvalidParameter) Is(target error) bool {
	_, ok := target.(InvalidParameter)
	return ok
}

// BlockBounds - Custom error to inform that a slot or footer access falls outside a block
type BlockBounds struct {
	msg string
}

// NewBlockBounds - Returns a BlockBounds with a formatted message
func NewBlockBounds(format string, a ...any) BlockBounds {
	return BlockBounds{msg: fmt.Sprintf(format, a...)}
}

// Error - Used to notify an out of range access within a block
func (E BlockBounds) Error() string {
	if E.msg == "" {
		return "access outside block bounds"
	}
	return E.msg
}

// Is - Matches any BlockBounds regardless of message
func (E BlockBounds) Is(target error) bool {
	_, ok := target.(BlockBounds)
	return ok
}

// NoRecordFound - Custom error to inform that no record was found
type NoRecordFound struct {
	msg string
}

// Error - Used to notify that no record was found
func (E NoRecordFound) Error() string {
	if E.msg == "" {
		return "no record found"
	}
	return E.msg
}

// Is - Matches any NoRecordFound regardless of message
func (E NoRecordFound) Is(target error) bool {
	_, ok := target.(NoRecordFound)
	return ok
}
