package storage

import (
	"encoding/binary"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/utils"
)

// magicTags - Magic tag per structure kind
var magicTags = map[model.Kind]string{
	model.KindHeap:      conf.MagicHeap,
	model.KindHash:      conf.MagicHash,
	model.KindSecondary: conf.MagicSecondary,
}

// DirectoryOffset - Returns the header offset of the bucket directory for a kind, zero for kinds without one
func DirectoryOffset(kind model.Kind) int64 {
	switch kind {
	case model.KindHash:
		return conf.HashDirectoryOffset
	case model.KindSecondary:
		return conf.SecondaryDirectoryOffset
	default:
		return 0
	}
}

// MaxBuckets - Returns the number of bucket directory slots that fit in a header block
func MaxBuckets(kind model.Kind, blockSize int64) int64 {
	offset := DirectoryOffset(kind)
	if offset == 0 || blockSize <= offset {
		return 0
	}

	return (blockSize - offset) / conf.DirectorySlotLength
}

// Density - Returns the number of records that fit in one data block besides the footer
func Density(blockSize int64) int64 {
	return (blockSize - conf.FooterLength) / conf.RecordLength
}

// KindOf - Reads the magic tag of a header block and returns the kind it identifies
func KindOf(buf []byte) (kind model.Kind, err error) {
	if int64(len(buf)) < conf.MagicLength {
		err = errs.NewCorruptFile("header block of %d bytes is too short", len(buf))
		return
	}

	magic := utils.FixedToString(buf[:conf.MagicLength])
	for k, tag := range magicTags {
		if tag == magic {
			kind = k
			return
		}
	}

	err = errs.NewCorruptFile("invalid magic tag %q", magic)

	return
}

// BytesToHeader - Converts a header block to a Header struct. It fails with errs.CorruptFile if the magic tag is
// not the one of the expected kind or if any field is out of range.
func BytesToHeader(buf []byte, expected model.Kind) (header model.Header, err error) {
	kind, err := KindOf(buf)
	if err != nil {
		return
	}
	if kind != expected {
		err = errs.NewCorruptFile("expected a %s file but the magic tag says %s", expected, kind)
		return
	}

	blockSize := int64(len(buf))
	if blockSize < conf.HeapHeaderLength {
		err = errs.NewCorruptFile("header block of %d bytes is too short", blockSize)
		return
	}

	header = model.Header{
		Kind:    kind,
		Density: int64(int32(binary.LittleEndian.Uint32(buf[conf.DensityOffset:]))),
		Records: int64(int32(binary.LittleEndian.Uint32(buf[conf.RecordsOffset:]))),
	}

	if header.Density <= 0 || header.Density > Density(blockSize) {
		err = errs.NewCorruptFile("density %d out of range for block size %d", header.Density, blockSize)
		return
	}
	if header.Records < 0 {
		err = errs.NewCorruptFile("negative record count %d", header.Records)
		return
	}

	if kind == model.KindHeap {
		return
	}

	header.Buckets = int64(int32(binary.LittleEndian.Uint32(buf[conf.BucketsOffset:])))
	if header.Buckets <= 0 || header.Buckets > MaxBuckets(kind, blockSize) {
		err = errs.NewCorruptFile("bucket count %d out of range", header.Buckets)
		return
	}

	if kind == model.KindSecondary {
		header.Attribute = model.Attribute(utils.FixedToString(buf[conf.AttributeOffset : conf.AttributeOffset+conf.AttributeLength]))
		header.PrimaryFile = utils.FixedToString(buf[conf.PrimaryFileOffset : conf.PrimaryFileOffset+conf.PrimaryFileLength])
		if _, err = ValidateAttribute(string(header.Attribute)); err != nil {
			err = errs.NewCorruptFile("header names unusable attribute: %s", err)
			return
		}
	}

	offset := DirectoryOffset(kind)
	header.Heads = make([]int64, header.Buckets)
	for i := range header.Heads {
		head := int64(int32(binary.LittleEndian.Uint32(buf[offset:])))
		if head < conf.EmptyBlock || head == 0 {
			err = errs.NewCorruptFile("bucket %d has invalid head block %d", i, head)
			return
		}
		header.Heads[i] = head
		offset += conf.DirectorySlotLength
	}

	return
}

// HeaderToBytes - Converts a Header struct to a zero padded header block of blockSize bytes
func HeaderToBytes(header model.Header, blockSize int64) (buf []byte, err error) {
	tag, ok := magicTags[header.Kind]
	if !ok {
		err = errs.NewInvalidParameter("unknown structure kind %d", header.Kind)
		return
	}

	buf = make([]byte, blockSize)
	if !utils.StringToFixed(buf[:conf.MagicLength], tag) {
		err = errs.NewInvalidParameter("magic tag %q does not fit", tag)
		return
	}

	binary.LittleEndian.PutUint32(buf[conf.DensityOffset:], uint32(int32(header.Density)))
	binary.LittleEndian.PutUint32(buf[conf.RecordsOffset:], uint32(int32(header.Records)))

	if header.Kind == model.KindHeap {
		return
	}

	if header.Buckets <= 0 || header.Buckets > MaxBuckets(header.Kind, blockSize) {
		err = errs.NewInvalidParameter("bucket count %d out of range 1..%d", header.Buckets, MaxBuckets(header.Kind, blockSize))
		return
	}
	if int64(len(header.Heads)) != header.Buckets {
		err = errs.NewInvalidParameter("bucket directory has %d slots, expected %d", len(header.Heads), header.Buckets)
		return
	}
	binary.LittleEndian.PutUint32(buf[conf.BucketsOffset:], uint32(int32(header.Buckets)))

	if header.Kind == model.KindSecondary {
		if !utils.StringToFixed(buf[conf.AttributeOffset:conf.AttributeOffset+conf.AttributeLength], string(header.Attribute)) {
			err = errs.NewInvalidAttribute("attribute name %q too long", header.Attribute)
			return
		}
		if !utils.StringToFixed(buf[conf.PrimaryFileOffset:conf.PrimaryFileOffset+conf.PrimaryFileLength], header.PrimaryFile) {
			err = errs.NewInvalidParameter("primary file name %q longer than %d bytes", header.PrimaryFile, conf.PrimaryFileLength-1)
			return
		}
	}

	offset := DirectoryOffset(header.Kind)
	for _, head := range header.Heads {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(head)))
		offset += conf.DirectorySlotLength
	}

	return
}
