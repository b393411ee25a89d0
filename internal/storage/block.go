package storage

import (
	"encoding/binary"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
)

// emptyFooter - Footer of a block that was just allocated
var emptyFooter = model.Footer{Records: 0, NextBlock: conf.EmptyBlock}

// DataBlock - Accessor over the raw bytes of a data block: fixed length slots packed from offset 0 and a footer at
// the tail. All access is bounds checked against the block and against the density of the file.
type DataBlock struct {
	data       []byte
	slotLength int64
	density    int64
}

// NewDataBlock - Returns a DataBlock over data
//   - data is the full block as handed out by the block store
//   - slotLength is the length of one record or entry
//   - density is the number of slots in use per block for the file the block belongs to
func NewDataBlock(data []byte, slotLength, density int64) (block DataBlock, err error) {
	if slotLength <= 0 || density <= 0 || density*slotLength+conf.FooterLength > int64(len(data)) {
		err = errs.NewBlockBounds("%d slots of %d bytes plus footer do not fit in %d bytes", density, slotLength, len(data))
		return
	}

	block = DataBlock{data: data, slotLength: slotLength, density: density}

	return
}

// Slot - Returns slot n of the block as a sub slice, writes to it go to the block
func (D DataBlock) Slot(n int64) (slot []byte, err error) {
	if n < 0 || n >= D.density {
		err = errs.NewBlockBounds("slot %d outside 0..%d", n, D.density-1)
		return
	}

	start := n * D.slotLength
	slot = D.data[start : start+D.slotLength]

	return
}

// Footer - Reads the footer and checks that the record count is within density
func (D DataBlock) Footer() (footer model.Footer, err error) {
	start := int64(len(D.data)) - conf.FooterLength
	footer = model.Footer{
		Records:   int64(int32(binary.LittleEndian.Uint32(D.data[start+conf.FooterRecordsOffset:]))),
		NextBlock: int64(int32(binary.LittleEndian.Uint32(D.data[start+conf.FooterNextBlockOffset:]))),
	}

	if footer.Records < 0 || footer.Records > D.density {
		err = errs.NewCorruptFile("block footer holds %d records, density is %d", footer.Records, D.density)
		return
	}
	if footer.NextBlock < conf.EmptyBlock || footer.NextBlock == 0 {
		err = errs.NewCorruptFile("block footer links to invalid block %d", footer.NextBlock)
		return
	}

	return
}

// SetFooter - Writes the footer
func (D DataBlock) SetFooter(footer model.Footer) (err error) {
	if footer.Records < 0 || footer.Records > D.density {
		err = errs.NewBlockBounds("record count %d outside 0..%d", footer.Records, D.density)
		return
	}

	start := int64(len(D.data)) - conf.FooterLength
	binary.LittleEndian.PutUint32(D.data[start+conf.FooterRecordsOffset:], uint32(int32(footer.Records)))
	binary.LittleEndian.PutUint32(D.data[start+conf.FooterNextBlockOffset:], uint32(int32(footer.NextBlock)))

	return
}
