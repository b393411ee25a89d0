package blockfile

import (
	"container/list"
	"fmt"
)

// frameKey - Identifies a block across all open files
type frameKey struct {
	fd      int
	blockNo int64
}

// frame - One block held in memory, it implements interfaces.Block
type frame struct {
	key   frameKey
	data  []byte
	pins  int
	dirty bool
	elem  *list.Element
}

// Data - Returns the block contents
func (F *frame) Data() []byte {
	return F.data
}

// BlockNo - Returns the block number within its file
func (F *frame) BlockNo() int64 {
	return F.key.blockNo
}

// pin - Pins a frame, taking it out of the eviction order if it was unpinned
func (S *Store) pin(f *frame) {
	if f.pins == 0 && f.elem != nil {
		S.lru.Remove(f.elem)
		f.elem = nil
	}
	f.pins++
}

// freeFrame - Returns a block sized buffer, evicting the least recently used unpinned frame if the pool is full
func (S *Store) freeFrame() (buf []byte, err error) {
	if len(S.frames) < S.poolBlocks {
		buf = make([]byte, S.blockSize)
		return
	}

	back := S.lru.Back()
	if back == nil {
		err = fmt.Errorf("buffer pool exhausted, all %d frames are pinned", S.poolBlocks)
		return
	}

	victim := back.Value.(*frame)
	if victim.dirty {
		err = S.writeFrame(S.files[victim.key.fd], victim)
		if err != nil {
			return
		}
	}
	S.lru.Remove(back)
	delete(S.frames, victim.key)

	S.logger.Debug("block evicted", "fd", victim.key.fd, "block", victim.key.blockNo, "dirty", victim.dirty)

	buf = victim.data
	clear(buf)

	return
}

// writeFrame - Writes a frame back to its file and clears its dirty flag
func (S *Store) writeFrame(of *openFile, f *frame) (err error) {
	_, err = of.file.WriteAt(f.data, f.key.blockNo*S.blockSize)
	if err != nil {
		err = fmt.Errorf("error while writing block %d to %s: %w", f.key.blockNo, of.name, err)
		return
	}
	S.stats.Writes++
	f.dirty = false

	return
}
