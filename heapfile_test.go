//go:build unit

package statichash

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/recordgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"testing"
)

func TestCreateHeapFile(t *testing.T) {
	t.Run("creates empty heap file", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")

		// Execute
		err := CreateHeapFile(c, fileName)

		// Check
		assert.NoError(t, err, "creates heap file")
		heapFile, info, err := OpenHeapFile(c, fileName)
		assert.NoError(t, err, "opens heap file")
		assert.Equal(t, HeapInfo{Density: 6, Records: 0}, info, "heap info")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("fails on existing file", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")

		// Execute
		err := CreateHeapFile(c, fileName)

		// Check
		assert.True(t, errors.Is(err, errs.StorageFailure{}), "storage failure")
	})
}

func TestOpenHeapFile(t *testing.T) {
	t.Run("rejects a hash index", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "hash.db")
		require.NoError(t, CreateHashIndex(c, fileName, 10), "creates hash index")

		// Execute
		_, _, err := OpenHeapFile(c, fileName)

		// Check
		assert.True(t, errors.Is(err, errs.CorruptFile{}), "corrupt file")

		// Check that the failed open released the file
		hashIndex, _, err := OpenHashIndex(c, fileName)
		assert.NoError(t, err, "opens hash index")
		assert.NoError(t, hashIndex.Close(), "closes hash index")
	})

	t.Run("fails on missing file", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)

		// Execute
		_, _, err := OpenHeapFile(c, filepath.Join(dir, "missing.db"))

		// Check
		assert.True(t, errors.Is(err, errs.StorageFailure{}), "storage failure")
	})
}

func TestHeapFile_Insert(t *testing.T) {
	t.Run("appends records in order", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, info, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")
		gen := recordgen.NewGenerator(1)

		// Execute
		for i := range 20 {
			blockNo, err := heapFile.Insert(gen.Record(int32(i)))

			// Check
			require.NoError(t, err, "inserts record")
			assert.Equal(t, 1+int64(i)/info.Density, blockNo, "record in block 1 + i/density")
		}

		// Check slot order within a block
		var found []int32
		err = heapFile.ScanBlock(2, func(record Record) bool {
			found = append(found, record.Id)
			return false
		})
		assert.NoError(t, err, "scans block")
		assert.Equal(t, []int32{6, 7, 8, 9, 10, 11}, found, "records in slot order")
		assert.Equal(t, int64(20), heapFile.Info().Records, "record count")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("persists over close and open", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")
		gen := recordgen.NewGenerator(2)
		records := make([]Record, 15)
		for i := range records {
			records[i] = gen.Record(int32(100 + i))
			_, err = heapFile.Insert(records[i])
			require.NoError(t, err, "inserts record")
		}
		require.NoError(t, heapFile.Close(), "closes heap file")

		// Execute
		heapFile, info, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "reopens heap file")
		blockNo, err := heapFile.Insert(gen.Record(115))

		// Check
		assert.NoError(t, err, "inserts after reopen")
		assert.Equal(t, int64(15), info.Records, "record count persisted")
		assert.Equal(t, int64(3), blockNo, "appended after last record")
		for _, record := range records {
			found, _, err := heapFile.Find(record.Id)
			assert.NoError(t, err, "finds record")
			assert.Equal(t, record, found, "same record")
		}

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("rejects record with too long value", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")

		// Execute
		_, err = heapFile.Insert(Record{Id: 1, City: "Llanfairpwllgwyngyll"})

		// Check
		assert.True(t, errors.Is(err, errs.InvalidAttribute{}), "invalid attribute")
		assert.Equal(t, int64(0), heapFile.Info().Records, "nothing inserted")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("fails after close", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")
		require.NoError(t, heapFile.Close(), "closes heap file")

		// Execute
		_, err = heapFile.Insert(Record{Id: 1})

		// Check
		assert.True(t, errors.Is(err, errs.InvalidParameter{}), "invalid parameter")
		assert.NoError(t, heapFile.Close(), "second close is a no-op")
	})
}

func TestHeapFile_Find(t *testing.T) {
	t.Run("stops at first match", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")
		gen := recordgen.NewGenerator(3)
		for i := range 20 {
			_, err = heapFile.Insert(gen.Record(int32(i)))
			require.NoError(t, err, "inserts record")
		}

		// Execute
		record, visited, err := heapFile.Find(7)

		// Check
		assert.NoError(t, err, "finds record")
		assert.Equal(t, int32(7), record.Id, "record identifier")
		assert.Equal(t, int64(2), visited, "two blocks scanned")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("scans every block when not found", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")
		gen := recordgen.NewGenerator(4)
		for i := range 20 {
			_, err = heapFile.Insert(gen.Record(int32(i)))
			require.NoError(t, err, "inserts record")
		}

		// Execute
		_, visited, err := heapFile.Find(-1)

		// Check
		assert.True(t, errors.Is(err, errs.NoRecordFound{}), "no record found")
		assert.Equal(t, int64(4), visited, "all data blocks scanned")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})

	t.Run("finds nothing in empty file", func(t *testing.T) {
		// Prepare
		c, dir := newTestConf(t)
		fileName := filepath.Join(dir, "heap.db")
		require.NoError(t, CreateHeapFile(c, fileName), "creates heap file")
		heapFile, _, err := OpenHeapFile(c, fileName)
		require.NoError(t, err, "opens heap file")

		// Execute
		_, visited, err := heapFile.Find(1)

		// Check
		assert.True(t, errors.Is(err, errs.NoRecordFound{}), "no record found")
		assert.Equal(t, int64(0), visited, "no blocks scanned")

		// Clean up
		assert.NoError(t, heapFile.Close(), "closes heap file")
	})
}
