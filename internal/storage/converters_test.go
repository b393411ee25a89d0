//go:build unit

package storage

import (
	"errors"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValidateAttribute(t *testing.T) {
	t.Run("accepts record attributes", func(t *testing.T) {
		for _, name := range []string{"name", "surname", "city", "record"} {
			a, err := ValidateAttribute(name)
			assert.NoError(t, err, "valid attribute")
			assert.Equal(t, model.Attribute(name), a, "attribute returned")
		}
	})

	t.Run("rejects unknown attribute", func(t *testing.T) {
		_, err := ValidateAttribute("zip")
		assert.True(t, errors.Is(err, errs.InvalidAttribute{}), "invalid attribute")
	})

	t.Run("rejects names of 15 characters or more", func(t *testing.T) {
		_, err := ValidateAttribute("abcdefghijklmno")
		assert.True(t, errors.Is(err, errs.InvalidAttribute{}), "invalid attribute")
	})
}

func TestRecordToBytes(t *testing.T) {
	t.Run("lays out fields at fixed offsets", func(t *testing.T) {
		// Prepare
		record := model.Record{Id: 258, Name: "Ann", Surname: "Smith", City: "Oslo", Text: "hello"}
		buf := make([]byte, conf.RecordLength)

		// Execute
		err := RecordToBytes(record, buf)

		// Check
		assert.NoError(t, err, "encodes record")
		assert.Equal(t, []byte{2, 1, 0, 0}, buf[0:4], "identifier")
		assert.Equal(t, "Ann", string(buf[4:7]), "name")
		assert.Equal(t, "Smith", string(buf[19:24]), "surname")
		assert.Equal(t, "Oslo", string(buf[39:43]), "city")
		assert.Equal(t, "hello", string(buf[59:64]), "text")
	})

	t.Run("round trips", func(t *testing.T) {
		// Prepare
		record := model.Record{Id: -7, Name: "Ann", Surname: "Smith", City: "Oslo", Text: "hello"}
		buf := make([]byte, conf.RecordLength)
		require.NoError(t, RecordToBytes(record, buf), "encodes record")

		// Execute
		decoded, err := BytesToRecord(buf)

		// Check
		assert.NoError(t, err, "decodes record")
		assert.Equal(t, record, decoded, "same record")
		id, err := RecordId(buf)
		assert.NoError(t, err, "reads identifier")
		assert.Equal(t, int32(-7), id, "identifier")
		surname, err := RecordAttribute(buf, model.AttributeSurname)
		assert.NoError(t, err, "reads attribute")
		assert.Equal(t, "Smith", surname, "surname")
	})

	t.Run("rejects value not fitting its field", func(t *testing.T) {
		// Prepare
		record := model.Record{Id: 1, Name: "abcdefghijklmno"}
		buf := make([]byte, conf.RecordLength)

		// Execute
		err := RecordToBytes(record, buf)

		// Check
		assert.True(t, errors.Is(err, errs.InvalidAttribute{}), "invalid attribute")
	})

	t.Run("rejects short buffer", func(t *testing.T) {
		err := RecordToBytes(model.Record{}, make([]byte, 10))
		assert.True(t, errors.Is(err, errs.BlockBounds{}), "block bounds")
	})
}

func TestEntryToBytes(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		// Prepare
		entry := model.Entry{Key: "Halatsis", BlockNo: 42}
		buf := make([]byte, conf.EntryLength)
		require.NoError(t, EntryToBytes(entry, buf), "encodes entry")

		// Execute
		decoded, err := BytesToEntry(buf)

		// Check
		assert.NoError(t, err, "decodes entry")
		assert.Equal(t, entry, decoded, "same entry")
		assert.Equal(t, []byte{42, 0, 0, 0}, buf[20:24], "block reference")
	})

	t.Run("rejects too long key", func(t *testing.T) {
		err := EntryToBytes(model.Entry{Key: "abcdefghijklmnopqrst"}, make([]byte, conf.EntryLength))
		assert.True(t, errors.Is(err, errs.InvalidAttribute{}), "invalid attribute")
	})
}
