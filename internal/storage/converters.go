package storage

import (
	"encoding/binary"
	"github.com/gostonefire/statichash/errs"
	"github.com/gostonefire/statichash/internal/conf"
	"github.com/gostonefire/statichash/internal/model"
	"github.com/gostonefire/statichash/internal/utils"
)

// field - Position of a text attribute within an encoded record
type field struct {
	offset int64
	length int64
}

// attributeFields - Text attribute positions within an encoded record
var attributeFields = map[model.Attribute]field{
	model.AttributeName:    {offset: conf.NameOffset, length: conf.NameLength},
	model.AttributeSurname: {offset: conf.SurnameOffset, length: conf.SurnameLength},
	model.AttributeCity:    {offset: conf.CityOffset, length: conf.CityLength},
	model.AttributeText:    {offset: conf.TextOffset, length: conf.TextLength},
}

// ValidateAttribute - Returns the attribute given its name. Names of 15 characters or more and names that are not
// record attributes are rejected with errs.InvalidAttribute.
func ValidateAttribute(name string) (attribute model.Attribute, err error) {
	if len(name) >= conf.MaxAttributeNameLength {
		err = errs.NewInvalidAttribute("attribute name %q must be shorter than %d characters", name, conf.MaxAttributeNameLength)
		return
	}
	if _, ok := attributeFields[model.Attribute(name)]; !ok {
		err = errs.NewInvalidAttribute("unknown attribute %q", name)
		return
	}

	attribute = model.Attribute(name)

	return
}

// RecordToBytes - Encodes a record into buf which must be at least conf.RecordLength long.
// Text values that do not fit their field are rejected with errs.InvalidAttribute.
func RecordToBytes(record model.Record, buf []byte) (err error) {
	if int64(len(buf)) < conf.RecordLength {
		err = errs.NewBlockBounds("record buffer of %d bytes, need %d", len(buf), conf.RecordLength)
		return
	}

	for attribute, f := range attributeFields {
		value, _ := record.Value(attribute)
		if !utils.FitsFixed(value, f.length) {
			err = errs.NewInvalidAttribute("value %q for %s does not fit in %d bytes", value, attribute, f.length)
			return
		}
	}

	binary.LittleEndian.PutUint32(buf[conf.IdOffset:], uint32(record.Id))
	for attribute, f := range attributeFields {
		value, _ := record.Value(attribute)
		_ = utils.StringToFixed(buf[f.offset:f.offset+f.length], value)
	}

	return
}

// BytesToRecord - Decodes a record from buf
func BytesToRecord(buf []byte) (record model.Record, err error) {
	if int64(len(buf)) < conf.RecordLength {
		err = errs.NewBlockBounds("record buffer of %d bytes, need %d", len(buf), conf.RecordLength)
		return
	}

	record = model.Record{
		Id:      int32(binary.LittleEndian.Uint32(buf[conf.IdOffset:])),
		Name:    textField(buf, model.AttributeName),
		Surname: textField(buf, model.AttributeSurname),
		City:    textField(buf, model.AttributeCity),
		Text:    textField(buf, model.AttributeText),
	}

	return
}

// RecordId - Reads only the identifier of an encoded record
func RecordId(buf []byte) (id int32, err error) {
	if int64(len(buf)) < conf.IdOffset+4 {
		err = errs.NewBlockBounds("record buffer of %d bytes has no identifier", len(buf))
		return
	}

	id = int32(binary.LittleEndian.Uint32(buf[conf.IdOffset:]))

	return
}

// RecordAttribute - Reads only one text attribute of an encoded record
func RecordAttribute(buf []byte, attribute model.Attribute) (value string, err error) {
	if int64(len(buf)) < conf.RecordLength {
		err = errs.NewBlockBounds("record buffer of %d bytes, need %d", len(buf), conf.RecordLength)
		return
	}
	if _, ok := attributeFields[attribute]; !ok {
		err = errs.NewInvalidAttribute("unknown attribute %q", attribute)
		return
	}

	value = textField(buf, attribute)

	return
}

// EntryToBytes - Encodes a secondary index entry into buf which must be at least conf.EntryLength long
func EntryToBytes(entry model.Entry, buf []byte) (err error) {
	if int64(len(buf)) < conf.EntryLength {
		err = errs.NewBlockBounds("entry buffer of %d bytes, need %d", len(buf), conf.EntryLength)
		return
	}
	if !utils.StringToFixed(buf[conf.EntryKeyOffset:conf.EntryKeyOffset+conf.EntryKeyLength], entry.Key) {
		err = errs.NewInvalidAttribute("key %q does not fit in %d bytes", entry.Key, conf.EntryKeyLength)
		return
	}

	binary.LittleEndian.PutUint32(buf[conf.EntryBlockOffset:], uint32(int32(entry.BlockNo)))

	return
}

// BytesToEntry - Decodes a secondary index entry from buf
func BytesToEntry(buf []byte) (entry model.Entry, err error) {
	if int64(len(buf)) < conf.EntryLength {
		err = errs.NewBlockBounds("entry buffer of %d bytes, need %d", len(buf), conf.EntryLength)
		return
	}

	entry = model.Entry{
		Key:     utils.FixedToString(buf[conf.EntryKeyOffset : conf.EntryKeyOffset+conf.EntryKeyLength]),
		BlockNo: int64(int32(binary.LittleEndian.Uint32(buf[conf.EntryBlockOffset:]))),
	}

	return
}

// textField - Returns a text attribute from an encoded record known to be long enough
func textField(buf []byte, attribute model.Attribute) string {
	f := attributeFields[attribute]
	return utils.FixedToString(buf[f.offset : f.offset+f.length])
}
