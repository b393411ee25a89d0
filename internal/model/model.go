package model

// Kind - Identifies which structure a file holds, it maps one to one to the magic tag in the header block
type Kind int

const (
	// KindHeap - A heap file
	KindHeap Kind = iota
	// KindHash - A primary static hash index
	KindHash
	// KindSecondary - A secondary static hash index over a record attribute
	KindSecondary
)

// String - Returns the kind as used in log entries
func (K Kind) String() string {
	switch K {
	case KindHeap:
		return "heap"
	case KindHash:
		return "hash"
	case KindSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Attribute - Names one of the text attributes of a Record
type Attribute string

const (
	// AttributeName - The name attribute
	AttributeName Attribute = "name"
	// AttributeSurname - The surname attribute
	AttributeSurname Attribute = "surname"
	// AttributeCity - The city attribute
	AttributeCity Attribute = "city"
	// AttributeText - The free-text attribute, called "record" on disk
	AttributeText Attribute = "record"
)

// Record - Represents one fixed size data record. Text attributes are stored in fixed width fields and must be
// shorter than their field (see conf for the widths).
type Record struct {
	Id      int32
	Name    string
	Surname string
	City    string
	Text    string
}

// Value - Returns the value of the given attribute and false if the attribute is unknown
func (R Record) Value(attribute Attribute) (value string, ok bool) {
	switch attribute {
	case AttributeName:
		return R.Name, true
	case AttributeSurname:
		return R.Surname, true
	case AttributeCity:
		return R.City, true
	case AttributeText:
		return R.Text, true
	default:
		return "", false
	}
}

// Entry - Represents one secondary index entry, a key and a reference to the primary block holding the record
type Entry struct {
	Key     string
	BlockNo int64
}

// Footer - Represents the footer at the tail of a data block
type Footer struct {
	Records   int64
	NextBlock int64
}

// Header - Represents the contents of header block 0 of any structure. Fields not used by a kind are left
// at their zero values.
//   - Kind is the structure kind derived from the magic tag
//   - Density is the number of records (or entries) that fit in one data block
//   - Records is the total number of records (or entries) inserted
//   - Buckets is the fixed number of buckets in a hash structure
//   - Attribute is the indexed attribute of a secondary index
//   - PrimaryFile is the name of the file a secondary index was built over
//   - Heads is the bucket directory, one first-block number (or conf.EmptyBlock) per bucket
type Header struct {
	Kind        Kind
	Density     int64
	Records     int64
	Buckets     int64
	Attribute   Attribute
	PrimaryFile string
	Heads       []int64
}
