package conf

// DefaultBlockSize - Block size used by the file block store unless configured otherwise
const DefaultBlockSize int64 = 512

// EmptyBlock - Sentinel for an empty bucket directory slot and for the last block in a chain
const EmptyBlock int64 = -1

// MagicLength - Length of the magic tag at the start of every header block
const MagicLength int64 = 4

// MagicHeap - Magic tag of a heap file
const MagicHeap = "HP"

// MagicHash - Magic tag of a primary hash index
const MagicHash = "HT"

// MagicSecondary - Magic tag of a secondary hash index
const MagicSecondary = "SHT"

// DensityOffset - Header offset to records per data block - 4 bytes
const DensityOffset int64 = 4

// RecordsOffset - Header offset to total number of records (or entries) stored - 4 bytes
const RecordsOffset int64 = 8

// HeapHeaderLength - Length of the used part of a heap file header
const HeapHeaderLength int64 = 12

// BucketsOffset - Header offset to number of buckets in hash structures - 4 bytes
const BucketsOffset int64 = 12

// HashDirectoryOffset - Header offset to the bucket directory of a primary hash index
const HashDirectoryOffset int64 = 16

// AttributeOffset - Header offset to the indexed attribute name of a secondary index - 16 bytes
const AttributeOffset int64 = 16

// AttributeLength - Space for the attribute name in a secondary index header
const AttributeLength int64 = 16

// MaxAttributeNameLength - Attribute names must be shorter than this
const MaxAttributeNameLength = 15

// PrimaryFileOffset - Header offset to the name of the primary file a secondary index was built over - 128 bytes
const PrimaryFileOffset int64 = 32

// PrimaryFileLength - Space for the primary file name in a secondary index header
const PrimaryFileLength int64 = 128

// SecondaryDirectoryOffset - Header offset to the bucket directory of a secondary index
const SecondaryDirectoryOffset int64 = 160

// DirectorySlotLength - Length of one bucket directory slot
const DirectorySlotLength int64 = 4

// FooterLength - Length of the footer at the tail of every data block
const FooterLength int64 = 8

// FooterRecordsOffset - Offset from the start of the footer to the record count - 4 bytes
const FooterRecordsOffset int64 = 0

// FooterNextBlockOffset - Offset from the start of the footer to the next block in chain - 4 bytes
const FooterNextBlockOffset int64 = 4

// IdOffset - Record offset to the identifier - 4 bytes
const IdOffset int64 = 0

// NameOffset - Record offset to the name attribute
const NameOffset int64 = 4

// NameLength - Width of the name attribute
const NameLength int64 = 15

// SurnameOffset - Record offset to the surname attribute
const SurnameOffset int64 = 19

// SurnameLength - Width of the surname attribute
const SurnameLength int64 = 20

// CityOffset - Record offset to the city attribute
const CityOffset int64 = 39

// CityLength - Width of the city attribute
const CityLength int64 = 20

// TextOffset - Record offset to the free-text ("record") attribute
const TextOffset int64 = 59

// TextLength - Width of the free-text attribute
const TextLength int64 = 15

// RecordLength - Total length of an encoded record
const RecordLength int64 = 74

// EntryKeyOffset - Secondary entry offset to the key
const EntryKeyOffset int64 = 0

// EntryKeyLength - Width of the secondary entry key
const EntryKeyLength int64 = 20

// EntryBlockOffset - Secondary entry offset to the primary block reference - 4 bytes
const EntryBlockOffset int64 = 20

// EntryLength - Total length of an encoded secondary entry
const EntryLength int64 = 24
