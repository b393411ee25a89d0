package hash

// intMixMultiplier - Multiplier of the integer avalanche mix
const intMixMultiplier uint32 = 0x45d9f3b

// djb2Seed - Start value of the polynomial string hash
const djb2Seed uint32 = 5381

// IntHash - Integer avalanche mix used by the primary hash index. The value is mixed twice and folded once, all
// in unsigned 32-bit arithmetic.
func IntHash(id int32) uint32 {
	x := uint32(id)
	x = ((x >> 16) ^ x) * intMixMultiplier
	x = ((x >> 16) ^ x) * intMixMultiplier
	x = (x >> 16) ^ x

	return x
}

// StringHash - Polynomial string hash (acc = acc*33 + byte, seeded with 5381) used by the secondary hash index
func StringHash(s string) uint32 {
	acc := djb2Seed
	for i := 0; i < len(s); i++ {
		acc = acc*33 + uint32(s[i])
	}

	return acc
}

// IntBucket - Returns the bucket for an identifier given the number of buckets
func IntBucket(id int32, buckets int64) int64 {
	return int64(IntHash(id) % uint32(buckets))
}

// StringBucket - Returns the bucket for a text key given the number of buckets
func StringBucket(s string, buckets int64) int64 {
	return int64(StringHash(s) % uint32(buckets))
}
