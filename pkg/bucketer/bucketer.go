package bucketer

import "github.com/twmb/murmur3"

// MaxTrafficValue is the exclusive upper bound of the allocation space.
// Range bounds are expressed in basis points of it: 5000 is half the
// traffic.
const MaxTrafficValue = 10000

// hashSeed is fixed by the cross-language bucketing contract.
const hashSeed = 1

// Allocation names the entity owning the range that ends at EndOfRange.
// Tables are stored sorted ascending by EndOfRange.
type Allocation struct {
	EntityID   string `json:"entityId" yaml:"entityId"`
	EndOfRange int    `json:"endOfRange" yaml:"endOfRange"`
}

// Position reduces the hash of (entityID, bucketingID) to a slot in
// [0, MaxTrafficValue). Identical inputs always yield the identical slot.
func Position(bucketingID, entityID string) int {
	h := murmur3.SeedStringSum32(hashSeed, entityID+bucketingID)
	ratio := float64(h) / float64(1<<32)
	return int(ratio * MaxTrafficValue)
}

// Bucket places bucketingID into the allocation table for entityID and
// returns the owning entity of the matched range. The first entry whose
// bound is greater than or equal to the computed position wins; a
// position beyond the last bound is a holdout and reports ok=false.
func Bucket(bucketingID, entityID string, allocations []Allocation) (string, bool) {
	p := Position(bucketingID, entityID)
	for _, a := range allocations {
		if a.EndOfRange >= p {
			return a.EntityID, true
		}
	}
	return "", false
}
