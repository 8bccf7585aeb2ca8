// Package bucketer deterministically places bucketing keys into traffic
// allocation ranges.
//
// A position in [0, MaxTrafficValue) is derived from a 32-bit MurmurHash3
// of the entity id concatenated with the bucketing id, scaled down to the
// allocation space. The hash function, seed, and reduction formula are
// part of the external contract: every runtime that buckets the same
// (bucketingID, entityID) pair must land on the same slot, across process
// restarts and across implementations in other languages. Do not swap the
// hash or reorder the concatenation.
//
// An allocation table is an ascending sequence of range upper bounds, each
// naming the entity that owns the range. A position beyond the last bound
// is a deliberate holdout: the key is not bucketed at all.
//
//	allocations := []bucketer.Allocation{
//		{EntityID: "variation-a", EndOfRange: 5000},
//		{EntityID: "variation-b", EndOfRange: 10000},
//	}
//	id, ok := bucketer.Bucket("user-42", "exp-1", allocations)
//
// Bucket never validates the table; tables are validated once when a
// configuration snapshot is adopted. The package holds no state and is
// safe for unsynchronized concurrent use.
package bucketer
