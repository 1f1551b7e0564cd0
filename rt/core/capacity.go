package core

const DefaultInstanceCapacity = 64

// InstanceCapacity tracks the size of the instance buffer in whole
// SpriteInstance records. It only ever grows.
type InstanceCapacity struct {
	Records int
}

// Reserve reports whether the buffer has to be reallocated to hold required
// records, growing Records when it does.
func (c *InstanceCapacity) Reserve(required int) bool {
	if required <= c.Records {
		return false
	}
	next := c.Records + c.Records/2
	if next < required {
		next = required
	}
	c.Records = next
	return true
}

func (c *InstanceCapacity) Bytes() uint64 {
	return uint64(c.Records) * SpriteInstanceSize
}

// Grow reserves room for required records and calls alloc with the new size
// in bytes. Records only changes when alloc succeeds, so a failed
// reallocation leaves the capacity matching the buffer still in use.
func (c *InstanceCapacity) Grow(required int, alloc func(size uint64) error) (bool, error) {
	next := *c
	if !next.Reserve(required) {
		return false, nil
	}
	if err := alloc(next.Bytes()); err != nil {
		return false, err
	}
	*c = next
	return true, nil
}
