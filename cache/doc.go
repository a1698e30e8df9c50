// Package cache provides the fixed-capacity block cache that sits between the
// mdadm controller and the JBOD device.
//
// A BlockCache holds up to Capacity whole blocks keyed by (disk, block). Slots
// are a fixed array that is scanned linearly: capacity is small (at most 4096)
// and a min-scan over the slots is all eviction needs.
//
// # Replacement Policy
//
// Every Insert and Update advances a logical clock and stamps the touched entry
// with it. Until the cache is full, inserts fill never-used slots in order. Once
// full, an insert overwrites the entry with the smallest stamp; ties go to the
// first slot in storage order. Lookups do not move the clock.
//
// # Lifecycle
//
//	c, err := cache.New(256)           // or: var c cache.BlockCache; c.Create(256)
//	ok, err := c.Lookup(disk, block, buf)
//	err = c.Insert(disk, block, buf)
//	c.Update(disk, block, buf)
//	err = c.Destroy()
//
// All methods are safe for concurrent use; each call runs under the cache lock.
package cache
