package bus

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// CacheConfig configures bus.CachedBus's L1 data-cache statistics model.
type CacheConfig struct {
	Size          int
	Associativity int
	BlockSize     int
	HitLatency    uint64
	MissLatency   uint64
}

// DefaultL1DConfig is a conservative L1 data-cache shape: 32KB, 4-way,
// 32-byte lines, matching the VR4300's actual on-die data cache.
func DefaultL1DConfig() CacheConfig {
	return CacheConfig{
		Size:          32 * 1024,
		Associativity: 4,
		BlockSize:     32,
		HitLatency:    1,
		MissLatency:   devicePenalty,
	}
}

// devicePenalty approximates the RCP-to-RDRAM round trip a real miss would
// pay; spec.md's first Open Question leaves the exact number unverified, so
// this is documented as an estimate rather than load-bearing for any
// invariant.
const devicePenalty = 18

// AccessStats reports the outcome of a CachedBus access: whether it hit,
// how many cycles a surrounding scheduler should charge for it, and
// (for reads) the data.
type AccessStats struct {
	Hit     bool
	Latency uint64
	Data    uint64
}

// BackingStore is the next level a CachedBus falls back to on a miss.
type BackingStore interface {
	Read(addr uint64, size int) []byte
	Write(addr uint64, data []byte)
}

// CachedBus wraps a BackingStore (normally a *FlatBus) behind an
// Akita-directory L1 cache model so a caller that wants realistic
// memory-latency statistics can opt in. It does not change the pipeline's
// control flow: the DC stage never issues a read through it (every read
// defers via DCB, see the package doc), and writes reach it only through an
// adapter such as cmd/vr4300sim's cachedAdapter. Its Access and Stats
// methods are for a surrounding scheduler to consult between ticks, and for
// its own tests, per SPEC_FULL.md §10.
type CachedBus struct {
	config    CacheConfig
	directory *akitacache.DirectoryImpl
	dataStore [][]byte
	backing   BackingStore

	reads, writes     uint64
	hits, misses      uint64
}

// NewCachedBus creates a CachedBus fronting backing with the given cache
// shape.
func NewCachedBus(config CacheConfig, backing BackingStore) *CachedBus {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]byte, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]byte, config.BlockSize)
	}

	return &CachedBus{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

func (c *CachedBus) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

// Access looks up addr in the cache, fetching from the backing store on a
// miss, and reports hit/latency/data the way a timing-aware scheduler
// would want. It never mutates pipeline state; it is purely an observer
// a caller may poll between ticks.
func (c *CachedBus) Access(addr uint64, size int, isWrite bool, writeData uint64) AccessStats {
	blockAddr := (addr / uint64(c.config.BlockSize)) * uint64(c.config.BlockSize)
	offset := addr % uint64(c.config.BlockSize)

	block := c.directory.Lookup(0, blockAddr)
	if block != nil && block.IsValid {
		c.directory.Visit(block)
		data := c.dataStore[c.blockIndex(block)]

		if isWrite {
			c.writes++
			c.hits++
			storeBytes(data, offset, size, writeData)
			block.IsDirty = true
			return AccessStats{Hit: true, Latency: c.config.HitLatency}
		}

		c.reads++
		c.hits++
		return AccessStats{Hit: true, Latency: c.config.HitLatency, Data: loadBytes(data, offset, size)}
	}

	if isWrite {
		c.writes++
	} else {
		c.reads++
	}
	c.misses++

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return AccessStats{Hit: false, Latency: c.config.MissLatency}
	}

	victimData := c.dataStore[c.blockIndex(victim)]
	if victim.IsValid && victim.IsDirty && c.backing != nil {
		c.backing.Write(victim.Tag, victimData)
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(blockAddr, c.config.BlockSize))
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = isWrite
	c.directory.Visit(victim)

	result := AccessStats{Hit: false, Latency: c.config.MissLatency}
	if isWrite {
		storeBytes(victimData, offset, size, writeData)
	} else {
		result.Data = loadBytes(victimData, offset, size)
	}
	return result
}

// Stats returns running hit/miss/access counters.
func (c *CachedBus) Stats() (reads, writes, hits, misses uint64) {
	return c.reads, c.writes, c.hits, c.misses
}

func loadBytes(data []byte, offset uint64, size int) uint64 {
	if data == nil || int(offset)+size > len(data) {
		return 0
	}
	var v uint64
	for i := 0; i < size; i++ {
		v |= uint64(data[int(offset)+i]) << (uint(i) * 8)
	}
	return v
}

func storeBytes(data []byte, offset uint64, size int, value uint64) {
	if data == nil || int(offset)+size > len(data) {
		return
	}
	for i := 0; i < size; i++ {
		data[int(offset)+i] = byte(value >> (uint(i) * 8))
	}
}
