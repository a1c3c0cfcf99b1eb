package bus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cen64sim/vr4300/bus"
)

// fakeBackingStore is a byte-addressed memory the tests can inspect directly,
// standing in for bus.FlatBus without pulling its own semantics into play.
type fakeBackingStore struct {
	mem         []byte
	writeCalled int
}

func newFakeBackingStore(size int) *fakeBackingStore {
	return &fakeBackingStore{mem: make([]byte, size)}
}

func (f *fakeBackingStore) Read(addr uint64, size int) []byte {
	out := make([]byte, size)
	copy(out, f.mem[addr:addr+uint64(size)])
	return out
}

func (f *fakeBackingStore) Write(addr uint64, data []byte) {
	f.writeCalled++
	copy(f.mem[addr:], data)
}

func smallConfig() bus.CacheConfig {
	return bus.CacheConfig{Size: 128, Associativity: 2, BlockSize: 32, HitLatency: 1, MissLatency: 18}
}

var _ = Describe("CachedBus", func() {
	var backing *fakeBackingStore
	var cb *bus.CachedBus

	BeforeEach(func() {
		backing = newFakeBackingStore(4096)
		backing.mem[0x100] = 0xAB
		cb = bus.NewCachedBus(smallConfig(), backing)
	})

	It("misses on the first access to an address and fills from the backing store", func() {
		stats := cb.Access(0x100, 1, false, 0)
		Expect(stats.Hit).To(BeFalse())
		Expect(stats.Data).To(Equal(uint64(0xAB)))
	})

	It("hits on a repeat access to the same block", func() {
		cb.Access(0x100, 1, false, 0)
		stats := cb.Access(0x100, 1, false, 0)
		Expect(stats.Hit).To(BeTrue())
		Expect(stats.Data).To(Equal(uint64(0xAB)))
	})

	It("reports a write as a hit after it has populated the line", func() {
		cb.Access(0x104, 4, true, 0xDEADBEEF)
		stats := cb.Access(0x104, 4, false, 0)
		Expect(stats.Hit).To(BeTrue())
		Expect(stats.Data).To(Equal(uint64(0xDEADBEEF)))
	})

	It("tallies reads, writes, hits, and misses", func() {
		cb.Access(0x100, 1, false, 0) // miss, read
		cb.Access(0x100, 1, false, 0) // hit, read
		cb.Access(0x200, 1, true, 1)  // miss, write

		reads, writes, hits, misses := cb.Stats()
		Expect(reads).To(Equal(uint64(2)))
		Expect(writes).To(Equal(uint64(1)))
		Expect(hits).To(Equal(uint64(1)))
		Expect(misses).To(Equal(uint64(2)))
	})

	It("writes a dirty victim back to the backing store on eviction", func() {
		// Associativity 2: a third distinct block mapping into the same set
		// forces an eviction. Block size 32, 2 sets -> addresses 32 apart
		// alternate sets, so step by 64 to stay in the same set.
		cb.Access(0x000, 1, true, 0x11) // fills way 0, dirty
		cb.Access(0x040, 1, true, 0x22) // fills way 1, dirty
		cb.Access(0x080, 1, true, 0x33) // evicts 0x000's dirty line

		Expect(backing.writeCalled).To(BeNumerically(">=", 1))
	})
})
