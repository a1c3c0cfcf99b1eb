package bus_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cen64sim/vr4300/bus"
)

func TestBus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bus Suite")
}

var _ = Describe("FlatBus", func() {
	var b *bus.FlatBus

	BeforeEach(func() {
		b = bus.NewFlatBus(256)
	})

	Describe("ReadWord", func() {
		It("reads back a written byte pattern big-endian", func() {
			b.Write(0x10, []byte{0x01, 0x02, 0x03, 0x04})
			word, err := b.ReadWord(0x10, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(word).To(Equal(uint64(0x01020304)))
		})

		It("rejects an invalid size", func() {
			_, err := b.ReadWord(0, 3)
			Expect(err).To(MatchError(bus.ErrBadSize))
		})

		It("rejects an out-of-range address", func() {
			_, err := b.ReadWord(1000, 4)
			Expect(err).To(MatchError(bus.ErrOutOfRange))
		})

		It("counts reads", func() {
			_, _ = b.ReadWord(0, 1)
			_, _ = b.ReadWord(0, 1)
			reads, writes := b.Stats()
			Expect(reads).To(Equal(uint64(2)))
			Expect(writes).To(Equal(uint64(0)))
		})
	})

	Describe("WriteWord", func() {
		It("writes only the bytes dqm enables", func() {
			b.Write(0x20, []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA})

			word := uint64(0x1122000000000000)
			dqm := uint64(0xFFFF000000000000)
			Expect(b.WriteWord(0x20, word, dqm)).To(Succeed())

			got := b.Read(0x20, 8)
			Expect(got).To(Equal([]byte{0x11, 0x22, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}))
		})

		It("rejects an out-of-range address", func() {
			err := b.WriteWord(1000, 0, ^uint64(0))
			Expect(err).To(MatchError(bus.ErrOutOfRange))
		})
	})

	Describe("Read and Write", func() {
		It("round-trips raw bytes", func() {
			b.Write(5, []byte{9, 8, 7})
			Expect(b.Read(5, 3)).To(Equal([]byte{9, 8, 7}))
		})

		It("returns a zeroed slice for an out-of-range raw read", func() {
			Expect(b.Read(1000, 4)).To(Equal([]byte{0, 0, 0, 0}))
		})
	})
})
