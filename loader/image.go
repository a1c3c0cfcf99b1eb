// Package loader provides flat raw-binary image loading. N64-era ROM
// images aren't ELF (there's no section/segment table, no symbol
// information, just a boot block followed by code and data at a fixed
// load address) so this is a from-scratch reader rather than an adapted
// debug/elf walk, sized the way the original ELF loader's Program/Segment
// split was.
package loader

import (
	"fmt"
	"os"
)

// DefaultLoadAddress is where an image lands in bus space absent an
// explicit base (spec.md's default segment starts at 0 and is uncached,
// matching the real VR4300's PIF-ROM boot path).
const DefaultLoadAddress = 0

// DefaultEntryOffset is how far into the image execution begins, matching
// the boot-block header size real N64 ROM images reserve before code.
const DefaultEntryOffset = 0x40

// Image is a loaded raw binary ready to be copied into a bus.
type Image struct {
	// LoadAddress is the bus-space address the image's first byte lands
	// at.
	LoadAddress uint64
	// Data is the raw file contents.
	Data []byte
	// EntryPoint is the initial PC.
	EntryPoint uint64
}

// Load reads path into an Image starting at loadAddress, with the entry
// point loadAddress+entryOffset.
func Load(path string, loadAddress, entryOffset uint64) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to read image: %w", err)
	}

	return &Image{
		LoadAddress: loadAddress,
		Data:        data,
		EntryPoint:  loadAddress + entryOffset,
	}, nil
}

// WriteTo copies the image into any backing store exposing a Write(addr,
// data) method — bus.FlatBus satisfies this.
func (img *Image) WriteTo(store interface {
	Write(addr uint64, data []byte)
}) {
	store.Write(img.LoadAddress, img.Data)
}
