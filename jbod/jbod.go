package jbod

const (
	// NumDisks is the number of disks in the array.
	NumDisks = 16
	// DiskSize is the capacity of a single disk in bytes.
	DiskSize = 65536
	// BlockSize is the unit of device I/O in bytes.
	BlockSize = 256
	// BlocksPerDisk is the number of blocks on each disk.
	BlocksPerDisk = DiskSize / BlockSize
	// MaxAddress is the size of the linear address space (0x100000).
	MaxAddress = NumDisks * DiskSize
	// MaxTransfer is the largest length a single read or write may request.
	MaxTransfer = 1024
)

// Location is a linear address resolved to its disk, block and in-block offset.
type Location struct {
	Disk   int
	Block  int
	Offset int
}

// Locate translates a linear address into its physical location.
func Locate(addr uint32) Location {
	return Location{
		Disk:   int(addr / DiskSize),
		Block:  int((addr % DiskSize) / BlockSize),
		Offset: int(addr % BlockSize),
	}
}

// Address returns the linear address of the location.
func (l Location) Address() uint32 {
	return uint32(l.Disk*DiskSize + l.Block*BlockSize + l.Offset)
}

// BlockIndex returns the array-wide index of the location's block
// (disk*BlocksPerDisk + block).
func (l Location) BlockIndex() uint32 {
	return uint32(l.Disk*BlocksPerDisk + l.Block)
}

// ValidDisk reports whether disk is a valid disk id.
func ValidDisk(disk int) bool {
	return disk >= 0 && disk < NumDisks
}

// ValidBlock reports whether block is a valid block id within a disk.
func ValidBlock(block int) bool {
	return block >= 0 && block < BlocksPerDisk
}
