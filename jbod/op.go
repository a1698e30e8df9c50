package jbod

import "fmt"

// Command is the 6-bit command kind of an Op.
type Command uint8

const (
	Mount Command = iota
	Unmount
	SeekToDisk
	SeekToBlock
	ReadBlock
	WriteBlock
)

var commandNames = [...]string{
	Mount:       "MOUNT",
	Unmount:     "UNMOUNT",
	SeekToDisk:  "SEEK_TO_DISK",
	SeekToBlock: "SEEK_TO_BLOCK",
	ReadBlock:   "READ_BLOCK",
	WriteBlock:  "WRITE_BLOCK",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("COMMAND(%d)", uint8(c))
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	return int(c) < len(commandNames)
}

const (
	commandShift = 26
	diskShift    = 22
	reservedMask = 0x3FFF << 8

	commandMask = 0x3F
	diskMask    = 0xF
	blockMask   = 0xFF
)

// Op is a 32-bit command word.
type Op uint32

// Encode packs a command and its disk/block operands into an Op.
// Operands are truncated to their field widths; the reserved bits are zero.
func Encode(cmd Command, disk, block uint32) Op {
	return Op(uint32(cmd&commandMask)<<commandShift |
		(disk&diskMask)<<diskShift |
		block&blockMask)
}

// Command returns the command field.
func (op Op) Command() Command { return Command(uint32(op) >> commandShift & commandMask) }

// Disk returns the disk id field.
func (op Op) Disk() uint32 { return uint32(op) >> diskShift & diskMask }

// Block returns the block id field.
func (op Op) Block() uint32 { return uint32(op) & blockMask }

// Reserved returns the reserved field; a well-formed Op has zero here.
func (op Op) Reserved() uint32 { return (uint32(op) & reservedMask) >> 8 }

func (op Op) String() string {
	switch op.Command() {
	case SeekToDisk:
		return fmt.Sprintf("%s disk=%d", op.Command(), op.Disk())
	case SeekToBlock:
		return fmt.Sprintf("%s block=%d", op.Command(), op.Block())
	default:
		return op.Command().String()
	}
}
