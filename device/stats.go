package device

import "github.com/hupe1980/mdadm/jbod"

const numCommands = int(jbod.WriteBlock) + 1

// Stats counts the commands an Array has executed.
type Stats struct {
	// Ops counts accepted and rejected command words by command.
	Ops [numCommands]int64
	// Invalid counts command words rejected as malformed.
	Invalid int64
	// Errors counts commands that returned an error, including malformed ones.
	Errors int64
}

// Count returns the number of executed commands of kind cmd.
func (s Stats) Count(cmd jbod.Command) int64 {
	if !cmd.Valid() {
		return 0
	}
	return s.Ops[cmd]
}

// Total returns the number of well-formed command words executed.
func (s Stats) Total() int64 {
	var n int64
	for _, c := range s.Ops {
		n += c
	}
	return n
}

// Transfers returns the number of READ_BLOCK and WRITE_BLOCK commands.
func (s Stats) Transfers() int64 {
	return s.Ops[jbod.ReadBlock] + s.Ops[jbod.WriteBlock]
}

// Seeks returns the number of SEEK_TO_DISK and SEEK_TO_BLOCK commands.
func (s Stats) Seeks() int64 {
	return s.Ops[jbod.SeekToDisk] + s.Ops[jbod.SeekToBlock]
}
