// Package proto implements the echors wire protocol: frame layout,
// command discriminators, and the typed value codec.
package proto

// CommandType identifies the operation requested by a frame. Numeric
// order is part of the protocol and must not be renumbered.
type CommandType uint16

const (
	CmdInfo CommandType = iota
	CmdTest
	CmdSetString
	CmdSetInt
	CmdSetFloat
	CmdGet
	CmdDelete
	CmdIncrInt
	CmdIncrFloat
	CmdListPush
	CmdListPop
	CmdListRange
	CmdListExtract
	CmdListLength
	CmdHLLAdd
	CmdHLLCount
	CmdHLLReset
	// CmdFlush continues the discriminator sequence (spec's table marks
	// it "—" only because its handling bypasses the normal per-command
	// dispatch switch below, not because it has no wire number — see
	// DESIGN.md for this Open Question resolution). It is dispatched
	// through the same switch as every other command.
	CmdFlush
)

// Tag identifies the on-wire encoding of a serialized DataType.
type Tag byte

const (
	TagInt    Tag = 1
	TagFloat  Tag = 2
	TagString Tag = 3
	TagList   Tag = 4
	TagLong   Tag = 6
)

// Status is the first byte of a response envelope.
type Status byte

const (
	StatusOK  Status = 1
	StatusErr Status = 2
)

// Command is a decoded request: a discriminator plus its raw,
// length-prefixed arguments. Individual dispatch handlers decide how to
// interpret each argument (UTF-8 key, little-endian integer, opaque
// bytes, ...).
type Command struct {
	Type CommandType
	Args [][]byte
}

func (c *Command) Arg(i int) []byte {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

func (c *Command) Arity() int {
	return len(c.Args)
}
