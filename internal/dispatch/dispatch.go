// Package dispatch maps a decoded proto.Command to a store mutation and
// shapes its response, per spec §4.6.
package dispatch

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/serverstate"
	"github.com/armandparker/echors/internal/store"
)

// Dispatcher holds the collaborators every command handler needs: the
// typed store, the shared counters, and a logger. One Dispatcher is
// shared by every connection.
type Dispatcher struct {
	store *store.Store
	state *serverstate.State
	log   *zap.SugaredLogger
}

func New(st *store.Store, state *serverstate.State, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{store: st, state: state, log: log}
}

// Execute runs one command and returns its response payload (the bytes
// that follow the status byte in the wire envelope) or a *proto.Error
// describing why it failed. It never panics on malformed arguments —
// arity and type checks always resolve to a returned error.
//
// FLUSH reaches Execute like every other command: the connection loop
// does not intercept it. It calls store.Flush, which clears the shards
// one at a time; no single lock covers the whole store during a flush.
//
// processed_commands is NOT incremented here: spec §4.7 counts only
// non-error dispatches, so the caller bumps it after seeing a nil error.
func (d *Dispatcher) Execute(cmd *proto.Command) ([]byte, error) {
	switch cmd.Type {
	case proto.CmdInfo:
		return d.handleInfo(cmd)
	case proto.CmdTest:
		return d.handleTest(cmd)
	case proto.CmdSetString:
		return d.handleSetString(cmd)
	case proto.CmdSetInt:
		return d.handleSetInt(cmd)
	case proto.CmdSetFloat:
		return d.handleSetFloat(cmd)
	case proto.CmdGet:
		return d.handleGet(cmd)
	case proto.CmdDelete:
		return d.handleDelete(cmd)
	case proto.CmdIncrInt:
		return d.handleIncrInt(cmd)
	case proto.CmdIncrFloat:
		return d.handleIncrFloat(cmd)
	case proto.CmdListPush:
		return d.handleListPush(cmd)
	case proto.CmdListPop:
		return d.handleListPop(cmd)
	case proto.CmdListRange:
		return d.handleListRange(cmd)
	case proto.CmdListExtract:
		return d.handleListExtract(cmd)
	case proto.CmdListLength:
		return d.handleListLength(cmd)
	case proto.CmdHLLAdd:
		return d.handleHLLAdd(cmd)
	case proto.CmdHLLCount:
		return d.handleHLLCount(cmd)
	case proto.CmdHLLReset:
		return d.handleHLLReset(cmd)
	case proto.CmdFlush:
		d.store.Flush()
		return proto.EncodeString([]byte("OK")), nil
	default:
		return nil, proto.ProtocolError("Unknown command")
	}
}

// keyArg validates arg i of cmd as a UTF-8 key (spec §4.6: "A key
// argument that is not valid UTF-8 produces 'Invalid utf8 key'").
func keyArg(cmd *proto.Command, i int) (string, error) {
	if i >= cmd.Arity() {
		return "", proto.BadArgument(arityMessage(cmd))
	}
	b := cmd.Arg(i)
	if !utf8.Valid(b) {
		return "", proto.BadArgument("Invalid utf8 key")
	}
	return string(b), nil
}

func arityMessage(cmd *proto.Command) string {
	return "Invalid number of arguments for " + commandName(cmd.Type)
}

func commandName(t proto.CommandType) string {
	names := map[proto.CommandType]string{
		proto.CmdInfo:        "INFO",
		proto.CmdTest:        "TEST",
		proto.CmdSetString:   "SET_STRING",
		proto.CmdSetInt:      "SET_INT",
		proto.CmdSetFloat:    "SET_FLOAT",
		proto.CmdGet:         "GET",
		proto.CmdDelete:      "DELETE",
		proto.CmdIncrInt:     "INCR_INT",
		proto.CmdIncrFloat:   "INCR_FLOAT",
		proto.CmdListPush:    "LIST_PUSH",
		proto.CmdListPop:     "LIST_POP",
		proto.CmdListRange:   "LIST_RANGE",
		proto.CmdListExtract: "LIST_EXTRACT",
		proto.CmdListLength:  "LIST_LENGTH",
		proto.CmdHLLAdd:      "HLL_ADD",
		proto.CmdHLLCount:    "HLL_COUNT",
		proto.CmdHLLReset:    "HLL_RESET",
	}
	if n, ok := names[t]; ok {
		return n
	}
	return "UNKNOWN"
}

const okMessage = "OK"

func okResponse() ([]byte, error) {
	return proto.EncodeString([]byte(okMessage)), nil
}
