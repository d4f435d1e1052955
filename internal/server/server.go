// Package server implements echors' TCP accept loop, per-connection
// request/response cycle, and the background maintenance ticker,
// generalizing the teacher's GoFastServer (server.go) to the typed
// wire protocol and sharded store built in internal/proto, internal/
// store, and internal/dispatch.
package server

import (
	"bufio"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/armandparker/echors/internal/dispatch"
	"github.com/armandparker/echors/internal/proto"
	"github.com/armandparker/echors/internal/serverstate"
	"github.com/armandparker/echors/internal/store"
)

// maintenanceInterval is the tick period for the background sweep task
// (spec §4.3: "runs on a fixed interval, on the order of a few
// seconds").
const maintenanceInterval = 5 * time.Second

// Server owns the listener, the shared store/dispatcher, and the
// background maintenance goroutine.
type Server struct {
	bind           string
	maxConnections uint16

	store *store.Store
	state *serverstate.State
	disp  *dispatch.Dispatcher
	log   *zap.SugaredLogger

	mu       sync.Mutex
	listener net.Listener
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New builds a Server. The store, state, and dispatcher are constructed
// here so Stop/Start share the exact instances the dispatcher mutates.
func New(bind string, maxConnections uint16, log *zap.SugaredLogger) *Server {
	st := store.New()
	state := serverstate.New()
	return &Server{
		bind:           bind,
		maxConnections: maxConnections,
		store:          st,
		state:          state,
		disp:           dispatch.New(st, state, log),
		log:            log,
		stopCh:         make(chan struct{}),
	}
}

// Start binds the listener, launches the maintenance loop, and accepts
// connections until Stop is called. It blocks until the listener closes.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.bind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.log.Infow("echors listening", "bind", s.bind, "max_connections", s.maxConnections)

	s.wg.Add(1)
	go s.maintenanceLoop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Warnw("accept error", "error", err)
			continue
		}

		if s.state.CurrentConnections() >= uint64(s.maxConnections) {
			s.log.Warnw("connection rejected: at capacity", "max_connections", s.maxConnections)
			conn.Close()
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Stop closes the listener and signals the maintenance loop to exit,
// then waits for every in-flight goroutine to finish.
func (s *Server) Stop() {
	close(s.stopCh)
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Server) maintenanceLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			res := s.store.MaintenanceWork()
			if res.Shrunk || res.ExpiredCount > 0 {
				s.log.Debugw("maintenance pass", "shrunk", res.Shrunk, "expired", res.ExpiredCount)
			}
		}
	}
}

// handleConnection runs one client's request/response loop until it
// disconnects or sends a malformed frame. A framer-level error closes
// the connection after one ERR reply; a dispatch-level error (including
// an unknown command) is reported and the connection stays open.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.state.ConnectionOpened()
	defer s.state.ConnectionClosed()

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	for {
		cmd, err := proto.ReadCommand(reader)
		if err != nil {
			// A malformed frame still gets an ERR response before the
			// connection closes (spec §4.5); a clean EOF or other I/O
			// error closes silently, with nothing to reply to.
			var shortFrame *proto.ErrShortFrame
			if errors.As(err, &shortFrame) {
				_ = proto.WriteErr(writer, err.Error())
				_ = writer.Flush()
			} else if !errors.Is(err, io.EOF) {
				s.log.Debugw("connection closed on read error", "error", err)
			}
			return
		}

		payload, cmdErr := s.disp.Execute(cmd)

		// Every error surfaced by dispatch — including an unknown
		// command, which is taxonomically a ProtocolError — keeps the
		// connection open; only framer/parser errors above close it
		// (spec §7).
		var writeErr error
		if cmdErr != nil {
			msg := cmdErr.Error()
			writeErr = proto.WriteErr(writer, msg)
			s.state.RecordIO(0, len(msg))
		} else {
			// processed_commands only counts non-error dispatches
			// (spec §4.7).
			s.state.CommandProcessed()
			writeErr = proto.WriteOK(writer, payload)
			s.state.RecordIO(0, len(payload))
		}
		if writeErr != nil {
			s.log.Debugw("connection closed on write error", "error", writeErr)
			return
		}

		if err := writer.Flush(); err != nil {
			s.log.Debugw("connection closed on flush error", "error", err)
			return
		}
	}
}
