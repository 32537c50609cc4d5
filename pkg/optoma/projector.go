// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// ErrClosed is reported by operations after Close has been called.
var ErrClosed = errors.New("optoma: connection closed")

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the logger used for frame, event, and error logging. The
// default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Projector) { p.log = log }
}

// Projector is a handle to one projector on one serial line.
//
// Exactly two execution contexts touch the line: the reader goroutine
// started by New, which blocks on transport reads for the life of the
// connection, and callers of the command/query methods, which serialize
// among themselves on an internal mutex so at most one request is in flight
// at any instant. Methods are safe for concurrent use.
type Projector struct {
	conn io.ReadWriteCloser
	log  zerolog.Logger

	cmdMu  sync.Mutex // one write-then-await round trip at a time
	busy   busyLock
	events *eventRegistry

	// replies is the single-slot handoff from the reader goroutine to the
	// caller blocked in a round trip. The cmdMu serialization guarantees at
	// most one consumer, so capacity one is sufficient.
	replies chan string

	done      chan struct{} // closed when the reader exits
	readErr   error         // set before done is closed
	errMu     sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
}

// New wraps an open transport and starts the reader goroutine. The caller
// keeps ownership of nothing: Close the Projector, not the transport.
func New(conn io.ReadWriteCloser, opts ...Option) *Projector {
	p := &Projector{
		conn:    conn,
		log:     zerolog.Nop(),
		events:  newEventRegistry(),
		replies: make(chan string, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.readLoop()
	return p
}

// readLoop consumes the transport one byte at a time, feeds the frame
// scanner, and routes completed frames: event frames go to the dispatcher
// inline, reply frames go to the reply slot. It exits only when the
// transport read fails, which is terminal for the connection.
func (p *Projector) readLoop() {
	scanner := NewScanner()
	buf := make([]byte, 1)
	for {
		if _, err := io.ReadFull(p.conn, buf); err != nil {
			if p.closed.Load() {
				err = ErrClosed
			} else {
				err = fmt.Errorf("optoma: transport read: %w", err)
			}
			p.fail(err)
			return
		}

		frame, done := scanner.ScanByte(buf[0])
		if !done {
			continue
		}
		p.log.Debug().Str("frame", frame).Msg("frame received")

		if IsEvent(frame) {
			p.log.Info().Str("event", frame).Msg("device event")
			p.events.dispatch(frame, p.log)
			continue
		}

		p.deliver(frame)
	}
}

// deliver hands a reply frame to the waiting caller. If a previous reply was
// never consumed (possible after a fire-and-forget write), the latest frame
// replaces it.
func (p *Projector) deliver(frame string) {
	for {
		select {
		case p.replies <- frame:
			return
		default:
		}
		select {
		case stale := <-p.replies:
			p.log.Debug().Str("frame", stale).Msg("dropping unconsumed reply")
		default:
		}
	}
}

func (p *Projector) fail(err error) {
	p.errMu.Lock()
	if p.readErr == nil {
		p.readErr = err
	}
	p.errMu.Unlock()
	close(p.done)
	if errors.Is(err, ErrClosed) {
		p.log.Debug().Msg("reader stopped")
	} else {
		p.log.Error().Err(err).Msg("reader terminated")
	}
}

// GetProperty queries the projector and decodes the reply for the given
// query command. A busy result is returned without touching the transport
// while a prior state-changing command is still within its busy window.
// The returned error is non-nil only for transport failure or context
// cancellation.
func (p *Projector) GetProperty(ctx context.Context, cmd Command) (Result, error) {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()

	if p.busy.check() {
		p.log.Debug().Stringer("command", cmd).Msg("query rejected, device busy")
		return Result{Status: StatusBusy}, nil
	}

	reply, err := p.sendRecv(ctx, cmd)
	if err != nil {
		return Result{}, err
	}
	return decodeProperty(cmd, reply), nil
}

// SendCommand dispatches a state-changing command and awaits its
// acknowledgment. The busy window for the command's class opens just before
// the frame is written and closes by lazy expiry (or ReleaseBusy). A busy
// result is returned without touching the transport.
func (p *Projector) SendCommand(ctx context.Context, cmd Command) (Result, error) {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()

	if p.busy.check() {
		p.log.Debug().Stringer("command", cmd).Msg("command rejected, device busy")
		return Result{Status: StatusBusy}, nil
	}
	p.busy.acquire(cmd)

	reply, err := p.sendRecv(ctx, cmd)
	if err != nil {
		return Result{}, err
	}
	res := decodeAck(reply)
	if res.Status == StatusProtocolError {
		p.log.Warn().Stringer("command", cmd).Str("reply", reply).Msg("unexpected acknowledgment")
	}
	return res, nil
}

// Send writes a command frame without waiting for a reply. It is meant for
// commands the protocol defines no synchronous acknowledgment for; a nil
// error is the fixed success marker.
func (p *Projector) Send(cmd Command) error {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()
	return p.write(cmd)
}

// sendRecv performs one write-then-await round trip. Caller must hold cmdMu.
func (p *Projector) sendRecv(ctx context.Context, cmd Command) (string, error) {
	// A reply left over from a fire-and-forget write would be mistaken for
	// the answer to this command. Discard it before writing.
	select {
	case stale := <-p.replies:
		p.log.Debug().Str("frame", stale).Msg("discarding stale reply")
	default:
	}

	if err := p.write(cmd); err != nil {
		return "", err
	}
	reply, err := p.awaitReply(ctx)
	if err != nil {
		return "", err
	}
	p.log.Debug().Stringer("command", cmd).Str("reply", reply).Msg("recv")
	return reply, nil
}

func (p *Projector) write(cmd Command) error {
	if err := p.Err(); err != nil {
		return err
	}
	p.log.Debug().Stringer("command", cmd).Str("frame", cmd.Frame()).Msg("send")
	if _, err := io.WriteString(p.conn, cmd.Frame()); err != nil {
		return fmt.Errorf("optoma: write %s: %w", cmd, err)
	}
	return nil
}

// awaitReply blocks until the reader delivers a reply frame, the context
// expires, or the connection dies. A reply that arrived before the wait
// started is still observed.
func (p *Projector) awaitReply(ctx context.Context) (string, error) {
	select {
	case reply := <-p.replies:
		return reply, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.done:
		// Prefer a reply that raced with the reader's exit.
		select {
		case reply := <-p.replies:
			return reply, nil
		default:
		}
		return "", p.Err()
	}
}

// Subscribe registers a handler for an unsolicited event identifier.
// Handlers for the same event run in subscription order, on the reader
// goroutine. Subscriptions cannot be removed.
func (p *Projector) Subscribe(event string, h Handler) {
	p.events.subscribe(event, h)
}

// OnPoweredOff registers a handler for the projector reporting it has
// finished powering down.
func (p *Projector) OnPoweredOff(h Handler) { p.Subscribe(EventPoweredOff, h) }

// OnPoweringOn registers a handler for the projector starting to power up.
func (p *Projector) OnPoweringOn(h Handler) { p.Subscribe(EventPoweringOn, h) }

// OnPoweringOff registers a handler for the projector starting to power
// down.
func (p *Projector) OnPoweringOff(h Handler) { p.Subscribe(EventPoweringOff, h) }

// Busy reports whether a prior state-changing command is still within its
// busy window.
func (p *Projector) Busy() bool {
	return p.busy.check()
}

// ReleaseBusy clears the busy window early, for callers that learned the
// pending operation completed (for example via an event subscription).
func (p *Projector) ReleaseBusy() {
	p.busy.release()
}

// Err returns the terminal connection error, or nil while the reader is
// still running.
func (p *Projector) Err() error {
	select {
	case <-p.done:
	default:
		return nil
	}
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.readErr
}

// Done is closed when the connection dies, whether by Close or by transport
// failure. After Done, Err reports why.
func (p *Projector) Done() <-chan struct{} {
	return p.done
}

// Close shuts the transport down, which unwinds the reader goroutine and
// fails any pending await with ErrClosed. Safe to call more than once.
func (p *Projector) Close() error {
	var err error
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		err = p.conn.Close()
	})
	return err
}
