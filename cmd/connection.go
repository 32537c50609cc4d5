// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

// Connection is the byte transport handed to the protocol layer: a plain
// serial port, or a serial-over-WebSocket bridge.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// serialConnection wraps a serial port.
type serialConnection struct {
	port serial.Port
}

func (s *serialConnection) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *serialConnection) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialConnection) Close() error {
	return s.port.Close()
}

// ErrBridgeClosed is returned when reading from a closed WebSocket bridge.
var ErrBridgeClosed = fmt.Errorf("websocket bridge closed")

// wsConnection adapts a WebSocket bridge to byte-level reads. Each binary
// message carries a chunk of the serial byte stream.
type wsConnection struct {
	conn   *websocket.Conn
	buf    []byte
	offset int
	closed bool
}

func (w *wsConnection) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrBridgeClosed
	}
	if w.offset < len(w.buf) {
		n := copy(p, w.buf[w.offset:])
		w.offset += n
		return n, nil
	}
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		w.buf = data
		w.offset = copy(p, w.buf)
		return w.offset, nil
	}
}

func (w *wsConnection) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConnection) Close() error {
	return w.conn.Close()
}

// openSerialConnection opens the projector's service port. The protocol is
// fixed at 8 data bits, no parity, one stop bit; only the baud rate is
// configurable and 9600 is what shipping firmware uses.
func openSerialConnection(portName string, baudRate int) (Connection, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &serialConnection{port: port}, nil
}

// openWebSocketConnection dials a serial-over-WebSocket bridge with optional
// HTTP Basic auth.
func openWebSocketConnection(rawURL, username, password string, skipSSLVerify bool) (Connection, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: skipSSLVerify}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, rawURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connect (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connect: %w", err)
	}
	return &wsConnection{conn: conn}, nil
}

// getPassword retrieves the bridge password from the environment or prompts
// for it without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("OPTOCTL_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; fall back to reading a line with echo.
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// openConnection opens the transport selected by the connection flags.
func openConnection() (Connection, string, error) {
	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		conn, err := openWebSocketConnection(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	if portName != "" {
		conn, err := openSerialConnection(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	return nil, "", fmt.Errorf("either --port or --url must be specified")
}

// openProjector opens the transport and wraps it in a protocol handle.
func openProjector() (*optoma.Projector, string, error) {
	conn, connInfo, err := openConnection()
	if err != nil {
		return nil, "", err
	}
	return optoma.New(conn, optoma.WithLogger(newLogger())), connInfo, nil
}
