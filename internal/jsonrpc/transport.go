package jsonrpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
)

// maxFrameSize bounds a single newline-delimited message.
const maxFrameSize = 1 << 20

// Transport carries newline-delimited JSON frames over a byte stream.
type Transport struct {
	scanner *bufio.Scanner
	writer  io.Writer
	writeMu sync.Mutex
}

// NewTransport wraps r and w. Every message is one line of JSON.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	return &Transport{scanner: scanner, writer: w}
}

// ReadFrame returns the next non-blank line. It returns io.EOF once the
// stream is exhausted.
func (t *Transport) ReadFrame() ([]byte, error) {
	for t.scanner.Scan() {
		line := bytes.TrimSpace(t.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return bytes.Clone(line), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}
	return nil, io.EOF
}

// WriteResponse writes resp as a single line.
func (t *Transport) WriteResponse(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	data = append(data, '\n')

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	_, err = t.writer.Write(data)
	return err
}

// TCPListener serves every accepted connection as its own session.
type TCPListener struct {
	listener net.Listener
	server   *Server
	logger   *slog.Logger
}

// NewTCPListener listens on addr.
func NewTCPListener(addr string, server *Server) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	return &TCPListener{listener: ln, server: server, logger: server.logger}, nil
}

// Addr returns the listener's network address.
func (tl *TCPListener) Addr() net.Addr {
	return tl.listener.Addr()
}

// Serve accepts connections until ctx is done or the listener is closed.
// Cancelling ctx closes the listener and returns nil.
func (tl *TCPListener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		tl.listener.Close() //nolint:errcheck
	}()

	for {
		conn, err := tl.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		go func() {
			defer conn.Close() //nolint:errcheck
			remote := conn.RemoteAddr().String()
			tl.logger.Debug("rpc session opened", "remote", remote)
			if err := tl.server.Serve(ctx, NewTransport(conn, conn)); err != nil && ctx.Err() == nil {
				tl.logger.Debug("rpc session ended", "remote", remote, "error", err)
			}
		}()
	}
}

// Close stops accepting connections.
func (tl *TCPListener) Close() error {
	return tl.listener.Close()
}
