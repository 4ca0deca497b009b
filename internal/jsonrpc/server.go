package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
)

// Server dispatches JSON-RPC 2.0 calls read from a Transport.
type Server struct {
	registry *MethodRegistry
	logger   *slog.Logger
}

// NewServer creates a server for the methods in registry.
func NewServer(registry *MethodRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{registry: registry, logger: logger}
}

// Serve answers calls until the peer closes the stream, a frame cannot be
// parsed, or ctx is done. A clean end of input returns nil.
func (s *Server) Serve(ctx context.Context, t *Transport) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := t.ReadFrame()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		resp := s.dispatch(ctx, frame)
		if resp == nil {
			continue
		}
		if err := t.WriteResponse(resp); err != nil {
			s.logger.Debug("write error", "error", err)
			return err
		}

		// An unparseable frame leaves the stream in an unknown state.
		if resp.Error != nil && resp.Error.Code == CodeParseError {
			return nil
		}
	}
}

// dispatch handles one frame. It returns nil for notifications, which never
// get a response.
func (s *Server) dispatch(ctx context.Context, frame []byte) *Response {
	var req Request
	if err := json.Unmarshal(frame, &req); err != nil {
		s.logger.Debug("parse error", "error", err)
		return &Response{JSONRPC: Version, Error: ErrParseError(err.Error()), ID: json.RawMessage("null")}
	}

	notification := !hasIDField(frame)
	reply := func(result any, rpcErr *Error) *Response {
		if notification {
			return nil
		}
		resp := &Response{JSONRPC: Version, ID: req.ID}
		if rpcErr != nil {
			resp.Error = rpcErr
		} else {
			resp.Result = result
		}
		return resp
	}

	if req.JSONRPC != Version {
		return reply(nil, ErrInvalidRequest(`jsonrpc field must be "2.0"`))
	}

	handler := s.registry.Lookup(req.Method)
	if handler == nil {
		return reply(nil, ErrMethodNotFound(req.Method))
	}

	s.logger.Debug("rpc call", "method", req.Method)
	result, rpcErr := handler(ctx, req.Params)
	if rpcErr != nil {
		s.logger.Debug("rpc error", "method", req.Method, "code", rpcErr.Code, "message", rpcErr.Message)
	}
	return reply(result, rpcErr)
}

// hasIDField reports whether the top-level object carries an "id" key.
// Notifications omit it entirely; an explicit null id still gets a reply.
func hasIDField(raw []byte) bool {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &obj); err != nil {
		return false
	}
	_, exists := obj["id"]
	return exists
}

// ServeStdio serves a single session over the given reader and writer.
func (s *Server) ServeStdio(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	return s.Serve(ctx, NewTransport(stdin, stdout))
}
