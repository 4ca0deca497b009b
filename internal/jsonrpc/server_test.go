package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve runs one stdio session and returns every response line.
func serve(t *testing.T, registry *MethodRegistry, input string) []Response {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, NewServer(registry, nil).ServeStdio(context.Background(), strings.NewReader(input), &out))

	var resps []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp), "line %q", line)
		resps = append(resps, resp)
	}
	return resps
}

func echoRegistry(calls *atomic.Int32) *MethodRegistry {
	registry := NewMethodRegistry()
	registry.Register("echo", func(_ context.Context, params json.RawMessage) (any, *Error) {
		if calls != nil {
			calls.Add(1)
		}
		return params, nil
	})
	registry.Register("fail", func(_ context.Context, _ json.RawMessage) (any, *Error) {
		return nil, ErrInvalidProfile("bad profile")
	})
	return registry
}

func TestServer_Dispatch(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode int // 0 for success
	}{
		{"success", `{"jsonrpc":"2.0","method":"echo","params":{"hello":"world"},"id":42}`, 0},
		{"method not found", `{"jsonrpc":"2.0","method":"nope","id":1}`, CodeMethodNotFound},
		{"wrong version", `{"jsonrpc":"1.0","method":"echo","id":1}`, CodeInvalidRequest},
		{"handler error", `{"jsonrpc":"2.0","method":"fail","id":1}`, CodeInvalidProfile},
		{"parse error", `{not json}`, CodeParseError},
		{"null id is a request", `{"jsonrpc":"2.0","method":"echo","id":null}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resps := serve(t, echoRegistry(nil), tt.input+"\n")
			require.Len(t, resps, 1)
			assert.Equal(t, Version, resps[0].JSONRPC)
			if tt.wantCode == 0 {
				assert.Nil(t, resps[0].Error)
				return
			}
			require.NotNil(t, resps[0].Error)
			assert.Equal(t, tt.wantCode, resps[0].Error.Code)
		})
	}
}

func TestServer_EchoesRequestID(t *testing.T) {
	resps := serve(t, echoRegistry(nil), `{"jsonrpc":"2.0","method":"echo","id":"abc"}`+"\n")
	require.Len(t, resps, 1)
	assert.JSONEq(t, `"abc"`, string(resps[0].ID))
}

func TestServer_NotificationsGetNoResponse(t *testing.T) {
	var calls atomic.Int32
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","method":"echo","id":1}`,
		`{"jsonrpc":"2.0","method":"echo"}`,
		`{"jsonrpc":"2.0","method":"missing"}`,
		``,
		`{"jsonrpc":"2.0","method":"echo","id":2}`,
	}, "\n") + "\n"

	resps := serve(t, echoRegistry(&calls), input)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, resps, 2)
	assert.JSONEq(t, `1`, string(resps[0].ID))
	assert.JSONEq(t, `2`, string(resps[1].ID))
}

func TestServer_ParseErrorEndsSession(t *testing.T) {
	var calls atomic.Int32
	input := "{broken\n" + `{"jsonrpc":"2.0","method":"echo","id":1}` + "\n"
	resps := serve(t, echoRegistry(&calls), input)
	require.Len(t, resps, 1)
	assert.Equal(t, CodeParseError, resps[0].Error.Code)
	assert.JSONEq(t, `null`, string(resps[0].ID))
	assert.Zero(t, calls.Load())
}

func TestServer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := NewServer(echoRegistry(nil), nil).ServeStdio(ctx, strings.NewReader(`{"jsonrpc":"2.0","method":"echo","id":1}`+"\n"), &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestTCPListener(t *testing.T) {
	ln, err := NewTCPListener("127.0.0.1:0", NewServer(echoRegistry(nil), nil))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ln.Serve(ctx) }()

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close() //nolint:errcheck
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = conn.Write([]byte(`{"jsonrpc":"2.0","method":"echo","params":[1],"id":7}` + "\n"))
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.NewDecoder(conn).Decode(&resp))
	assert.Nil(t, resp.Error)
	assert.JSONEq(t, `7`, string(resp.ID))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestMethodRegistry(t *testing.T) {
	reg := NewMethodRegistry()
	assert.Nil(t, reg.Lookup("b"))
	assert.Empty(t, reg.Methods())

	noop := func(_ context.Context, _ json.RawMessage) (any, *Error) { return nil, nil }
	reg.Register("b", noop)
	reg.Register("a", noop)

	assert.NotNil(t, reg.Lookup("b"))
	assert.Equal(t, []string{"a", "b"}, reg.Methods())
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		code int
		msg  string
	}{
		{ErrParseError("x"), CodeParseError, "Parse error"},
		{ErrInvalidRequest("x"), CodeInvalidRequest, "Invalid request"},
		{ErrMethodNotFound("x"), CodeMethodNotFound, "Method not found"},
		{ErrInvalidParams("x"), CodeInvalidParams, "Invalid params"},
		{ErrInternalError("x"), CodeInternalError, "Internal error"},
		{ErrInvalidProfile("x"), CodeInvalidProfile, "Invalid profile"},
		{ErrRuleNotFound("x"), CodeRuleNotFound, "Rule not found"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.msg, tt.err.Error())
	}
}
