package main

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/spboyer/modelpick/internal/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTCPAddr(t *testing.T) {
	logger := slog.Default()
	tests := []struct {
		addr        string
		allowRemote bool
		want        string
	}{
		{":9000", false, "127.0.0.1:9000"},
		{"9000", false, "127.0.0.1:9000"},
		{"0.0.0.0:9000", false, "127.0.0.1:9000"},
		{"[::]:9000", false, "127.0.0.1:9000"},
		{"localhost:9000", false, "localhost:9000"},
		{"0.0.0.0:9000", true, "0.0.0.0:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveTCPAddr(tt.addr, tt.allowRemote, logger))
		})
	}
}

func TestServe_RPCOverStdio(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","method":"rules.list","id":1}`,
		`{"jsonrpc":"2.0","method":"profile.evaluate","params":{"profile":{"problemType":"clustering","gaussian":true,"classImbalance":false,"pGreaterThanN":false,"errorFocus":"fp"}},"id":2}`,
	}, "\n") + "\n"

	out, err := runCLI(t, input, "serve", "--rpc")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	var list jsonrpc.Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &list))
	assert.Nil(t, list.Error)

	var eval struct {
		Result struct {
			Recommendations []struct {
				Output string `json:"output"`
			} `json:"recommendations"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &eval))
	require.NotEmpty(t, eval.Result.Recommendations)
	assert.Equal(t, "K-Means", eval.Result.Recommendations[0].Output)
}
