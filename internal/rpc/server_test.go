package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func decodeResponses(t *testing.T, output string) []Response {
	t.Helper()
	var out []Response
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("unmarshal %q: %v", line, err)
		}
		out = append(out, resp)
	}
	return out
}

func TestServerHandlesRequest(t *testing.T) {
	input := "{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"Ping\",\"api_version\":\"1\"}\n"
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(input), &output, nil)
	server.Register("Ping", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		return map[string]any{"pong": true}, nil
	})

	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	resps := decodeResponses(t, output.String())
	if len(resps) != 1 {
		t.Fatalf("expected one response, got %d", len(resps))
	}
	if resps[0].Error != nil {
		t.Fatalf("unexpected error: %v", resps[0].Error)
	}
	result := resps[0].Result.(map[string]any)
	if result["pong"] != true {
		t.Fatalf("expected pong true")
	}
}

func TestServerAnswersInOrder(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"Echo","params":{"n":1}}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"Missing"}`,
		`not json`,
		`{"jsonrpc":"1.0","id":3,"method":"Echo"}`,
		`{"jsonrpc":"2.0","id":4,"method":"Fail"}`,
		`{"jsonrpc":"2.0","method":"Echo","params":{"n":5}}`,
		`{"jsonrpc":"2.0","id":6,"method":"Echo","params":{"n":6}}`,
	}, "\n")
	var output bytes.Buffer
	server := NewServer("1", strings.NewReader(input), &output, nil)
	var calls []int
	server.Register("Echo", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		var p struct{ N int }
		_ = json.Unmarshal(params, &p)
		calls = append(calls, p.N)
		return p.N, nil
	})
	server.Register("Fail", func(ctx context.Context, params json.RawMessage) (any, *Error) {
		return nil, &Error{Message: "boom", Data: map[string]string{"error_code": "VALIDATION_FAILED"}}
	})

	if err := server.Serve(context.Background()); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if len(calls) != 3 || calls[0] != 1 || calls[1] != 5 || calls[2] != 6 {
		t.Fatalf("expected sequential calls 1,5,6, got %v", calls)
	}
	resps := decodeResponses(t, output.String())
	wantCodes := []int{0, CodeMethodNotFound, CodeParseError, CodeInvalidRequest, CodeServerError, 0}
	if len(resps) != len(wantCodes) {
		t.Fatalf("expected %d responses, got %d: %s", len(wantCodes), len(resps), output.String())
	}
	for i, want := range wantCodes {
		got := 0
		if resps[i].Error != nil {
			got = resps[i].Error.Code
		}
		if got != want {
			t.Fatalf("response %d: expected code %d, got %d", i, want, got)
		}
	}
	if resps[4].Error.Message != "boom" || resps[4].Error.Data == nil {
		t.Fatalf("expected handler error to carry data, got %+v", resps[4].Error)
	}
	if string(resps[5].ID) != "6" {
		t.Fatalf("expected last response for id 6, got %s", resps[5].ID)
	}
}

func TestServerStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	server := NewServer("1", strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"Ping"}`+"\n"), &bytes.Buffer{}, nil)
	if err := server.Serve(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}
