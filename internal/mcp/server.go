// Package mcp implements a small MCP server: JSON-RPC 2.0 over
// newline-delimited stdio, exposing a registered set of tools.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
)

// Tool is one callable operation. InputSchema is a JSON-Schema-shaped
// value serialized as-is into tools/list.
type Tool struct {
	Name        string
	Description string
	InputSchema any
	Handler     func(ctx context.Context, args json.RawMessage) (any, error)
}

// Server dispatches JSON-RPC requests to registered tools.
type Server struct {
	name        string
	version     string
	tools       []Tool
	toolsByName map[string]*Tool
	logger      *slog.Logger
	initialized bool
	entropy     *rand.Rand
}

// NewServer creates a server identifying itself with name and version.
func NewServer(name, version string, tools []Tool, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		name:        name,
		version:     version,
		tools:       tools,
		toolsByName: make(map[string]*Tool, len(tools)),
		logger:      logger,
		entropy:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for i := range tools {
		s.toolsByName[tools[i].Name] = &s.tools[i]
	}
	return s
}

// Serve runs the request loop on stdin/stdout.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run processes newline-delimited JSON-RPC requests from input until
// EOF. Tool failures become isError results; only transport failures
// end the loop.
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	scanner := bufio.NewScanner(input)
	// Tool results can be large; a board summary fits easily, but
	// leave room for verbose clients.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	encoder := json.NewEncoder(output)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req request
		if err := json.Unmarshal(line, &req); err != nil {
			if writeErr := writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error()); writeErr != nil {
				return writeErr
			}
			continue
		}

		if req.JSONRPC != "2.0" {
			if !req.isNotification() {
				if writeErr := writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version"); writeErr != nil {
					return writeErr
				}
			}
			continue
		}

		if req.isNotification() {
			continue
		}

		if err := s.dispatch(ctx, encoder, &req); err != nil {
			return err
		}
	}

	return scanner.Err()
}

func (s *Server) dispatch(ctx context.Context, encoder *json.Encoder, req *request) error {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return writeResult(encoder, req.ID, map[string]any{})
	case "tools/list":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeError(encoder, req.ID, codeInvalidRequest, "server not initialized (call initialize first)")
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for initialize")
	}

	var params initializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
	}

	s.initialized = true
	s.logger.Info("client initialized",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version)

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Tools: &toolCapability{},
		},
		ServerInfo: serverInfo{Name: s.name, Version: s.version},
	})
}

func (s *Server) handleToolsList(encoder *json.Encoder, req *request) error {
	descriptions := make([]toolDescription, 0, len(s.tools))
	for _, t := range s.tools {
		descriptions = append(descriptions, toolDescription{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return writeResult(encoder, req.ID, toolsListResult{Tools: descriptions})
}

func (s *Server) handleToolsCall(ctx context.Context, encoder *json.Encoder, req *request) error {
	if len(req.Params) == 0 {
		return writeError(encoder, req.ID, codeInvalidParams, "params required for tools/call")
	}

	var params toolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return writeError(encoder, req.ID, codeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	t, ok := s.toolsByName[params.Name]
	if !ok {
		return writeError(encoder, req.ID, codeInvalidParams, "unknown tool: "+params.Name)
	}

	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	start := time.Now()

	value, err := t.Handler(ctx, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed",
			"tool", t.Name,
			"request_id", requestID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		return writeResult(encoder, req.ID, toolsCallResult{
			Content: []contentBlock{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}

	s.logger.Info("tool call",
		"tool", t.Name,
		"request_id", requestID,
		"duration_ms", time.Since(start).Milliseconds())

	serialized, err := json.Marshal(value)
	if err != nil {
		return writeResult(encoder, req.ID, toolsCallResult{
			Content: []contentBlock{{Type: "text", Text: "serialize result: " + err.Error()}},
			IsError: true,
		})
	}

	return writeResult(encoder, req.ID, toolsCallResult{
		Content:           []contentBlock{{Type: "text", Text: string(serialized)}},
		StructuredContent: value,
	})
}

func writeResult(encoder *json.Encoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Result: result})
}

func writeError(encoder *json.Encoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}
