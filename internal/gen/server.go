package gen

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Handler is the agent-side contract a generator implementation fulfills.
type Handler interface {
	HandleGenerate(ctx context.Context, req GenerateRequest) (*Job, error)
	HandleGetJob(ctx context.Context, req GetJobRequest) (*Job, error)
	HandleCancelJob(ctx context.Context, req CancelJobRequest) (*Job, error)
}

// Server hosts one generator agent over HTTP/JSON-RPC and serves its card
// at the well-known URI.
type Server struct {
	card    GeneratorCard
	handler Handler
	http    *http.Server
}

// NewServer creates a Server for the given card and handler.
func NewServer(card GeneratorCard, handler Handler) *Server {
	return &Server{card: card, handler: handler}
}

// Start registers routes and begins serving. It returns immediately after
// starting the listener in a background goroutine.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/generator-card.json", s.handleCard)
	mux.HandleFunc("POST /", s.handleJSONRPC)

	s.http = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go s.http.ListenAndServe()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// handleCard serves the generator card at the well-known endpoint.
func (s *Server) handleCard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.card); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleJSONRPC decodes incoming JSON-RPC 2.0 requests and dispatches them
// to the handler.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONRPCError(w, nil, ErrCodeParse, "Parse error: "+err.Error())
		return
	}

	ctx := r.Context()

	switch req.Method {
	case MethodGenerate:
		dispatch(ctx, w, &req, s.handler.HandleGenerate)
	case MethodGetJob:
		dispatch(ctx, w, &req, s.handler.HandleGetJob)
	case MethodCancelJob:
		dispatch(ctx, w, &req, s.handler.HandleCancelJob)
	default:
		writeJSONRPCError(w, req.ID, ErrCodeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

// dispatch unmarshals params into P and invokes the handler method.
func dispatch[P any](ctx context.Context, w http.ResponseWriter, req *JSONRPCRequest, fn func(context.Context, P) (*Job, error)) {
	var params P
	if err := json.Unmarshal(req.Params, &params); err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInvalidParams, "Invalid params: "+err.Error())
		return
	}

	result, err := fn(ctx, params)
	if err != nil {
		writeJSONRPCError(w, req.ID, ErrCodeInternal, err.Error())
		return
	}

	writeJSONRPCResult(w, req.ID, result)
}

// writeJSONRPCResult encodes a successful JSON-RPC response.
func writeJSONRPCResult(w http.ResponseWriter, id any, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		writeJSONRPCError(w, id, ErrCodeInternal, "marshal result: "+err.Error())
		return
	}
	_ = json.NewEncoder(w).Encode(JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  raw,
	})
}

// writeJSONRPCError encodes a JSON-RPC error response.
func writeJSONRPCError(w http.ResponseWriter, id any, code int, message string) {
	_ = json.NewEncoder(w).Encode(JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}
