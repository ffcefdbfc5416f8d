package server

import (
	"context"
	"encoding/json"
	"io"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/lexcodex/swizzle/framework"
)

// JSON-RPC method names.
const (
	MethodMessage   = "swizzle/message"
	MethodEvent     = "swizzle/event"
	MethodDidChange = "textDocument/didChange"
)

// RPCServer serves the bridge over a JSON-RPC 2.0 stream with VS Code
// style Content-Length framing.
type RPCServer struct {
	Bridge *Bridge
	Logger *zap.Logger
}

// ServeStream handles one connection until it closes or ctx is done.
// Queued and future bridge events are pushed as swizzle/event
// notifications.
func (s *RPCServer) ServeStream(ctx context.Context, rwc io.ReadWriteCloser) error {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	defer conn.Close()

	notify := func(msg framework.Message) {
		if err := conn.Notify(ctx, MethodEvent, msg); err != nil {
			log.Debug("event push failed", zap.Error(err))
		}
	}
	unsubscribe := s.Bridge.Subscribe(notify)
	defer unsubscribe()
	for _, msg := range s.Bridge.Drain() {
		notify(msg)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

func (s *RPCServer) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case MethodMessage:
		if req.Params == nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing message"}
		}
		var msg framework.Message
		if err := json.Unmarshal(*req.Params, &msg); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
		replies := s.Bridge.Dispatch(ctx, msg)
		if req.Notif {
			for _, reply := range replies {
				if err := conn.Notify(ctx, MethodEvent, reply); err != nil {
					return nil, err
				}
			}
			return nil, nil
		}
		if replies == nil {
			replies = []framework.Message{}
		}
		return replies, nil
	case MethodDidChange:
		if req.Params == nil {
			return nil, nil
		}
		var params protocol.DidChangeTextDocumentParams
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
		if len(params.ContentChanges) == 0 {
			return nil, nil
		}
		// Only full-text sync is supported; the last change carries the
		// whole buffer.
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.Bridge.Dispatch(ctx, framework.NewMessage(framework.MsgDocumentChanged, map[string]any{
			"fileUri": string(params.TextDocument.URI),
			"version": int(params.TextDocument.Version),
			"text":    text,
		}))
		return nil, nil
	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled"}
	}
}

// StdioConn joins a reader and a writer into the ReadWriteCloser a stream
// needs.
type StdioConn struct {
	Reader io.ReadCloser
	Writer io.WriteCloser
}

func (c *StdioConn) Read(p []byte) (int, error)  { return c.Reader.Read(p) }
func (c *StdioConn) Write(p []byte) (int, error) { return c.Writer.Write(p) }

func (c *StdioConn) Close() error {
	werr := c.Writer.Close()
	rerr := c.Reader.Close()
	if werr != nil {
		return werr
	}
	return rerr
}
