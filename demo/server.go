package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/codewiresh/syncwire/internal/protocol"
	"github.com/codewiresh/syncwire/internal/syncvalue"
)

// Server is a minimal WebSocket endpoint that speaks the sync protocol's
// wire format without a real query executor behind it: every Connect gets
// an empty Transition, and every Mutation/Action gets echoed back as its
// own successful result. It exists to give the `cw` CLI's connect/serve
// demo commands a real transport to exercise, grounded in how
// internal/node.Node.runWSServer upgrades and dispatches connections in
// the teacher repo.
type Server struct {
	Addr string
}

// ListenAndServe starts the demo WebSocket server and blocks until ctx is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/sync", s.handleConn)

	httpSrv := &http.Server{Addr: s.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	slog.Info("demo sync server listening", "addr", s.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("demo server: %w", err)
	}
	return nil
}

func (s *Server) handleConn(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "server error")

	ctx := r.Context()
	slog.Info("client connected", "remote", r.RemoteAddr)

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) {
				slog.Info("client disconnected", "remote", r.RemoteAddr)
				return
			}
			slog.Error("reading client frame", "err", err)
			return
		}

		msg, err := decodeClientFrame(raw)
		if err != nil {
			slog.Error("decoding client message", "err", err)
			s.sendFatalError(ctx, conn, err)
			return
		}

		reply, err := s.handleMessage(msg)
		if err != nil {
			slog.Error("handling client message", "kind", msg.Kind, "err", err)
			s.sendFatalError(ctx, conn, err)
			return
		}
		if reply == nil {
			continue
		}

		out, err := encodeServerFrame(*reply)
		if err != nil {
			slog.Error("encoding server message", "err", err)
			return
		}
		if err := conn.Write(ctx, websocket.MessageText, out); err != nil {
			slog.Error("writing server frame", "err", err)
			return
		}
	}
}

// handleMessage scripts a response for each ClientMessage variant. There
// is no query set, no authentication state, and no UDF dispatch behind
// this: those are the external collaborators spec.md assigns to a real
// server, not this demo transport.
func (s *Server) handleMessage(msg protocol.ClientMessage) (*protocol.ServerMessage[syncvalue.Value], error) {
	switch msg.Kind {
	case protocol.MsgConnect:
		m := emptyTransition()
		return &m, nil
	case protocol.MsgModifyQuerySet:
		m := emptyTransition()
		return &m, nil
	case protocol.MsgMutation, protocol.MsgAction:
		kind := protocol.SrvMutationResponse
		if msg.Kind == protocol.MsgAction {
			kind = protocol.SrvActionResponse
		}
		resp := protocol.ServerMessage[syncvalue.Value]{
			Kind:      kind,
			RequestId: msg.RequestId,
			Result:    protocol.FunctionResult[syncvalue.Value]{Ok: true, Value: syncvalue.NewArray(msg.Args)},
			LogLines:  []string{},
		}
		return &resp, nil
	case protocol.MsgAuthenticate:
		m := emptyTransition()
		return &m, nil
	case protocol.MsgEvent:
		// Events are fire-and-forget telemetry; no reply.
		return nil, nil
	default:
		return nil, fmt.Errorf("unhandled client message kind %q", msg.Kind)
	}
}

func (s *Server) sendFatalError(ctx context.Context, conn *websocket.Conn, cause error) {
	out, err := encodeServerFrame(protocol.ServerMessage[syncvalue.Value]{
		Kind:         protocol.SrvFatalError,
		ErrorMessage: cause.Error(),
	})
	if err != nil {
		return
	}
	_ = conn.Write(ctx, websocket.MessageText, out)
}
