package session

import (
	"bytes"
	"context"
	"log"

	"github.com/TheusHen/D64/d64"
	"github.com/TheusHen/D64/d64/transport/quic"
	q "github.com/quic-go/quic-go"
)

// Handler computes the reply for one decrypted request.
type Handler func(ctx context.Context, plaintext []byte) ([]byte, error)

// Echo replies with the request unchanged.
func Echo(_ context.Context, plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

// Upper replies with the request in upper case.
func Upper(_ context.Context, plaintext []byte) ([]byte, error) {
	return bytes.ToUpper(plaintext), nil
}

type ServerOptions struct {
	// Handler defaults to Echo.
	Handler Handler
	// Logger receives per-connection failures. Defaults to log.Default().
	Logger       *log.Logger
	Capabilities map[string]string
	Workers      int
	Cache        *d64.KeyCache
}

// Server accepts QUIC connections and serves one Session per connection.
type Server struct {
	ln   *quic.Listener
	opts ServerOptions
}

func NewServer(ln *quic.Listener, opts ServerOptions) *Server {
	if opts.Handler == nil {
		opts.Handler = Echo
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{ln: ln, opts: opts}
}

// Serve accepts connections until ctx is done or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	for {
		conn, err := s.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		go func() {
			if err := s.ServeConn(ctx, conn); err != nil {
				s.opts.Logger.Printf("d64/session: %s: %v", conn.RemoteAddr(), err)
			}
		}()
	}
}

// ServeConn runs the handshake on conn and answers requests until the client
// closes the session.
func (s *Server) ServeConn(ctx context.Context, conn q.Connection) error {
	sess, err := HandshakeServer(ctx, conn, HandshakeOptions{
		Capabilities: s.opts.Capabilities,
		Workers:      s.opts.Workers,
		Cache:        s.opts.Cache,
	})
	if err != nil {
		_ = conn.CloseWithError(1, "handshake failed")
		return err
	}
	err = sess.serve(ctx, s.opts.Handler)
	_ = conn.CloseWithError(0, "")
	return err
}
