package session

import (
	"context"
	"errors"
	"time"

	"github.com/TheusHen/D64/d64"
	"github.com/TheusHen/D64/d64/block"
	"github.com/TheusHen/D64/d64/kex"
	"github.com/TheusHen/D64/d64/protocol"
	q "github.com/quic-go/quic-go"
)

var (
	ErrHandshakeExpectedHello = errors.New("session: handshake expected HELLO")
)

type HandshakeOptions struct {
	Capabilities map[string]string
	// Workers and Cache configure the session cipher; see d64.CipherOptions.
	Workers int
	Cache   *d64.KeyCache
}

// HandshakeClient performs the key agreement as the initiator.
// The client opens the control stream and speaks first.
func HandshakeClient(ctx context.Context, conn q.Connection, opts HandshakeOptions) (*Session, error) {
	control, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	withDeadline(ctx, control)
	defer control.SetDeadline(time.Time{})

	eph, err := kex.NewEphemeral()
	if err != nil {
		return nil, err
	}
	local, err := protocol.NewHello(eph.Public, opts.Capabilities)
	if err != nil {
		return nil, err
	}
	if err := writeHello(control, local); err != nil {
		return nil, err
	}
	remote, err := readHello(control)
	if err != nil {
		return nil, err
	}

	key, err := sessionKey(eph, local, remote, true)
	if err != nil {
		return nil, err
	}
	return newSession(conn, control, key, remote.Capabilities, opts), nil
}

// HandshakeServer performs the key agreement as the responder.
// The server accepts the control stream opened by the client.
func HandshakeServer(ctx context.Context, conn q.Connection, opts HandshakeOptions) (*Session, error) {
	control, err := conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	withDeadline(ctx, control)
	defer control.SetDeadline(time.Time{})

	remote, err := readHello(control)
	if err != nil {
		return nil, err
	}
	eph, err := kex.NewEphemeral()
	if err != nil {
		return nil, err
	}
	local, err := protocol.NewHello(eph.Public, opts.Capabilities)
	if err != nil {
		return nil, err
	}
	if err := writeHello(control, local); err != nil {
		return nil, err
	}

	key, err := sessionKey(eph, local, remote, false)
	if err != nil {
		return nil, err
	}
	return newSession(conn, control, key, remote.Capabilities, opts), nil
}

func writeHello(st q.Stream, h protocol.Hello) error {
	payload, err := protocol.EncodeHello(h)
	if err != nil {
		return err
	}
	return protocol.WriteFrame(st, protocol.Frame{Type: protocol.MessageTypeHello, Payload: payload})
}

func readHello(st q.Stream) (protocol.Hello, error) {
	frame, err := protocol.ReadFrame(st)
	if err != nil {
		return protocol.Hello{}, err
	}
	if frame.Type != protocol.MessageTypeHello {
		return protocol.Hello{}, ErrHandshakeExpectedHello
	}
	h, err := protocol.DecodeHello(frame.Payload)
	if err != nil {
		return protocol.Hello{}, err
	}
	if err := h.Validate(time.Now()); err != nil {
		return protocol.Hello{}, err
	}
	return h, nil
}

// sessionKey derives the shared D64 key. Nonces are salted initiator first
// so both sides feed HKDF identical inputs.
func sessionKey(eph *kex.Ephemeral, local, remote protocol.Hello, initiator bool) (block.Key, error) {
	remotePub, err := remote.Key()
	if err != nil {
		return block.Key{}, err
	}
	first, second := local.Nonce, remote.Nonce
	if !initiator {
		first, second = second, first
	}
	salt := make([]byte, 0, len(first)+len(second))
	salt = append(salt, first...)
	salt = append(salt, second...)
	return eph.SessionKey(remotePub, initiator, salt)
}

func withDeadline(ctx context.Context, st q.Stream) {
	if dl, ok := ctx.Deadline(); ok {
		_ = st.SetDeadline(dl)
	}
}
