package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/TheusHen/D64/d64"
	"github.com/TheusHen/D64/d64/block"
	"github.com/TheusHen/D64/d64/protocol"
	q "github.com/quic-go/quic-go"
)

var (
	ErrSessionClosed   = errors.New("session: closed")
	ErrRemote          = errors.New("session: remote error")
	ErrUnexpectedFrame = errors.New("session: unexpected frame")
)

// Session is an established D64 exchange over one QUIC connection. Exchange
// calls are serialized on the control stream.
type Session struct {
	mu      sync.Mutex
	closed  bool
	conn    q.Connection
	control q.Stream
	cipher  *d64.Cipher
	caps    map[string]string
}

func newSession(conn q.Connection, control q.Stream, key block.Key, caps map[string]string, opts HandshakeOptions) *Session {
	return &Session{
		conn:    conn,
		control: control,
		cipher:  d64.NewCipher(key[:], d64.CipherOptions{Workers: opts.Workers, Cache: opts.Cache}),
		caps:    caps,
	}
}

func (s *Session) Connection() q.Connection { return s.conn }

// Cipher returns the cipher keyed with the agreed session key.
func (s *Session) Cipher() *d64.Cipher { return s.cipher }

func (s *Session) RemoteCapabilities() map[string]string {
	out := map[string]string{}
	for k, v := range s.caps {
		out[k] = v
	}
	return out
}

// Exchange encrypts plaintext, sends it as a DATA frame and returns the
// decrypted REPLY. An ERROR frame from the peer is returned as ErrRemote.
func (s *Session) Exchange(ctx context.Context, plaintext []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	withDeadline(ctx, s.control)
	defer s.control.SetDeadline(time.Time{})

	ct := s.cipher.EncryptMessage(plaintext)
	if err := protocol.WriteFrame(s.control, protocol.Frame{Type: protocol.MessageTypeData, Payload: ct}); err != nil {
		return nil, err
	}
	frame, err := protocol.ReadFrame(s.control)
	if err != nil {
		return nil, err
	}
	switch frame.Type {
	case protocol.MessageTypeReply:
		return s.cipher.DecryptMessage(frame.Payload)
	case protocol.MessageTypeError:
		return nil, fmt.Errorf("%w: %s", ErrRemote, frame.Payload)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedFrame, frame.Type)
	}
}

// Close sends CLOSE, ends the control stream and closes the connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = protocol.WriteFrame(s.control, protocol.Frame{Type: protocol.MessageTypeClose})
	_ = s.control.Close()
	return s.conn.CloseWithError(0, "")
}

// serve answers DATA frames with handler output until the peer sends CLOSE or
// goes away. Decryption and handler failures are reported to the peer as ERROR
// frames and do not end the session.
func (s *Session) serve(ctx context.Context, handler Handler) error {
	for {
		frame, err := protocol.ReadFrame(s.control)
		if err != nil {
			if peerGone(err) {
				return nil
			}
			return err
		}

		switch frame.Type {
		case protocol.MessageTypeClose:
			return nil
		case protocol.MessageTypeData:
			err = s.answer(ctx, handler, frame.Payload)
		default:
			err = s.writeError(fmt.Sprintf("unexpected %s frame", frame.Type))
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) answer(ctx context.Context, handler Handler, ciphertext []byte) error {
	plaintext, err := s.cipher.DecryptMessage(ciphertext)
	if err != nil {
		return s.writeError(err.Error())
	}
	reply, err := handler(ctx, plaintext)
	if err != nil {
		return s.writeError(err.Error())
	}
	return protocol.WriteFrame(s.control, protocol.Frame{
		Type:    protocol.MessageTypeReply,
		Payload: s.cipher.EncryptMessage(reply),
	})
}

func (s *Session) writeError(msg string) error {
	return protocol.WriteFrame(s.control, protocol.Frame{Type: protocol.MessageTypeError, Payload: []byte(msg)})
}

func peerGone(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	var appErr *q.ApplicationError
	return errors.As(err, &appErr) && appErr.Remote
}
