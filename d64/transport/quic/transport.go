// Package quic wraps quic-go listeners and dialers with the self-signed TLS
// configuration and ALPN used by D64 sessions.
package quic

import (
	"context"
	"net"
	"time"

	q "github.com/quic-go/quic-go"
)

// KeepAlive is the keep-alive period for D64 connections.
const KeepAlive = 15 * time.Second

type Listener struct {
	inner *q.Listener
}

func config() *q.Config {
	return &q.Config{KeepAlivePeriod: KeepAlive}
}

func Listen(addr string) (*Listener, error) {
	tlsConf, err := ServerTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := q.ListenAddr(addr, tlsConf, config())
	if err != nil {
		return nil, err
	}
	return &Listener{inner: ln}, nil
}

func (l *Listener) Accept(ctx context.Context) (q.Connection, error) {
	return l.inner.Accept(ctx)
}

func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

func (l *Listener) AddrString() string {
	if l.inner == nil {
		return ""
	}
	return l.inner.Addr().String()
}

func (l *Listener) Close() error { return l.inner.Close() }

func Dial(ctx context.Context, addr string) (q.Connection, error) {
	return q.DialAddr(ctx, addr, ClientTLSConfig(), config())
}
