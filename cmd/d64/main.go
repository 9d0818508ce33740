// Command d64 encrypts, decrypts and exchanges messages with the D64 cipher.
//
//	d64 encrypt [-key K | -passphrase P] [text]     prints uppercase hex
//	d64 decrypt [-key K | -passphrase P] HEX        prints plaintext
//	d64 seal -in FILE -out FILE [-compress LEVEL]
//	d64 open -in FILE -out FILE
//	d64 serve [-addr ADDR]
//	d64 send [-addr ADDR] TEXT
//
// Defaults come from D64_KEY, D64_ADDR, D64_WORKERS and D64_COMPRESS.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/TheusHen/D64/d64"
	"github.com/TheusHen/D64/d64/envelope"
	"github.com/TheusHen/D64/d64/kex"
	"github.com/TheusHen/D64/d64/session"
	"github.com/TheusHen/D64/d64/transport/quic"
	"github.com/TheusHen/D64/internal/config"
)

var passphraseSalt = []byte("d64-cli")

func main() {
	log.SetFlags(0)
	log.SetPrefix("d64: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cfg := config.Load()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "encrypt":
		err = runEncrypt(cfg, args)
	case "decrypt":
		err = runDecrypt(cfg, args)
	case "seal":
		err = runSeal(cfg, args)
	case "open":
		err = runOpen(cfg, args)
	case "serve":
		err = runServe(cfg, args)
	case "send":
		err = runSend(cfg, args)
	case "help", "-h", "-help", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: d64 <encrypt|decrypt|seal|open|serve|send> [flags] [args]")
}

// keyFlags registers -key, -passphrase and -workers on fs.
type keyFlags struct {
	key        *string
	passphrase *string
	workers    *int
}

func addKeyFlags(fs *flag.FlagSet, cfg *config.Config) keyFlags {
	return keyFlags{
		key:        fs.String("key", cfg.Key, "cipher key; zero-padded or truncated to 8 bytes"),
		passphrase: fs.String("passphrase", "", "derive the key from a passphrase instead of -key"),
		workers:    fs.Int("workers", cfg.Workers, "goroutines per message"),
	}
}

func (k keyFlags) cipher() (*d64.Cipher, error) {
	key := []byte(*k.key)
	if *k.passphrase != "" {
		derived, err := kex.KeyFromPassphrase([]byte(*k.passphrase), passphraseSalt)
		if err != nil {
			return nil, err
		}
		key = derived[:]
	}
	return d64.NewCipher(key, d64.CipherOptions{Workers: *k.workers}), nil
}

// input returns the joined positional arguments, or stdin when there are none.
func input(fs *flag.FlagSet) ([]byte, error) {
	if fs.NArg() > 0 {
		return []byte(strings.Join(fs.Args(), " ")), nil
	}
	return io.ReadAll(os.Stdin)
}

func runEncrypt(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("encrypt", flag.ExitOnError)
	kf := addKeyFlags(fs, cfg)
	_ = fs.Parse(args)

	c, err := kf.cipher()
	if err != nil {
		return err
	}
	pt, err := input(fs)
	if err != nil {
		return err
	}
	fmt.Println(strings.ToUpper(hex.EncodeToString(c.EncryptMessage(pt))))
	return nil
}

func runDecrypt(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("decrypt", flag.ExitOnError)
	kf := addKeyFlags(fs, cfg)
	_ = fs.Parse(args)

	c, err := kf.cipher()
	if err != nil {
		return err
	}
	raw, err := input(fs)
	if err != nil {
		return err
	}
	ct, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return fmt.Errorf("ciphertext is not hex: %w", err)
	}
	pt, err := c.DecryptMessage(ct)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(pt, '\n'))
	return err
}

func runSeal(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seal", flag.ExitOnError)
	kf := addKeyFlags(fs, cfg)
	in := fs.String("in", "", "plaintext file (default stdin)")
	out := fs.String("out", "", "envelope file (default stdout)")
	level := fs.String("compress", cfg.Compress, "compression: default, fast, best or none")
	_ = fs.Parse(args)

	lvl, err := config.ParseCompression(*level)
	if err != nil {
		return err
	}
	c, err := kf.cipher()
	if err != nil {
		return err
	}
	pt, err := readFile(*in)
	if err != nil {
		return err
	}
	sealed, err := envelope.Seal(pt, c, envelope.Options{Compression: lvl})
	if err != nil {
		return err
	}
	return writeFile(*out, sealed)
}

func runOpen(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	kf := addKeyFlags(fs, cfg)
	in := fs.String("in", "", "envelope file (default stdin)")
	out := fs.String("out", "", "plaintext file (default stdout)")
	_ = fs.Parse(args)

	c, err := kf.cipher()
	if err != nil {
		return err
	}
	sealed, err := readFile(*in)
	if err != nil {
		return err
	}
	pt, err := envelope.Open(sealed, c)
	if err != nil {
		return err
	}
	return writeFile(*out, pt)
}

func runServe(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	workers := fs.Int("workers", cfg.Workers, "goroutines per message")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ln, err := quic.Listen(*addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	log.Printf("listening on %s", ln.AddrString())

	srv := session.NewServer(ln, session.ServerOptions{
		Handler:      session.Upper,
		Capabilities: map[string]string{"handler": "upper"},
		Workers:      *workers,
		Cache:        d64.NewKeyCache(d64.DefaultCacheSize),
	})
	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func runSend(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	addr := fs.String("addr", cfg.Addr, "server address")
	timeout := fs.Duration("timeout", 10*time.Second, "overall timeout")
	_ = fs.Parse(args)

	msg, err := input(fs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, err := quic.Dial(ctx, *addr)
	if err != nil {
		return err
	}
	sess, err := session.HandshakeClient(ctx, conn, session.HandshakeOptions{})
	if err != nil {
		_ = conn.CloseWithError(1, "handshake failed")
		return err
	}
	defer sess.Close()

	reply, err := sess.Exchange(ctx, msg)
	if err != nil {
		return err
	}
	fmt.Println(string(reply))
	return nil
}

func readFile(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeFile(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
