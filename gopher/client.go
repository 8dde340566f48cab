// Package gopher implements a minimal Gopher protocol (RFC 1436) client
// and menu parser: one-shot TCP request/response, tab-delimited menu
// lines, and the "." terminator.
package gopher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jackfish212/gopherengine/types"
)

const (
	connectTimeout  = 10 * time.Second
	readTimeout     = 10 * time.Second
	maxResponseSize = 2 * 1024 * 1024 // 2 MiB
)

// Client issues one-shot Gopher requests against host:port. It holds no
// connection state between calls; each method dials, writes, half-closes,
// and reads a single response.
type Client struct{}

// NewClient returns a Gopher client. Client is stateless and safe for
// concurrent use.
func NewClient() *Client { return &Client{} }

func (c *Client) sendRaw(ctx context.Context, host string, port uint16, payload string) ([]byte, error) {
	if port == 0 {
		port = 70
	}
	addr := net.JoinHostPort(host, strconv.Itoa(int(port)))

	dialer := net.Dialer{Timeout: connectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", types.ErrNetwork, addr, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		conn.SetDeadline(dl)
	} else {
		conn.SetDeadline(time.Now().Add(readTimeout))
	}

	if _, err := conn.Write([]byte(payload)); err != nil {
		return nil, fmt.Errorf("%w: write to %s: %v", types.ErrNetwork, addr, err)
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.CloseWrite()
	}

	limited := io.LimitReader(conn, maxResponseSize+1)
	buf, err := io.ReadAll(limited)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, fmt.Errorf("%w: read from %s timed out", types.ErrNetwork, addr)
		}
		return nil, fmt.Errorf("%w: read from %s: %v", types.ErrNetwork, addr, err)
	}
	if len(buf) > maxResponseSize {
		buf = buf[:maxResponseSize]
	}
	return buf, nil
}

// FetchText requests selector as a document and returns its text, with a
// trailing "." terminator line stripped if present.
func (c *Client) FetchText(ctx context.Context, host string, port uint16, selector string) (string, error) {
	raw, err := c.sendRaw(ctx, host, port, selector+"\r\n")
	if err != nil {
		return "", err
	}
	text := decodeLossy(raw)
	lines := splitLines(text)
	if n := len(lines); n > 1 && lines[n-1] == "" && lines[n-2] == "." {
		lines = lines[:n-2]
	} else if n > 0 && lines[n-1] == "." {
		lines = lines[:n-1]
	}
	return strings.Join(lines, "\n"), nil
}

// FetchMenu requests selector as a menu and parses the response.
func (c *Client) FetchMenu(ctx context.Context, host string, port uint16, selector string) ([]types.MenuItem, error) {
	raw, err := c.sendRaw(ctx, host, port, selector+"\r\n")
	if err != nil {
		return nil, err
	}
	return ParseMenu(decodeLossy(raw)), nil
}

// Search sends a type-7 search request (selector\tquery\r\n) and parses
// the response as a menu.
func (c *Client) Search(ctx context.Context, host string, port uint16, selector, query string) ([]types.MenuItem, error) {
	raw, err := c.sendRaw(ctx, host, port, selector+"\t"+query+"\r\n")
	if err != nil {
		return nil, err
	}
	return ParseMenu(decodeLossy(raw)), nil
}

func decodeLossy(b []byte) string {
	if bytes.ContainsRune(b, 0) {
		b = bytes.ReplaceAll(b, []byte{0}, nil)
	}
	return string(b)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
