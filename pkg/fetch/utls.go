package fetch

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// utlsRoundTripper speaks https with a Chrome ClientHello so embed hosts that
// fingerprint TLS serve the same page a browser would get.
type utlsRoundTripper struct {
	dialer      *net.Dialer
	timeout     time.Duration
	h2Transport *http2.Transport
	fallback    http.RoundTripper
}

func newUTLSRoundTripper(timeout time.Duration) *utlsRoundTripper {
	return &utlsRoundTripper{
		dialer: &net.Dialer{
			Timeout:   timeout,
			KeepAlive: 60 * time.Second,
		},
		timeout:     timeout,
		h2Transport: &http2.Transport{},
		fallback:    http.DefaultTransport,
	}
}

func (t *utlsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.fallback.RoundTrip(req)
	}

	addr := req.URL.Host
	if !strings.Contains(addr, ":") {
		addr = addr + ":443"
	}

	ctx := req.Context()
	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	// a peer that accepts but never answers must not stall the handshake
	if t.timeout > 0 {
		conn.SetDeadline(time.Now().Add(t.timeout))
	}
	uconn := utls.UClient(conn, &utls.Config{ServerName: req.URL.Hostname()}, utls.HelloChrome_120)
	if err := uconn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	conn.SetDeadline(time.Time{})

	if uconn.ConnectionState().NegotiatedProtocol == "h2" {
		h2Conn, err := t.h2Transport.NewClientConn(uconn)
		if err != nil {
			uconn.Close()
			return nil, err
		}
		resp, err := h2Conn.RoundTrip(req)
		if err != nil {
			h2Conn.Close()
			return nil, err
		}
		resp.Body = &connCloser{ReadCloser: resp.Body, conn: h2Conn}
		return resp, nil
	}

	stop := context.AfterFunc(ctx, func() { uconn.Close() })
	if err := req.Write(uconn); err != nil {
		stop()
		uconn.Close()
		return nil, err
	}
	resp, err := http.ReadResponse(bufio.NewReader(uconn), req)
	if err != nil {
		stop()
		uconn.Close()
		return nil, err
	}
	resp.Body = &connCloser{ReadCloser: resp.Body, conn: uconn, stop: stop}
	return resp, nil
}

// connCloser closes the connection a response was read from along with its
// body.
type connCloser struct {
	io.ReadCloser
	conn io.Closer
	stop func() bool
}

func (c *connCloser) Close() error {
	if c.stop != nil {
		c.stop()
	}
	c.ReadCloser.Close()
	return c.conn.Close()
}
