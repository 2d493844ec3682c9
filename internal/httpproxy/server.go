package httpproxy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/cache"
	"github.com/darganad/Introduction-to-ComputerSystems/internal/logging"
)

// dialTimeout bounds the upstream connect attempt; the original source
// relied on the OS default, which this gives an explicit, generous value
// instead of leaving unbounded.
const dialTimeout = 10 * time.Second

// Server is the forward proxy's TCP accept loop plus the shared cache
// every connection's handler consults.
type Server struct {
	Addr  string
	Cache *cache.Cache

	// Dial is the upstream connector; overridable in tests to point at an
	// httptest.Server without touching real DNS/sockets.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewServer returns a Server listening on port, backed by a fresh cache.
func NewServer(port int) *Server {
	return &Server{
		Addr:  fmt.Sprintf(":%d", port),
		Cache: cache.New(),
		Dial:  (&net.Dialer{Timeout: dialTimeout}).DialContext,
	}
}

// ListenAndServe accepts connections until ctx is canceled or Accept
// fails, spawning one goroutine per connection.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ignoreSIGPIPE()

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("httpproxy: listen: %w", err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logging.Info("proxy listening", "addr", s.Addr)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("httpproxy: accept: %w", err)
		}
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection services exactly one client request and closes conn
// when done, mirroring the original's one-shot-then-close thread body.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	requestLine, err := reader.ReadString('\n')
	if err != nil {
		return
	}

	method, uri, _, ok := parseRequestLine(requestLine)
	if !ok {
		_ = clientError(conn, requestLine, "400", "Bad Request", "Proxy could not understand the request")
		return
	}
	if !strings.EqualFold(method, "GET") {
		_ = clientError(conn, method, "501", "Not Implemented", "Proxy only implements GET request")
		return
	}

	target, err := parseRequestURL(uri)
	if err != nil {
		_ = clientError(conn, uri, "400", "Bad Request", "Proxy could not understand the request")
		return
	}

	cacheKey := uri // exact request-URI as received, before parsing

	if hit, err := s.Cache.Serve(ctx, cacheKey, conn); err == nil && hit {
		return
	}

	hostLine, passthrough, err := readHeaders(reader)
	if err != nil {
		return
	}

	origin, err := s.Dial(ctx, "tcp", fmt.Sprintf("%s:%d", target.Host, target.Port))
	if err != nil {
		return
	}
	defer origin.Close()

	if err := writeUpstreamRequest(origin, target, hostLine, passthrough); err != nil {
		return
	}

	s.relayResponse(ctx, conn, origin, cacheKey)
}

// parseRequestLine splits a request line of the form "METHOD URI VERSION".
func parseRequestLine(line string) (method, uri, version string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", "", "", false
	}
	return fields[0], fields[1], fields[2], true
}

// readHeaders consumes header lines up to the terminating blank line. It
// returns the client's Host header verbatim (if any), and every other
// header that isn't one of the six the proxy always overrides.
func readHeaders(reader *bufio.Reader) (hostLine string, passthrough []string, err error) {
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", nil, err
		}
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed == "" {
			return hostLine, passthrough, nil
		}
		if strings.HasPrefix(trimmed, "Host:") {
			hostLine = trimmed
			continue
		}
		if isFixedHeader(trimmed) {
			continue
		}
		passthrough = append(passthrough, trimmed)
	}
}

func isFixedHeader(line string) bool {
	for _, prefix := range fixedHeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// writeUpstreamRequest emits the rewritten request line and headers: the
// request line always targets HTTP/1.0, the Host header uses the
// client's own value when given (else one synthesized from the
// parsed target), the other five fixed headers always use the proxy's
// canonical values, and every other client header is passed through
// verbatim.
func writeUpstreamRequest(w io.Writer, target RequestTarget, hostLine string, passthrough []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "GET %s HTTP/1.0\r\n", target.Path)

	if hostLine != "" {
		fmt.Fprintf(&b, "%s\r\n", hostLine)
	} else {
		fmt.Fprintf(&b, "Host: %s\r\n", target.Host)
	}

	for _, h := range []string{userAgentHeader, acceptHeader, acceptEncodingHeader, connectionHeader, proxyConnectionHeader} {
		fmt.Fprintf(&b, "%s\r\n", h)
	}
	for _, h := range passthrough {
		fmt.Fprintf(&b, "%s\r\n", h)
	}
	b.WriteString("\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// relayResponse streams origin's response to the client byte-for-byte as
// it arrives while accumulating up to MaxObjectSize bytes; on a complete
// response within that cap it inserts the accumulated bytes into the
// cache under cacheKey. Responses that exceed the cap are still relayed
// in full but never cached.
func (s *Server) relayResponse(ctx context.Context, client io.Writer, origin io.Reader, cacheKey string) {
	buf := make([]byte, 32*1024)
	var accumulated []byte
	fits := true

	for {
		n, readErr := origin.Read(buf)
		if n > 0 {
			if fits {
				if len(accumulated)+n > cache.MaxObjectSize {
					fits = false
					accumulated = nil
				} else {
					accumulated = append(accumulated, buf[:n]...)
				}
			}
			if _, writeErr := client.Write(buf[:n]); writeErr != nil {
				return
			}
		}
		if readErr != nil {
			break
		}
	}

	if fits && len(accumulated) > 0 {
		if err := s.Cache.Insert(ctx, cacheKey, accumulated); err != nil {
			logging.Debug("proxy: response not cached", "url", cacheKey, "err", err)
		}
	}
}
