package httpproxy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/darganad/Introduction-to-ComputerSystems/internal/cache"
	"github.com/stretchr/testify/require"
)

// startProxy spins up a Server on an ephemeral port and returns its
// address plus a cancel func that shuts the accept loop down.
func startProxy(t *testing.T) (addr string, shutdown func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr = ln.Addr().String()
	ln.Close()

	s := NewServer(0)
	s.Addr = addr

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = s.ListenAndServe(ctx)
		close(done)
	}()

	// Give the listener a moment to bind.
	for i := 0; i < 50; i++ {
		if conn, err := net.Dial("tcp", addr); err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	return addr, func() {
		cancel()
		<-done
	}
}

func sendRawGET(t *testing.T, proxyAddr, absoluteURI string) (status string, body string) {
	t.Helper()
	conn, err := net.Dial("tcp", proxyAddr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: ignored\r\n\r\n", absoluteURI)
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)

	rest, _ := io.ReadAll(reader)
	return strings.TrimRight(statusLine, "\r\n"), string(rest)
}

func TestProxyRelaysGETFromOrigin(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "hello from origin")
	}))
	defer origin.Close()

	proxyAddr, shutdown := startProxy(t)
	defer shutdown()

	uri := "http://" + origin.Listener.Addr().String() + "/greet"
	status, body := sendRawGET(t, proxyAddr, uri)

	require.Equal(t, "HTTP/1.0 200 OK", status)
	require.Contains(t, body, "hello from origin")
}

func TestProxyCachesSecondRequestWithoutHittingOriginAgain(t *testing.T) {
	hits := 0
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "cached body")
	}))
	defer origin.Close()

	proxyAddr, shutdown := startProxy(t)
	defer shutdown()

	uri := "http://" + origin.Listener.Addr().String() + "/page"
	_, body1 := sendRawGET(t, proxyAddr, uri)
	// The proxy inserts into the cache before closing the first
	// connection; this pause is only an extra margin.
	time.Sleep(50 * time.Millisecond)
	_, body2 := sendRawGET(t, proxyAddr, uri)

	require.Contains(t, body1, "cached body")
	require.Equal(t, body1, body2)
	require.Equal(t, 1, hits, "second request should be served from cache, not the origin")
}

func TestProxyRejectsNonGETMethod(t *testing.T) {
	proxyAddr, shutdown := startProxy(t)
	defer shutdown()

	conn, err := net.Dial("tcp", proxyAddr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintf(conn, "POST http://example.com/ HTTP/1.1\r\nHost: example.com\r\n\r\n")
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Contains(t, statusLine, "501")
}

func TestProxyRejectsMalformedURI(t *testing.T) {
	proxyAddr, shutdown := startProxy(t)
	defer shutdown()

	conn, err := net.Dial("tcp", proxyAddr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintf(conn, "GET not-a-valid-uri HTTP/1.1\r\nHost: x\r\n\r\n")
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Contains(t, statusLine, "400")
}

// TestProxyEvictsLeastRecentlyUsedWhenCacheFillsUp fills the cache with
// near-full-size objects until no more room remains, forces an eviction
// with one more, and checks that the evicted URL's next request is a
// genuine origin fetch rather than a cache hit.
func TestProxyEvictsLeastRecentlyUsedWhenCacheFillsUp(t *testing.T) {
	// The cached bytes are the whole response, status line and headers
	// included, so the body leaves 1024 bytes of MaxObjectSize for them.
	const objectSize = cache.MaxObjectSize - 1024

	var mu sync.Mutex
	hits := make(map[string]int)

	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		mu.Unlock()
		marker := r.URL.Path[len(r.URL.Path)-1:]
		object := strings.Repeat(marker, objectSize)
		w.Header().Set("Content-Length", strconv.Itoa(len(object)))
		io.WriteString(w, object)
	}))
	defer origin.Close()

	proxyAddr, shutdown := startProxy(t)
	defer shutdown()

	pathFor := func(i int) string { return fmt.Sprintf("/obj-%c", 'A'+rune(i)) }
	urlFor := func(i int) string {
		return "http://" + origin.Listener.Addr().String() + pathFor(i)
	}
	objectFor := func(i int) string {
		marker := string('A' + rune(i))
		return strings.Repeat(marker, objectSize)
	}

	// Ten such responses take between 1,013,760 and 1,024,000 bytes,
	// leaving at most 35,240 of the 1,049,000-byte budget — not enough for
	// an eleventh one without evicting something.
	const fillCount = 10
	for i := 0; i < fillCount; i++ {
		_, body := sendRawGET(t, proxyAddr, urlFor(i))
		require.Contains(t, body, objectFor(i))
		time.Sleep(5 * time.Millisecond)
	}

	// The eleventh object forces eviction of the least recently used
	// entry — obj-A, the first one fetched above.
	_, body := sendRawGET(t, proxyAddr, urlFor(fillCount))
	require.Contains(t, body, objectFor(fillCount))
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	hitsSoFar := hits[pathFor(0)]
	mu.Unlock()
	require.Equal(t, 1, hitsSoFar, "evicted URL should have been fetched exactly once so far")

	_, body = sendRawGET(t, proxyAddr, urlFor(0))
	require.Contains(t, body, objectFor(0))

	mu.Lock()
	hitsAfter := hits[pathFor(0)]
	mu.Unlock()
	require.Equal(t, 2, hitsAfter, "evicted URL must be fetched fresh from the origin, not served from cache")
}

func TestWriteUpstreamRequestUsesFixedHeadersAndClientHost(t *testing.T) {
	var b strings.Builder
	target := RequestTarget{Host: "example.com", Port: 80, Path: "/x"}

	err := writeUpstreamRequest(&b, target, "Host: example.com", []string{"Cookie: a=b"})
	require.NoError(t, err)

	out := b.String()
	require.Contains(t, out, "GET /x HTTP/1.0\r\n")
	require.Contains(t, out, "Host: example.com\r\n")
	require.Contains(t, out, userAgentHeader+"\r\n")
	require.Contains(t, out, acceptHeader+"\r\n")
	require.Contains(t, out, acceptEncodingHeader+"\r\n")
	require.Contains(t, out, connectionHeader+"\r\n")
	require.Contains(t, out, proxyConnectionHeader+"\r\n")
	require.Contains(t, out, "Cookie: a=b\r\n")
	require.True(t, strings.HasSuffix(out, "\r\n\r\n"))
}

func TestWriteUpstreamRequestSynthesizesHostWhenClientOmitsIt(t *testing.T) {
	var b strings.Builder
	target := RequestTarget{Host: "example.com", Port: 80, Path: "/"}

	err := writeUpstreamRequest(&b, target, "", nil)
	require.NoError(t, err)
	require.Contains(t, b.String(), "Host: example.com\r\n")
}
