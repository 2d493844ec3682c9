package httpproxy

// Fixed request headers the proxy emits to the origin exactly once each.
// Every header here except Host uses a proxy-supplied value regardless
// of what the client sent.
const (
	userAgentHeader        = "User-Agent: Mozilla/5.0 (X11; Linux x86_64; rv:10.0.3) Gecko/20120305 Firefox/10.0.3"
	acceptHeader           = "Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptEncodingHeader   = "Accept-Encoding: gzip, deflate"
	connectionHeader       = "Connection: close"
	proxyConnectionHeader  = "Proxy-Connection: close"
	httpVersionForUpstream = "HTTP/1.0"
)

// fixedHeaderPrefixes are the header names the proxy always overrides
// (Host uses the client's value, the rest use the proxy's fixed value
// above). A client header matching one of these by prefix is dropped
// rather than forwarded verbatim.
var fixedHeaderPrefixes = []string{
	"Host:",
	"User-Agent:",
	"Accept:",
	"Accept-Encoding:",
	"Connection:",
	"Proxy-Connection:",
}
