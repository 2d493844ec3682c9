package httpproxy

import (
	"fmt"
	"io"
)

// clientError renders a minimal HTML error page and writes it to w along
// with the matching status line and headers.
func clientError(w io.Writer, cause, code, shortMsg, longMsg string) error {
	body := fmt.Sprintf(
		"<html><title>Proxy Server Error</title>"+
			"<body bgcolor=\"ffffff\">\r\n"+
			"%s: %s\r\n"+
			"<p>%s: %s\r\n"+
			"<hr><em>Go Proxy Server</em>\r\n",
		code, shortMsg, longMsg, cause,
	)

	status := fmt.Sprintf("HTTP/1.0 %s %s\r\n", code, shortMsg)
	headers := fmt.Sprintf("Content-type: text/html\r\nContent-length: %d\r\n\r\n", len(body))

	if _, err := io.WriteString(w, status); err != nil {
		return err
	}
	if _, err := io.WriteString(w, headers); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}
