// Command healthcheck probes the local server's health endpoint and exits
// non-zero unless it answers {"status":"ok"}. It is the container HEALTHCHECK.
package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultAddr   = "127.0.0.1:8080"
	probeTimeout  = 2 * time.Second
	maxHealthBody = 64 << 10
)

func main() {
	os.Exit(check(normalizeAddr(os.Getenv("LEDGERDESK_LISTEN_ADDR"))))
}

func check(addr string) int {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/v1/health", addr), nil)
	if err != nil {
		return 1
	}

	resp, err := (&http.Client{Timeout: probeTimeout}).Do(req)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	if err != nil || gjson.GetBytes(body, "status").String() != "ok" {
		return 1
	}
	return 0
}

// normalizeAddr points the probe at loopback when the server binds all
// interfaces; the probe runs inside the same container.
func normalizeAddr(raw string) string {
	host, port, err := net.SplitHostPort(raw)
	if raw == "" || err != nil {
		return defaultAddr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
