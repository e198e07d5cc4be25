package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

const defaultAddr = "127.0.0.1:8080"

func main() {
	os.Exit(check(normalizeAddr(os.Getenv("MYFOLIOPANEL_LISTEN_ADDR"))))
}

// check returns 0 when the server answers the health endpoint and has
// finished loading portfolio data.
func check(addr string) int {
	client := &http.Client{Timeout: 2 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("http://%s/api/v1/health", addr), nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var body struct {
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.State != "ready" {
		return 1
	}

	return 0
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Docker containers bind 0.0.0.0 but the healthcheck runs
// inside the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return defaultAddr
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return defaultAddr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
