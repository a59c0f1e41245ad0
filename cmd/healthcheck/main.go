// Package main provides a lightweight health check utility for Docker
// containers. It is statically compiled for scratch-based images where
// wget and curl are unavailable.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const (
	defaultPort    = "3001"
	requestTimeout = 5 * time.Second
	exitSuccess    = 0
	exitFailure    = 1
)

// buildAddress returns the loopback TCP address for the given port. It uses
// 127.0.0.1 instead of localhost because scratch images have no /etc/hosts.
func buildAddress(port string) string {
	return "127.0.0.1:" + port
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	healthURL := fmt.Sprintf("http://%s/health", buildAddress(port))

	client := &http.Client{
		Timeout: requestTimeout,
	}

	resp, err := client.Get(healthURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(exitFailure)
	}
	// defer won't run past os.Exit, close explicitly
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check returned non-OK status: %d\n", resp.StatusCode)
		os.Exit(exitFailure)
	}

	os.Exit(exitSuccess)
}
