//go:build !linux && !darwin && !mock

package main

import (
	"fmt"

	"github.com/shazow/wifichan/wifi"
)

// GetBackend returns an error for unsupported operating systems.
func GetBackend() (wifi.Backend, error) {
	return nil, fmt.Errorf("unsupported operating system: %w", wifi.ErrNotSupported)
}
