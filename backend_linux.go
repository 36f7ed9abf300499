//go:build linux && !mock

package main

import (
	"log/slog"

	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/iwd"
	"github.com/shazow/wifichan/wifi/networkmanager"
)

func GetBackend() (wifi.Backend, error) {
	b, err := networkmanager.New()
	if err == nil {
		return b, nil
	}
	slog.Warn("failed to initialize networkmanager backend, falling back to iwd", "error", err)
	// If networkmanager dbus backend failed to initialize, try the iwd backend
	return iwd.New()
}
