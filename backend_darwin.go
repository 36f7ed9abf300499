//go:build darwin && !mock

package main

import (
	"github.com/shazow/wifichan/wifi"
	"github.com/shazow/wifichan/wifi/darwin"
)

func GetBackend() (wifi.Backend, error) {
	return darwin.New()
}
