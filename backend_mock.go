//go:build mock

package main

import (
	"github.com/shazow/wifichan/wifi"
	mockBackend "github.com/shazow/wifichan/wifi/mock"
)

func GetBackend() (wifi.Backend, error) {
	return mockBackend.New()
}
