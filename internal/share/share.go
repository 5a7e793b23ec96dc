// Package share renders the address of the web form as a QR code so that
// tasters can open it from a phone.
package share

import (
	"errors"
	"fmt"
	"net"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/tastingclub/tastings/internal/config"
)

// DefaultPNGSize is the side length in pixels of generated images.
const DefaultPNGSize = 256

// URL returns the address tasters should open: the configured public URL, or
// an http URL built from the listen address.
func URL(cfg config.ServerConfig) (string, error) {
	if u := strings.TrimSpace(cfg.PublicURL); u != "" {
		return u, nil
	}
	if cfg.Listen == "" {
		return "", errors.New("share: neither public url nor listen address is set")
	}

	host, port, err := net.SplitHostPort(cfg.Listen)
	if err != nil {
		return "", fmt.Errorf("share: invalid listen address %q: %w", cfg.Listen, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/", nil
}

// Terminal renders url as a QR code made of block characters.
func Terminal(url string) (string, error) {
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("share: encode %q: %w", url, err)
	}
	return code.ToSmallString(false), nil
}

// PNG renders url as a square PNG image of size pixels.
func PNG(url string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultPNGSize
	}
	png, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("share: encode %q: %w", url, err)
	}
	return png, nil
}
