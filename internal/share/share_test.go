package share

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tastingclub/tastings/internal/config"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ServerConfig
		want string
	}{
		{"public url wins", config.ServerConfig{Listen: "127.0.0.1:8501", PublicURL: "https://club.example/"}, "https://club.example/"},
		{"listen address", config.ServerConfig{Listen: "127.0.0.1:8501"}, "http://127.0.0.1:8501/"},
		{"wildcard host", config.ServerConfig{Listen: ":9000"}, "http://localhost:9000/"},
		{"any address", config.ServerConfig{Listen: "0.0.0.0:80"}, "http://localhost:80/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URL(tt.cfg)
			if err != nil {
				t.Fatalf("URL returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestURLRequiresAddress(t *testing.T) {
	if _, err := URL(config.ServerConfig{}); err == nil {
		t.Fatalf("expected error without listen address")
	}
	if _, err := URL(config.ServerConfig{Listen: "nonsense"}); err == nil {
		t.Fatalf("expected error for listen address without port")
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("http://localhost:8501/")
	if err != nil {
		t.Fatalf("Terminal returned error: %v", err)
	}
	if strings.Count(out, "\n") < 10 {
		t.Fatalf("expected a multi-line code, got %q", out)
	}
}

func TestPNG(t *testing.T) {
	img, err := PNG("http://localhost:8501/", 0)
	if err != nil {
		t.Fatalf("PNG returned error: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("expected PNG signature")
	}
}
