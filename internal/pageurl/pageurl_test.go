package pageurl

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP://Example.COM:80/foo/bar?b=2&a=1#frag", "http://example.com/foo/bar?b=2&a=1"},
		{"https://example.com:443/index.html#section", "https://example.com/index.html"},
		{"example.com/page?utm_source=x&utm_medium=y&z=1", "https://example.com/page?z=1"},
		{"https://例え.テスト/a", "https://xn--r8jz45g.xn--zckzah/a"},
		{"http://127.0.0.1:5000/demo/articles/miracle-cure", "http://127.0.0.1:5000/demo/articles/miracle-cure"},
		{"https://user:pw@news.example", "https://news.example/"},
		{"  news.example/a?fbclid=abc  ", "https://news.example/a"},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"ftp://example.com/file", ErrScheme},
		{"https:///nohost", ErrMissingHost},
	}
	for _, tt := range tests {
		if _, err := Normalize(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("Normalize(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}
