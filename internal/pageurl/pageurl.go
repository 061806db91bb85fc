// Package pageurl normalizes the page addresses a user types when opening
// a tab, so "News.Example/a?utm_source=x" loads and scans as
// "https://news.example/a".
package pageurl

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmpty       = errors.New("empty url")
	ErrMissingHost = errors.New("missing host")
	ErrScheme      = errors.New("unsupported scheme")
)

// DefaultScheme is assumed for schemeless input.
const DefaultScheme = "https"

// Tracking query params removed by Normalize.
var trackingParams = map[string]struct{}{
	"utm_source": {}, "utm_medium": {}, "utm_campaign": {}, "utm_term": {}, "utm_content": {},
	"gclid": {}, "fbclid": {}, "mc_cid": {}, "mc_eid": {},
}

// Normalize returns an absolute http(s) URL for raw. It lowercases the
// scheme and host, converts IDN hosts to punycode, drops default ports,
// credentials, the fragment and tracking params. The path and the order of
// the remaining query params are kept.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}
	if !strings.Contains(raw, "://") {
		raw = DefaultScheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: %s", ErrScheme, u.Scheme)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%q: %w", raw, ErrMissingHost)
	}

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	switch port := u.Port(); {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		u.Host = host
	default:
		u.Host = net.JoinHostPort(host, port)
	}

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawQuery = dropTracking(u.RawQuery)
	return u.String(), nil
}

// dropTracking filters the raw query pair by pair so untouched params keep
// their original encoding and order.
func dropTracking(rawQuery string) string {
	if rawQuery == "" {
		return ""
	}
	kept := make([]string, 0, strings.Count(rawQuery, "&")+1)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if _, ok := trackingParams[strings.ToLower(key)]; ok {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}
