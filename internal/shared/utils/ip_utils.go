package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ExtractClientIP returns the caller address, preferring the first valid
// entry of X-Forwarded-For, then X-Real-IP, then RemoteAddr.
func ExtractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if isValidIP(first) {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); isValidIP(xri) {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if isValidIP(ip) {
		return ip
	}

	return "127.0.0.1"
}

func isValidIP(ip string) bool {
	_, err := netip.ParseAddr(ip)
	return err == nil
}
