package middleware

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
)

// IPAllowList matches client addresses against single IPs and CIDR ranges
type IPAllowList struct {
	prefixes []netip.Prefix
}

// ParseIPAllowList parses entries such as "10.0.0.0/8" or "192.168.1.5".
// A malformed entry is an error rather than a silently open hole.
func ParseIPAllowList(entries []string) (*IPAllowList, error) {
	list := &IPAllowList{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid CIDR %q: %w", entry, err)
			}
			list.prefixes = append(list.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP %q: %w", entry, err)
		}
		addr = addr.Unmap()
		list.prefixes = append(list.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return list, nil
}

// Empty reports whether the list restricts nothing
func (l *IPAllowList) Empty() bool {
	return l == nil || len(l.prefixes) == 0
}

// Allows reports whether ip falls inside any entry. Unparseable input is refused.
func (l *IPAllowList) Allows(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// DocsGuard protects the API documentation. Disabled docs answer 404. The
// IP allow list and the bearer token (via auth) apply independently.
func DocsGuard(cfg config.SwaggerConfig, auth gin.HandlerFunc) (gin.HandlerFunc, error) {
	allow, err := ParseIPAllowList(cfg.AllowedIPs)
	if err != nil {
		return nil, fmt.Errorf("swagger allowed_ips: %w", err)
	}

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.AbortWithStatusJSON(http.StatusNotFound,
				dto.NewErrorResponse(dto.ErrCodeNotFound, "API documentation is not available"))
			return
		}

		if !allow.Empty() && !allow.Allows(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Access to API documentation is restricted"))
			return
		}

		if cfg.RequireAuth && auth != nil {
			auth(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}, nil
}
