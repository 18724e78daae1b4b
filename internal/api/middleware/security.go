package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/portfolio-site/internal/config"
)

// SecureHeaders sets the browser hardening headers on every response. HSTS
// is only sent in production.
func SecureHeaders(conf *config.SecurityConfig, production bool) gin.HandlerFunc {
	c := secure.Config{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		IENoOpen:              true,
		ContentSecurityPolicy: conf.ContentSecurityPolicy,
		ReferrerPolicy:        "no-referrer",
	}
	if production {
		c.STSSeconds = conf.HSTSSeconds
		c.STSIncludeSubdomains = true
		c.SSLProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
	}

	return secure.New(c)
}
