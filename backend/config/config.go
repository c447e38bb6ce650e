package config

import (
	"strings"

	"github.com/storydeck/marketplace/storydeck"
)

// WebAppConfig contains web-specific configuration
type WebAppConfig struct {
	Config  *storydeck.Config
	Version string
	Commit  string
}

// NewWebAppConfig creates a new web app configuration
func NewWebAppConfig(cfg *storydeck.Config, version, commit string) *WebAppConfig {
	return &WebAppConfig{
		Config:  cfg,
		Version: version,
		Commit:  commit,
	}
}

// SessionKey returns the HMAC key identity tokens are signed with
func (w *WebAppConfig) SessionKey() []byte {
	return []byte(w.Config.Web.SessionKey)
}

// SecureCookies reports whether cookies must carry the Secure flag
func (w *WebAppConfig) SecureCookies() bool {
	return w.Config.Web.IsProduction()
}

// AllowedOrigins returns the CORS origin list in fiber's comma separated form
func (w *WebAppConfig) AllowedOrigins() string {
	if len(w.Config.Web.AllowedOrigins) == 0 {
		return "http://localhost:3000"
	}
	return strings.Join(w.Config.Web.AllowedOrigins, ",")
}
