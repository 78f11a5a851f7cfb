package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the request body size in megabytes. Uploads
	// larger than this are rejected before they reach a handler, so
	// it must be at least the reader's file size limit.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"128"`
}

// BodyLimitBytes returns the request body cap in bytes.
func (c Config) BodyLimitBytes() int {
	limit := c.BodyLimitMB
	if limit <= 0 {
		limit = 128
	}
	return limit * 1024 * 1024
}
