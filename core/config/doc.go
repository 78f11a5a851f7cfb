// Package config provides configuration management for the application.
//
// It utilizes Viper for loading configuration from environment variables,
// an optional .env file, and struct-tag defaults.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Log: Logging level and format
//   - Reader: upload size limit and CSV defaults
//   - Merge: merge method and fill defaults
//   - Export: enabled output formats
//   - Storage: S3/MinIO credentials for the export archive
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
