// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structures and valid values for server settings,
// such as the request body cap for uploads.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the request body
// size limit applied by Fiber.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the application startup to size the Fiber body limit.
package server
