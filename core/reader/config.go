package reader

// Config holds configuration for file ingestion.
type Config struct {
	// MaxFileSizeMB is the upload size limit in megabytes.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" default:"100"`
	// Delimiter is the default CSV delimiter when sniffing fails.
	Delimiter string `mapstructure:"delimiter" default:","`
	// Encoding is the default text encoding for CSV files.
	// Empty means UTF-8.
	Encoding string `mapstructure:"encoding" default:""`
}

// MaxBytes returns the size limit in bytes.
func (c Config) MaxBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}
