package config

const (
	// DefaultDatabasePath is the default path for the extraction audit database
	DefaultDatabasePath = "./fastreed.db"

	// DefaultMaxFileSize is the upload cap (10 MiB)
	DefaultMaxFileSize = 10 * 1024 * 1024

	// DefaultRSVPSpeed is the pacing, in words per minute, used when a request omits it
	DefaultRSVPSpeed = 300
)
