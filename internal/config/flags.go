package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-db local SQLite database path
//	-mirror-dir user-granted mirror directory
//	-remote-dsn remote metadata database DSN
//	-s3-bucket remote photo bucket
//	-s3-region remote photo bucket region
//	-s3-endpoint custom S3 endpoint (MinIO etc.)
//	-c/-config json file path with configs
//	-token-verify-key session token verification key
//	-token-issuer expected session token issuer
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var serverAddress string
	var dbPath string
	var mirrorDir string
	var remoteDSN string
	var s3Bucket string
	var s3Region string
	var s3Endpoint string
	var jsonConfigPath string
	var tokenVerifyKey string
	var tokenIssuer string
	var requestTimeout time.Duration

	flag.StringVar(&serverAddress, "a", "", "Net address host:port")
	flag.StringVar(&dbPath, "db", "", "Local SQLite database path")
	flag.StringVar(&mirrorDir, "mirror-dir", "", "Mirror directory path")
	flag.StringVar(&remoteDSN, "remote-dsn", "", "Remote metadata database DSN")
	flag.StringVar(&s3Bucket, "s3-bucket", "", "Remote photo bucket")
	flag.StringVar(&s3Region, "s3-region", "", "Remote photo bucket region")
	flag.StringVar(&s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint URL")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&tokenVerifyKey, "token-verify-key", "", "Session token verification key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Expected session token issuer")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenVerifyKey: tokenVerifyKey,
			TokenIssuer:    tokenIssuer,
		},
		Storage: Storage{
			DB: ClientDB{
				Path: dbPath,
			},
			Mirror: Mirror{
				Dir: mirrorDir,
			},
		},
		Remote: Remote{
			DSN: remoteDSN,
			S3: S3{
				Region:   s3Region,
				Bucket:   s3Bucket,
				Endpoint: s3Endpoint,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress,
			RequestTimeout: requestTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
