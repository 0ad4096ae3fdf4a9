package config

import (
	"flag"
	"os"

	"github.com/feepo/feepo/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-d string     PostgreSQL DSN
//	-r string     AWS region
//	-n string     Secrets Manager secret name
//	-b string     S3 bucket name
//	-e string     S3 base endpoint (S3-compatible backends only)
//	-p duration   presigned upload-URL validity
//	-t duration   bearer token validity
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-n", "-b", "-e", "-p", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AWSRegion, "r", config.AWSRegion, "AWS region")
	fs.StringVar(&config.SecretName, "n", config.SecretName, "Secrets Manager secret name")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.DurationVar(&config.PresignExpiry, "p", config.PresignExpiry, "presigned URL validity")
	fs.DurationVar(&config.TokenValidityDuration, "t", config.TokenValidityDuration, "token validity")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
