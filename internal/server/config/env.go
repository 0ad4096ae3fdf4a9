package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig uses pointer fields so only variables actually present in
// the environment override earlier layers.
type envConfig struct {
	Address               *string        `env:"ADDRESS"`
	DatabaseDSN           *string        `env:"DATABASE_DSN"`
	AWSRegion             *string        `env:"AWS_REGION"`
	SecretName            *string        `env:"AWS_SECRET_NAME"`
	S3Bucket              *string        `env:"S3_BUCKET"`
	S3BaseEndpoint        *string        `env:"S3_BASE_ENDPOINT"`
	S3AccessKeyID         *string        `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey     *string        `env:"S3_SECRET_ACCESS_KEY"`
	PresignExpiry         *time.Duration `env:"PRESIGN_EXPIRY"`
	TokenValidityDuration *time.Duration `env:"TOKEN_VALIDITY_DURATION"`
	StartupTimeout        *time.Duration `env:"STARTUP_TIMEOUT"`
}

func parseEnv(config *Config) {
	c := envConfig{}
	if err := env.Parse(&c); err != nil {
		panic(err)
	}

	if c.Address != nil {
		config.Address = *c.Address
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.AWSRegion != nil {
		config.AWSRegion = *c.AWSRegion
	}
	if c.SecretName != nil {
		config.SecretName = *c.SecretName
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
	if c.S3AccessKeyID != nil {
		config.S3AccessKeyID = *c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != nil {
		config.S3SecretAccessKey = *c.S3SecretAccessKey
	}
	if c.PresignExpiry != nil {
		config.PresignExpiry = *c.PresignExpiry
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = *c.TokenValidityDuration
	}
	if c.StartupTimeout != nil {
		config.StartupTimeout = *c.StartupTimeout
	}
}
