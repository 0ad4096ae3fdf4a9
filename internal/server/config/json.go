package config

import (
	"encoding/json"
	"os"

	"github.com/feepo/feepo/internal/flagx"
	"github.com/feepo/feepo/internal/timex"
)

// JsonConfig is the DTO used for reading JSON configuration files. It
// uses timex.Duration for interval fields, which accepts both string
// values such as "90s" and integer nanoseconds. After unmarshalling,
// non-empty values are copied into the runtime Config.
type JsonConfig struct {
	Address               string         `json:"address"`
	DatabaseDSN           string         `json:"database_dsn"`
	AWSRegion             string         `json:"aws_region"`
	SecretName            string         `json:"aws_secret_name"`
	S3Bucket              string         `json:"s3_bucket"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	S3AccessKeyID         string         `json:"s3_access_key_id"`
	S3SecretAccessKey     string         `json:"s3_secret_access_key"`
	PresignExpiry         timex.Duration `json:"presign_expiry"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	StartupTimeout        timex.Duration `json:"startup_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config command-line flags. When neither flag is set, nothing is
// loaded. Fields absent from the file keep their current values. An
// unreadable or invalid file panics: a config file that was explicitly
// requested must not be silently ignored.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AWSRegion != "" {
		config.AWSRegion = c.AWSRegion
	}
	if c.SecretName != "" {
		config.SecretName = c.SecretName
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.S3AccessKeyID != "" {
		config.S3AccessKeyID = c.S3AccessKeyID
	}
	if c.S3SecretAccessKey != "" {
		config.S3SecretAccessKey = c.S3SecretAccessKey
	}
	if c.PresignExpiry.Duration != 0 {
		config.PresignExpiry = c.PresignExpiry.Duration
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.StartupTimeout.Duration != 0 {
		config.StartupTimeout = c.StartupTimeout.Duration
	}
}
