// Package secrets loads the token-signing keypair (and related secret
// material) from AWS Secrets Manager at process startup.
//
// Keeping the keys in an external secret store means any instance with
// valid AWS credentials obtains the same keypair, so token verification
// stays stateless across horizontally scaled replicas.
package secrets

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Keypair is an immutable handle to the RSA signing keys. It is created
// once during startup and only read afterwards, so unsynchronized
// concurrent access is safe.
type Keypair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// NewKeypair wraps an already parsed key pair.
func NewKeypair(private *rsa.PrivateKey, public *rsa.PublicKey) *Keypair {
	return &Keypair{private: private, public: public}
}

func (k *Keypair) PrivateKey() *rsa.PrivateKey { return k.private }

func (k *Keypair) PublicKey() *rsa.PublicKey { return k.public }

// Material is everything the secret store provides at startup.
type Material struct {
	Keys *Keypair
	// DatabaseAddr optionally overrides the configured database DSN.
	DatabaseAddr string
}

// secretPayload mirrors the JSON document stored in Secrets Manager.
type secretPayload struct {
	PrivateKeyPEM string `json:"id_rsa_priv"`
	PublicKeyPEM  string `json:"id_rsa_pub"`
	DatabaseAddr  string `json:"db_address"`
}

type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Provider fetches secret material from AWS Secrets Manager.
type Provider struct {
	client     secretValueGetter
	secretName string
}

// NewAWSProvider builds a Provider for the given region and secret name
// using the default AWS credential chain.
func NewAWSProvider(ctx context.Context, region, secretName string) (*Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &Provider{
		client:     secretsmanager.NewFromConfig(cfg),
		secretName: secretName,
	}, nil
}

// Fetch retrieves and parses the secret. Any failure here is a
// startup-fatal condition for callers: the process must not serve
// traffic without the signing keys.
func (p *Provider) Fetch(ctx context.Context) (*Material, error) {
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching secret %q: %w", p.secretName, err)
	}
	if out.SecretString == nil {
		return nil, fmt.Errorf("secret %q has no string payload", p.secretName)
	}

	var payload secretPayload
	if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
		return nil, fmt.Errorf("parsing secret %q: %w", p.secretName, err)
	}

	keys, err := ParseKeypair(payload.PrivateKeyPEM, payload.PublicKeyPEM)
	if err != nil {
		return nil, err
	}

	return &Material{Keys: keys, DatabaseAddr: payload.DatabaseAddr}, nil
}

// ParseKeypair decodes a PEM-encoded RSA private/public key pair.
func ParseKeypair(privPEM, pubPEM string) (*Keypair, error) {
	private, err := parsePrivateKey(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	public, err := parsePublicKey(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	return &Keypair{private: private, public: public}, nil
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return key, nil
}

func parsePublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return key, nil
}
