// Command keygen generates an RSA signing key pair and prints it as the
// JSON document the secret store expects. Upload the output as the
// configured secret, e.g.:
//
//	keygen | aws secretsmanager create-secret --name PubPrivKeys --secret-string file:///dev/stdin
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"log"
	"os"
)

const keyBits = 2048

type secretDocument struct {
	PrivateKey string `json:"id_rsa_priv"`
	PublicKey  string `json:"id_rsa_pub"`
}

func main() {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		log.Fatalf("key generation failed: %v", err)
	}

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PUBLIC KEY",
		Bytes: x509.MarshalPKCS1PublicKey(&key.PublicKey),
	})

	doc := secretDocument{
		PrivateKey: string(privPEM),
		PublicKey:  string(pubPEM),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		log.Fatalf("encoding failed: %v", err)
	}
}
