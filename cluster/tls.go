package cluster

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/pkcs12"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// defaultKeyAlias is preferred when a key store holds several keys and no
// alias was requested.
const defaultKeyAlias = "client"

// buildTLSConfig loads trust and key material for the secure transport.
//
// Stores may be PEM files or PKCS#12 archives. An empty trust store means the
// system roots.
func buildTLSConfig(opts *dsn.TLSConfig) (*tls.Config, error) {
	cfg := &tls.Config{
		MinVersion:         opts.MinVersion,
		CipherSuites:       opts.CipherSuites,
		InsecureSkipVerify: !opts.VerifyServerCertificate, //nolint:gosec // explicit opt-out via verifyservercertificate=false
	}

	if opts.TrustStore != "" {
		pool, err := loadTrustStore(opts.TrustStore, opts.TrustStorePassword)
		if err != nil {
			return nil, secureTransportError(fmt.Errorf("trust store %s: %w", opts.TrustStore, err))
		}
		cfg.RootCAs = pool
	}

	if opts.KeyStore != "" {
		cert, err := loadKeyStore(opts.KeyStore, opts.KeyStorePassword, opts.KeyAlias)
		if err != nil {
			return nil, secureTransportError(fmt.Errorf("key store %s: %w", opts.KeyStore, err))
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

func secureTransportError(cause error) error {
	return &types.ConnectError{Kind: types.ErrSecureTransport, Cause: cause}
}

func isPEM(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("-----BEGIN"))
}

func loadTrustStore(path, password string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	if isPEM(data) {
		if !pool.AppendCertsFromPEM(data) {
			return nil, errors.New("no certificates found")
		}

		return pool, nil
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, fmt.Errorf("decode PKCS#12: %w", err)
	}
	found := 0
	for _, block := range blocks {
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		pool.AddCert(cert)
		found++
	}
	if found == 0 {
		return nil, errors.New("no certificates found")
	}

	return pool, nil
}

func loadKeyStore(path, password, alias string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, err
	}

	if isPEM(data) {
		return tls.X509KeyPair(data, data)
	}

	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode PKCS#12: %w", err)
	}

	return selectKeyPair(blocks, alias)
}

// selectKeyPair picks one private key and its certificates out of a
// converted PKCS#12 archive. Entries are matched on the localKeyId header;
// the key is chosen by alias, then the "client" alias, then the first key.
func selectKeyPair(blocks []*pem.Block, alias string) (tls.Certificate, error) {
	var keys []*pem.Block
	for _, b := range blocks {
		if b.Type == "PRIVATE KEY" {
			keys = append(keys, b)
		}
	}
	if len(keys) == 0 {
		return tls.Certificate{}, errors.New("no private key found")
	}

	key := keys[0]
	if alias != "" {
		key = nil
		for _, k := range keys {
			if k.Headers["friendlyName"] == alias {
				key = k
				break
			}
		}
		if key == nil {
			return tls.Certificate{}, fmt.Errorf("alias %q not found", alias)
		}
	} else {
		for _, k := range keys {
			if k.Headers["friendlyName"] == defaultKeyAlias {
				key = k
				break
			}
		}
	}

	var leaf, chain []byte
	keyID := key.Headers["localKeyId"]
	for _, b := range blocks {
		if b.Type != "CERTIFICATE" {
			continue
		}
		encoded := pem.EncodeToMemory(&pem.Block{Type: b.Type, Bytes: b.Bytes})
		id, ok := b.Headers["localKeyId"]
		switch {
		case ok && id == keyID:
			leaf = append(leaf, encoded...)
		case !ok:
			// CA certificates carry no key id.
			chain = append(chain, encoded...)
		}
	}
	certPEM := append(leaf, chain...)

	return tls.X509KeyPair(certPEM, pem.EncodeToMemory(&pem.Block{Type: key.Type, Bytes: key.Bytes}))
}
