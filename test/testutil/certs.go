package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// PKI is a throwaway certificate authority with one server and one client
// certificate, written to PEM files in a test directory.
type PKI struct {
	// CAFile holds the CA certificate.
	CAFile string

	// ClientFile holds the client certificate followed by its private key.
	ClientFile string

	// Server is the server key pair, valid for localhost and 127.0.0.1.
	Server tls.Certificate

	// CA is the parsed CA certificate.
	CA *x509.Certificate

	// ClientKey is the client private key in PKCS#8 DER form.
	ClientKey []byte

	// ClientCert is the client certificate in DER form.
	ClientCert []byte
}

// NewPKI generates a PKI under t.TempDir().
//
// Parameters:
//   - t: Testing context; failures abort the test
//
// Returns:
//   - *PKI: Generated material and file paths
func NewPKI(t *testing.T) *PKI {
	t.Helper()

	dir := t.TempDir()
	caKey := newKey(t)
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test-ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	ca, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	serverKey := newKey(t)
	serverDER, err := x509.CreateCertificate(rand.Reader, &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "localhost"},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}, ca, &serverKey.PublicKey, caKey)
	require.NoError(t, err)
	serverKeyDER, err := x509.MarshalPKCS8PrivateKey(serverKey)
	require.NoError(t, err)
	server, err := tls.X509KeyPair(encodePEM("CERTIFICATE", serverDER), encodePEM("PRIVATE KEY", serverKeyDER))
	require.NoError(t, err)

	clientKey := newKey(t)
	clientDER, err := x509.CreateCertificate(rand.Reader, &x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: "client"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}, ca, &clientKey.PublicKey, caKey)
	require.NoError(t, err)
	clientKeyDER, err := x509.MarshalPKCS8PrivateKey(clientKey)
	require.NoError(t, err)

	p := &PKI{
		CAFile:     filepath.Join(dir, "ca.pem"),
		ClientFile: filepath.Join(dir, "client.pem"),
		Server:     server,
		CA:         ca,
		ClientKey:  clientKeyDER,
		ClientCert: clientDER,
	}
	require.NoError(t, os.WriteFile(p.CAFile, encodePEM("CERTIFICATE", caDER), 0o600))
	combined := append(encodePEM("CERTIFICATE", clientDER), encodePEM("PRIVATE KEY", clientKeyDER)...)
	require.NoError(t, os.WriteFile(p.ClientFile, combined, 0o600))

	return p
}

// WriteFile writes data to a new file under t.TempDir() and returns its path.
func WriteFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func newKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	return key
}

func encodePEM(typ string, der []byte) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der})
}
