package cluster

import (
	"crypto/tls"
	"encoding/pem"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/dsn"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/test/testutil"
	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

var tlsAlert error = tls.AlertError(40)

func TestBuildTLSConfigPEM(t *testing.T) {
	pki := testutil.NewPKI(t)

	cfg, err := buildTLSConfig(&dsn.TLSConfig{
		TrustStore:              pki.CAFile,
		KeyStore:                pki.ClientFile,
		CipherSuites:            []uint16{tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256},
		MinVersion:              tls.VersionTLS12,
		VerifyServerCertificate: true,
	})
	require.NoError(t, err)

	assert.NotNil(t, cfg.RootCAs)
	require.Len(t, cfg.Certificates, 1)
	assert.Equal(t, pki.ClientCert, cfg.Certificates[0].Certificate[0])
	assert.Equal(t, []uint16{tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256}, cfg.CipherSuites)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestBuildTLSConfigNoVerify(t *testing.T) {
	cfg, err := buildTLSConfig(&dsn.TLSConfig{})
	require.NoError(t, err)

	assert.True(t, cfg.InsecureSkipVerify)
	assert.Nil(t, cfg.RootCAs)
	assert.Empty(t, cfg.Certificates)
	assert.Zero(t, cfg.MinVersion)
}

func TestBuildTLSConfigErrors(t *testing.T) {
	garbage := testutil.WriteFile(t, "garbage.p12", []byte{0x30, 0x03, 0x02, 0x01, 0x00})
	emptyPEM := testutil.WriteFile(t, "empty.pem", []byte("-----BEGIN NOTHING-----\n-----END NOTHING-----\n"))

	tests := []struct {
		name string
		opts dsn.TLSConfig
	}{
		{"missing trust store", dsn.TLSConfig{TrustStore: "/does/not/exist"}},
		{"missing key store", dsn.TLSConfig{KeyStore: "/does/not/exist"}},
		{"garbage trust store", dsn.TLSConfig{TrustStore: garbage, TrustStorePassword: "x"}},
		{"garbage key store", dsn.TLSConfig{KeyStore: garbage, KeyStorePassword: "x"}},
		{"pem without certificates", dsn.TLSConfig{TrustStore: emptyPEM}},
		{"pem without key", dsn.TLSConfig{KeyStore: emptyPEM}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildTLSConfig(&tt.opts)
			require.Error(t, err)
			require.ErrorIs(t, err, types.ErrSecureTransport)
		})
	}
}

func TestSelectKeyPair(t *testing.T) {
	pki := testutil.NewPKI(t)
	other := testutil.NewPKI(t)

	blocks := []*pem.Block{
		{Type: "PRIVATE KEY", Bytes: other.ClientKey, Headers: map[string]string{"friendlyName": "backup", "localKeyId": "01"}},
		{Type: "CERTIFICATE", Bytes: other.ClientCert, Headers: map[string]string{"friendlyName": "backup", "localKeyId": "01"}},
		{Type: "PRIVATE KEY", Bytes: pki.ClientKey, Headers: map[string]string{"friendlyName": "client", "localKeyId": "02"}},
		{Type: "CERTIFICATE", Bytes: pki.ClientCert, Headers: map[string]string{"friendlyName": "client", "localKeyId": "02"}},
		{Type: "CERTIFICATE", Bytes: pki.CA.Raw},
	}

	t.Run("prefers client alias", func(t *testing.T) {
		cert, err := selectKeyPair(blocks, "")
		require.NoError(t, err)
		require.Len(t, cert.Certificate, 2)
		assert.Equal(t, pki.ClientCert, cert.Certificate[0])
		assert.Equal(t, pki.CA.Raw, cert.Certificate[1])
	})

	t.Run("explicit alias", func(t *testing.T) {
		cert, err := selectKeyPair(blocks, "backup")
		require.NoError(t, err)
		assert.Equal(t, other.ClientCert, cert.Certificate[0])
	})

	t.Run("unknown alias", func(t *testing.T) {
		_, err := selectKeyPair(blocks, "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"nope"`)
	})

	t.Run("first key without client alias", func(t *testing.T) {
		cert, err := selectKeyPair(blocks[:2], "")
		require.NoError(t, err)
		assert.Equal(t, other.ClientCert, cert.Certificate[0])
	})

	t.Run("no key", func(t *testing.T) {
		_, err := selectKeyPair(blocks[4:], "")
		require.Error(t, err)
	})
}

func TestTransportKindHandshake(t *testing.T) {
	pki := testutil.NewPKI(t)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
		Certificates: []tls.Certificate{pki.Server},
		MinVersion:   tls.VersionTLS12,
	})
	require.NoError(t, err)
	defer ln.Close()

	var wg sync.WaitGroup
	wg.Go(func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.(*tls.Conn).Handshake()
	})

	// System roots do not know the test CA.
	_, err = tls.Dial("tcp", ln.Addr().String(), &tls.Config{ServerName: "localhost", MinVersion: tls.VersionTLS12})
	require.Error(t, err)
	assert.Equal(t, types.ErrSecureTransport, transportKind(err))

	wg.Wait()
}

func TestTransportKind(t *testing.T) {
	assert.Equal(t, types.ErrSecureTransport, transportKind(tlsAlert))
	assert.Equal(t, types.ErrSecureTransport, transportKind(errors.New("gocql: x509: certificate has expired")))
	assert.Equal(t, types.ErrConnectionFailed, transportKind(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.Equal(t, types.ErrConnectionFailed, transportKind(errors.New("authentication failed")))
}
