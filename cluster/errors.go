package cluster

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"strings"

	"github.com/gocql/gocql"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// transportKind decides whether a session creation failure came from the TLS
// layer or from plain connectivity and authentication.
//
// gocql formats most causes into its own message, so the typed checks are
// backed by a look at the text.
func transportKind(err error) error {
	var (
		verifyErr  *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		alertErr   tls.AlertError
		authority  x509.UnknownAuthorityError
		hostname   x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &alertErr),
		errors.As(err, &authority),
		errors.As(err, &hostname),
		errors.As(err, &invalidErr):
		return types.ErrSecureTransport
	}

	msg := err.Error()
	if strings.Contains(msg, "tls:") || strings.Contains(msg, "x509:") {
		return types.ErrSecureTransport
	}

	return types.ErrConnectionFailed
}

// unreachableText are gocql and net messages for failures that happen before
// any keyspace is used: the control connection, dialing and authentication.
var unreachableText = []string{
	"unable to connect to initial hosts",
	"connection refused",
	"no such host",
	"i/o timeout",
	"authentication failed",
	"unable to discover protocol version",
}

// unreachable reports whether err shows that the cluster could not be dialed
// or rejected the credentials, so a keyspace probe would fail the same way.
func unreachable(err error) bool {
	var (
		opErr  *net.OpError
		dnsErr *net.DNSError
		reqErr gocql.RequestError
	)
	switch {
	case errors.As(err, &opErr),
		errors.As(err, &dnsErr),
		errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.As(err, &reqErr):
		return reqErr.Code() == gocql.ErrCodeCredentials
	}

	msg := strings.ToLower(err.Error())
	for _, text := range unreachableText {
		if strings.Contains(msg, text) {
			return true
		}
	}

	return false
}
