// Package pki parses X.509 certificate chains and private keys out of
// PEM, generalized from the teacher's file-only helpers so dcql's issuer
// gate can resolve an aki trusted-authority value from an in-memory
// credential's certificate chain as readily as from a file on disk.
package pki

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ParseCertificateChain decodes every CERTIFICATE PEM block in data,
// returning the leaf (the first block) and the full chain (leaf first,
// followed by every subsequent block in file order).
func ParseCertificateChain(data []byte) (leaf *x509.Certificate, chain []*x509.Certificate, err error) {
	block, rest := pem.Decode(data)
	if block == nil {
		return nil, nil, errors.New("certificate decoding error")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, nil, err
	}

	storage := map[int]*x509.Certificate{}
	if len(rest) > 0 {
		if err := parseChain(rest, 0, storage); err != nil {
			return nil, nil, err
		}
	}

	chain = append(chain, cert)
	for i := 1; i <= len(storage); i++ {
		chain = append(chain, storage[i])
	}

	return cert, chain, nil
}

// ParseCertificateChainFromFile is ParseCertificateChain reading from path.
func ParseCertificateChainFromFile(path string) (*x509.Certificate, []*x509.Certificate, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, nil, err
	}
	return ParseCertificateChain(pemData)
}

func parseChain(rest []byte, n int, storage map[int]*x509.Certificate) error {
	n++
	block, r := pem.Decode(rest)
	if block == nil {
		return nil
	}

	if block.Type != "CERTIFICATE" {
		return errors.New("certificate type error")
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return err
	}

	storage[n] = cert

	if len(r) > 0 {
		if err := parseChain(r, n, storage); err != nil {
			return err
		}
	}

	return nil
}

// ParsePrivateKeyPEM decodes a single PKCS#8, SEC1 EC, or PKCS#1 RSA
// private key PEM block.
func ParsePrivateKeyPEM(data []byte) (any, error) {
	block, rest := pem.Decode(data)
	if block == nil || len(rest) > 0 {
		return nil, errors.New("failed to decode PEM block")
	}

	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		return key, nil

	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return key, nil

	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("unsupported key type: %s", block.Type)
	}
}

// ParsePrivateKeyPEMFromFile is ParsePrivateKeyPEM reading from path.
func ParsePrivateKeyPEMFromFile(path string) (any, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return ParsePrivateKeyPEM(pemData)
}

// Base64EncodeCertificate returns cert's raw DER, base64-encoded without padding.
func Base64EncodeCertificate(cert *x509.Certificate) string {
	return base64.RawStdEncoding.EncodeToString(cert.Raw)
}

// AuthorityKeyIdentifier returns cert's Authority Key Identifier
// extension, base64-encoded, for comparison against a dcql
// TrustedAuthoritiesQuery of type "aki" (spec.md §4.5's issuer gate).
// It returns an error when the certificate carries no AKI extension.
func AuthorityKeyIdentifier(cert *x509.Certificate) (string, error) {
	if len(cert.AuthorityKeyId) == 0 {
		return "", errors.New("certificate has no authority key identifier extension")
	}
	return base64.RawStdEncoding.EncodeToString(cert.AuthorityKeyId), nil
}
