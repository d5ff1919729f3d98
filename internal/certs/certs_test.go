package certs

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(t *testing.T, cert tls.Certificate) *x509.Certificate {
	t.Helper()
	require.Len(t, cert.Certificate, 1)
	parsed, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	return parsed
}

func TestStore_Certificate(t *testing.T) {
	tests := []struct {
		setup func(t *testing.T, s *Store)
		name  string
		reuse bool
	}{
		{
			name:  "creates a certificate when none exists",
			setup: func(*testing.T, *Store) {},
		},
		{
			name: "reuses a valid certificate",
			setup: func(t *testing.T, s *Store) {
				_, err := s.Certificate()
				require.NoError(t, err)
			},
			reuse: true,
		},
		{
			name: "replaces unreadable files",
			setup: func(t *testing.T, s *Store) {
				require.NoError(t, os.MkdirAll(s.dir, 0o700))
				require.NoError(t, os.WriteFile(s.certFile, []byte("not a cert"), 0o600))
				require.NoError(t, os.WriteFile(s.keyFile, []byte("not a key"), 0o600))
			},
		},
		{
			name: "replaces an expired certificate",
			setup: func(t *testing.T, s *Store) {
				s.now = func() time.Time { return time.Now().Add(-2 * validFor) }
				_, err := s.Certificate()
				require.NoError(t, err)
				s.now = time.Now
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(filepath.Join(t.TempDir(), "certs"))
			tt.setup(t, s)

			var before []byte
			if tt.reuse {
				before, _ = os.ReadFile(s.certFile)
			}

			cert, err := s.Certificate()
			require.NoError(t, err)

			parsed := leaf(t, cert)
			assert.Equal(t, "Tally", parsed.Subject.Organization[0])
			assert.NoError(t, parsed.VerifyHostname("localhost"))
			assert.NoError(t, s.verify(cert))

			if tt.reuse {
				after, err := os.ReadFile(s.certFile)
				require.NoError(t, err)
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestStore_FilePermissions(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Certificate()
	require.NoError(t, err)

	for _, path := range []string{s.certFile, s.keyFile} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}
