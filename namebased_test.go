package uuidcreator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameBasedMatchesGoogle(t *testing.T) {
	names := []string{"", "example.com", "https://example.com/a?b=c", "ünïcödé"}
	namespaces := []UUID{NamespaceDNS, NamespaceURL, NamespaceOID, NamespaceX500}

	for _, ns := range namespaces {
		for _, name := range names {
			md5 := NewNameBasedMD5(ns, name)
			assert.Equal(t, uuid.NewMD5(ns.Google(), []byte(name)).String(), md5.String())
			assert.Equal(t, VersionNameBasedMD5, md5.Version())
			assert.Equal(t, 2, md5.Variant())

			sha1 := NewNameBasedSHA1(ns, name)
			assert.Equal(t, uuid.NewSHA1(ns.Google(), []byte(name)).String(), sha1.String())
			assert.Equal(t, VersionNameBasedSHA1, sha1.Version())
			assert.Equal(t, 2, sha1.Variant())
		}
	}
}

func TestNameBasedKnownValue(t *testing.T) {
	// RFC 4122 Appendix B erratum value for www.example.com.
	assert.Equal(t, "5df41881-3aed-3515-88a7-2f4a814cf09e",
		NewNameBasedMD5(NamespaceDNS, "www.example.com").String())
	assert.Equal(t, "2ed6657d-e927-568b-95e1-2665a8aea6a2",
		NewNameBasedSHA1(NamespaceDNS, "www.example.com").String())
}

func TestNameBasedCreator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Namespace = "url"
	c, err := NewNameBasedCreator(VersionNameBasedSHA1, cfg)
	require.NoError(t, err)
	assert.Equal(t, NewNameBasedSHA1(NamespaceURL, "https://example.com"), c.New("https://example.com"))
	assert.Equal(t, NewNameBasedSHA1(NamespaceDNS, "example.com"), c.NewWithNamespace(NamespaceDNS, "example.com"))

	// Without a namespace only the name is hashed.
	c, err = NewNameBasedCreator(VersionNameBasedMD5, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, NameBased(VersionNameBasedMD5, nil, []byte("x")), c.New("x"))
	assert.NotEqual(t, NewNameBasedMD5(Nil, "x"), c.New("x"))

	_, err = NewNameBasedCreator(VersionRandom, DefaultConfig())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseNamespace(t *testing.T) {
	tests := []struct {
		input string
		want  UUID
	}{
		{"dns", NamespaceDNS},
		{"URL", NamespaceURL},
		{" oid ", NamespaceOID},
		{"x500", NamespaceX500},
		{"6ba7b810-9dad-11d1-80b4-00c04fd430c8", NamespaceDNS},
	}
	for _, tt := range tests {
		got, err := ParseNamespace(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseNamespace("dnss")
	assert.ErrorIs(t, err, ErrInvalidUUIDFormat)
}
