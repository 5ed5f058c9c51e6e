package uuidcreator

import (
	"crypto/md5"  // #nosec G501 -- mandated by RFC 4122 for version 3
	"crypto/sha1" // #nosec G505 -- mandated by RFC 4122 for version 5
	"fmt"
	"hash"
	"strings"

	"github.com/google/uuid"
)

// NameBasedCreator builds version 3 (MD5) or version 5 (SHA-1) UUIDs.
type NameBasedCreator struct {
	version   Version
	namespace *UUID
	metrics   *Metrics
}

// NewNameBasedCreator returns a creator for version 3 or 5. cfg.Namespace,
// when set, becomes the namespace of New.
func NewNameBasedCreator(version Version, cfg Config) (*NameBasedCreator, error) {
	if version != VersionNameBasedMD5 && version != VersionNameBasedSHA1 {
		return nil, fmt.Errorf("%w: version %d is not name-based", ErrInvalidConfig, version)
	}
	s, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	return &NameBasedCreator{version: version, namespace: s.namespace, metrics: s.metrics}, nil
}

// New hashes name under the configured namespace. Without a namespace only
// the name is hashed.
func (c *NameBasedCreator) New(name string) UUID {
	u := NameBased(c.version, c.namespace, []byte(name))
	c.metrics.generated(c.version)
	return u
}

// NewWithNamespace hashes name under ns.
func (c *NameBasedCreator) NewWithNamespace(ns UUID, name string) UUID {
	u := NameBased(c.version, &ns, []byte(name))
	c.metrics.generated(c.version)
	return u
}

// NameBased hashes the namespace bytes followed by name and stamps version
// and variant over the first 16 bytes of the digest. version must be
// VersionNameBasedMD5 or VersionNameBasedSHA1; anything else uses SHA-1.
func NameBased(version Version, ns *UUID, name []byte) UUID {
	var h hash.Hash
	if version == VersionNameBasedMD5 {
		h = md5.New() // #nosec G401
	} else {
		version = VersionNameBasedSHA1
		h = sha1.New() // #nosec G401
	}
	if ns != nil {
		h.Write(ns[:])
	}
	h.Write(name)

	var u UUID
	copy(u[:], h.Sum(nil))
	u[6] = byte(version)<<4 | u[6]&0x0F
	u[8] = 0x80 | u[8]&0x3F
	return u
}

// Namespaces defined in RFC 4122 Appendix C.
var (
	NamespaceDNS  = FromGoogle(uuid.NameSpaceDNS)
	NamespaceURL  = FromGoogle(uuid.NameSpaceURL)
	NamespaceOID  = FromGoogle(uuid.NameSpaceOID)
	NamespaceX500 = FromGoogle(uuid.NameSpaceX500)
)

// ParseNamespace accepts a UUID or one of the names dns, url, oid, x500.
func ParseNamespace(s string) (UUID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dns":
		return NamespaceDNS, nil
	case "url":
		return NamespaceURL, nil
	case "oid":
		return NamespaceOID, nil
	case "x500":
		return NamespaceX500, nil
	}
	return Parse(s)
}
