package store

import (
	"bytes"

	"github.com/pingcap/errors"
)

// keySep cannot appear in namespace or set names.
const keySep = byte(0)

// EncodeKey builds the flat key used by ordered backends. All records of a
// namespace/set share the prefix returned by EncodePrefix.
func EncodeKey(namespace, set, key string) []byte {
	buf := EncodePrefix(namespace, set)
	return append(buf, key...)
}

// EncodePrefix returns the key prefix of a namespace/set.
func EncodePrefix(namespace, set string) []byte {
	buf := make([]byte, 0, len(namespace)+len(set)+2)
	buf = append(buf, namespace...)
	buf = append(buf, keySep)
	buf = append(buf, set...)
	return append(buf, keySep)
}

// DecodeKey splits a key built by EncodeKey.
func DecodeKey(b []byte) (namespace, set, key string, err error) {
	i := bytes.IndexByte(b, keySep)
	if i < 0 {
		return "", "", "", errors.Errorf("invalid key %q", b)
	}
	j := bytes.IndexByte(b[i+1:], keySep)
	if j < 0 {
		return "", "", "", errors.Errorf("invalid key %q", b)
	}
	j += i + 1
	return string(b[:i]), string(b[i+1 : j]), string(b[j+1:]), nil
}

// ValidateName rejects namespace or set names the flat key encoding cannot hold.
func ValidateName(name string) error {
	if bytes.IndexByte([]byte(name), keySep) >= 0 {
		return errors.Errorf("name %q contains a NUL byte", name)
	}
	return nil
}
