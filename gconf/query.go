package gconf

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Query exposes the serialized configuration of a single package. The result
// is stored under the configuration key, or is empty if the package was
// never configured.
type Query struct {
	pkg string
}

var _ bazaar.QueryHandler = Query{}

// NewQuery returns a query handler for the configuration of given package.
func NewQuery(pkg string) Query {
	return Query{pkg: pkg}
}

func (q Query) Query(db bazaar.ReadOnlyKVStore, mod string, data []byte) ([]bazaar.Model, error) {
	if mod != bazaar.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	key := confKey(q.pkg)
	raw, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return []bazaar.Model{bazaar.Pair(key, raw)}, nil
}
