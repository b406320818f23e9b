package x

import (
	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(bazaar.Context) []bazaar.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(bazaar.Context, bazaar.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions combines all Conditions from all Authenticators. Each
// condition is returned only once, in the order it was first seen.
func (m MultiAuth) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	var res []bazaar.Condition
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			if !hasCondition(res, c) {
				res = append(res, c)
			}
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses wraps the GetConditions method of any Authenticator
func GetAddresses(ctx bazaar.Context, auth Authenticator) []bazaar.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]bazaar.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first condition if any, otherwise nil
func MainSigner(ctx bazaar.Context, auth Authenticator) bazaar.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}

// MainSignerAddress returns the address of the main signer. It fails with
// ErrUnauthorized if the transaction is not signed.
func MainSignerAddress(ctx bazaar.Context, auth Authenticator) (bazaar.Address, error) {
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx bazaar.Context, auth Authenticator, required []bazaar.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// HasAllConditions returns true if all elements in required are
// also in context.
func HasAllConditions(ctx bazaar.Context, auth Authenticator, required []bazaar.Condition) bool {
	return HasNConditions(ctx, auth, required, len(required))
}

// HasNConditions returns true if at least n elements in requested are
// also in context.
func HasNConditions(ctx bazaar.Context, auth Authenticator, requested []bazaar.Condition, n int) bool {
	if n <= 0 {
		return true
	}
	conds := auth.GetConditions(ctx)
	for _, c := range requested {
		if hasCondition(conds, c) {
			n--
			if n == 0 {
				return true
			}
		}
	}
	return false
}

func hasCondition(conds []bazaar.Condition, c bazaar.Condition) bool {
	for _, have := range conds {
		if have.Equals(c) {
			return true
		}
	}
	return false
}
