package bazaartest

import (
	"context"
	"fmt"

	"github.com/iov-one/bazaar"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered.
type Auth struct {
	// Signer represents an authentication of a single signer. This is a
	// convenience attribute when creating an authentication method for a
	// single signer.
	Signer bazaar.Condition

	// Signers represents an authentication of multiple signers.
	Signers []bazaar.Condition
}

func (a *Auth) GetConditions(bazaar.Context) []bazaar.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve conditions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx bazaar.Context, conds ...bazaar.Condition) bazaar.Context {
	return context.WithValue(ctx, a.Key, conds)
}

func (a *CtxAuth) GetConditions(ctx bazaar.Context) []bazaar.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]bazaar.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []bazaar.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx bazaar.Context, addr bazaar.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
