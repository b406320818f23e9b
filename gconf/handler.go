package gconf

import (
	"reflect"

	"github.com/iov-one/bazaar"
	"github.com/iov-one/bazaar/errors"
	"github.com/iov-one/bazaar/x"
)

// OwnedConfig is a configuration that declares its owner. A configuration
// update message must be signed by the owner in order to be authorized to
// apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() bazaar.Address
}

// UpdateConfigurationHandler applies a configuration patch carried by a
// message. The message must have a "Patch" field of the same type as the
// stored configuration.
type UpdateConfigurationHandler struct {
	pkg    string
	config OwnedConfig
	auth   x.Authenticator
}

var _ bazaar.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// The configuration must exist, usually created via genesis. Each message
// must be signed by the current configuration owner.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &bazaar.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) (*bazaar.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	bazaar.GetLogger(ctx).Info("configuration updated", "package", h.pkg)
	return &bazaar.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx bazaar.Context, store bazaar.KVStore, tx bazaar.Tx) error {
	// The handler instance is shared, so work on a fresh copy.
	config := reflect.New(reflect.TypeOf(h.config).Elem()).Interface().(OwnedConfig)
	if err := Load(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := config.GetOwner()
	if owner == nil {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies every non zero field of the payload into the configuration.
func patch(config OwnedConfig, payload OwnedConfig) error {
	if reflect.TypeOf(payload) != reflect.TypeOf(config) {
		return errors.Wrapf(errors.ErrMsg, "config in message doesn't match store: %T", payload)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if !cval.Field(i).CanSet() || got.IsZero() {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// patchPayload expects the transaction to have a message with "Patch" field
// of the configuration type. Content of this field is extracted and returned.
func patchPayload(tx bazaar.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, errors.Wrapf(errors.ErrMsg, `%T has no "Patch" field`, msg)
	}
	if field.IsNil() {
		return nil, errors.Wrap(errors.ErrEmpty, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}
