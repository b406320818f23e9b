package bazaartest

import "github.com/iov-one/bazaar"

// Decorator is a bazaar.Decorator that records the message path of every
// transaction it sees. CheckErr and DeliverErr, when set, stop the
// transaction before it reaches the next handler.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checked   []string
	delivered []string
}

var _ bazaar.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Checker) (*bazaar.CheckResult, error) {
	d.checked = append(d.checked, bazaar.GetPath(tx))
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx bazaar.Context, db bazaar.KVStore, tx bazaar.Tx, next bazaar.Deliverer) (*bazaar.DeliverResult, error) {
	d.delivered = append(d.delivered, bazaar.GetPath(tx))
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Checked returns the paths of all checked messages, in order.
func (d *Decorator) Checked() []string {
	return d.checked
}

// Delivered returns the paths of all delivered messages, in order.
func (d *Decorator) Delivered() []string {
	return d.delivered
}

func (d *Decorator) CallCount() int {
	return len(d.checked) + len(d.delivered)
}
