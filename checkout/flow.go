// Package checkout turns a cart into an order row plus its order_items rows.
package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"balloonshop/cart"
	"balloonshop/mail"
	"balloonshop/models"
	"balloonshop/notify"
	"balloonshop/tables"
)

type State int

const (
	Browsing State = iota
	CheckingOut
)

func (s State) String() string {
	if s == CheckingOut {
		return "checking_out"
	}
	return "browsing"
}

const (
	MsgMissingFields = "Please fill in all required fields"
	MsgInvalidFields = "Please correct the invalid fields"
	MsgOrderFailed   = "Failed to place order. Please try again."
)

var ErrEmptyCart = errors.NotValidf("empty cart")

type Deps struct {
	Tables   tables.Client
	Notifier notify.Notifier
	Mailer   mail.Sender
	Logger   *zap.Logger
	Now      func() time.Time
	Random   io.Reader
}

// Flow is a checkout session for one cart. It starts in Browsing.
type Flow struct {
	cart  *cart.Store
	deps  Deps
	state State
	form  Form
}

func NewFlow(c *cart.Store, deps Deps) *Flow {
	if deps.Notifier == nil {
		deps.Notifier = notify.Discard
	}
	if deps.Mailer == nil {
		deps.Mailer = mail.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Random == nil {
		deps.Random = rand.Reader
	}
	return &Flow{cart: c, deps: deps, state: Browsing, form: DefaultForm()}
}

func (f *Flow) State() State { return f.state }

func (f *Flow) Form() Form { return f.form }

// Proceed moves to CheckingOut. Only a non-empty cart can be checked out.
func (f *Flow) Proceed() error {
	if f.cart.Empty() {
		return ErrEmptyCart
	}
	f.state = CheckingOut
	return nil
}

// Back returns to the cart view keeping whatever was typed.
func (f *Flow) Back() {
	f.state = Browsing
}

// Cancel closes checkout and discards the form.
func (f *Flow) Cancel() {
	f.state = Browsing
	f.form = DefaultForm()
}

// Submit validates form and, when it is complete, records the order. No
// table is touched for an invalid form. On any store failure the cart is
// left as it was so the customer can retry.
func (f *Flow) Submit(ctx context.Context, form Form) (models.Order, error) {
	if f.state != CheckingOut {
		return models.Order{}, errors.NotValidf("checkout not started")
	}
	f.form = form.normalize()
	if err := f.form.Validate(); err != nil {
		msg := MsgMissingFields
		if missing, _, _ := f.form.check(); len(missing) == 0 {
			msg = MsgInvalidFields
		}
		f.deps.Notifier.Notify(notify.KindError, msg)
		return models.Order{}, err
	}
	if f.cart.Empty() {
		return models.Order{}, ErrEmptyCart
	}

	number, err := NewOrderNumber(f.deps.Now(), f.deps.Random)
	if err != nil {
		f.deps.Notifier.Notify(notify.KindError, MsgOrderFailed)
		return models.Order{}, errors.Trace(err)
	}

	lines := f.cart.Items()
	order, err := f.place(ctx, number, lines)
	if err != nil {
		f.deps.Logger.Debug("placing order", zap.String("order_number", number), zap.Error(err))
		f.deps.Notifier.Notify(notify.KindError, MsgOrderFailed)
		return models.Order{}, err
	}

	f.cart.Clear(ctx)
	f.deps.Notifier.Notify(notify.KindSuccess, fmt.Sprintf("Order placed successfully! Order number: %s", order.OrderNumber))
	f.sendConfirmation(ctx, order, lines)
	f.state = Browsing
	f.form = DefaultForm()
	return order, nil
}

func (f *Flow) place(ctx context.Context, number string, lines []cart.LineItem) (models.Order, error) {
	order := models.Order{
		OrderNumber:     number,
		CustomerName:    f.form.FullName,
		CustomerEmail:   f.form.Email,
		CustomerPhone:   f.form.Phone,
		ShippingAddress: f.form.ShippingAddress(),
		PaymentMethod:   f.form.PaymentMethod.Label(),
		TotalAmount:     f.cart.Totals().TotalPrice,
		Status:          models.StatusPending,
	}

	inserted, err := f.deps.Tables.Insert(ctx, tables.Orders, order.Row())
	if err != nil {
		return models.Order{}, errors.Annotate(err, "inserting order")
	}
	if len(inserted) != 1 {
		return models.Order{}, errors.Errorf("order insert returned %d rows", len(inserted))
	}
	stored, err := models.OrderFromRow(inserted[0])
	if err != nil {
		return models.Order{}, errors.Trace(err)
	}
	order.ID = stored.ID
	order.CreatedAt = stored.CreatedAt

	// Prices are copied from the cart now so later catalog changes never
	// alter what the customer agreed to pay.
	items := make([]models.OrderItem, len(lines))
	rows := make([]tables.Row, len(lines))
	for i, li := range lines {
		items[i] = models.OrderItem{
			OrderID:    order.ID,
			ProductID:  li.ProductID,
			Quantity:   li.Quantity,
			UnitPrice:  li.UnitPrice,
			TotalPrice: li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity))),
		}
		rows[i] = items[i].Row()
	}

	insertedItems, err := f.deps.Tables.Insert(ctx, tables.OrderItems, rows...)
	if err != nil {
		f.compensate(ctx, order)
		return models.Order{}, errors.Annotate(err, "inserting order items")
	}
	for i := range insertedItems {
		if i < len(items) {
			items[i].ID = fmt.Sprint(insertedItems[i]["id"])
		}
	}
	order.Items = items
	return order, nil
}

// compensate removes an order whose items could not be stored. If that
// fails too the row is left for manual reconciliation.
func (f *Flow) compensate(ctx context.Context, order models.Order) {
	n, err := f.deps.Tables.Delete(ctx, tables.Orders, tables.ByID(order.ID))
	if err != nil || n == 0 {
		f.deps.Logger.Error("orphaned order needs manual reconciliation",
			zap.String("order_id", order.ID),
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}

func (f *Flow) sendConfirmation(ctx context.Context, o models.Order, lines []cart.LineItem) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s.\n\n", o.CustomerName, o.OrderNumber)
	for _, li := range lines {
		fmt.Fprintf(&b, "  %s x%d  %s\n", li.Name, li.Quantity, li.Subtotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\nPayment: %s\nDeliver to: %s\n", o.TotalAmount.StringFixed(2), o.PaymentMethod, o.ShippingAddress)

	if err := f.deps.Mailer.Send(ctx, o.CustomerEmail, "Order "+o.OrderNumber+" received", b.String()); err != nil {
		f.deps.Logger.Warn("sending order confirmation", zap.String("order_number", o.OrderNumber), zap.Error(err))
	}
}
