// Package dispatch turns a finalized cart into an outbound WhatsApp order
// message. The handoff is a pre-filled wa.me deep link returned to the
// client; when an order webhook is configured the receipt is additionally
// forwarded to that collaborator in the background.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/souqlink/config"
	"github.com/talkincode/souqlink/internal/cart"
	"github.com/talkincode/souqlink/internal/domain"
	"github.com/talkincode/souqlink/internal/i18n"
	"github.com/talkincode/souqlink/internal/validate"
)

// TopicOrderSubmitted is published on the application bus with the session id
// and order number after a successful submit.
const TopicOrderSubmitted = "order:submitted"

// OrderForm is the checkout payload.
type OrderForm struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
}

type Dispatcher struct {
	cfg  config.MessagingConfig
	node *snowflake.Node
	bus  EventBus.Bus
	pool *ants.Pool
}

func New(cfg config.MessagingConfig, node *snowflake.Node, bus EventBus.Bus) (*Dispatcher, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 8
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "dispatch: create worker pool")
	}
	return &Dispatcher{cfg: cfg, node: node, bus: bus, pool: pool}, nil
}

// Close releases the background delivery pool.
func (d *Dispatcher) Close() {
	d.pool.Release()
}

// Submit checks the order preconditions, composes the order message and
// returns the receipt. On success the cart is cleared; on any precondition
// failure a *validate.FieldError is returned and nothing changes.
func (d *Dispatcher) Submit(ctx context.Context, sid string, eng *cart.Engine, f OrderForm, lang string) (*domain.OrderReceipt, error) {
	items := eng.Items()
	if len(items) == 0 {
		return nil, &validate.FieldError{Field: "cart", Key: "error.cart_empty"}
	}
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerPhone = strings.TrimSpace(f.CustomerPhone)
	if !validate.Required(f.CustomerName) {
		return nil, &validate.FieldError{Field: "customer_name", Key: "error.name_required"}
	}
	if !validate.Phone(f.CustomerPhone) {
		return nil, &validate.FieldError{Field: "customer_phone", Key: "error.phone_invalid"}
	}

	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}

	message := d.buildMessage(items, total, f, lang)
	receipt := &domain.OrderReceipt{
		OrderNo:       d.node.Generate().String(),
		CustomerName:  f.CustomerName,
		CustomerPhone: f.CustomerPhone,
		PaymentMethod: f.PaymentMethod,
		Message:       message,
		Link:          d.waLink(message),
		Total:         total,
		Forwarded:     d.cfg.WebhookURL != "",
	}

	eng.Clear()
	if d.bus != nil {
		d.bus.Publish(TopicOrderSubmitted, sid, receipt.OrderNo)
	}

	if d.cfg.WebhookURL != "" {
		d.forwardAsync(receipt)
	}

	zap.L().Info("dispatch: order submitted",
		zap.String("order_no", receipt.OrderNo),
		zap.String("customer_phone", receipt.CustomerPhone),
		zap.Int64("total", total),
		zap.Int("lines", len(items)))
	return receipt, nil
}

// buildMessage renders the human-readable order summary sent to the store's
// WhatsApp number.
func (d *Dispatcher) buildMessage(items []domain.CartItem, total int64, f OrderForm, lang string) string {
	currency := i18n.T(lang, "currency")
	var b strings.Builder
	b.WriteString(i18n.T(lang, "order.header"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(lang, "order.name"), f.CustomerName)
	fmt.Fprintf(&b, "%s: %s\n\n", i18n.T(lang, "order.phone"), f.CustomerPhone)
	b.WriteString(i18n.T(lang, "order.details"))
	b.WriteString("\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s - %s: %d - %s: %d %s\n",
			it.Name,
			i18n.T(lang, "order.quantity"), it.Quantity,
			i18n.T(lang, "order.price"), it.Subtotal(), currency)
	}
	fmt.Fprintf(&b, "\n%s: %d %s\n", i18n.T(lang, "order.total"), total, currency)
	fmt.Fprintf(&b, "%s: %s", i18n.T(lang, "order.payment"), i18n.PaymentLabel(lang, f.PaymentMethod))
	return b.String()
}

// forwardAsync hands the receipt to the configured webhook without blocking
// the caller. Delivery is best effort; failures are logged, never surfaced.
func (d *Dispatcher) forwardAsync(receipt *domain.OrderReceipt) {
	r := *receipt
	err := d.pool.Submit(func() {
		timeout := time.Duration(d.cfg.WebhookTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		var code int
		err := gout.POST(d.cfg.WebhookURL).
			SetTimeout(timeout).
			SetJSON(r).
			Code(&code).
			Do()
		if err != nil || code >= 300 {
			zap.L().Warn("dispatch: webhook forward failed",
				zap.String("order_no", r.OrderNo),
				zap.Int("status", code),
				zap.Error(err))
			return
		}
		zap.L().Info("dispatch: webhook forward ok", zap.String("order_no", r.OrderNo))
	})
	if err != nil {
		zap.L().Warn("dispatch: webhook pool submit failed", zap.Error(err))
	}
}

// Inquiry builds the wa.me link for a general inquiry. An empty text uses
// the default localized inquiry message.
func (d *Dispatcher) Inquiry(text, lang string) string {
	if strings.TrimSpace(text) == "" {
		text = i18n.T(lang, "inquiry.default")
	}
	return d.waLink(text)
}

// Share builds the share text for a product, used by clients without a
// native share capability.
func (d *Dispatcher) Share(p domain.Product, lang string) string {
	return fmt.Sprintf(i18n.T(lang, "share.message"), p.Name, p.Price)
}

// ShareLink wraps the product share text in a wa.me link.
func (d *Dispatcher) ShareLink(p domain.Product, lang string) string {
	return d.waLink(d.Share(p, lang))
}

func (d *Dispatcher) waLink(message string) string {
	return "https://wa.me/" + d.cfg.StoreNumber + "?text=" + url.QueryEscape(message)
}
