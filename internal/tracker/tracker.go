package tracker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sabores-app/internal/logger"
	"sabores-app/internal/notify"
	"sabores-app/internal/order"
	"sabores-app/internal/realtime"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Fetcher reads one page of a customer's in-progress orders.
type Fetcher interface {
	ActiveOrders(ctx context.Context, customerID string, page, size int) ([]*order.Order, *order.PageInfo, error)
}

const (
	defaultPageSize     = 10
	defaultTickInterval = 60 * time.Second
	defaultRefetchDelay = 3 * time.Second
)

// Tracker keeps the client-side view of "my active orders" consistent with
// server truth: one bulk fetch plus a realtime subscription per order, torn
// down when the order reaches a terminal status. The active set and the
// subscription map are owned here exclusively; every mutation goes through a
// Tracker method under one lock.
type Tracker struct {
	fetcher  Fetcher
	channel  realtime.Channel
	notifier notify.Notifier

	pageSize     int
	tickInterval time.Duration
	refetchDelay time.Duration

	now     func() time.Time
	after   func(d time.Duration, f func()) // deferred re-fetch scheduling
	limiter *rate.Limiter                   // bounds re-fetches caused by events for unknown orders

	mu         sync.Mutex
	customerID string
	active     map[string]*order.Order
	subs       map[string]realtime.Unsubscribe
}

type Option func(*Tracker)

func WithPageSize(n int) Option {
	return func(t *Tracker) { t.pageSize = n }
}

func WithTickInterval(d time.Duration) Option {
	return func(t *Tracker) { t.tickInterval = d }
}

func WithRefetchDelay(d time.Duration) Option {
	return func(t *Tracker) { t.refetchDelay = d }
}

// WithClock overrides time.Now. Test helper.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithScheduler overrides the deferred-callback scheduler. Test helper.
func WithScheduler(after func(d time.Duration, f func())) Option {
	return func(t *Tracker) { t.after = after }
}

func New(fetcher Fetcher, channel realtime.Channel, notifier notify.Notifier, opts ...Option) *Tracker {
	t := &Tracker{
		fetcher:      fetcher,
		channel:      channel,
		notifier:     notifier,
		pageSize:     defaultPageSize,
		tickInterval: defaultTickInterval,
		refetchDelay: defaultRefetchDelay,
		now:          time.Now,
		limiter:      rate.NewLimiter(rate.Every(10*time.Second), 1),
		active:       make(map[string]*order.Order),
		subs:         make(map[string]realtime.Unsubscribe),
	}
	t.after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }

	for _, opt := range opts {
		opt(t)
	}
	return t
}

// topicFor is the per-order status topic on the realtime channel.
func topicFor(orderID string) string {
	return fmt.Sprintf("orders/%s/status", orderID)
}

// SetCustomer switches the tracked customer. An empty id means the session
// ended: the active set is cleared and every subscription released.
func (t *Tracker) SetCustomer(ctx context.Context, customerID string) error {
	t.mu.Lock()
	t.customerID = customerID
	if customerID == "" {
		t.clearLocked()
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	return t.Refresh(ctx)
}

// Refresh replaces the active set with the first page of in-progress orders
// and reconciles subscriptions against it. On failure the tracker fails
// closed: the set is emptied, all subscriptions released, the customer told.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	customerID := t.customerID
	t.mu.Unlock()

	if customerID == "" {
		t.mu.Lock()
		t.clearLocked()
		t.mu.Unlock()
		return nil
	}

	orders, _, err := t.fetcher.ActiveOrders(ctx, customerID, 0, t.pageSize)
	if err != nil {
		logger.FromCtx(ctx).Error("active orders refresh failed", zap.Error(err))
		notify.Push(t.notifier, notify.ToneError, "No pudimos cargar tus pedidos", "")

		t.mu.Lock()
		t.clearLocked()
		t.mu.Unlock()
		return err
	}

	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	// A response that raced a logout or a customer switch is stale; drop it.
	if t.customerID != customerID {
		return nil
	}

	next := make(map[string]*order.Order, len(orders))
	for _, o := range orders {
		o.RecomputeElapsed(now)
		next[o.ID] = o
	}
	t.active = next

	// Orders gone from the set lose their subscription.
	for id := range t.subs {
		if _, ok := next[id]; !ok {
			t.releaseSubLocked(id)
		}
	}

	// New orders gain one. Already-subscribed ids are skipped so a late
	// fetch never double-subscribes.
	for id := range next {
		if _, ok := t.subs[id]; ok {
			continue
		}
		t.subscribeLocked(ctx, id)
	}

	return nil
}

// HandleMessage is the realtime channel callback: it decodes the payload and
// folds the event into the active set. A malformed payload is contained and
// surfaced, never fatal.
func (t *Tracker) HandleMessage(topic string, payload []byte) {
	ev, err := order.DecodeStatusUpdate(payload)
	if err != nil {
		logger.L().Warn(
			"status update discarded",
			zap.String("topic", topic),
			zap.Error(err),
		)
		notify.Push(t.notifier, notify.ToneWarning, "Recibimos una actualización ilegible", "")
		return
	}

	t.HandleEvent(ev)
}

// HandleEvent applies one status-update event. Terminal events remove the
// order and release its subscription; non-terminal ones merge into the
// existing record. An event for an order we do not know yet schedules a
// deferred re-fetch, since a brand-new order can race subscription setup.
func (t *Tracker) HandleEvent(ev *order.StatusUpdate) {
	notify.Push(t.notifier, ev.Status.Tone(), statusHeadline(ev.Status), "")
	if ev.Message != "" {
		notify.Push(t.notifier, notify.ToneInfo, ev.Message, "")
	}

	now := t.now()

	t.mu.Lock()
	o, known := t.active[ev.OrderID]
	if known {
		if ev.Status.Terminal() {
			delete(t.active, ev.OrderID)
			t.releaseSubLocked(ev.OrderID)
		} else {
			o.Apply(ev, now)
		}
		t.mu.Unlock()
		return
	}
	customerID := t.customerID
	t.mu.Unlock()

	if ev.Status.Terminal() || ev.CustomerID != customerID {
		return
	}

	t.after(t.refetchDelay, func() {
		t.mu.Lock()
		_, present := t.active[ev.OrderID]
		sameCustomer := t.customerID == ev.CustomerID
		t.mu.Unlock()

		if present || !sameCustomer {
			return
		}
		if !t.limiter.Allow() {
			return
		}
		if err := t.Refresh(context.Background()); err != nil {
			logger.L().Warn(
				"deferred refresh failed",
				zap.String("order_id", ev.OrderID),
				zap.Error(err),
			)
		}
	})
}

// Run recomputes elapsed-time displays on a fixed interval until the context
// ends. All subscriptions are released on the way out.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.tick()
		case <-ctx.Done():
			t.Close()
			return
		}
	}
}

func (t *Tracker) tick() {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, o := range t.active {
		// A stale terminal record should never be here, but leave it alone
		// if one is.
		if o.Status.Terminal() {
			continue
		}
		o.RecomputeElapsed(now)
	}
}

// Close empties the active set and releases every subscription.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

// Snapshot returns the active orders sorted by creation time descending.
func (t *Tracker) Snapshot() []order.Order {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]order.Order, 0, len(t.active))
	for _, o := range t.active {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SubscribedIDs lists the order ids with a live subscription.
func (t *Tracker) SubscribedIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.subs))
	for id := range t.subs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (t *Tracker) subscribeLocked(ctx context.Context, orderID string) {
	unsub, err := t.channel.Subscribe(topicFor(orderID), t.HandleMessage)
	if err != nil {
		logger.FromCtx(ctx).Warn(
			"order subscription failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return
	}
	t.subs[orderID] = unsub
}

// releaseSubLocked is idempotent: releasing an absent key is a no-op.
func (t *Tracker) releaseSubLocked(orderID string) {
	unsub, ok := t.subs[orderID]
	if !ok {
		return
	}
	delete(t.subs, orderID)
	unsub()
}

func (t *Tracker) clearLocked() {
	t.active = make(map[string]*order.Order)
	for id := range t.subs {
		t.releaseSubLocked(id)
	}
}

// statusHeadline is the customer-facing headline per status, in the
// storefront's locale.
func statusHeadline(s order.Status) string {
	switch s {
	case order.StatusPending:
		return "Tu pedido está pendiente de confirmación"
	case order.StatusConfirmed:
		return "¡Pedido confirmado!"
	case order.StatusPreparing:
		return "Tu pedido está en preparación"
	case order.StatusOnTheWay:
		return "Tu pedido va en camino"
	case order.StatusDelivered:
		return "¡Pedido entregado, buen provecho!"
	case order.StatusCanceled:
		return "Tu pedido fue cancelado"
	case order.StatusRejected:
		return "Tu pedido fue rechazado"
	}
	return "Tu pedido cambió de estado"
}
