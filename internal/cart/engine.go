// Package cart owns the session's view of the shopping cart across the
// guest/authenticated boundary.
//
// In guest mode every mutation is local and mirrored to the guest store; the
// total is always recomputed from the lines. In authenticated mode every
// mutation is a remote write followed by an unconditional refetch of the
// full cart, so the server's pricing truth (including the total) replaces
// local state. Remote failures leave the in-memory cart untouched and are
// returned to the caller; a 401 anywhere means the session expired and the
// engine drops back to guest mode.
//
// The guest cart is intentionally NOT merged into the server cart on login:
// the remote cart becomes the source of truth and the guest file stays on
// disk, so logging out restores it.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/mlmarketplace/storefront/internal/port"
)

type Engine struct {
	remote port.RemoteCart
	auth   port.RemoteAuth
	store  port.GuestStore
	logger *slog.Logger

	mu       sync.Mutex
	mode     domain.Mode
	cart     domain.Cart
	identity *domain.Identity
}

func New(remote port.RemoteCart, auth port.RemoteAuth, store port.GuestStore, logger *slog.Logger) (*Engine, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote is nil")
	}
	if auth == nil {
		return nil, fmt.Errorf("auth is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		remote: remote,
		auth:   auth,
		store:  store,
		logger: logger,
		mode:   domain.ModeGuest,
		cart:   domain.Cart{Mode: domain.ModeGuest, Total: domain.ZeroMoney()},
	}, nil
}

// Start resolves the initial mode from the persisted identity. With a stored
// token the session begins authenticated and the remote cart is fetched;
// otherwise the guest cart is loaded from the local store.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	identity, err := e.store.LoadIdentity()
	if err != nil {
		e.logger.Warn("loading stored identity failed, starting as guest", "err", err)
	}

	if identity == nil {
		e.loadGuestCartLocked()
		return nil
	}

	e.identity = identity
	e.auth.SetToken(identity.Token)
	e.mode = domain.ModeAuthenticated
	e.cart = domain.Cart{Mode: domain.ModeAuthenticated, Total: domain.ZeroMoney()}

	if err := e.refetchLocked(ctx); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			e.expireSessionLocked()
			return nil
		}
		return fmt.Errorf("fetching remote cart: %w", err)
	}
	return nil
}

// Add puts quantity units of the product into the cart, incrementing the
// existing line when the product is already there. A quantity below one is
// normalized to one.
func (e *Engine) Add(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.ModeGuest {
		if i := e.cart.FindProduct(product.ID); i >= 0 {
			e.cart.Lines[i].Quantity += quantity
		} else {
			e.cart.Lines = append(e.cart.Lines, domain.CartLine{
				ID:        uuid.New(),
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.Price,
				Product:   product.Snapshot(),
				CreatedAt: time.Now(),
			})
		}
		e.commitGuestLocked()
		return nil
	}

	if err := e.remote.AddItem(ctx, product.ID, quantity); err != nil {
		return e.remoteFailureLocked("add", err)
	}
	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("add refetch", err)
	}
	return nil
}

// Remove deletes the line with the given id; removing an unknown line is a
// no-op in guest mode.
func (e *Engine) Remove(ctx context.Context, lineID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.ModeGuest {
		e.removeGuestLocked(lineID)
		return nil
	}

	if err := e.remote.RemoveItem(ctx, lineID); err != nil {
		return e.remoteFailureLocked("remove", err)
	}
	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("remove refetch", err)
	}
	return nil
}

// Update sets the line's quantity. A quantity of zero or less removes the
// line, matching the server's PUT semantics.
func (e *Engine) Update(ctx context.Context, lineID uuid.UUID, quantity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.ModeGuest {
		if quantity <= 0 {
			e.removeGuestLocked(lineID)
			return nil
		}
		if i := e.cart.FindLine(lineID); i >= 0 {
			e.cart.Lines[i].Quantity = quantity
			e.commitGuestLocked()
		}
		return nil
	}

	if err := e.remote.UpdateItem(ctx, lineID, quantity); err != nil {
		return e.remoteFailureLocked("update", err)
	}
	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("update refetch", err)
	}
	return nil
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.ModeGuest {
		e.cart.Lines = nil
		e.commitGuestLocked()
		return nil
	}

	if err := e.remote.ClearCart(ctx); err != nil {
		return e.remoteFailureLocked("clear", err)
	}
	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("clear refetch", err)
	}
	return nil
}

// Refresh re-reads the cart from its current source of truth. Callers use it
// after out-of-band mutations such as checkout.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode == domain.ModeGuest {
		e.loadGuestCartLocked()
		return nil
	}
	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("refresh", err)
	}
	return nil
}

// Login authenticates and switches the source of truth to the remote cart.
// The guest cart is not transferred; its file stays in the local store.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	identity, err := e.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return e.becomeAuthenticated(ctx, identity)
}

// Register creates an account and transitions like Login.
func (e *Engine) Register(ctx context.Context, input port.RegisterInput) error {
	identity, err := e.auth.Register(ctx, input)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return e.becomeAuthenticated(ctx, identity)
}

// Logout clears the identity and the in-memory cart; whatever is left in the
// guest store becomes the active cart again.
func (e *Engine) Logout() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expireSessionLocked()
}

func (e *Engine) Cart() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

func (e *Engine) Mode() domain.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

func (e *Engine) Total() domain.Money {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Total
}

// ItemsCount feeds the header badge: the sum of quantities across lines.
func (e *Engine) ItemsCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.ItemsCount()
}

func (e *Engine) Identity() *domain.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.identity == nil {
		return nil
	}
	identity := *e.identity
	return &identity
}

// ---- internals ----

func (e *Engine) becomeAuthenticated(ctx context.Context, identity domain.Identity) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.identity = &identity
	if err := e.store.SaveIdentity(identity); err != nil {
		e.logger.Warn("persisting identity failed", "err", err)
	}

	e.mode = domain.ModeAuthenticated
	e.cart = domain.Cart{Mode: domain.ModeAuthenticated, Total: domain.ZeroMoney()}

	if err := e.refetchLocked(ctx); err != nil {
		return e.remoteFailureLocked("post-login fetch", err)
	}
	return nil
}

func (e *Engine) refetchLocked(ctx context.Context) error {
	remote, err := e.remote.GetCart(ctx)
	if err != nil {
		return err
	}
	remote.Mode = domain.ModeAuthenticated
	e.cart = remote
	return nil
}

// remoteFailureLocked is the single place a failed remote operation is
// classified: a 401 expires the session, everything else leaves state as it
// was. Either way the caller gets the error back.
func (e *Engine) remoteFailureLocked(op string, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		e.logger.Warn("session expired, falling back to guest cart", "op", op)
		e.expireSessionLocked()
		return fmt.Errorf("%s: %w", op, err)
	}
	e.logger.Warn("remote cart operation failed, state unchanged", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (e *Engine) expireSessionLocked() {
	e.auth.ClearToken()
	e.identity = nil
	if err := e.store.ClearIdentity(); err != nil {
		e.logger.Warn("clearing stored identity failed", "err", err)
	}
	e.mode = domain.ModeGuest
	e.loadGuestCartLocked()
}

func (e *Engine) loadGuestCartLocked() {
	lines, err := e.store.LoadCart()
	if err != nil {
		e.logger.Warn("loading guest cart failed, starting empty", "err", err)
		lines = nil
	}
	e.cart = domain.Cart{Lines: lines, Mode: domain.ModeGuest}
	e.cart.Total = e.cart.ComputeTotal()
}

func (e *Engine) removeGuestLocked(lineID uuid.UUID) {
	i := e.cart.FindLine(lineID)
	if i < 0 {
		return
	}
	e.cart.Lines = append(e.cart.Lines[:i], e.cart.Lines[i+1:]...)
	e.commitGuestLocked()
}

// commitGuestLocked recomputes the derived total and mirrors the lines to the
// local store. The mirror is best effort: the in-memory cart stays valid even
// when the disk write fails.
func (e *Engine) commitGuestLocked() {
	e.cart.Mode = domain.ModeGuest
	e.cart.Total = e.cart.ComputeTotal()
	if err := e.store.SaveCart(e.cart.Lines); err != nil {
		e.logger.Warn("mirroring guest cart failed", "err", err)
	}
}
