// Package store holds the client's single source of truth: session token,
// current view, catalog and cart snapshots, and the loading/error flags the
// views render. Every backend call goes through here.
package store

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/VictorWes/PontoDosJogosFull/internal/domain"
	"github.com/VictorWes/PontoDosJogosFull/internal/events"
	"github.com/VictorWes/PontoDosJogosFull/internal/gateway"
	"github.com/VictorWes/PontoDosJogosFull/internal/signal"
)

// Gateway is the backend the store talks to.
// Consumers define this interface, not the HTTP implementation.
type Gateway interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListProducts(ctx context.Context, token string) ([]domain.Product, error)
	GetCart(ctx context.Context, token string) (*domain.Cart, error)
	AddItem(ctx context.Context, token string, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, token string, itemID int64) error
}

// TokenStore persists the session token across restarts.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Emitter receives the store's success signals.
type Emitter interface {
	Emit(ctx context.Context, e events.Event) error
}

// Default messages shown when the backend gives us nothing better.
const (
	msgLoginFailed        = "login failed"
	msgLoadProductsFailed = "could not load products"
	msgLoadCartFailed     = "could not load cart"
	msgAddItemFailed      = "could not add item to cart"
	msgRemoveItemFailed   = "could not remove item from cart"
	msgSessionExpired     = "session expired, please sign in again"
)

type Store struct {
	gw      Gateway
	tokens  TokenStore
	emitter Emitter

	token    *signal.Value[string]
	view     *signal.Value[domain.View]
	loading  *signal.Value[bool]
	lastErr  *signal.Value[string]
	products *signal.Value[[]domain.Product]
	cart     *signal.Value[*domain.Cart]

	authenticated *signal.Value[bool]
	itemCount     *signal.Value[int]

	// Collapses concurrent cart reloads into one backend call. The original
	// client let them race last-write-wins; deduplicating is strictly safer.
	cartFlight singleflight.Group
}

// New seeds the session from the token store (read once at startup) and
// derives the initial view: catalog when a token survived, login otherwise.
func New(gw Gateway, tokens TokenStore, emitter Emitter) *Store {
	if emitter == nil {
		emitter = events.Nop{}
	}

	token, err := tokens.Load(context.Background())
	if err != nil {
		log.Printf("token store read failed: %v", err)
		token = ""
	}
	view := domain.ViewLogin
	if token != "" {
		view = domain.ViewCatalog
	}

	s := &Store{
		gw:       gw,
		tokens:   tokens,
		emitter:  emitter,
		token:    signal.New(token),
		view:     signal.New(view),
		loading:  signal.New(false),
		lastErr:  signal.New(""),
		products: signal.New[[]domain.Product](nil),
		cart:     signal.New[*domain.Cart](nil),
	}
	s.authenticated = signal.Map(s.token, func(t string) bool { return t != "" })
	s.itemCount = signal.Map(s.cart, func(c *domain.Cart) int { return c.ItemCount() })
	return s
}

// Observable surface. Views read and subscribe, never write.

func (s *Store) View() signal.Source[domain.View]          { return s.view }
func (s *Store) Loading() signal.Source[bool]              { return s.loading }
func (s *Store) Err() signal.Source[string]                { return s.lastErr }
func (s *Store) Products() signal.Source[[]domain.Product] { return s.products }
func (s *Store) Cart() signal.Source[*domain.Cart]         { return s.cart }
func (s *Store) Authenticated() signal.Source[bool]        { return s.authenticated }
func (s *Store) CartItemCount() signal.Source[int]         { return s.itemCount }

func (s *Store) IsAuthenticated() bool { return s.token.Get() != "" }

// Hydrate performs the automatic catalog/cart loads for a session restored at
// startup. No-op when logged out.
func (s *Store) Hydrate(ctx context.Context) {
	if !s.IsAuthenticated() {
		return
	}
	s.LoadProducts(ctx)
	s.LoadCart(ctx)
}

// Login authenticates and, on success, switches to the catalog and loads
// products and cart as part of the same logical transaction. Their individual
// failures surface their own errors without undoing the login.
func (s *Store) Login(ctx context.Context, email, password string) {
	s.lastErr.Set("")
	s.loading.Set(true)
	defer s.loading.Set(false)

	token, err := s.gw.Login(ctx, email, password)
	if err != nil {
		// Make sure no stale or partial session survives a failed login.
		s.dropSession(ctx)
		s.lastErr.Set(errorMessage(err, msgLoginFailed))
		return
	}

	s.token.Set(token)
	if err := s.tokens.Save(ctx, token); err != nil {
		log.Printf("persist token failed: %v", err)
	}
	s.view.Set(domain.ViewCatalog)
	s.emit(ctx, events.Event{Type: events.TypeLoginSucceeded, OccurredAt: time.Now()})

	s.LoadProducts(ctx)
	s.LoadCart(ctx)
}

// Logout is a pure local reset: token, view, cart, products and error all go
// back to their unauthenticated defaults. No network call, cannot fail.
func (s *Store) Logout(ctx context.Context) {
	s.dropSession(ctx)
	s.view.Set(domain.ViewLogin)
	s.cart.Set(nil)
	s.products.Set(nil)
	s.lastErr.Set("")
}

func (s *Store) LoadProducts(ctx context.Context) {
	token := s.token.Get()
	if token == "" {
		return
	}
	s.lastErr.Set("")
	s.loading.Set(true)
	defer s.loading.Set(false)

	products, err := s.gw.ListProducts(ctx, token)
	if err != nil {
		s.products.Set([]domain.Product{})
		s.fail(ctx, err, msgLoadProductsFailed)
		return
	}
	s.products.Set(products)
}

// LoadCart replaces the cart with the server snapshot. A not-found answer
// means "no cart yet" and maps to an empty placeholder cart; any other
// failure clears the cart entirely so a stale snapshot is never shown.
func (s *Store) LoadCart(ctx context.Context) {
	token := s.token.Get()
	if token == "" {
		return
	}
	s.lastErr.Set("")
	s.loading.Set(true)
	defer s.loading.Set(false)

	_, _, _ = s.cartFlight.Do("cart", func() (interface{}, error) {
		cart, err := s.gw.GetCart(ctx, token)
		switch {
		case err == nil:
			s.cart.Set(cart)
		case gateway.IsNotFound(err):
			s.cart.Set(domain.EmptyCart())
		default:
			s.cart.Set(nil)
			s.fail(ctx, err, msgLoadCartFailed)
		}
		return nil, nil
	})
}

// AddItem sends the add request and replaces the cart with the server's
// updated snapshot. It flags the product as "adding" for the duration of the
// call instead of using the global loading flag, so the rest of the catalog
// stays interactive.
func (s *Store) AddItem(ctx context.Context, productID int64, quantity int) {
	token := s.token.Get()
	if token == "" {
		return
	}
	if quantity <= 0 {
		quantity = 1
	}
	s.lastErr.Set("")

	s.setAdding(productID, true)
	defer s.setAdding(productID, false)

	cart, err := s.gw.AddItem(ctx, token, productID, quantity)
	if err != nil {
		s.fail(ctx, err, msgAddItemFailed)
		return
	}
	s.cart.Set(cart)
	s.emit(ctx, events.Event{
		Type:       events.TypeItemAdded,
		OccurredAt: time.Now(),
		ProductID:  productID,
		Quantity:   quantity,
	})
}

// RemoveItem deletes a cart item and then reloads the whole cart, so the
// resulting snapshot is authoritative rather than a local splice.
func (s *Store) RemoveItem(ctx context.Context, itemID int64) {
	token := s.token.Get()
	if token == "" {
		return
	}
	s.lastErr.Set("")
	s.loading.Set(true)
	defer s.loading.Set(false)

	if err := s.gw.RemoveItem(ctx, token, itemID); err != nil {
		s.fail(ctx, err, msgRemoveItemFailed)
		return
	}
	s.LoadCart(ctx)
}

func (s *Store) NavigateTo(view domain.View) {
	s.view.Set(view)
	s.lastErr.Set("")
}

// fail applies the shared failure policy: use the backend's message when it
// sent one, fall back to the operation default, and force a full logout when
// the backend no longer accepts our token.
func (s *Store) fail(ctx context.Context, err error, fallback string) {
	if gateway.IsAuthFailure(err) {
		s.Logout(ctx)
		s.lastErr.Set(msgSessionExpired)
		return
	}
	s.lastErr.Set(errorMessage(err, fallback))
}

func (s *Store) dropSession(ctx context.Context) {
	s.token.Set("")
	if err := s.tokens.Clear(ctx); err != nil {
		log.Printf("clear persisted token failed: %v", err)
	}
}

func (s *Store) setAdding(productID int64, adding bool) {
	// Copy-on-write so readers holding the previous slice never observe a
	// half-applied flag change.
	s.products.Update(func(ps []domain.Product) []domain.Product {
		out := make([]domain.Product, len(ps))
		copy(out, ps)
		for i := range out {
			if out[i].ID == productID {
				out[i].Adding = adding
			}
		}
		return out
	})
}

func (s *Store) emit(ctx context.Context, e events.Event) {
	if err := s.emitter.Emit(ctx, e); err != nil {
		log.Printf("emit %s event failed: %v", e.Type, err)
	}
}

func errorMessage(err error, fallback string) string {
	if msg := gateway.Message(err); msg != "" {
		return msg
	}
	return fallback
}
