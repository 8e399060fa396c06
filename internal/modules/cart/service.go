// Package cart is the reconciler presenting one cart API over two backing
// stores: the server-authoritative cart of an identified user and the locally
// persisted guest cart. Every operation resolves its owner fresh and pushes
// the new item count to the broadcast bus.
package cart

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/vitalmart/storefront/internal/models"
	"github.com/vitalmart/storefront/internal/modules/catalog"
	"github.com/vitalmart/storefront/internal/modules/session"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/bus"
	"github.com/vitalmart/storefront/internal/pkg/kvstore"
	"go.uber.org/zap"
)

type Service struct {
	store   kvstore.Store
	api     *apiclient.Client
	catalog *catalog.Service
	session *session.Service
	bus     *bus.Bus
	log     *zap.Logger

	// serializes guest read-modify-write cycles
	mu sync.Mutex
}

func NewService(store kvstore.Store, api *apiclient.Client, cat *catalog.Service, sess *session.Service, b *bus.Bus, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		api:     api,
		catalog: cat,
		session: sess,
		bus:     b,
		log:     logger,
	}
}

// WatchSession wires the session-transition handler: logout destroys the
// guest cart and zeroes the count; login refreshes the count from the account
// cart. Guest items are not merged into the account cart on login.
func (s *Service) WatchSession() *bus.Subscription {
	return s.bus.SubscribeSession(func(ev bus.SessionEvent) {
		ctx := context.Background()
		if ev.Token == nil {
			s.mu.Lock()
			_ = s.store.Delete(ctx, guestCartKey)
			s.mu.Unlock()
			s.bus.PublishCartCount(0)
			return
		}
		if _, err := s.GetCart(ctx, nil); err != nil {
			s.log.Warn("cart refresh after login failed", zap.Error(err))
		}
	})
}

// resolveOwner applies the explicit-then-session-then-guest rule using the
// current session identity.
func (s *Service) resolveOwner(ctx context.Context, explicit *int64) Owner {
	return resolveOwner(explicit, s.session.UserID(ctx))
}

// AddItem puts quantity units of a product into the active cart. The remote
// add is additive for existing lines. A guest add enriches the new line from
// the catalog; if that lookup fails the line is inserted as a zero-priced
// stub rather than failing the add.
func (s *Service) AddItem(ctx context.Context, explicit *int64, productID int64, quantity int) (*models.UserCart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	owner := s.resolveOwner(ctx, explicit)
	if !owner.IsGuest() {
		var cart models.UserCart
		err := s.api.PostJSON(ctx, "/api/cart/add",
			remoteCartRequest{UserID: owner.UserID, ProductID: productID, Quantity: quantity}, &cart)
		if err != nil {
			return nil, err
		}
		s.publishCount(&cart)
		return &cart, nil
	}

	s.mu.Lock()
	cart := s.readGuestCart(ctx)
	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		line := models.CartItem{ProductID: productID, Quantity: quantity}
		if p, err := s.catalog.GetByID(ctx, productID); err == nil {
			line.ProductName = p.Name
			line.UnitPrice = p.Price
		} else {
			// best-effort for guests: keep the stub, fix pricing later
			s.log.Warn("guest add without product details", zap.Int64("productId", productID), zap.Error(err))
		}
		cart.Items = append(cart.Items, line)
	}
	cart.Recalculate()
	err := s.writeGuestCart(ctx, cart)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("persist guest cart: %w", err)
	}
	s.publishCount(cart)
	return cart, nil
}

// GetCart fetches the active cart and broadcasts its count before returning.
// The guest path never fails.
func (s *Service) GetCart(ctx context.Context, explicit *int64) (*models.UserCart, error) {
	owner := s.resolveOwner(ctx, explicit)
	if !owner.IsGuest() {
		var cart models.UserCart
		if err := s.api.GetJSON(ctx, "/api/cart/"+strconv.FormatInt(owner.UserID, 10), nil, &cart); err != nil {
			return nil, err
		}
		s.publishCount(&cart)
		return &cart, nil
	}

	s.mu.Lock()
	cart := s.readGuestCart(ctx)
	s.mu.Unlock()
	s.publishCount(cart)
	return cart, nil
}

// UpdateItemQuantity sets an existing line to quantity. Values below 1 are
// rejected without touching state; a missing line is a no-op.
func (s *Service) UpdateItemQuantity(ctx context.Context, explicit *int64, productID int64, quantity int) (*models.UserCart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	owner := s.resolveOwner(ctx, explicit)
	if !owner.IsGuest() {
		var cart models.UserCart
		err := s.api.PutJSON(ctx, "/api/cart/update",
			remoteCartRequest{UserID: owner.UserID, ProductID: productID, Quantity: quantity}, &cart)
		if err != nil {
			return nil, err
		}
		s.publishCount(&cart)
		return &cart, nil
	}

	s.mu.Lock()
	cart := s.readGuestCart(ctx)
	var err error
	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity = quantity
		cart.Recalculate()
		err = s.writeGuestCart(ctx, cart)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("persist guest cart: %w", err)
	}
	s.publishCount(cart)
	return cart, nil
}

// RemoveItem deletes a line if present; removing an absent product id leaves
// the cart unchanged.
func (s *Service) RemoveItem(ctx context.Context, explicit *int64, productID int64) (*models.UserCart, error) {
	owner := s.resolveOwner(ctx, explicit)
	if !owner.IsGuest() {
		query := url.Values{}
		query.Set("userId", strconv.FormatInt(owner.UserID, 10))
		query.Set("productId", strconv.FormatInt(productID, 10))
		var cart models.UserCart
		if err := s.api.DeleteJSON(ctx, "/api/cart/item", query, &cart); err != nil {
			return nil, err
		}
		s.publishCount(&cart)
		return &cart, nil
	}

	s.mu.Lock()
	cart := s.readGuestCart(ctx)
	var err error
	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		cart.Recalculate()
		err = s.writeGuestCart(ctx, cart)
	}
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("persist guest cart: %w", err)
	}
	s.publishCount(cart)
	return cart, nil
}

// ClearCart empties the active cart and broadcasts a count of zero.
func (s *Service) ClearCart(ctx context.Context, explicit *int64) error {
	owner := s.resolveOwner(ctx, explicit)
	if !owner.IsGuest() {
		if _, err := s.api.Do(ctx, "DELETE", "/api/cart/"+strconv.FormatInt(owner.UserID, 10), nil, nil); err != nil {
			return err
		}
		s.bus.PublishCartCount(0)
		return nil
	}

	s.mu.Lock()
	err := s.store.Delete(ctx, guestCartKey)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear guest cart: %w", err)
	}
	s.bus.PublishCartCount(0)
	return nil
}

// Count is the most recently broadcast item count.
func (s *Service) Count() int {
	return s.bus.CartCount()
}

func (s *Service) publishCount(cart *models.UserCart) {
	s.bus.PublishCartCount(cart.ItemCount())
}

// IsEmpty reports whether the active cart has no lines; checkout uses this to
// reject ordering from an empty cart.
func (s *Service) IsEmpty(ctx context.Context, explicit *int64) (bool, error) {
	cart, err := s.GetCart(ctx, explicit)
	if err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok && apiErr.Status == 404 {
			return true, nil
		}
		return false, err
	}
	return len(cart.Items) == 0, nil
}
