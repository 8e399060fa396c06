package cart

import (
	"context"
	"encoding/json"

	"github.com/vitalmart/storefront/internal/models"
)

// readGuestCart decodes the persisted guest blob. A missing, corrupt, or
// unreadable blob reads as an empty cart, never as an error.
func (s *Service) readGuestCart(ctx context.Context) *models.UserCart {
	raw, ok, err := s.store.Get(ctx, guestCartKey)
	if err != nil || !ok || raw == "" {
		return models.EmptyCart(models.GuestUserID)
	}
	var cart models.UserCart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.log.Debug("discarding corrupt guest cart blob")
		return models.EmptyCart(models.GuestUserID)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	cart.UserID = models.GuestUserID
	cart.Recalculate()
	return &cart
}

// writeGuestCart re-encodes and persists the whole structure. Guest mutations
// are always read-modify-write on the full blob; there are no field-level
// writes.
func (s *Service) writeGuestCart(ctx context.Context, cart *models.UserCart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, guestCartKey, string(raw))
}
