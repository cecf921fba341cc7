package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/packaging"
	"github.com/noah-isme/toko-pricing/internal/pricing"
	"github.com/noah-isme/toko-pricing/internal/promotion"
	"github.com/noah-isme/toko-pricing/internal/tags"
	"github.com/noah-isme/toko-pricing/internal/tenant"
)

var (
	// ErrCustomerRequired is returned when no customer id is provided.
	ErrCustomerRequired = errors.New("storefront: customer id is required")
	// ErrNotFound is returned by a TagSource when a document does not exist.
	ErrNotFound = errors.New("storefront: document not found")
	// ErrAddressMismatch is returned when the address belongs to another customer.
	ErrAddressMismatch = errors.New("storefront: address does not belong to customer")
)

// TagSource loads the tag-bearing documents owned by the persistence layer.
type TagSource interface {
	Customer(ctx context.Context, customerID string) (tags.Customer, error)
	Address(ctx context.Context, addressID string) (tags.Address, error)
}

// Resolved is the storefront view of a set of packaging options.
type Resolved struct {
	EffectiveTags []string           `json:"effective_tags"`
	Options       []packaging.Option `json:"options"`
}

// Service resolves what a customer context may see of tag-scoped prices and promotions.
type Service struct {
	Source  TagSource
	Cache   *Cache
	Metrics *obs.PricingMetrics
	Logger  zerolog.Logger
	Tracer  trace.Tracer
	// Now is the clock promotion validity windows are checked against.
	Now func() time.Time
}

// EffectiveTags returns the tags of customerID at addressID. addressID may be empty.
func (s *Service) EffectiveTags(ctx context.Context, customerID, addressID string) ([]string, error) {
	if s == nil || s.Source == nil {
		return nil, errors.New("storefront service not configured")
	}
	customerID = strings.TrimSpace(customerID)
	addressID = strings.TrimSpace(addressID)
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	ctx, span := s.tracer().Start(ctx, "storefront.EffectiveTags", trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("address.id", addressID),
	))
	defer span.End()

	key := tagsKey(ctx, customerID, addressID)
	var cached []string
	hit, err := s.Cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("read tag cache")
	}
	if hit {
		s.Metrics.ObserveTagResolution("cache")
		return cached, nil
	}

	customer, err := s.Source.Customer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load customer %s: %w", customerID, err)
	}
	var address *tags.Address
	if addressID != "" {
		a, err := s.Source.Address(ctx, addressID)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("load address %s: %w", addressID, err)
		}
		if a.CustomerID != "" && a.CustomerID != customer.ID {
			return nil, ErrAddressMismatch
		}
		address = &a
	}

	effective := tags.ForContext(customer, address)
	s.Metrics.ObserveTagResolution("resolved")
	if err := s.Cache.SetJSON(ctx, key, effective); err != nil {
		s.Logger.Warn().Err(err).Str("key", key).Msg("write tag cache")
	}
	s.Logger.Debug().
		Str("customer_id", customerID).
		Str("address_id", addressID).
		Strs("effective_tags", effective).
		Msg("effective tags resolved")
	return effective, nil
}

// ResolvePackaging hides prices and promotions of options that the customer
// context may not see and prices the visible promotions.
func (s *Service) ResolvePackaging(ctx context.Context, customerID, addressID string, options []packaging.Option) (Resolved, error) {
	effective, err := s.EffectiveTags(ctx, customerID, addressID)
	if err != nil {
		return Resolved{}, err
	}
	_, span := s.tracer().Start(ctx, "storefront.ResolvePackaging", trace.WithAttributes(
		attribute.Int("packaging.count", len(options)),
	))
	defer span.End()

	return s.resolve(effective, options), nil
}

// ResolveForContext is ResolvePackaging for documents the caller already holds.
func (s *Service) ResolveForContext(customer tags.Customer, address *tags.Address, options []packaging.Option) Resolved {
	return s.resolve(tags.ForContext(customer, address), options)
}

func (s *Service) resolve(effective []string, options []packaging.Option) Resolved {
	resolved, report := packaging.ResolveWithReport(options, effective)
	cleared := 0
	now := s.now()
	for i, opt := range resolved {
		res := report[i]
		if res.PricingCleared {
			cleared++
		}
		s.Metrics.ObservePackaging(res.PricingCleared, res.PromotionsKept, res.PromotionsFiltered)
		if opt.Promotions != nil {
			applicable := promotion.Applicable(opt.Promotions, now, opt.Quantity)
			s.Metrics.ObserveInapplicable(len(opt.Promotions) - len(applicable))
			opt.Promotions = applicable
		}
		resolved[i] = packaging.PriceOption(opt)
		for _, p := range resolved[i].Promotions {
			if !p.Discount.Kind.Valid() {
				s.Logger.Warn().Str("promotion_id", p.ID).Str("kind", string(p.Discount.Kind)).Msg("promotion has no valid discount")
				continue
			}
			s.Metrics.ObserveDiscountChain(string(p.Discount.Kind), !p.PromoPrice.Valid)
		}
	}
	s.Logger.Debug().
		Int("options", len(options)).
		Int("pricing_cleared", cleared).
		Msg("packaging resolved")
	return Resolved{EffectiveTags: effective, Options: resolved}
}

// Preview normalizes a promotion draft against the packaging prices and
// calculates its discount chain. ok is false while the draft has no value for
// its selected method.
func (s *Service) Preview(ctx context.Context, draft pricing.Draft, list pricing.Money, sale decimal.NullDecimal) (pricing.Draft, pricing.Result, bool) {
	_, span := s.tracer().Start(ctx, "storefront.Preview")
	defer span.End()

	normalized, res, ok := draft.Preview(list, sale)
	if normalized.Kind != draft.Kind && draft.Kind.Valid() {
		s.Logger.Info().
			Str("requested", string(draft.Kind)).
			Str("applied", string(normalized.Kind)).
			Msg("pricing method forced without list price")
	}
	if ok {
		s.Metrics.ObserveDiscountChain(string(res.Method.Kind), res.Forced)
	}
	return normalized, res, ok
}

// UpsertCustomerTag returns c with ref applied and drops the cached tags of c.
func (s *Service) UpsertCustomerTag(ctx context.Context, c tags.Customer, ref tags.Reference) (tags.Customer, error) {
	if err := ref.Validate(); err != nil {
		return c, err
	}
	out := tags.Customer{ID: c.ID, Tags: tags.Upsert(c.Tags, ref)}
	return out, s.Invalidate(ctx, c.ID, "")
}

// RemoveCustomerTag returns c without fullTag and drops the cached tags of c.
func (s *Service) RemoveCustomerTag(ctx context.Context, c tags.Customer, fullTag string) (tags.Customer, error) {
	out := tags.Customer{ID: c.ID, Tags: tags.Remove(c.Tags, fullTag)}
	return out, s.Invalidate(ctx, c.ID, "")
}

// UpsertAddressOverride returns a with ref applied and drops the cached tags of
// the address. The address id is used so addresses without a customer id are
// invalidated too.
func (s *Service) UpsertAddressOverride(ctx context.Context, a tags.Address, ref tags.Reference) (tags.Address, error) {
	if err := ref.Validate(); err != nil {
		return a, err
	}
	out := tags.Address{ID: a.ID, CustomerID: a.CustomerID, TagOverrides: tags.Upsert(a.TagOverrides, ref)}
	return out, s.Invalidate(ctx, "", a.ID)
}

// RemoveAddressOverride returns a without fullTag and drops the cached tags of the address.
func (s *Service) RemoveAddressOverride(ctx context.Context, a tags.Address, fullTag string) (tags.Address, error) {
	out := tags.Address{ID: a.ID, CustomerID: a.CustomerID, TagOverrides: tags.Remove(a.TagOverrides, fullTag)}
	return out, s.Invalidate(ctx, "", a.ID)
}

// Invalidate drops the cached tag sets of customerID, at every address, and
// of addressID, for every customer. Either id may be empty.
func (s *Service) Invalidate(ctx context.Context, customerID, addressID string) error {
	if s == nil {
		return nil
	}
	customerID = strings.TrimSpace(customerID)
	addressID = strings.TrimSpace(addressID)
	total := 0
	if customerID != "" {
		n, err := s.Cache.DeletePrefix(ctx, tenant.Key(ctx, "tags:"+customerID+":"))
		if err != nil {
			return fmt.Errorf("invalidate tag cache: %w", err)
		}
		total += n
	}
	if addressID != "" {
		pattern := EscapePattern(tenant.Key(ctx, "tags:")) + "*:" + EscapePattern(addressID)
		n, err := s.Cache.DeleteMatch(ctx, pattern)
		if err != nil {
			return fmt.Errorf("invalidate tag cache: %w", err)
		}
		total += n
	}
	if total > 0 {
		s.Logger.Debug().
			Str("customer_id", customerID).
			Str("address_id", addressID).
			Int("keys", total).
			Msg("tag cache invalidated")
	}
	return nil
}

func (s *Service) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return obs.Tracer()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func tagsKey(ctx context.Context, customerID, addressID string) string {
	if addressID == "" {
		addressID = "-"
	}
	return tenant.Key(ctx, "tags:"+customerID+":"+addressID)
}
