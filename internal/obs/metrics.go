package obs

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics groups the Prometheus collectors of the pricing engine.
type PricingMetrics struct {
	TagResolutions     *prometheus.CounterVec
	PackagingPricing   *prometheus.CounterVec
	PromotionsFiltered *prometheus.CounterVec
	DiscountChains     *prometheus.CounterVec
}

// NewPricingMetrics registers and returns the pricing collectors. Collectors
// already present on reg are reused.
func NewPricingMetrics(namespace string, reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &PricingMetrics{
		TagResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_resolutions_total",
			Help:      "Effective tag resolutions by source (cache or resolved).",
		}, []string{"source"}),
		PackagingPricing: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "packaging_pricing_total",
			Help:      "Packaging options resolved, by pricing visibility outcome.",
		}, []string{"result"}),
		PromotionsFiltered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "promotions_filtered_total",
			Help:      "Promotions evaluated against effective tags, by outcome.",
		}, []string{"result"}),
		DiscountChains: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_chain_total",
			Help:      "Discount chains calculated, by applied method.",
		}, []string{"method"}),
	}
	mustRegister(reg, &m.TagResolutions)
	mustRegister(reg, &m.PackagingPricing)
	mustRegister(reg, &m.PromotionsFiltered)
	mustRegister(reg, &m.DiscountChains)
	return m
}

// ObserveTagResolution counts one effective tag resolution.
func (m *PricingMetrics) ObserveTagResolution(source string) {
	if m == nil {
		return
	}
	m.TagResolutions.WithLabelValues(source).Inc()
}

// ObservePackaging counts one resolved packaging option.
func (m *PricingMetrics) ObservePackaging(cleared bool, kept, filtered int) {
	if m == nil {
		return
	}
	result := "visible"
	if cleared {
		result = "cleared"
	}
	m.PackagingPricing.WithLabelValues(result).Inc()
	m.PromotionsFiltered.WithLabelValues("kept").Add(float64(kept))
	m.PromotionsFiltered.WithLabelValues("excluded").Add(float64(filtered))
}

// ObserveInapplicable counts tag-visible promotions dropped for their validity
// window, minimum quantity or stacking rule.
func (m *PricingMetrics) ObserveInapplicable(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.PromotionsFiltered.WithLabelValues("inapplicable").Add(float64(n))
}

// ObserveDiscountChain counts one calculated discount chain.
func (m *PricingMetrics) ObserveDiscountChain(method string, forced bool) {
	if m == nil {
		return
	}
	if forced {
		method += "_forced"
	}
	m.DiscountChains.WithLabelValues(method).Inc()
}

func mustRegister(reg prometheus.Registerer, counter **prometheus.CounterVec) {
	if err := reg.Register(*counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				*counter = existing
			}
			return
		}
		panic(fmt.Errorf("register counter: %w", err))
	}
}
