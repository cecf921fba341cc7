package tags

// Customer is the subset of a customer document the resolver consumes.
type Customer struct {
	ID   string      `json:"id"`
	Tags []Reference `json:"tags"`
}

// Address carries address-specific deviations from the customer defaults.
type Address struct {
	ID           string      `json:"id"`
	CustomerID   string      `json:"customer_id"`
	TagOverrides []Reference `json:"tag_overrides"`
}

// ResolveEffectiveTags overlays addressOverrides onto customerTags by prefix and
// returns the resulting full tags. Customer order is kept; prefixes introduced
// by an override are appended. When overrides repeat a prefix the later one wins.
func ResolveEffectiveTags(customerTags, addressOverrides []Reference) []string {
	order := make([]string, 0, len(customerTags)+len(addressOverrides))
	byPrefix := make(map[string]string, len(customerTags)+len(addressOverrides))
	put := func(ref Reference) {
		if _, seen := byPrefix[ref.Prefix]; !seen {
			order = append(order, ref.Prefix)
		}
		byPrefix[ref.Prefix] = ref.FullTag
	}
	for _, ref := range customerTags {
		put(ref)
	}
	for _, ref := range addressOverrides {
		put(ref)
	}
	out := make([]string, 0, len(order))
	for _, prefix := range order {
		out = append(out, byPrefix[prefix])
	}
	return out
}

// ForContext resolves the effective tags of a customer at an optional address.
// A nil address behaves as an address without overrides.
func ForContext(c Customer, a *Address) []string {
	var overrides []Reference
	if a != nil {
		overrides = a.TagOverrides
	}
	return ResolveEffectiveTags(c.Tags, overrides)
}

// Intersects reports whether filter and effective share at least one full tag.
func Intersects(filter, effective []string) bool {
	if len(filter) == 0 || len(effective) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(effective))
	for _, tag := range effective {
		set[tag] = struct{}{}
	}
	for _, tag := range filter {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}

// Visible reports whether content scoped by filter is visible to effective.
// An empty filter is universal.
func Visible(filter, effective []string) bool {
	return len(filter) == 0 || Intersects(filter, effective)
}
