package tags

// Upsert returns a copy of refs holding ref. An entry with the same prefix is
// replaced in place; otherwise ref is appended.
func Upsert(refs []Reference, ref Reference) []Reference {
	out := make([]Reference, 0, len(refs)+1)
	replaced := false
	for _, existing := range refs {
		if existing.Prefix == ref.Prefix {
			if !replaced {
				out = append(out, ref)
				replaced = true
			}
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, ref)
	}
	return out
}

// Remove returns a copy of refs without entries whose full tag equals fullTag.
func Remove(refs []Reference, fullTag string) []Reference {
	out := make([]Reference, 0, len(refs))
	for _, existing := range refs {
		if existing.FullTag == fullTag {
			continue
		}
		out = append(out, existing)
	}
	return out
}

// Prefixes lists the distinct prefixes of refs in first-seen order.
func Prefixes(refs []Reference) []string {
	seen := make(map[string]struct{}, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.Prefix]; ok {
			continue
		}
		seen[ref.Prefix] = struct{}{}
		out = append(out, ref.Prefix)
	}
	return out
}
