package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"triphub/internal/domain"
)

// maxKeyLen bounds stored keys; longer canonical forms are hashed.
const maxKeyLen = 256

// BuildKey derives a stable key for endpoint and f. The order in which filter
// values were supplied, their case and surrounding whitespace do not matter.
// Callers pass an already normalized spec so that clamped paging and resolved
// date presets share keys with their explicit equivalents.
//
// The canonical form lists every field in a fixed order as name=value;
// values are Go-quoted so no value can spill into a neighbouring field.
func BuildKey(endpoint string, f domain.FilterSpec) string {
	var b strings.Builder
	writeList(&b, "origins", f.Origins)
	writeList(&b, "destinations", f.Destinations)
	writeList(&b, "transportTypes", f.TransportTypes)
	writeList(&b, "operators", f.Operators)
	writeList(&b, "providers", f.Providers)
	writeValue(&b, "start", strconv.Quote(strings.TrimSpace(f.DateRange.Start)))
	writeValue(&b, "end", strconv.Quote(strings.TrimSpace(f.DateRange.End)))
	writeValue(&b, "preset", strconv.Quote(canonicalValue(f.DateRange.Preset)))
	writeValue(&b, "sortField", strconv.Quote(canonicalValue(f.Sort.Field)))
	writeValue(&b, "sortDirection", strconv.Quote(canonicalValue(f.Sort.Direction)))
	writeValue(&b, "page", strconv.Itoa(f.Page))
	writeValue(&b, "limit", strconv.Itoa(f.Limit))
	canonical := b.String()

	prefix := strings.TrimSpace(endpoint) + "|"
	if len(prefix)+len(canonical) <= maxKeyLen {
		return prefix + canonical
	}
	sum := sha256.Sum256([]byte(canonical))
	return prefix + "sha256:" + hex.EncodeToString(sum[:])
}

func writeValue(b *strings.Builder, name, value string) {
	if b.Len() > 0 {
		b.WriteByte(';')
	}
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)
}

func writeList(b *strings.Builder, name string, values []string) {
	vals := canonicalValues(values)
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = strconv.Quote(v)
	}
	writeValue(b, name, "["+strings.Join(quoted, ",")+"]")
}

func canonicalValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func canonicalValues(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = canonicalValue(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
