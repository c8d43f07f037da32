package core

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/koeppern/gtd-system-sub000/internal/logging"
)

// Resolver turns free-text references into ids using a LookupCache.
//
// Matching is exact on the normalized name first. Failing that, the first
// cached name (in store order) that contains the reference or is contained
// in it wins. There is no confidence score; a short reference can link to
// the wrong project, and that is accepted.
type Resolver struct {
	cache *LookupCache
}

// NewResolver creates a resolver over cache.
func NewResolver(cache *LookupCache) *Resolver {
	return &Resolver{cache: cache}
}

// ExtractReferenceName returns the display part of a composite reference
// such as "Alpha Project (https://www.notion.so/...)": the text before the
// first "(", trimmed. Without a usable prefix the whole trimmed value is used.
func ExtractReferenceName(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "("); i >= 0 {
		if name := strings.TrimSpace(s[:i]); name != "" {
			return name
		}
	}
	return s
}

// ResolveProjectReference resolves a task's project cell. The returned name
// keeps its original case; id is null when nothing matched.
func (r *Resolver) ResolveProjectReference(ctx context.Context, raw string) (pgtype.Text, pgtype.Int4) {
	name, id, ok := r.resolve(ctx, EntityProject, raw)
	if name == "" {
		return pgtype.Text{}, pgtype.Int4{}
	}
	return pgtype.Text{String: name, Valid: true}, ToPgInt4(id, ok)
}

// ResolveField resolves a category label such as "Work" to its id.
// Categories are never created here; unknown labels resolve to null.
func (r *Resolver) ResolveField(ctx context.Context, raw string) pgtype.Int4 {
	_, id, ok := r.resolve(ctx, EntityField, raw)
	return ToPgInt4(id, ok)
}

func (r *Resolver) resolve(ctx context.Context, t EntityType, raw string) (string, int32, bool) {
	if text := CleanText(raw); !text.Valid {
		return "", 0, false
	}

	name := ExtractReferenceName(raw)
	key := NormalizeKey(name)
	if key == "" {
		return "", 0, false
	}

	lookup := r.cache.Get(ctx, t)
	if id, ok := lookup.ID(key); ok {
		return name, id, true
	}

	id, matched, candidates := containmentMatch(lookup, key)
	if candidates > 0 {
		logger := logging.FromContext(ctx)
		logger.Debug("reference resolved by substring",
			"entity", t,
			"reference", name,
			"matched", matched,
			"candidates", candidates,
		)
		if candidates > 1 {
			logger.Info("ambiguous reference linked to first match",
				"entity", t,
				"reference", name,
				"matched", matched,
				"candidates", candidates,
			)
		}
		return name, id, true
	}

	return name, 0, false
}

// containmentMatch scans keys in order for either-direction containment.
// It returns the first hit and the total number of candidates.
func containmentMatch(l Lookup, key string) (int32, string, int) {
	var (
		firstID  int32
		firstKey string
		count    int
	)
	for _, k := range l.Keys() {
		if strings.Contains(k, key) || strings.Contains(key, k) {
			if count == 0 {
				firstID, _ = l.ID(k)
				firstKey = k
			}
			count++
		}
	}
	return firstID, firstKey, count
}
