// Package catalog answers fuzzy, filtered and sorted queries over an
// immutable product catalog.
package catalog

import (
	"sort"
	"strings"
	"sync"
)

const (
	DefaultThreshold = 0.4
	DefaultCacheSize = 256
)

// Index holds the catalog and its search structure. It is safe for
// concurrent use; nothing mutates the catalog after NewIndex returns.
type Index struct {
	products   []Product
	entries    []entry
	byCode     map[string]int
	categories []string
	bands      []PriceBand
	threshold  float64
	cacheSize  int

	mu    sync.RWMutex
	cache map[string][]int
}

type Option func(*Index)

// WithThreshold sets the loosest accepted fuzzy score (0 exact, 1 anything).
func WithThreshold(t float64) Option {
	return func(ix *Index) {
		if t > 0 && t <= 1 {
			ix.threshold = t
		}
	}
}

// WithCacheSize bounds the number of cached search results. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(ix *Index) {
		if n >= 0 {
			ix.cacheSize = n
		}
	}
}

// WithBands replaces the default price bands.
func WithBands(bands []PriceBand) Option {
	return func(ix *Index) {
		ix.bands = append([]PriceBand(nil), bands...)
	}
}

func NewIndex(products []Product, opts ...Option) *Index {
	ix := &Index{
		products:  make([]Product, len(products)),
		entries:   make([]entry, len(products)),
		byCode:    make(map[string]int, len(products)),
		bands:     DefaultBands(),
		threshold: DefaultThreshold,
		cacheSize: DefaultCacheSize,
		cache:     map[string][]int{},
	}
	for _, opt := range opts {
		opt(ix)
	}

	seenCategory := map[string]bool{}
	for i, p := range products {
		ix.products[i] = p.clone()
		ix.entries[i] = newEntry(p)
		key := strings.ToLower(p.Code)
		if _, dup := ix.byCode[key]; !dup {
			ix.byCode[key] = i
		}
		if p.Category != "" && !seenCategory[p.Category] {
			seenCategory[p.Category] = true
			ix.categories = append(ix.categories, p.Category)
		}
	}
	return ix
}

// Len returns the catalog size.
func (ix *Index) Len() int {
	return len(ix.products)
}

// All returns the full catalog in original order.
func (ix *Index) All() []Product {
	out := make([]Product, len(ix.products))
	for i, p := range ix.products {
		out[i] = p.clone()
	}
	return out
}

// Lookup resolves a product code, ignoring case and surrounding space.
func (ix *Index) Lookup(code string) (Product, bool) {
	i, ok := ix.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return Product{}, false
	}
	return ix.products[i].clone(), true
}

// Categories lists distinct categories in first-seen catalog order.
func (ix *Index) Categories() []string {
	return append([]string(nil), ix.categories...)
}

// Bands returns the configured price bands.
func (ix *Index) Bands() []PriceBand {
	return append([]PriceBand(nil), ix.bands...)
}

// BandByID finds a configured price band.
func (ix *Index) BandByID(id string) (PriceBand, bool) {
	id = strings.TrimSpace(id)
	for _, b := range ix.bands {
		if strings.EqualFold(b.ID, id) {
			return b, true
		}
	}
	return PriceBand{}, false
}

// Search returns products matching query, best match first. A blank query
// returns the whole catalog; no match returns an empty slice.
func (ix *Index) Search(query string) []Product {
	q := normalizeQuery(query)
	if q == "" {
		return ix.All()
	}

	ix.mu.RLock()
	positions, cached := ix.cache[q]
	ix.mu.RUnlock()

	if !cached {
		positions = ix.match(q)
		if ix.cacheSize > 0 {
			ix.mu.Lock()
			if len(ix.cache) >= ix.cacheSize {
				ix.cache = map[string][]int{}
			}
			ix.cache[q] = positions
			ix.mu.Unlock()
		}
	}
	return ix.materialize(positions, -1)
}

// Suggest is Search truncated to limit, for autocomplete. It never reads or
// writes the search cache.
func (ix *Index) Suggest(query string, limit int) []Product {
	q := normalizeQuery(query)
	if q == "" || limit <= 0 {
		return []Product{}
	}
	return ix.materialize(ix.match(q), limit)
}

func (ix *Index) cached(query string) bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	_, ok := ix.cache[normalizeQuery(query)]
	return ok
}

func (ix *Index) match(q string) []int {
	qTokens := tokenize(q)
	hits := make([]hit, 0)
	for i, e := range ix.entries {
		tier, score, ok := e.match(q, qTokens, ix.threshold)
		if !ok {
			continue
		}
		hits = append(hits, hit{pos: i, tier: tier, score: score})
	}
	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].tier != hits[b].tier {
			return hits[a].tier < hits[b].tier
		}
		return hits[a].score < hits[b].score
	})
	positions := make([]int, len(hits))
	for i, h := range hits {
		positions[i] = h.pos
	}
	return positions
}

func (ix *Index) materialize(positions []int, limit int) []Product {
	n := len(positions)
	if limit >= 0 && limit < n {
		n = limit
	}
	out := make([]Product, n)
	for i := 0; i < n; i++ {
		out[i] = ix.products[positions[i]].clone()
	}
	return out
}

// Request bundles one storefront query.
type Request struct {
	Text       string
	Categories []string
	BandIDs    []string
	Sort       SortOrder
}

// Query runs search, then filter, then sort. Unknown band ids are ignored.
func (ix *Index) Query(req Request) []Product {
	f := Filter{Categories: req.Categories}
	for _, id := range req.BandIDs {
		if b, ok := ix.BandByID(id); ok {
			f.Bands = append(f.Bands, b)
		}
	}
	return Sort(f.Apply(ix.Search(req.Text)), req.Sort)
}
