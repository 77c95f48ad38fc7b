package slidecast

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"sync"
	"time"
)

// ImageFetcher retrieves hero artwork for a slide from an opaque source
// reference (typically a URL or a generation-prompt handle).
type ImageFetcher interface {
	Fetch(ctx context.Context, source string) (image.Image, error)
}

// HTTPImageFetcher fetches hero images over HTTP(S) and decodes PNG or
// JPEG payloads.
type HTTPImageFetcher struct {
	Client  *http.Client
	MaxSize int64 // response body cap in bytes; defaults to 16 MiB
}

func (f *HTTPImageFetcher) Fetch(ctx context.Context, source string) (image.Image, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	maxSize := f.MaxSize
	if maxSize <= 0 {
		maxSize = 16 << 20
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, IOError("build hero request", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, IOError("fetch hero image", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, IOError(fmt.Sprintf("fetch hero image: status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSize))
	if err != nil {
		return nil, IOError("read hero image", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, IOError("decode hero image", err)
	}
	return img, nil
}

// EvictionPolicy decides which cached hero entries to drop when the
// cache is asked to make room. Implementations receive the current keys
// in insertion order and return the keys to evict.
type EvictionPolicy interface {
	Evict(keys []string, limit int) []string
}

// NoEviction never evicts; the cache is bounded only by the lifetime of
// its owning session.
type NoEviction struct{}

func (NoEviction) Evict([]string, int) []string { return nil }

// EvictOldest drops the oldest entries when the cache exceeds the limit.
type EvictOldest struct{}

func (EvictOldest) Evict(keys []string, limit int) []string {
	if limit <= 0 || len(keys) <= limit {
		return nil
	}
	return keys[:len(keys)-limit]
}

// HeroCache memoizes hero artwork per slide. A cache entry is keyed by
// slide ID and source together, so editing a slide's hero prompt or
// image URL naturally misses and refetches. Lookups for an in-flight
// fetch block until that fetch resolves rather than fetching twice.
type HeroCache struct {
	mu      sync.Mutex
	fetcher ImageFetcher
	policy  EvictionPolicy
	limit   int
	entries map[string]*heroEntry
	order   []string
}

type heroEntry struct {
	ready chan struct{}
	img   image.Image
	err   error
}

// NewHeroCache builds a cache around the given fetcher. policy may be
// nil, which means NoEviction; limit is the entry count handed to the
// policy on insert.
func NewHeroCache(fetcher ImageFetcher, policy EvictionPolicy, limit int) *HeroCache {
	if policy == nil {
		policy = NoEviction{}
	}
	return &HeroCache{
		fetcher: fetcher,
		policy:  policy,
		limit:   limit,
		entries: make(map[string]*heroEntry),
	}
}

func heroKey(slideID, source string) string {
	return slideID + "|" + source
}

// Get returns the hero image for the slide, fetching on first use. A
// failed fetch is not cached as a permanent failure: the entry is
// cleared so a later call can retry.
func (hc *HeroCache) Get(ctx context.Context, slideID, source string) (image.Image, error) {
	if source == "" {
		return nil, IOError("hero source empty", nil)
	}
	key := heroKey(slideID, source)

	hc.mu.Lock()
	if e, ok := hc.entries[key]; ok {
		hc.mu.Unlock()
		select {
		case <-e.ready:
			return e.img, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &heroEntry{ready: make(chan struct{})}
	hc.entries[key] = e
	hc.order = append(hc.order, key)
	hc.applyPolicyLocked(key)
	hc.mu.Unlock()

	img, err := hc.fetcher.Fetch(ctx, source)
	e.img, e.err = img, err
	close(e.ready)

	if err != nil {
		hc.mu.Lock()
		if hc.entries[key] == e {
			delete(hc.entries, key)
			hc.removeFromOrderLocked(key)
		}
		hc.mu.Unlock()
	}
	return img, err
}

func (hc *HeroCache) applyPolicyLocked(keep string) {
	for _, victim := range hc.policy.Evict(hc.order, hc.limit) {
		if victim == keep {
			continue
		}
		delete(hc.entries, victim)
		hc.removeFromOrderLocked(victim)
	}
}

func (hc *HeroCache) removeFromOrderLocked(key string) {
	for i, k := range hc.order {
		if k == key {
			hc.order = append(hc.order[:i], hc.order[i+1:]...)
			return
		}
	}
}

// Invalidate drops every entry for the slide, regardless of source.
func (hc *HeroCache) Invalidate(slideID string) {
	prefix := slideID + "|"
	hc.mu.Lock()
	defer hc.mu.Unlock()
	kept := hc.order[:0]
	for _, key := range hc.order {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(hc.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	hc.order = kept
}

// Dispose releases every cached image.
func (hc *HeroCache) Dispose() {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.entries = make(map[string]*heroEntry)
	hc.order = nil
}

// Len reports the number of resolved or in-flight entries.
func (hc *HeroCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.entries)
}

// PlaceholderHero paints deterministic procedural artwork for slides
// whose hero image is missing or failed to load. The same prompt always
// yields the same composition, so exports are reproducible offline.
func PlaceholderHero(prompt string, w, h int, p Palette) *image.RGBA {
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 480
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{p.Surface.RGBA()}, image.Point{}, draw.Src)

	seed := fnv.New64a()
	seed.Write([]byte(prompt))
	rng := seed.Sum64()

	// A few overlapping translucent discs, positions derived from the
	// prompt hash.
	colors := []color.RGBA{p.Accent.RGBA(), p.AccentAlt.RGBA(), p.Muted.RGBA()}
	for i := 0; i < 5; i++ {
		rng = rng*6364136223846793005 + 1442695040888963407
		cx := int(rng % uint64(w))
		cy := int((rng >> 16) % uint64(h))
		r := w / 6
		if r > h/4 {
			r = h / 4
		}
		r += int((rng >> 32) % uint64(r+1))
		blendDisc(img, cx, cy, r, colors[i%len(colors)], 0.35)
	}
	return img
}

// blendDisc alpha-blends a filled disc onto img.
func blendDisc(img *image.RGBA, cx, cy, r int, c color.RGBA, alpha float64) {
	b := img.Bounds()
	for y := cy - r; y <= cy+r; y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		dy := y - cy
		halfW := int(math.Sqrt(float64(r*r - dy*dy)))
		for x := cx - halfW; x <= cx+halfW; x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dst := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: blendChannel(dst.R, c.R, alpha),
				G: blendChannel(dst.G, c.G, alpha),
				B: blendChannel(dst.B, c.B, alpha),
				A: 255,
			})
		}
	}
}

func blendChannel(dst, src uint8, alpha float64) uint8 {
	v := float64(dst)*(1-alpha) + float64(src)*alpha
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
