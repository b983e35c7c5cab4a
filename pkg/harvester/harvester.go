package harvester

import (
	"fmt"
	"net/url"
	"strings"

	"imageharvest/pkg/logger"
	"imageharvest/pkg/pacing"
	"imageharvest/pkg/surface"
)

// ControlKind identifies a pagination control on the result surface
type ControlKind string

const (
	// ControlSeeMoreAnyway dismisses the "showing related results" barrier
	// and continues the original result stream. Preferred when present.
	ControlSeeMoreAnyway ControlKind = "see_more_anyway"
	// ControlLoadMore loads the next batch of results
	ControlLoadMore ControlKind = "load_more"
)

// Config holds the selectors and URL template a harvest session runs against
type Config struct {
	// SearchURLTemplate contains {query} placeholders replaced with the
	// escaped search term.
	SearchURLTemplate string
	// ThumbnailSelector matches clickable thumbnail elements
	ThumbnailSelector string
	// ImageSelector matches revealed full-resolution image elements
	ImageSelector string
	// ControlSelectors maps each pagination control kind to its CSS selector
	ControlSelectors map[ControlKind]string
	// ControlPriority is the order control kinds are tried in
	ControlPriority []ControlKind
}

// Harvester discovers image source URLs from a result surface
type Harvester struct {
	surface surface.Surface
	pacer   pacing.Pacer
	cfg     Config
	log     logger.Logger
}

// New creates a harvester over an already-acquired surface
func New(s surface.Surface, p pacing.Pacer, cfg Config, log logger.Logger) *Harvester {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Harvester{surface: s, pacer: p, cfg: cfg, log: log}
}

// session is the state of one Harvest call. Nothing survives across calls.
type session struct {
	discovered map[string]bool
	urls       []string
	scanStart  int
}

// Harvest navigates to the search results for query and collects up to
// targetCount unique full-resolution image URLs, in discovery order.
//
// It returns early with exactly targetCount URLs when the target is reached,
// or with fewer when the surface runs out of pagination controls. A thumbnail
// that cannot be activated is skipped, not fatal.
func (h *Harvester) Harvest(query string, targetCount int) ([]string, error) {
	if targetCount <= 0 {
		return nil, fmt.Errorf("target count must be positive, got %d", targetCount)
	}

	searchURL := strings.ReplaceAll(h.cfg.SearchURLTemplate, "{query}", url.QueryEscape(query))
	if err := h.surface.Navigate(searchURL); err != nil {
		return nil, fmt.Errorf("failed to open search results: %w", err)
	}

	h.log.InfoWithFields("starting harvest", map[string]interface{}{
		"query":  query,
		"target": targetCount,
	})

	sess := &session{discovered: make(map[string]bool)}

	for {
		h.scrollToBottom()

		thumbs, err := h.surface.FindElements(h.cfg.ThumbnailSelector)
		if err != nil {
			h.log.WithError(err).Warn("failed to query thumbnails")
			thumbs = nil
		}

		h.log.DebugWithFields("scanning thumbnail batch", map[string]interface{}{
			"total":      len(thumbs),
			"scan_start": sess.scanStart,
			"collected":  len(sess.urls),
		})

		if h.extractBatch(sess, thumbs, targetCount) {
			h.log.InfoWithFields("target count reached", map[string]interface{}{
				"collected": len(sess.urls),
			})
			return sess.urls, nil
		}

		// The window only ever moves forward. If the surface re-renders
		// with fewer elements the window stays put rather than re-scanning.
		if len(thumbs) > sess.scanStart {
			sess.scanStart = len(thumbs)
		}

		h.scrollToBottom()

		if !h.activateNextControl() {
			h.log.InfoWithFields("no pagination control available, stopping", map[string]interface{}{
				"collected": len(sess.urls),
				"target":    targetCount,
			})
			return sess.urls, nil
		}
		h.pacer.Pace()
	}
}

// extractBatch processes thumbnails from the scan window onward, collecting
// revealed image URLs into the session. Returns true once the target count
// is reached.
func (h *Harvester) extractBatch(sess *session, thumbs []surface.Element, targetCount int) bool {
	if sess.scanStart >= len(thumbs) {
		return false
	}

	for i, thumb := range thumbs[sess.scanStart:] {
		if err := thumb.Activate(); err != nil {
			h.log.WithError(err).DebugWithFields("thumbnail activation failed, skipping", map[string]interface{}{
				"index": sess.scanStart + i,
			})
			continue
		}
		h.pacer.Pace()

		revealed, err := h.surface.FindElements(h.cfg.ImageSelector)
		if err != nil {
			h.log.WithError(err).Warn("failed to query revealed images")
			continue
		}

		for _, img := range revealed {
			src, ok, err := img.Attribute("src")
			if err != nil || !ok {
				continue
			}
			// Revealed elements still loading carry data: URIs or empty
			// src values. Only absolute URLs are worth downloading.
			if !strings.Contains(src, "http") {
				continue
			}
			if sess.discovered[src] {
				continue
			}
			sess.discovered[src] = true
			sess.urls = append(sess.urls, src)

			if len(sess.urls) >= targetCount {
				return true
			}
		}
	}

	return false
}

// scrollToBottom scrolls the page so lazily rendered thumbnails materialize
func (h *Harvester) scrollToBottom() {
	if err := h.surface.ExecuteScript("window.scrollTo(0, document.body.scrollHeight);"); err != nil {
		h.log.WithError(err).Debug("scroll failed")
		return
	}
	h.pacer.Pace()
}

// activateNextControl tries each pagination control in priority order and
// reports whether one was activated.
func (h *Harvester) activateNextControl() bool {
	for _, kind := range h.cfg.ControlPriority {
		sel, ok := h.cfg.ControlSelectors[kind]
		if !ok {
			continue
		}

		_, err := h.surface.FindElement(sel)
		if err != nil {
			if err != surface.ErrNoElement {
				h.log.WithError(err).DebugWithFields("control lookup failed", map[string]interface{}{
					"control": string(kind),
				})
			}
			continue
		}

		// Activation goes through the page script rather than an element
		// click. Pagination controls are frequently overlapped by overlays
		// that make a synthesized mouse click land elsewhere.
		script := fmt.Sprintf("document.querySelector(%q).click();", sel)
		if err := h.surface.ExecuteScript(script); err != nil {
			h.log.WithError(err).DebugWithFields("control activation failed, trying next", map[string]interface{}{
				"control": string(kind),
			})
			continue
		}

		h.log.DebugWithFields("activated pagination control", map[string]interface{}{
			"control": string(kind),
		})
		return true
	}

	return false
}
