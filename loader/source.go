package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bachmap/bach/tileerr"
	"github.com/bachmap/bach/tilecoord"
)

// source fetches tile bytes for a coordinate when neither memory nor
// disk has them. A nil source means the loader never contacts the
// network (the local-only construction variant).
type source interface {
	fetch(ctx context.Context, c tilecoord.Coord, typ tilecoord.TileType) ([]byte, error)
}

// httpSource fetches tiles over HTTP from a URL template, grounded on
// the pack's own HTTP client pattern (context-scoped request, explicit
// status-code classification) rather than hand-rolling retry logic this
// spec does not call for — network errors here map straight to
// UnknownError with no automatic retry (manual re-request is the caller's
// job, per §7).
type httpSource struct {
	client         *http.Client
	pbfURLTemplate string
	pngURLTemplate string
}

func newHTTPSource(pbfTemplate, pngTemplate string, timeout time.Duration) *httpSource {
	return &httpSource{
		client:         &http.Client{Timeout: timeout},
		pbfURLTemplate: pbfTemplate,
		pngURLTemplate: pngTemplate,
	}
}

func (s *httpSource) fetch(ctx context.Context, c tilecoord.Coord, typ tilecoord.TileType) ([]byte, error) {
	template := s.pbfURLTemplate
	if typ == tilecoord.Raster {
		template = s.pngURLTemplate
	}
	url, err := tilecoord.PbfURL(template, c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrInvalidCoord, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrNetwork, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", tileerr.ErrNetwork, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tileerr.ErrNetwork, err)
	}
	return data, nil
}

// OverrideFunc is an injectable byte source used by the Dummy
// construction variant for deterministic tests: a stand-in for the
// network that resolves a (coord, type) to tile bytes without touching
// a socket.
type OverrideFunc func(c tilecoord.Coord, typ tilecoord.TileType) ([]byte, error)

type funcSource struct {
	fn OverrideFunc
}

func (s funcSource) fetch(_ context.Context, c tilecoord.Coord, typ tilecoord.TileType) ([]byte, error) {
	return s.fn(c, typ)
}
