// Command tiledemo loads a stylesheet and a set of local tiles for one
// viewport and writes the rendered frame to a PNG file. It exercises the
// full pipeline — loader, style, and render — without a GUI or a network
// connection, the way a smoke-test harness would.
package main

import (
	"flag"
	"log"
	"os"
	"sync"

	gg "github.com/bachmap/bach"
	"github.com/bachmap/bach/loader"
	"github.com/bachmap/bach/render"
	"github.com/bachmap/bach/style"
	"github.com/bachmap/bach/text"
	"github.com/bachmap/bach/tilecoord"
	"github.com/bachmap/bach/viewport"
	"golang.org/x/image/font/gofont/goregular"
)

func main() {
	var (
		stylePath = flag.String("style", "", "path to a Mapbox-style-spec JSON stylesheet")
		cacheDir  = flag.String("cache", "./tilecache", "local tile cache directory (flat files named z<z>x<x>y<y>.mvt / .png)")
		outPath   = flag.String("out", "out.png", "output PNG path")
		width     = flag.Int("width", 1024, "output image width in pixels")
		height    = flag.Int("height", 768, "output image height in pixels")
		centerX   = flag.Float64("x", 0.5, "viewport center, normalized world X in [0, 1]")
		centerY   = flag.Float64("y", 0.5, "viewport center, normalized world Y in [0, 1]")
		vpZoom    = flag.Float64("zoom", 2, "continuous viewport zoom level")
		debug     = flag.Bool("debug", false, "overlay tile borders and coordinates")
	)
	flag.Parse()

	if *stylePath == "" {
		log.Fatal("tiledemo: -style is required")
	}

	sheet, err := loadStylesheet(*stylePath)
	if err != nil {
		log.Fatalf("tiledemo: %v", err)
	}

	ld, err := loader.NewLocalLoader(sheet, loader.WithCacheDir(*cacheDir))
	if err != nil {
		log.Fatalf("tiledemo: building loader: %v", err)
	}
	defer ld.Close()

	aspect := float64(*width) / float64(*height)
	mapZoom := viewport.MapZoomForTileSize(*width, *height, *vpZoom, 512)
	coords := viewport.VisibleTiles(*centerX, *centerY, aspect, *vpZoom, mapZoom)

	tiles := loadTiles(ld, coords)

	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		log.Fatalf("tiledemo: loading bundled font: %v", err)
	}

	ctx := gg.NewContext(*width, *height)
	render.Paint(ctx, render.Viewport{X: *centerX, Y: *centerY, Zoom: *vpZoom}, mapZoom, tiles, sheet,
		render.WithFace(source.Face(16)),
		render.WithDebugOverlay(*debug),
	)

	if err := ctx.SavePNG(*outPath); err != nil {
		log.Fatalf("tiledemo: saving %s: %v", *outPath, err)
	}
	log.Printf("tiledemo: wrote %s (%d tiles, map zoom %d)", *outPath, len(tiles), mapZoom)
}

func loadStylesheet(path string) (*style.StyleSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return style.Parse(data)
}

// loadTiles requests every visible vector tile, blocks until each one
// reaches a terminal state, then requests the final snapshot. A second
// round trip through RequestTiles is cheap: every tile it asks about is
// already cached from the first round, so loadMissing never fires again.
func loadTiles(ld *loader.Loader, coords []tilecoord.Coord) map[tilecoord.Coord]*loader.Entry {
	var wg sync.WaitGroup
	wg.Add(len(coords))

	handle, ready := ld.RequestTiles(coords, tilecoord.Vector, func(tilecoord.Coord) { wg.Done() }, true)
	defer handle.Release()

	// Tiles already Ok at request time were never dispatched, so they
	// never fire the onReady callback above.
	for range ready {
		wg.Done()
	}
	wg.Wait()

	_, final := ld.RequestTiles(coords, tilecoord.Vector, nil, false)
	return final
}
