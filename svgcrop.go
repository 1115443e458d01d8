// Package svgcrop locates raster images embedded in an SVG document,
// resolves the rectangular region each clip-path definition exposes, and
// extracts that region as an independent raster file plus a binary mask on
// the document canvas. The coordinate work lives in svgdoc and svgregion;
// this package orchestrates a run and the surrounding I/O.
package svgcrop

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/Eryk-dev/svg-crop-api/svgdoc"
	"github.com/Eryk-dev/svg-crop-api/svgregion"
	"github.com/Eryk-dev/svg-crop-api/svgraster"
)

// Processor runs SVG cropping jobs. Safe for concurrent use; each run owns
// its working directory and parsed document.
type Processor struct {
	cfg    Config
	client *http.Client
}

// New builds a Processor from the config. Invalid settings are reported
// up-front rather than at request time.
func New(cfg Config) (*Processor, error) {
	def := DefaultConfig()
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = def.OutputFormat
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Processor{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.httpTimeout()},
	}, nil
}

// Region is the outcome of one clip-annotated element. The index pairs
// the mask with its crop; Crop stays empty when no associated image was
// found or the mapped box fell outside the raster.
type Region struct {
	Index int    `json:"index"`
	Mask  string `json:"mask,omitempty"`
	Crop  string `json:"crop,omitempty"`
}

// Result reports a completed run.
type Result struct {
	RegionsProcessed int      `json:"regions_processed"`
	ImagesDownloaded int      `json:"images_downloaded"`
	Regions          []Region `json:"regions"`
}

// Masks returns the mask file paths, in region order.
func (r *Result) Masks() []string {
	var out []string
	for _, rg := range r.Regions {
		if rg.Mask != "" {
			out = append(out, rg.Mask)
		}
	}
	return out
}

// Crops returns the crop file paths, in region order.
func (r *Result) Crops() []string {
	var out []string
	for _, rg := range r.Regions {
		if rg.Crop != "" {
			out = append(out, rg.Crop)
		}
	}
	return out
}

// pending carries one region's inputs from the index-assignment traversal
// to the workers.
type pending struct {
	index int
	clip  svgdoc.Box
	el    *svgdoc.Element
}

// ProcessFile crops a local SVG file whose image hrefs already resolve to
// raster files inside dir. Region indices are assigned on a single
// deterministic traversal; the per-region mask and crop work then runs on
// a bounded pool, since regions share no state.
//
// Individual regions are skipped on failure, never aborting the run; only
// a malformed document or a run with zero processed regions fails.
func (p *Processor) ProcessFile(ctx context.Context, svgPath, dir, format string) (*Result, error) {
	if format == "" {
		format = p.cfg.OutputFormat
	}
	if !svgraster.SupportedFormat(format) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	doc, err := svgdoc.ParseFile(svgPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	registry := svgregion.BuildRegistry(doc)
	canvasH, canvasW := doc.CanvasSize()

	var regions []pending
	for _, el := range doc.ClippedElements() {
		id, ok := el.ClipRef()
		if !ok {
			continue
		}
		clip, ok := registry.Get(id)
		if !ok {
			slog.Warn("clip reference has no usable definition", "id", id)
			continue
		}
		regions = append(regions, pending{index: len(regions), clip: clip, el: el})
	}
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	out := make([]Region, len(regions))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Concurrency)
	for _, rg := range regions {
		wg.Add(1)
		go func(rg pending) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				out[rg.index] = Region{Index: rg.index}
				return
			}
			out[rg.index] = p.processRegion(rg, dir, format, canvasW, canvasH)
		}(rg)
	}
	wg.Wait()

	// A cancelled run must not report regions its workers never produced.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return &Result{RegionsProcessed: len(regions), Regions: out}, nil
}

// processRegion emits the mask for one clip-annotated element and, when
// the element holds an image the clip actually intersects, its crop.
func (p *Processor) processRegion(rg pending, dir, format string, canvasW, canvasH int) Region {
	region := Region{Index: rg.index}

	mask := svgraster.Mask(canvasW, canvasH, rg.clip)
	maskPath, err := svgraster.WriteMask(dir, rg.index, mask)
	if err != nil {
		slog.Error("writing mask", "region", rg.index, "error", err)
	} else {
		region.Mask = maskPath
	}

	imgEl := rg.el.FindImage()
	if imgEl == nil {
		return region
	}
	href := imgEl.Href()
	if href == "" {
		return region
	}

	raster, err := svgraster.OpenRaster(joinWorkPath(dir, href))
	if err != nil {
		slog.Warn("raster not readable, crop skipped", "region", rg.index, "href", href, "error", err)
		return region
	}
	bounds := raster.Bounds()

	box, err := svgregion.Map(rg.clip, svgdoc.ResolveTransform(imgEl), imgEl.PlacementBox(), bounds.Dx(), bounds.Dy())
	if err != nil {
		slog.Warn("region not mappable, crop skipped", "region", rg.index, "href", href, "error", err)
		return region
	}
	if !box.Valid() {
		slog.Info("clip falls outside image, crop skipped", "region", rg.index, "href", href)
		return region
	}

	cropPath, err := svgraster.WriteCrop(dir, rg.index, href, format, svgraster.Crop(raster, box.Rect()))
	if err != nil {
		slog.Error("writing crop", "region", rg.index, "href", href, "error", err)
		return region
	}
	region.Crop = cropPath
	slog.Info("cropped", "region", rg.index, "file", cropPath)
	return region
}
