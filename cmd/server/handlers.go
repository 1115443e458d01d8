package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	svgcrop "github.com/Eryk-dev/svg-crop-api"
	"github.com/Eryk-dev/svg-crop-api/svgraster"
)

type handler struct {
	processor *svgcrop.Processor
	cfg       svgcrop.Config
}

func newHandler(p *svgcrop.Processor, cfg svgcrop.Config) *handler {
	return &handler{processor: p, cfg: cfg}
}

type cropRequest struct {
	SVGURL       string `json:"svg_url"`
	OutputFormat string `json:"output_format,omitempty"`
}

// POST /crop-svg
// Downloads the SVG and its images, crops every clipped region, and
// returns the zip of crops and masks base64-encoded.
func (h *handler) handleCrop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req cropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.SVGURL == "" {
		writeError(w, http.StatusBadRequest, "svg_url is required")
		return
	}
	if !strings.HasPrefix(req.SVGURL, "http://") && !strings.HasPrefix(req.SVGURL, "https://") {
		writeError(w, http.StatusBadRequest, "svg_url must be an http(s) URL")
		return
	}
	format := req.OutputFormat
	if format == "" {
		format = h.cfg.OutputFormat
	}
	if !svgraster.SupportedFormat(format) {
		writeError(w, http.StatusBadRequest, "output_format must be png or jpeg")
		return
	}

	dir, err := os.MkdirTemp(h.cfg.WorkRoot, "svg_crop_")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create working directory")
		slog.Error("creating work dir", "error", err)
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Error("cleaning work dir", "dir", dir, "error", err)
		}
	}()

	slog.Info("processing svg", "url", req.SVGURL, "dir", dir, "format", format)

	result, err := h.processor.ProcessURL(ctx, req.SVGURL, dir, format)
	if err != nil {
		status := http.StatusInternalServerError
		if clientFault(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		slog.Error("processing failed", "url", req.SVGURL, "error", err)
		return
	}

	archive, err := svgcrop.BuildArchive(result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build archive")
		slog.Error("building archive", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"filename":          archive.Name,
		"file_base64":       archive.Base64,
		"file_size":         archive.Size,
		"regions_processed": result.RegionsProcessed,
		"images_downloaded": result.ImagesDownloaded,
	})
}

// clientFault reports whether the failure stems from the submitted
// document rather than the service.
func clientFault(err error) bool {
	return errors.Is(err, svgcrop.ErrBadDocument) ||
		errors.Is(err, svgcrop.ErrNoImages) ||
		errors.Is(err, svgcrop.ErrDownloadFailed) ||
		errors.Is(err, svgcrop.ErrNoRegions) ||
		errors.Is(err, svgcrop.ErrUnsupportedFormat)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "svg-crop-api",
	})
}

// GET /
func (h *handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "svg-crop-api",
		"endpoints": map[string]string{
			"POST /crop-svg": "Process an SVG and return cropped images as a base64 zip",
			"GET /health":    "Health check",
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"success": false, "error": msg})
}
