package svgcrop

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Archive is the transportable bundle of a run's outputs: a zip of every
// crop and mask, base64-encoded for embedding in a JSON response.
type Archive struct {
	Name   string `json:"filename"`
	Size   int    `json:"file_size"`
	Base64 string `json:"file_base64"`
}

// BuildArchive zips the run's crop and mask files. The archive is built
// in memory; per-request output sets are small.
func BuildArchive(res *Result) (*Archive, error) {
	files := append(res.Crops(), res.Masks()...)
	if len(files) == 0 {
		return nil, ErrNoRegions
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, path := range files {
		if err := addFile(zw, path); err != nil {
			zw.Close()
			return nil, fmt.Errorf("archiving %s: %w", filepath.Base(path), err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return &Archive{
		Name:   "cropped_images.zip",
		Size:   buf.Len(),
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func addFile(zw *zip.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
