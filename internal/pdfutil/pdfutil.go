// Package pdfutil wraps pdfcpu operations on generated PDF files.
package pdfutil

import (
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Sentinel errors for PDF post-processing.
var (
	ErrPDFInvalid = errors.New("generated PDF failed validation")
	ErrPDFMerge   = errors.New("PDF merge failed")
	ErrNoInputs   = errors.New("no PDF files to merge")
)

// Validate checks the structural integrity of a PDF file.
// Used after Chrome printing to catch truncated or corrupt output early.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPDFInvalid, path, err)
	}
	return nil
}

// Merge combines the input PDFs into a single file at outputPath,
// in the given order, without divider pages.
func Merge(inputPaths []string, outputPath string) error {
	if len(inputPaths) == 0 {
		return ErrNoInputs
	}
	if err := api.MergeCreateFile(inputPaths, outputPath, false, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrPDFMerge, err)
	}
	return nil
}
