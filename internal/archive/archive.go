// Package archive exports documents into a single zip file.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/rogersnm/doctag/internal/model"
)

// OpenError means the archive file itself could not be created.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("creating archive %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// Options control entry naming and reporting.
type Options struct {
	// SingleFolder names entries "1-name" instead of "1/name".
	SingleFolder bool
	Progress     func(done, total int)
	Logger       *slog.Logger
}

// EntryName is the path of the i-th (1-based) entry in the archive.
func EntryName(i int, fileName string, singleFolder bool) string {
	sep := "/"
	if singleFolder {
		sep = "-"
	}
	return strconv.Itoa(i) + sep + fileName
}

// Result describes a finished export.
type Result struct {
	Path string
	// Written counts documents copied in full.
	Written int
	// Skipped counts documents that could not be opened or copied.
	Skipped int
}

// Export writes docs into a zip at dest, adding ".zip" when missing.
// A document whose file cannot be opened is skipped and takes no ordinal.
// Once its entry is created the ordinal is spent, even if copying fails.
// Only failing to create or finish the archive is an error.
func Export(docs []model.Document, dest string, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !strings.HasSuffix(dest, ".zip") {
		dest += ".zip"
	}

	res := Result{Path: dest}
	f, err := os.Create(dest)
	if err != nil {
		return res, &OpenError{Path: dest, Err: err}
	}
	zw := zip.NewWriter(f)

	ordinal := 0
	for i, d := range docs {
		created, err := addEntry(zw, d, ordinal+1, opts.SingleFolder)
		if created {
			ordinal++
		}
		switch {
		case err == nil:
			res.Written++
		case created:
			res.Skipped++
			logger.Warn("archive entry is incomplete", "file", d.FilePath, "entry", ordinal, "error", err)
		default:
			res.Skipped++
			logger.Warn("skipping document in archive", "file", d.FilePath, "error", err)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(docs))
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return res, fmt.Errorf("finishing archive %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return res, fmt.Errorf("closing archive %s: %w", dest, err)
	}
	return res, nil
}

// addEntry copies d into the archive. created reports whether its entry
// header was written, in which case the entry exists even on error.
func addEntry(zw *zip.Writer, d model.Document, ordinal int, singleFolder bool) (created bool, err error) {
	in, err := os.Open(d.FilePath)
	if err != nil {
		return false, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", d.FilePath)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return false, err
	}
	hdr.Name = EntryName(ordinal, d.FileName, singleFolder)
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return false, err
	}
	_, err = io.Copy(w, in)
	return true, err
}
