package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DanilR266/sysprog/internal/configuration"
	"github.com/DanilR266/sysprog/internal/ufs"
	"github.com/dustin/go-humanize"
	"github.com/zeebo/blake3"
)

const (
	// overflowLimit is the largest maximum file size for which the workload
	// also fills a file up to its limit.
	overflowLimit = 4 << 20
)

// fsReport holds the results of a file system workload.
type fsReport struct {
	Files      int
	Written    uint64
	PeakBlocks int
	PeakBytes  uint64
	Overflowed bool
	Elapsed    time.Duration
}

// fsSizes returns the file sizes exercised for the block size, capped to the
// maximum file size.
func fsSizes(blockSize, maxFileSize int) []int {
	sizes := []int{0, 1, blockSize - 1, blockSize, blockSize + 1, 4*blockSize + 7, 64 << 10}
	for i := range sizes {
		sizes[i] = min(sizes[i], maxFileSize)
	}

	return sizes
}

// pattern returns n bytes of repeating, size dependent content.
func pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte((i*7 + n) % 251) //nolint:mnd
	}

	return data
}

// runFSWorkload writes files of various sizes through one descriptor, checks
// them through a second one and by digest, then deletes them while still
// open. Once everything is closed no blocks may remain.
func runFSWorkload(config configuration.FSConfiguration) (fsReport, error) {
	var report fsReport
	start := time.Now()

	fs := ufs.New(ufs.Options{
		BlockSize:   config.BlockSize,
		MaxFileSize: config.MaxFileSize,
		Resize:      config.Resize,
	})
	defer fs.Destroy()

	for i, size := range fsSizes(fs.BlockSize(), fs.MaxFileSize()) {
		if err := roundTrip(fs, fmt.Sprintf("file-%d", i), pattern(size), config.Resize, &report); err != nil {
			return report, fmt.Errorf("(fs-workload) %w", err)
		}
		report.Files++
	}

	if fs.MaxFileSize() <= overflowLimit {
		if err := overflow(fs, &report); err != nil {
			return report, fmt.Errorf("(fs-workload) %w", err)
		}
	}

	if usage := fs.Usage(); usage != (ufs.Usage{}) {
		return report, fmt.Errorf("(fs-workload) %w: %d files, %d blocks, %d descriptors",
			ErrResourceLeak, usage.Files, usage.Blocks, usage.Descriptors)
	}

	report.Elapsed = time.Since(start)

	slog.Debug("File system workload finished.",
		"files", report.Files,
		"written", humanize.IBytes(report.Written),
		"peak", humanize.IBytes(report.PeakBytes),
		"elapsed", report.Elapsed,
	)

	return report, nil
}

func roundTrip(fs *ufs.FileSystem, name string, data []byte, resize bool, report *fsReport) error {
	fd, err := fs.Open(name, ufs.Create)
	if err != nil {
		return err
	}
	writer := fs.Stream(fd)
	defer writer.Close()

	n, err := io.Copy(writer, bytes.NewReader(data))
	if err != nil {
		return err
	}
	report.Written += uint64(n) //nolint:gosec

	digest, err := fs.Sum(fd)
	if err != nil {
		return err
	}
	if want := blake3.Sum256(data); !bytes.Equal(digest, want[:]) {
		return fmt.Errorf("%w: %s digest", ErrContentMismatch, name)
	}

	rfd, err := fs.Open(name, 0)
	if err != nil {
		return err
	}
	reader := fs.Stream(rfd)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if !bytes.Equal(content, data) {
		return fmt.Errorf("%w: %s content", ErrContentMismatch, name)
	}

	if resize {
		if err := fs.Resize(fd, len(data)/2); err != nil { //nolint:mnd
			return err
		}
		info, err := fs.Stat(rfd)
		if err != nil {
			return err
		}
		if info.Size != len(data)/2 || info.Position != info.Size {
			return fmt.Errorf("%w: %s resized to %d", ErrContentMismatch, name, info.Size)
		}
	}

	usage := fs.Usage()
	report.PeakBlocks = max(report.PeakBlocks, usage.Blocks)
	report.PeakBytes = max(report.PeakBytes, usage.Bytes)

	return fs.Delete(name)
}

func overflow(fs *ufs.FileSystem, report *fsReport) error {
	fd, err := fs.Open("overflow", ufs.Create)
	if err != nil {
		return err
	}
	stream := fs.Stream(fd)
	defer stream.Close()

	n, err := stream.Write(make([]byte, fs.MaxFileSize()+1))
	report.Written += uint64(n) //nolint:gosec
	if !ufs.IsFull(err) || n != fs.MaxFileSize() {
		return fmt.Errorf("%w: overflow wrote %d (%v)", ErrContentMismatch, n, err)
	}
	report.Overflowed = true

	usage := fs.Usage()
	report.PeakBlocks = max(report.PeakBlocks, usage.Blocks)
	report.PeakBytes = max(report.PeakBytes, usage.Bytes)

	return fs.Delete("overflow")
}
