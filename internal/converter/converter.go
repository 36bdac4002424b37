package converter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	apperrors "github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Query-Prep-Toolkit/pkg/metrics"
)

const readBufferSize = 64 * 1024

// Sink receives every record after its line has been written.
type Sink interface {
	Name() string
	Put(ctx context.Context, r Record) error
}

// Stats summarises a conversion run.
type Stats struct {
	Lines int
	Empty int
}

// Converter runs one sequential JSONL to TSV conversion at a time.
type Converter struct {
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Converter. Sinks are called in the order given.
func New(m *metrics.Metrics, sinks ...Sink) *Converter {
	return &Converter{
		sinks:   sinks,
		metrics: m,
		logger:  slog.Default().With("component", "converter"),
	}
}

// Convert reads src line by line and appends one TSV line per record to dst.
// Empty lines are skipped; a line holding only spaces is malformed. The first error stops the run; lines converted
// before it are flushed to dst.
func (c *Converter) Convert(ctx context.Context, src io.Reader, dst io.Writer) (stats Stats, err error) {
	br := bufio.NewReaderSize(src, readBufferSize)
	bw := bufio.NewWriter(dst)
	defer func() {
		if flushErr := bw.Flush(); flushErr != nil && err == nil {
			err = apperrors.Newf(apperrors.ErrResourceUnavailable, "flushing output: %v", flushErr)
		}
		if err != nil {
			c.metrics.ConversionErrorsTotal.WithLabelValues(apperrors.Kind(err)).Inc()
			c.logger.Error("conversion aborted",
				"line", apperrors.LineOf(err),
				"converted", stats.Lines,
				"error", err,
			)
		}
	}()

	lineNo := 0
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, fmt.Errorf("conversion cancelled: %w", ctxErr)
		}
		line, readErr := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if len(bytes.TrimRight(line, "\r\n")) == 0 {
				stats.Empty++
			} else if err := c.convertLine(ctx, bw, line, lineNo); err != nil {
				return stats, err
			} else {
				stats.Lines++
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return stats, apperrors.AtLine(apperrors.ErrResourceUnavailable, lineNo+1, "reading input: %v", readErr)
		}
	}
	c.logger.Debug("conversion finished", "lines", stats.Lines, "empty", stats.Empty)
	return stats, nil
}

func (c *Converter) convertLine(ctx context.Context, w *bufio.Writer, line []byte, lineNo int) error {
	rec, err := ParseLine(line, lineNo)
	if err != nil {
		return err
	}
	if _, err := w.WriteString(FormatLine(rec)); err != nil {
		return apperrors.AtLine(apperrors.ErrResourceUnavailable, lineNo, "writing output: %v", err)
	}
	c.metrics.RecordsConvertedTotal.Inc()
	for _, s := range c.sinks {
		if err := s.Put(ctx, rec); err != nil {
			c.metrics.SinkWritesTotal.WithLabelValues(s.Name(), "error").Inc()
			return apperrors.AtLine(apperrors.ErrSinkFailed, lineNo, "%s: %v", s.Name(), err)
		}
		c.metrics.SinkWritesTotal.WithLabelValues(s.Name(), "ok").Inc()
	}
	return nil
}

// ConvertFile converts srcPath into dstPath, creating or truncating the
// destination. The source is opened first so a missing source leaves an
// existing destination untouched, and a destination that resolves to the
// source file is refused before anything is truncated.
func (c *Converter) ConvertFile(ctx context.Context, srcPath, dstPath string) (stats Stats, err error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return stats, apperrors.Newf(apperrors.ErrResourceUnavailable, "opening source: %v", err)
	}
	defer src.Close()

	if err := checkDistinct(src, dstPath); err != nil {
		return stats, err
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return stats, apperrors.Newf(apperrors.ErrResourceUnavailable, "creating destination: %v", err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = apperrors.Newf(apperrors.ErrResourceUnavailable, "closing destination: %v", closeErr)
		}
	}()

	c.logger.Info("converting", "source", srcPath, "destination", dstPath)
	return c.Convert(ctx, src, dst)
}

func checkDistinct(src *os.File, dstPath string) error {
	dstInfo, err := os.Stat(dstPath)
	if err != nil {
		// A destination that does not exist yet cannot be the source.
		return nil
	}
	srcInfo, err := src.Stat()
	if err != nil {
		return apperrors.Newf(apperrors.ErrResourceUnavailable, "inspecting source: %v", err)
	}
	if os.SameFile(srcInfo, dstInfo) {
		return apperrors.Newf(apperrors.ErrInvalidConfig, "destination %s is the source file", dstPath)
	}
	return nil
}
