// Package logger builds zap loggers used by segment store applications.
package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Prm groups Logger's parameters.
type Prm struct {
	level     zapcore.Level
	encoding  string
	timestamp bool
}

const (
	// EncodingConsole is a human-friendly log format.
	EncodingConsole = "console"
	// EncodingJSON is a machine-friendly log format.
	EncodingJSON = "json"
)

// SetLevelString sets minimum logging level.
//
// Returns error if s is not a string representation of zap.Level
// value (see zapcore.Level docs).
func (p *Prm) SetLevelString(s string) error {
	return p.level.UnmarshalText([]byte(s))
}

// SetEncoding sets log format, EncodingConsole by default.
func (p *Prm) SetEncoding(enc string) error {
	switch enc {
	case "", EncodingConsole, EncodingJSON:
		p.encoding = enc
		return nil
	default:
		return fmt.Errorf("unsupported log encoding %q", enc)
	}
}

// SetTimestamp enables record timestamps.
func (p *Prm) SetTimestamp(v bool) {
	p.timestamp = v
}

// NewLogger constructs zap.Logger writing to stderr.
//
// Logger is built from production logging configuration with:
//   - parameterized level;
//   - console encoding unless changed;
//   - ISO8601 time encoding if timestamps are enabled;
//   - no sampling.
//
// Logger records a stack trace for all messages at or above fatal level.
func NewLogger(prm Prm) (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Level = zap.NewAtomicLevelAt(prm.level)
	c.Encoding = EncodingConsole
	if prm.encoding != "" {
		c.Encoding = prm.encoding
	}
	c.Sampling = nil
	if prm.timestamp {
		c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		c.EncoderConfig.EncodeTime = func(time.Time, zapcore.PrimitiveArrayEncoder) {}
	}

	l, err := c.Build(
		zap.AddStacktrace(zap.NewAtomicLevelAt(zap.FatalLevel)),
	)
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}

	return l, nil
}
