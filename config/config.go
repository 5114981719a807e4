/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package config loads the emission core's tunables (v2-compatibility
// toggles, stats-log verbosity, write-wait warnings) and reloads them on
// file change.
package config

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	liberr "github.com/sabouaram/dirsrv/errors"
)

// Config holds the tunables of the response-emission core.
type Config struct {
	// V2CompatReferralText enables the diagnostic-text flattening of
	// referrals for protocol-version-2 clients (spec §4.3 "Referral
	// downgrade"). Disabling it drops referral information silently
	// instead of folding it into the diagnostic text.
	V2CompatReferralText bool `mapstructure:"v2-compat-referral-text" json:"v2-compat-referral-text" yaml:"v2-compat-referral-text" toml:"v2-compat-referral-text"`

	// StatsLogVerbosity selects which PDU kinds get a stats-log line:
	// "result", "entry", "reference", or "all".
	StatsLogVerbosity string `mapstructure:"stats-log-verbosity" json:"stats-log-verbosity" yaml:"stats-log-verbosity" toml:"stats-log-verbosity" validate:"oneof=result entry reference all"`

	// WriteWaitWarnMillis logs a warning when a connection's writer has
	// waited on the write-ready condition variable for longer than this,
	// in milliseconds. Zero disables the warning.
	WriteWaitWarnMillis int `mapstructure:"write-wait-warn-millis" json:"write-wait-warn-millis" yaml:"write-wait-warn-millis" toml:"write-wait-warn-millis" validate:"gte=0"`
}

// WriteWaitWarnDuration converts WriteWaitWarnMillis to a time.Duration
// for dirop.Connection.SetWriteWaitWarn; zero means disabled.
func (c *Config) WriteWaitWarnDuration() time.Duration {
	if c == nil {
		return 0
	}
	return time.Duration(c.WriteWaitWarnMillis) * time.Millisecond
}

// DefaultConfig returns the tunables the core ships with.
func DefaultConfig() *Config {
	return &Config{
		V2CompatReferralText: true,
		StatsLogVerbosity:    "all",
		WriteWaitWarnMillis:  0,
	}
}

// LogsKind reports whether a stats-log line of the given kind ("result",
// "entry", "reference") should be emitted under StatsLogVerbosity. A nil
// Config (the zero value every existing caller gets before being wired to
// a loaded one) behaves like "all", so omitting config wiring is never a
// silent behavior change.
func (c *Config) LogsKind(kind string) bool {
	if c == nil || c.StatsLogVerbosity == "" || c.StatsLogVerbosity == "all" {
		return true
	}
	return c.StatsLogVerbosity == kind
}

// Validate checks the struct tags above, collecting every violation into
// one Error, in the manner of the LDAP helper's Config.Validate().
func (c Config) Validate() liberr.Error {
	e := liberr.New(uint16(ErrValidation), "config: validation failed")

	if err := validator.New().Struct(c); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				e = liberr.New(uint16(ErrValidation), fmt.Sprintf("config field '%s' is not validated by constraint '%s'", fe.Namespace(), fe.ActualTag()), e)
			}
		} else {
			e = liberr.New(uint16(ErrValidation), err.Error(), e)
		}
	}

	return e
}

// Loader owns the viper instance backing one Config and watches its
// source file for changes.
type Loader struct {
	vpr   *viper.Viper
	onHit func(*Config)
}

// NewLoader reads path into a Config, applying DefaultConfig as the base.
func NewLoader(path string) (*Loader, *Config, liberr.Error) {
	l := &Loader{vpr: viper.New()}

	def := DefaultConfig()
	l.vpr.SetDefault("v2-compat-referral-text", def.V2CompatReferralText)
	l.vpr.SetDefault("stats-log-verbosity", def.StatsLogVerbosity)
	l.vpr.SetDefault("write-wait-warn-millis", def.WriteWaitWarnMillis)

	l.vpr.SetConfigFile(path)
	if err := l.vpr.ReadInConfig(); err != nil {
		return nil, nil, liberr.New(uint16(ErrLoad), "config: read failed", err)
	}

	cfg, err := l.unmarshal()
	if err != nil {
		return nil, nil, err
	}

	return l, cfg, nil
}

func (l *Loader) unmarshal() (*Config, liberr.Error) {
	cfg := &Config{}
	if err := l.vpr.Unmarshal(cfg); err != nil {
		return nil, liberr.New(uint16(ErrLoad), "config: unmarshal failed", err)
	}
	if verr := cfg.Validate(); verr != nil && verr.HasParent() {
		return nil, verr
	}
	return cfg, nil
}

// OnChange registers fn to be called with the freshly reloaded,
// validated Config every time the underlying file changes. A failed
// reload is dropped silently (the previous Config stays in effect);
// callers wanting to observe reload failures should pair this with
// dirlog logging in fn's caller.
func (l *Loader) OnChange(fn func(*Config)) {
	l.onHit = fn
	l.vpr.OnConfigChange(func(in fsnotify.Event) {
		if cfg, err := l.unmarshal(); err == nil && l.onHit != nil {
			l.onHit(cfg)
		}
	})
	l.vpr.WatchConfig()
}
