// Package config holds the payload types of the functional options accepted
// by the gosm entry points. The option constructors live in the root
// package.
package config

import (
	"time"

	"gosm/logging"
	"gosm/record"
	"gosm/seedstore"
	"gosm/sequence"
)

type SizesOption struct{ Sizes sequence.SizeRange }

func (so SizesOption) RunOpt() {}

type MaxRunsOption struct{ MaxRuns int }

func (mro MaxRunsOption) RunOpt() {}

type MaxShrinksOption struct{ N int }

func (mso MaxShrinksOption) RunOpt() {}

type TimeBudgetOption struct{ D time.Duration }

func (tbo TimeBudgetOption) RunOpt() {}

type SeedOption struct{ Seed int64 }

func (so SeedOption) RunOpt() {}

type VerboseOption struct{}

func (vo VerboseOption) RunOpt() {}

type IgnorePanicOption struct{}

func (ipo IgnorePanicOption) RunOpt() {}

type LoggerOption struct{ Log logging.Logger }

func (lo LoggerOption) RunOpt() {}

type RecorderOption struct{ Rec *record.Recorder }

func (ro RecorderOption) RunOpt() {}

type SeedStoreOption[S, T any] struct {
	Store *seedstore.Store
	Name  string
	Codec seedstore.Codec[S, T]
}

func (sso SeedStoreOption[S, T]) RunOpt() {}
