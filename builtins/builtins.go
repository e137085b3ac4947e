// Package builtins provides the native functions and actor types every
// interpreter gets by default. Importing it registers them with
// scripthost.DefaultRegistry.
package builtins

import (
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/deepnoodle-ai/scripthost"
)

// Options control the sources builtins read from. The zero value uses the
// wall clock, a time-seeded random source and stdout.
type Options struct {
	Now  func() time.Time
	Rand *rand.Rand
	Out  io.Writer
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	return o
}

func init() {
	Register(scripthost.DefaultRegistry, Options{})
}

// Register adds every builtin to reg.
func Register(reg *scripthost.Registry, opts Options) {
	opts = opts.withDefaults()
	registerTime(reg, opts)
	registerTrace(reg, opts)
	registerRandom(reg, opts)
	registerJSON(reg)
	registerControl(reg)
	reg.RegisterActorType(timerType(opts))
}
