package khmer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'khmer'
func tracer() tracing.Trace {
	return tracing.Select("khmer")
}
