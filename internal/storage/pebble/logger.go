package pebblestore

import (
	"fmt"

	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// pebbleLogger routes Pebble's internal messages to our logger. Pebble's
// informational chatter (WAL recycling, compactions) is demoted to debug.
type pebbleLogger struct {
	l logpkg.Logger
}

func (p pebbleLogger) Infof(format string, args ...interface{})  { p.l.Debugf(format, args...) }
func (p pebbleLogger) Errorf(format string, args ...interface{}) { p.l.Errorf(format, args...) }

func (p pebbleLogger) Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.l.Error(msg)
	panic(msg)
}
