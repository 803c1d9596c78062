package assert

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/locomotion/oerror"
	"github.com/sirupsen/logrus"
)

func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// Reporter reports invariant violations that must not bring the simulation down. A violation is
// logged and, when a sentry hub is configured, captured as a message.
type Reporter struct {
	Log *logrus.Logger
	Hub *sentry.Hub
	// Tags are attached to every captured event.
	Tags map[string]string
}

// NewReporter returns a Reporter that captures on a clone of the current sentry hub.
func NewReporter(log *logrus.Logger) *Reporter {
	return &Reporter{Log: log, Hub: sentry.CurrentHub().Clone()}
}

// Check reports a violation when ok is false and returns ok, so callers can turn the offending
// call into a no-op.
func (r *Reporter) Check(ok bool, message string, args ...interface{}) bool {
	if ok || r == nil {
		return ok
	}
	msg := fmt.Sprintf(message, args...)
	if r.Log != nil {
		r.Log.Error(msg)
	}
	if r.Hub != nil {
		r.Hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(sentry.LevelError)
			for k, v := range r.Tags {
				scope.SetTag(k, v)
			}
			r.Hub.CaptureMessage(msg)
		})
	}
	return false
}
