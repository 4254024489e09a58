package stub

import (
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// logger is the package-wide structured logger. Every validation decision is logged through it
// as a single Entry carrying qname/qtype/status/denial_state/reason fields, rather than
// interpolated prose, so a downstream aggregator can filter and alert on them.
var logger = logrus.New()

func init() {
	logger.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
}

// UseJSONLogging switches to structured JSON output, appropriate for anything other than local
// interactive use.
func UseJSONLogging() {
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// SetLogLevel parses and applies a logrus level name (e.g. "debug", "info", "warn").
func SetLogLevel(level string) error {
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(l)
	return nil
}

func log(trace *Trace) *logrus.Entry {
	entry := logger.WithField("prefix", "stub")
	if trace != nil {
		entry = entry.WithField("trace", trace.ShortID())
	}
	return entry
}
