package annotate

import (
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/logging"
	"github.com/mongodb/grip/message"
	"github.com/mongodb/grip/send"
)

// Reporter receives the diagnostics of an annotation pass. Implementations
// decide how, and whether, to present them.
type Reporter interface {
	Miss(id string)
	Summary(*Report)
}

// NopReporter discards all diagnostics.
type NopReporter struct{}

func (NopReporter) Miss(string)     {}
func (NopReporter) Summary(*Report) {}

// GripReporter logs misses as warnings and the summary as a notice.
type GripReporter struct {
	// Name identifies the run or annotation source in every message.
	Name   string
	logger *logging.Grip
}

// NewGripReporter returns a reporter writing to the given sender. A nil
// sender uses the process-wide grip sender.
func NewGripReporter(name string, sender send.Sender) *GripReporter {
	if sender == nil {
		sender = grip.GetSender()
	}
	return &GripReporter{Name: name, logger: logging.MakeGrip(sender)}
}

func (r *GripReporter) Miss(id string) {
	r.logger.Warning(message.Fields{
		"message": "no annotation for node",
		"run":     r.Name,
		"id":      id,
	})
}

func (r *GripReporter) Summary(report *Report) {
	msg := report.Fields()
	msg["message"] = "annotation values present for " + report.String()
	msg["run"] = r.Name
	r.logger.Notice(msg)
}
