// Package assistant turns a raw question into a reply: missing questions are
// reported, out-of-scope questions are refused and the rest are answered by
// the model.
package assistant

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xhad/cdpask/pkg/llm"
	"github.com/xhad/cdpask/pkg/metrics"
)

const (
	MissingQuestionMessage = "No question provided."
	RefusalMessage         = "I only answer CDP-related questions."
)

type Outcome string

const (
	OutcomeAnswered           Outcome = "answered"
	OutcomeRejected           Outcome = "rejected"
	OutcomeMissingQuestion    Outcome = "missing_question"
	OutcomeCompletionFallback Outcome = "completion_fallback"
)

// Reply carries exactly one of Answer or Error.
type Reply struct {
	Answer  string
	Error   string
	Outcome Outcome
}

type Gate interface {
	Match(question string) []string
}

type Answerer interface {
	Answer(ctx context.Context, question string) llm.Answer
}

type Assistant struct {
	gate     Gate
	answerer Answerer
	log      logrus.FieldLogger
	metrics  *metrics.Metrics
}

func New(gate Gate, answerer Answerer, log logrus.FieldLogger, m *metrics.Metrics) *Assistant {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Assistant{gate: gate, answerer: answerer, log: log, metrics: m}
}

// Ask handles one question. An empty question is treated as missing.
func (a *Assistant) Ask(ctx context.Context, question string) Reply {
	if question == "" {
		return a.finish(Reply{Error: MissingQuestionMessage, Outcome: OutcomeMissingQuestion}, nil)
	}

	matched := a.gate.Match(question)
	if len(matched) == 0 {
		return a.finish(Reply{Answer: RefusalMessage, Outcome: OutcomeRejected}, nil)
	}

	begin := time.Now()
	answer := a.answerer.Answer(ctx, question)
	if a.metrics != nil {
		a.metrics.CompletionDuration.WithLabelValues(string(answer.Outcome)).Observe(time.Since(begin).Seconds())
	}

	fields := logrus.Fields{
		"matched":            matched,
		"completion":         answer.Outcome,
		"completion_seconds": time.Since(begin).Seconds(),
	}

	if answer.Outcome != llm.OutcomeAnswered {
		a.log.WithFields(fields).WithError(answer.Err).Warn("completion unavailable, returning fallback")
		return a.finish(Reply{Answer: answer.Text, Outcome: OutcomeCompletionFallback}, fields)
	}
	return a.finish(Reply{Answer: answer.Text, Outcome: OutcomeAnswered}, fields)
}

func (a *Assistant) finish(r Reply, fields logrus.Fields) Reply {
	if a.metrics != nil {
		a.metrics.Questions.WithLabelValues(string(r.Outcome)).Inc()
	}
	a.log.WithFields(fields).WithField("outcome", r.Outcome).Debug("question handled")
	return r
}
