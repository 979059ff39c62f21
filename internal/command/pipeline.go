// Package command is the decision core of the assistant: it classifies
// an utterance as a device command or not, normalizes the action to a
// canonical verb, resolves the target against the device catalog and
// validates the pair. The model only ever suggests; everything that
// decides what hardware moves is deterministic and testable offline.
package command

import (
	"context"
	log "log/slog"
	"strings"
)

// Outcome tags a pipeline result.
type Outcome int

const (
	// OutcomeNotCommand routes the utterance to ordinary conversation.
	OutcomeNotCommand Outcome = iota
	// OutcomeRejected means the utterance looked like a command but
	// could not be carried out; Reason says why.
	OutcomeRejected
	// OutcomeCommand carries a validated ResolvedCommand.
	OutcomeCommand
)

// Result is what one Process call produces.
type Result struct {
	Outcome Outcome
	Command ResolvedCommand // set when Outcome == OutcomeCommand
	Reason  Reason          // set when Outcome == OutcomeRejected
}

func notCommand() Result { return Result{Outcome: OutcomeNotCommand} }

func rejected(r Reason) Result { return Result{Outcome: OutcomeRejected, Reason: r} }

func accepted(c ResolvedCommand) Result {
	return Result{Outcome: OutcomeCommand, Command: c}
}

// Pipeline wires classifier, catalog, resolver and validator into one
// entry point. It holds no per-utterance state: Process calls are
// independent and safe to run concurrently over the read-only catalog.
type Pipeline struct {
	classifier Classifier
	catalog    *Catalog
}

func NewPipeline(classifier Classifier, catalog *Catalog) *Pipeline {
	return &Pipeline{classifier: classifier, catalog: catalog}
}

// Process turns raw utterance text into a validated command, a
// rejection, or a not-a-command verdict. A classifier failure or
// timeout degrades to not-a-command; nothing here is fatal, and a
// rejected utterance is final — the user re-issues a clarified request.
func (p *Pipeline) Process(ctx context.Context, raw string) Result {
	text := strings.TrimSpace(raw)
	if text == "" {
		return notCommand()
	}

	intent, err := p.classifier.Classify(ctx, text)
	if err != nil {
		log.Warn("classifier unavailable", "err", err)
		return notCommand()
	}
	if !intent.IsCommand {
		return notCommand()
	}

	act, ok := NormalizeAction(intent.Action)
	if !ok {
		return rejected(ReasonUnrecognizedAction)
	}

	dev := Resolve(intent.Target, p.catalog)
	if dev == nil {
		return rejected(ReasonNoDeviceMatch)
	}

	cmd, reason := Validate(dev, act)
	if reason != "" {
		return rejected(reason)
	}
	return accepted(cmd)
}
