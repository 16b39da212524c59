// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"

	"github.com/ochairo/casebot/internal/domain/entities"
	"github.com/ochairo/casebot/internal/domain/interfaces"
)

// Action identifiers offered with a confirmation
const (
	ActionRunTest = "run_test_action"
	ActionCancel  = "cancel_action"
)

// Matcher interface for finding a test case from free text
type Matcher interface {
	Search(ctx context.Context, query string) (entities.TestCaseRecord, bool)
}

// Resolver interface for mapping a test case to a script
type Resolver interface {
	Resolve(ctx context.Context, record entities.TestCaseRecord) entities.ScriptResolution
}

// Dispatcher interface for triggering remote test execution
type Dispatcher interface {
	Trigger(ctx context.Context, artifactPath string) entities.DispatchResult
}

// IncomingMessage is a chat message addressed to the bot
type IncomingMessage struct {
	User    string
	Channel string
	Text    string
}

// ActionEvent is a button press on a confirmation
type ActionEvent struct {
	User     string
	Channel  string
	ActionID string
	Value    string
}

// Confirmation asks the user whether to run a resolved test case
type Confirmation struct {
	User       string
	Query      string
	Record     entities.TestCaseRecord
	Resolution entities.ScriptResolution
}

// ReplySink delivers answers back to the user over the transport
type ReplySink interface {
	SendText(ctx context.Context, text string) error
	SendConfirmation(ctx context.Context, confirmation Confirmation) error
}

// Acknowledger confirms receipt of an action to the transport before any reply
type Acknowledger func() error

// RequestOrchestrator turns chat requests into test executions
type RequestOrchestrator struct {
	matcher    Matcher
	resolver   Resolver
	dispatcher Dispatcher
	logger     interfaces.Logger
}

// NewRequestOrchestrator creates a new request orchestrator
func NewRequestOrchestrator(matcher Matcher, resolver Resolver, dispatcher Dispatcher, logger interfaces.Logger) *RequestOrchestrator {
	return &RequestOrchestrator{
		matcher:    matcher,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     interfaces.OrNoOp(logger),
	}
}

// RequestOutcome classifies how a message was answered
type RequestOutcome string

// Request outcomes
const (
	OutcomeConfirmationSent RequestOutcome = "confirmation_sent"
	OutcomeCaseNotFound     RequestOutcome = "case_not_found"
	OutcomeScriptNotFound   RequestOutcome = "script_not_found"
)

// Lookup is the result of matching and resolving a query
type Lookup struct {
	Record     entities.TestCaseRecord
	Resolution entities.ScriptResolution
	Matched    bool
}

// Lookup matches query against the catalog and resolves the script of the match
func (o *RequestOrchestrator) Lookup(ctx context.Context, query string) Lookup {
	record, ok := o.matcher.Search(ctx, query)
	if !ok {
		return Lookup{Resolution: entities.Unresolved()}
	}
	return Lookup{
		Record:     record,
		Resolution: o.resolver.Resolve(ctx, record),
		Matched:    true,
	}
}

// HandleMessage answers a chat message with a confirmation or a not-found message
func (o *RequestOrchestrator) HandleMessage(ctx context.Context, msg IncomingMessage, reply ReplySink) (RequestOutcome, error) {
	o.logger.Info("message received", interfaces.F("user", msg.User), interfaces.F("text", msg.Text))

	lookup := o.Lookup(ctx, msg.Text)
	if !lookup.Matched {
		return OutcomeCaseNotFound, reply.SendText(ctx, CaseNotFoundMessage(msg.User, msg.Text))
	}

	if !lookup.Resolution.Found {
		o.logger.Warn("no script resolved for test case", interfaces.F("title", lookup.Record.Title))
		return OutcomeScriptNotFound, reply.SendText(ctx, ScriptNotFoundMessage(msg.User, lookup.Record.Title))
	}

	o.logger.Info("test case matched",
		interfaces.F("title", lookup.Record.Title),
		interfaces.F("script", lookup.Resolution.Path),
		interfaces.F("source", string(lookup.Resolution.Source)),
	)
	err := reply.SendConfirmation(ctx, Confirmation{
		User:       msg.User,
		Query:      msg.Text,
		Record:     lookup.Record,
		Resolution: lookup.Resolution,
	})
	return OutcomeConfirmationSent, err
}

// HandleAction routes a confirmation button press
func (o *RequestOrchestrator) HandleAction(ctx context.Context, action ActionEvent, ack Acknowledger, reply ReplySink) error {
	switch action.ActionID {
	case ActionRunTest:
		_, err := o.HandleRun(ctx, action, ack, reply)
		return err
	case ActionCancel:
		return o.HandleCancel(ctx, action, ack, reply)
	default:
		if err := ack(); err != nil {
			return fmt.Errorf("failed to acknowledge action: %w", err)
		}
		o.logger.Warn("ignoring unknown action", interfaces.F("action_id", action.ActionID))
		return nil
	}
}

// HandleRun acknowledges the action, then dispatches the selected script
func (o *RequestOrchestrator) HandleRun(ctx context.Context, action ActionEvent, ack Acknowledger, reply ReplySink) (entities.DispatchResult, error) {
	if err := ack(); err != nil {
		return entities.DispatchResult{}, fmt.Errorf("failed to acknowledge action: %w", err)
	}

	result := o.dispatcher.Trigger(ctx, action.Value)
	if result.Success {
		return result, reply.SendText(ctx, DispatchStartedMessage(action.User, action.Value))
	}
	return result, reply.SendText(ctx, DispatchFailedMessage(action.User))
}

// HandleCancel acknowledges the action and confirms the cancellation
func (o *RequestOrchestrator) HandleCancel(ctx context.Context, action ActionEvent, ack Acknowledger, reply ReplySink) error {
	if err := ack(); err != nil {
		return fmt.Errorf("failed to acknowledge action: %w", err)
	}
	o.logger.Info("test execution cancelled", interfaces.F("user", action.User))
	return reply.SendText(ctx, CancelledMessage())
}
