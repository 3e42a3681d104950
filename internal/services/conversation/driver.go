package conversation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/BearBump/ParcelAssist/internal/broker/messages"
	"github.com/BearBump/ParcelAssist/internal/models"
	"github.com/BearBump/ParcelAssist/internal/services/lookup"
	"github.com/pkg/errors"
)

const (
	defaultMaxAttempts   = 3
	defaultCaseRefPrefix = "CASE-"
	caseRefLayout        = "20060102150405"
)

type Verifier interface {
	Verify(ctx context.Context, in models.VerificationInput) (*models.Order, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev messages.AssistantEvent) error
}

// Summary describes how a session ended.
type Summary struct {
	SessionID string
	Final     State
	Escalated bool
	Reason    EscalationReason
	Order     *models.Order
	CaseRef   string
}

// Driver holds the dependencies of the dialogue. It keeps no per-session state,
// so one Driver can run any number of sessions concurrently.
type Driver struct {
	verifier Verifier
	events   EventPublisher

	maxAttempts   int
	caseRefPrefix string
	clock         func() time.Time
}

func New(v Verifier) *Driver {
	return &Driver{
		verifier:      v,
		maxAttempts:   defaultMaxAttempts,
		caseRefPrefix: defaultCaseRefPrefix,
		clock:         time.Now,
	}
}

func (d *Driver) WithSettings(maxAttempts int, caseRefPrefix string) *Driver {
	if maxAttempts > 0 {
		d.maxAttempts = maxAttempts
	}
	if caseRefPrefix != "" {
		d.caseRefPrefix = caseRefPrefix
	}
	return d
}

func (d *Driver) WithEvents(p EventPublisher) *Driver {
	d.events = p
	return d
}

func (d *Driver) WithClock(clock func() time.Time) *Driver {
	if clock != nil {
		d.clock = clock
	}
	return d
}

type session struct {
	id    string
	t     Transport
	input models.VerificationInput
	sum   Summary
}

func (s *session) say(ctx context.Context, format string, args ...any) error {
	line := format
	if len(args) > 0 {
		line = fmt.Sprintf(format, args...)
	}
	return s.t.Say(ctx, line)
}

func (s *session) ask(ctx context.Context, prompt string) (string, error) {
	in, err := s.t.Ask(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(in), nil
}

// Run plays one full session over t. End of input at any prompt aborts the session
// with a goodbye and is not an error; only transport write failures are returned.
func (d *Driver) Run(ctx context.Context, sessionID string, t Transport) (Summary, error) {
	s := &session{id: sessionID, t: t}
	s.sum.SessionID = sessionID

	err := d.greet(ctx, s)
	state := StateCollectOrderID
	for err == nil {
		var next State
		next, err = d.step(ctx, s, state)
		if err != nil {
			break
		}
		if state.Terminal() {
			s.sum.Final = state
			return s.sum, nil
		}
		slog.Debug("conversation transition", "session_id", s.id, "from", state, "to", next)
		state = next
	}

	if errors.Is(err, io.EOF) {
		slog.Info("conversation aborted", "session_id", s.id, "state", state)
		s.sum.Final = StateAborted
		// Вход закрыт, но вывод ещё может быть жив: прощаемся по возможности.
		_ = t.Say(ctx, textGoodbye)
		return s.sum, nil
	}
	s.sum.Final = state
	return s.sum, errors.Wrapf(err, "conversation %s at %s", s.id, state)
}

func (d *Driver) greet(ctx context.Context, s *session) error {
	if err := s.say(ctx, textGreeting); err != nil {
		return err
	}
	return s.say(ctx, textNeeds)
}

func (d *Driver) step(ctx context.Context, s *session, state State) (State, error) {
	switch state {
	case StateCollectOrderID:
		return d.collect(ctx, s, orderIDField, &s.input.OrderID, StateCollectEmail)
	case StateCollectEmail:
		return d.collect(ctx, s, emailField, &s.input.Email, StateCollectZip)
	case StateCollectZip:
		return d.collect(ctx, s, zipField, &s.input.Zip, StateConfirmFields)
	case StateConfirmFields:
		return d.confirmFields(ctx, s)
	case StateLookup:
		return d.lookup(ctx, s)
	case StatePresentResult:
		return d.presentResult(ctx, s)
	case StateFollowUp:
		return d.followUp(ctx, s)
	case StateEscalate:
		return d.escalate(ctx, s)
	case StateEnd:
		if err := s.say(ctx, ""); err != nil {
			return state, err
		}
		return StateEnd, s.say(ctx, textThanks)
	default:
		return state, fmt.Errorf("unknown conversation state %q", state)
	}
}

func (d *Driver) collect(ctx context.Context, s *session, f field, dst *string, next State) (State, error) {
	for i := 0; i < d.maxAttempts; i++ {
		in, err := s.ask(ctx, f.prompt)
		if err != nil {
			return "", err
		}
		if f.valid(in) {
			*dst = in
			return next, nil
		}
		if err := s.say(ctx, f.hint); err != nil {
			return "", err
		}
	}
	s.sum.Reason = f.reason
	return StateEscalate, nil
}

func (d *Driver) confirmFields(ctx context.Context, s *session) (State, error) {
	lines := []string{
		"",
		textConfirmHeader,
		"  • Order ID: " + s.input.OrderID,
		"  • Email: " + s.input.Email,
		"  • ZIP: " + s.input.Zip,
	}
	for _, l := range lines {
		if err := s.say(ctx, l); err != nil {
			return "", err
		}
	}
	ok, err := AskYesNo(ctx, s.t, textConfirmAsk, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if !ok {
		s.sum.Reason = ReasonDeclinedConfirmation
		return StateEscalate, nil
	}
	return StateLookup, nil
}

func (d *Driver) lookup(ctx context.Context, s *session) (State, error) {
	order, err := d.verifier.Verify(ctx, s.input)
	if err == nil {
		s.sum.Order = order
		return StatePresentResult, nil
	}

	reason := ReasonLookupUnavailable
	msg := textLookupUnavailable
	if f, ok := lookup.AsFailure(err); ok {
		msg = f.Message()
		switch f.Kind {
		case lookup.KindNotFound:
			reason = ReasonLookupNotFound
		case lookup.KindEmailMismatch:
			reason = ReasonLookupEmailMismatch
		case lookup.KindZipMismatch:
			reason = ReasonLookupZipMismatch
		}
	} else {
		slog.Error("order lookup", "session_id", s.id, "error", err.Error())
	}

	if err := s.say(ctx, msg); err != nil {
		return "", err
	}
	yes, err := AskYesNo(ctx, s.t, textOfferAgent, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if !yes {
		return StateEnd, s.say(ctx, textComeBack)
	}

	s.sum.Escalated = true
	s.sum.Reason = reason
	d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventSessionEscalated, Reason: string(reason)})
	return StateEnd, s.say(ctx, textConnecting)
}

func (d *Driver) presentResult(ctx context.Context, s *session) (State, error) {
	o := s.sum.Order
	lines := []string{
		"",
		textFoundHeader,
		" • Status: " + o.Status,
		" • Carrier: " + o.Carrier,
		" • Last Scan: " + o.LastScan,
		" • ETA: " + o.ETA,
	}
	if o.Notes != "" {
		lines = append(lines, " • Notes: "+o.Notes)
	}
	for _, l := range lines {
		if err := s.say(ctx, l); err != nil {
			return "", err
		}
	}
	return StateFollowUp, nil
}

func (d *Driver) followUp(ctx context.Context, s *session) (State, error) {
	if s.sum.Order.IsDelivered() {
		return d.followUpDelivered(ctx, s)
	}

	// Оба вопроса задаются всегда, независимо от ответа на первый.
	yes, err := AskYesNo(ctx, s.t, textAskUpdates, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if yes {
		d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventUpdatesOptedIn})
		if err := s.say(ctx, textUpdatesEnabled); err != nil {
			return "", err
		}
	}

	yes, err = AskYesNo(ctx, s.t, textAskTips, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if yes {
		d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventDeliveryTipsRequested})
		if err := s.say(ctx, textTipsSent); err != nil {
			return "", err
		}
	}
	return StateEnd, nil
}

func (d *Driver) followUpDelivered(ctx context.Context, s *session) (State, error) {
	received, err := AskYesNo(ctx, s.t, textAskReceived, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if received {
		d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventDeliveryConfirmed})
		return StateEnd, s.say(ctx, textReceived)
	}

	if err := s.say(ctx, textSorryMissing); err != nil {
		return "", err
	}
	file, err := AskYesNo(ctx, s.t, textAskFileReport, d.maxAttempts)
	if err != nil {
		return "", err
	}
	if !file {
		return StateEnd, s.say(ctx, textReportDeclined)
	}

	ref := d.caseRef()
	s.sum.CaseRef = ref
	slog.Info("missing package report filed", "session_id", s.id, "case_ref", ref, "order_id", s.sum.Order.ID)
	d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventPackageReportedMissing, CaseRef: ref})
	return StateEnd, s.say(ctx, textReportFiled, ref)
}

func (d *Driver) escalate(ctx context.Context, s *session) (State, error) {
	s.sum.Escalated = true
	slog.Info("conversation escalated", "session_id", s.id, "reason", s.sum.Reason)
	d.publish(ctx, s, messages.AssistantEvent{Type: messages.EventSessionEscalated, Reason: string(s.sum.Reason)})
	return StateEscalate, s.say(ctx, escalationTexts[s.sum.Reason])
}

// caseRef формирует номер обращения из локального времени: CASE-YYYYMMDDHHMMSS.
func (d *Driver) caseRef() string {
	return d.caseRefPrefix + d.clock().Format(caseRefLayout)
}

func (d *Driver) publish(ctx context.Context, s *session, ev messages.AssistantEvent) {
	if d.events == nil {
		return
	}
	ev.SessionID = s.id
	ev.OrderID = strings.ToUpper(s.input.OrderID)
	ev.Email = s.input.Email
	ev.Zip = s.input.Zip
	if o := s.sum.Order; o != nil {
		ev.OrderID = o.ID
		ev.Carrier = o.Carrier
		ev.Status = o.Status
	}
	ev.OccurredAt = d.clock().UTC()
	if err := d.events.Publish(ctx, ev); err != nil {
		slog.Warn("publish assistant event", "session_id", s.id, "type", ev.Type, "error", err.Error())
	}
}
