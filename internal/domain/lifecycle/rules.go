package lifecycle

import "fmt"

// RuleSet maps tracked status transitions to the notification they raise.
// Transitions not present in the set are still legal writes, they just
// raise nothing: status is operator-editable, notifications are event-driven.
type RuleSet struct {
	rules map[Status]map[Status]NotificationKind
}

// RuleSetBuilder builds a configured rule set
type RuleSetBuilder interface {
	// Configure returns a transition configuration for the given origin status
	Configure(from Status) TransitionConfiguration

	// Build creates an immutable rule set from the configured transitions
	Build() *RuleSet
}

// TransitionConfiguration configures notifications for transitions out of one status
type TransitionConfiguration interface {
	// Notify raises the given notification when the status changes to target
	Notify(to Status, kind NotificationKind) TransitionConfiguration
}

type ruleConfig struct {
	from    Status
	targets map[Status]NotificationKind
}

type ruleSetBuilder struct {
	configurations map[Status]*ruleConfig
}

// NewRuleSetBuilder creates a new rule set builder
func NewRuleSetBuilder() RuleSetBuilder {
	return &ruleSetBuilder{
		configurations: make(map[Status]*ruleConfig),
	}
}

// Configure returns a transition configuration for the given origin status
func (b *ruleSetBuilder) Configure(from Status) TransitionConfiguration {
	if !from.IsValid() {
		panic(fmt.Sprintf("invalid status: %s", from))
	}

	config, exists := b.configurations[from]
	if !exists {
		config = &ruleConfig{
			from:    from,
			targets: make(map[Status]NotificationKind),
		}
		b.configurations[from] = config
	}

	return config
}

// Build creates an immutable rule set from the configured transitions
func (b *ruleSetBuilder) Build() *RuleSet {
	rules := make(map[Status]map[Status]NotificationKind)
	for from, config := range b.configurations {
		targets := make(map[Status]NotificationKind, len(config.targets))
		for to, kind := range config.targets {
			targets[to] = kind
		}
		rules[from] = targets
	}

	return &RuleSet{rules: rules}
}

// Notify raises the given notification when the status changes to target
func (c *ruleConfig) Notify(to Status, kind NotificationKind) TransitionConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", to))
	}

	c.targets[to] = kind
	return c
}

// Lookup returns the notification raised by a from→to transition, if any
func (rs *RuleSet) Lookup(from, to Status) (NotificationKind, bool) {
	targets, exists := rs.rules[from]
	if !exists {
		return "", false
	}

	kind, exists := targets[to]
	return kind, exists
}

// DefaultRules returns the transition table for the invoice lifecycle:
// a payment on an unpaid or overdue invoice raises PaymentReceived, and
// an unpaid invoice slipping past its due date raises OverdueAlert.
func DefaultRules() *RuleSet {
	builder := NewRuleSetBuilder()

	builder.Configure(StatusUnpaid).
		Notify(StatusPaid, NotificationPaymentReceived).
		Notify(StatusOverdue, NotificationOverdueAlert)

	builder.Configure(StatusOverdue).
		Notify(StatusPaid, NotificationPaymentReceived)

	return builder.Build()
}
