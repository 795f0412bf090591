package lifecycle

import "testing"

func TestRuleSetBuilder_ConfigurePanicsOnInvalidStatus(t *testing.T) {
	builder := NewRuleSetBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid status")
		}
	}()

	builder.Configure(Status("BOGUS"))
}

func TestRuleSetBuilder_NotifyPanicsOnInvalidTarget(t *testing.T) {
	builder := NewRuleSetBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Notify() should panic on invalid target status")
		}
	}()

	builder.Configure(StatusUnpaid).Notify(Status("BOGUS"), NotificationOverdueAlert)
}

func TestRuleSet_Lookup(t *testing.T) {
	builder := NewRuleSetBuilder()
	builder.Configure(StatusUnpaid).Notify(StatusPaid, NotificationPaymentReceived)
	rules := builder.Build()

	kind, ok := rules.Lookup(StatusUnpaid, StatusPaid)
	if !ok {
		t.Fatal("Lookup() should find configured transition")
	}
	if kind != NotificationPaymentReceived {
		t.Errorf("Lookup() kind = %v, want %v", kind, NotificationPaymentReceived)
	}

	if _, ok := rules.Lookup(StatusPaid, StatusUnpaid); ok {
		t.Error("Lookup() should not find unconfigured transition")
	}
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name     string
		from     Status
		to       Status
		wantKind NotificationKind
		wantHit  bool
	}{
		{"unpaid to paid", StatusUnpaid, StatusPaid, NotificationPaymentReceived, true},
		{"overdue to paid", StatusOverdue, StatusPaid, NotificationPaymentReceived, true},
		{"unpaid to overdue", StatusUnpaid, StatusOverdue, NotificationOverdueAlert, true},
		{"paid to overdue is silent", StatusPaid, StatusOverdue, "", false},
		{"paid to unpaid is silent", StatusPaid, StatusUnpaid, "", false},
		{"overdue to unpaid is silent", StatusOverdue, StatusUnpaid, "", false},
		{"self transition is silent", StatusUnpaid, StatusUnpaid, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, hit := rules.Lookup(tt.from, tt.to)
			if hit != tt.wantHit {
				t.Fatalf("Lookup(%s, %s) hit = %v, want %v", tt.from, tt.to, hit, tt.wantHit)
			}
			if hit && kind != tt.wantKind {
				t.Errorf("Lookup(%s, %s) kind = %v, want %v", tt.from, tt.to, kind, tt.wantKind)
			}
		})
	}
}
