package availability

import (
	"testing"

	"github.com/avivshm/glowbook/internal/fault"
)

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{
			name:   "valid without break",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00"},
		},
		{
			name: "valid with break",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00",
				BreakStart: "13:00", BreakEnd: "14:00"},
		},
		{
			name:    "bad date",
			window:  Window{Date: "01/03/2026", StartTime: "09:00", EndTime: "17:00"},
			wantErr: true,
		},
		{
			name:    "bad time format",
			window:  Window{Date: "2026-03-01", StartTime: "9am", EndTime: "17:00"},
			wantErr: true,
		},
		{
			name:    "start after end",
			window:  Window{Date: "2026-03-01", StartTime: "18:00", EndTime: "09:00"},
			wantErr: true,
		},
		{
			name:    "start equals end",
			window:  Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "09:00"},
			wantErr: true,
		},
		{
			name: "break start without end",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00",
				BreakStart: "13:00"},
			wantErr: true,
		},
		{
			name: "break end without start",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00",
				BreakEnd: "14:00"},
			wantErr: true,
		},
		{
			name: "inverted break",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00",
				BreakStart: "15:00", BreakEnd: "14:00"},
			wantErr: true,
		},
		{
			name: "break escapes window",
			window: Window{Date: "2026-03-01", StartTime: "09:00", EndTime: "17:00",
				BreakStart: "08:00", BreakEnd: "10:00"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr {
				if fault.KindOf(err) != fault.KindValidation {
					t.Fatalf("KindOf = %v, want validation (err=%v)", fault.KindOf(err), err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
		})
	}
}

func TestHasBreak(t *testing.T) {
	w := Window{BreakStart: "13:00", BreakEnd: "14:00"}
	if !w.HasBreak() {
		t.Fatal("expected break")
	}
	empty := Window{}
	if empty.HasBreak() {
		t.Fatal("empty window must not report a break")
	}
}
