package reminder

import (
	"errors"
	"testing"
)

func TestOptionsKind(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		opts    Options
		want    Kind
		wantErr bool
	}{
		{name: "daily", opts: Options{Hour: IntPtr(8), Minute: IntPtr(0)}, want: KindDaily},
		{name: "weekly", opts: Options{Hour: IntPtr(19), Minute: IntPtr(0), Weekday: IntPtr(5)}, want: KindWeekly},
		{name: "relative", opts: Options{SecondsFromNow: IntPtr(60)}, want: KindRelative},
		{name: "immediate", opts: Options{}, want: KindImmediate},
		{name: "hour without minute", opts: Options{Hour: IntPtr(8)}, wantErr: true},
		{name: "minute without hour", opts: Options{Minute: IntPtr(30)}, wantErr: true},
		{name: "hour out of range", opts: Options{Hour: IntPtr(24), Minute: IntPtr(0)}, wantErr: true},
		{name: "minute out of range", opts: Options{Hour: IntPtr(8), Minute: IntPtr(60)}, wantErr: true},
		{name: "weekday zero", opts: Options{Hour: IntPtr(8), Minute: IntPtr(0), Weekday: IntPtr(0)}, wantErr: true},
		{name: "weekday eight", opts: Options{Hour: IntPtr(8), Minute: IntPtr(0), Weekday: IntPtr(8)}, wantErr: true},
		{name: "seconds zero", opts: Options{SecondsFromNow: IntPtr(0)}, wantErr: true},
		{name: "time and seconds conflict", opts: Options{Hour: IntPtr(8), Minute: IntPtr(0), SecondsFromNow: IntPtr(5)}, wantErr: true},
		{name: "weekday without time", opts: Options{Weekday: IntPtr(3)}, wantErr: true},
		{name: "weekday with seconds", opts: Options{Weekday: IntPtr(3), SecondsFromNow: IntPtr(5)}, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.Kind()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOptions) {
					t.Fatalf("err = %v, want ErrInvalidOptions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Kind error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindTimeBased(t *testing.T) {
	t.Parallel()
	if !KindDaily.TimeBased() || !KindWeekly.TimeBased() {
		t.Fatal("daily/weekly must be time-based")
	}
	if KindRelative.TimeBased() || KindImmediate.TimeBased() {
		t.Fatal("relative/immediate must not be time-based")
	}
}
