package cli

import "testing"

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "assigned values",
			args: []string{"run", "--log-level=debug", "--log-format=json"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "separate values",
			args: []string{"--log-level", "warn", "--log-format", "text", "check"},
			want: logConfig{Level: "warn", Format: "text", Pretty: true},
		},
		{
			name: "booleans",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "invalid boolean ignored",
			args: []string{"--log-caller=maybe"},
			want: logConfig{Pretty: true},
		},
		{
			name: "stops at terminator",
			args: []string{"--", "--log-level=trace"},
			want: logConfig{Pretty: true},
		},
		{
			name: "value must not be a flag",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
