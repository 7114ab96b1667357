package h2t

import "testing"

func fakeEnv(vars map[string]string) lookupEnv {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDetectOSC8(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{"empty", nil, false},
		{"forced on", map[string]string{"OSC8": "1"}, true},
		{"forced off", map[string]string{"OSC8": "0", "TERM_PROGRAM": "iTerm.app"}, false},
		{"iterm", map[string]string{"TERM_PROGRAM": "iTerm.app"}, true},
		{"windows terminal", map[string]string{"WT_SESSION": "abc"}, true},
		{"kitty", map[string]string{"TERM": "xterm-kitty"}, true},
		{"old vte", map[string]string{"VTE_VERSION": "4800"}, false},
		{"new vte", map[string]string{"VTE_VERSION": "6003"}, true},
		{"plain xterm", map[string]string{"TERM": "xterm-256color"}, false},
	}
	for _, tc := range cases {
		if got := detectOSC8(fakeEnv(tc.env)); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestDetectColorModeFromEnv(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want ColorMode
	}{
		{map[string]string{"NO_COLOR": "", "COLORTERM": "truecolor"}, ColorNone},
		{map[string]string{"COLORTERM": "24bit", "TERM": "xterm"}, ColorTrue},
		{map[string]string{"TERM": "xterm-direct"}, ColorTrue},
		{map[string]string{"TERM": "screen-256color"}, Color256},
		{map[string]string{"TERM": "dumb"}, ColorNone},
		{nil, ColorNone},
		{map[string]string{"TERM": "xterm"}, ColorBasic},
	}
	for _, tc := range cases {
		if got := detectColorMode(fakeEnv(tc.env)); got != tc.want {
			t.Fatalf("%v: got %v want %v", tc.env, got, tc.want)
		}
	}
}
