package route

import "testing"

func TestControllerName(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"server", "ServerController"},
		{"client", "ClientController"},
		{"user-manager", "UserManagerController"},
		{"a-b-c", "ABCController"},
	}

	for _, tc := range cases {
		if got := ControllerName(tc.token); got != tc.want {
			t.Errorf("ControllerName(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestActionName(t *testing.T) {
	cases := []struct {
		token string
		want  string
	}{
		{"hello", "helloAction"},
		{"set-name", "setNameAction"},
		{"stroke-line", "strokeLineAction"},
		{"request-restore", "requestRestoreAction"},
		{"user-connected", "userConnectedAction"},
		{"trailing-", "trailingAction"},
	}

	for _, tc := range cases {
		if got := ActionName(tc.token); got != tc.want {
			t.Errorf("ActionName(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}
