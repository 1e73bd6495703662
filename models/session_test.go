package models

import "testing"

func TestSessionTakeFlash(t *testing.T) {
	s := &Session{Success: []string{"Saved."}, Error: []string{"Oops."}}
	if !s.HasFlash() {
		t.Fatal("HasFlash() = false, want true")
	}

	success, errs := s.TakeFlash()
	if len(success) != 1 || success[0] != "Saved." {
		t.Errorf("success = %v, want [Saved.]", success)
	}
	if len(errs) != 1 || errs[0] != "Oops." {
		t.Errorf("errs = %v, want [Oops.]", errs)
	}
	if s.HasFlash() {
		t.Error("flash should be cleared after TakeFlash")
	}
}

func TestSessionIsLoggedIn(t *testing.T) {
	var nilSession *Session
	tests := []struct {
		name string
		s    *Session
		want bool
	}{
		{name: "nil session", s: nilSession, want: false},
		{name: "anonymous", s: &Session{Token: "abc"}, want: false},
		{name: "with user", s: &Session{User: &SessionUser{ID: 1}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.IsLoggedIn(); got != tt.want {
				t.Errorf("IsLoggedIn() = %v, want %v", got, tt.want)
			}
		})
	}
}
