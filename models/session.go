package models

import "time"

// Session struct for storing session data
type Session struct {
	Token        string       `json:"session_token"`
	User         *SessionUser `json:"user,omitempty"`
	Success      []string     `json:"success,omitempty"`
	Error        []string     `json:"error,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	LastActivity time.Time    `json:"last_activity"`
	UserAgent    string       `json:"user_agent"`
	IPAddress    string       `json:"ip_address"`
}

func (s *Session) IsLoggedIn() bool {
	return s != nil && s.User != nil
}

func (s *Session) HasFlash() bool {
	return len(s.Success) > 0 || len(s.Error) > 0
}

// TakeFlash returns the pending notifications and clears them.
func (s *Session) TakeFlash() (success, errs []string) {
	success, errs = s.Success, s.Error
	s.Success, s.Error = nil, nil
	return success, errs
}
