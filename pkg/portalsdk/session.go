package portalsdk

// Session represents an authenticated user of the payments API.
// Sessions are immutable and safe for concurrent use.
type Session struct {
	client *SDKClient
	token  string
}

// Token returns the bearer token carried by this session.
func (s *Session) Token() string {
	return s.token
}
