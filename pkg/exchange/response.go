package exchange

import "fmt"

// Response is the decoded token endpoint reply.
type Response struct {
	// StatusCode is recorded for logging only; it never changes the outcome.
	StatusCode int
	// Body is the decoded JSON object, or nil when the body was not one.
	Body map[string]any
}

func (r *Response) stringField(key string) (string, bool) {
	if r == nil || r.Body == nil {
		return "", false
	}
	s, ok := r.Body[key].(string)
	return s, ok
}

// AccessToken returns the access_token field. ok is false when the field is
// missing, null, or not a string.
func (r *Response) AccessToken() (token string, ok bool) {
	return r.stringField("access_token")
}

// TokenType returns the token_type field, if any.
func (r *Response) TokenType() string {
	s, _ := r.stringField("token_type")
	return s
}

// Scope returns the granted scope, if reported.
func (r *Response) Scope() string {
	s, _ := r.stringField("scope")
	return s
}

// RefreshToken returns the refresh_token field, if any.
func (r *Response) RefreshToken() string {
	s, _ := r.stringField("refresh_token")
	return s
}

// ExpiresIn returns expires_in in seconds, or 0 when absent.
func (r *Response) ExpiresIn() int64 {
	if r == nil || r.Body == nil {
		return 0
	}
	switch v := r.Body["expires_in"].(type) {
	case float64:
		return int64(v)
	case string:
		var n int64
		if _, err := fmt.Sscan(v, &n); err == nil {
			return n
		}
	}
	return 0
}

// OAuthError returns the OAuth error code from an error-shaped body.
func (r *Response) OAuthError() string {
	s, _ := r.stringField("error")
	return s
}

// ErrorDescription returns the provider's error_description, if any.
func (r *Response) ErrorDescription() string {
	s, _ := r.stringField("error_description")
	return s
}

// FormatAccessToken renders the result line. An absent token prints as None.
func FormatAccessToken(r *Response) string {
	token, ok := r.AccessToken()
	if !ok {
		token = "None"
	}
	return "Access Token: " + token
}
