package dto

// TokenPairResponse carries a freshly issued access/refresh token pair.
// ExpiresIn is the access token lifetime in seconds.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// MessageResponse is a generic informational response.
type MessageResponse struct {
	Message string `json:"message"`
}

// VerifyResponse reports the outcome of an e-mail verification.
type VerifyResponse struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}
