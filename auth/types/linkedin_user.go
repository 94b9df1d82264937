package types

// LinkedInUser - OpenID userinfo returned by LinkedIn
type LinkedInUser struct {
	Sub           string `json:"sub"`            // Stable member id
	Name          string `json:"name"`           // Full name
	GivenName     string `json:"given_name"`     // First name
	FamilyName    string `json:"family_name"`    // Last name
	Picture       string `json:"picture"`        // Profile picture URL
	Email         string `json:"email"`          // Primary email
	EmailVerified bool   `json:"email_verified"` // Whether email is verified
	Locale        any    `json:"locale"`         // Either a string or {country, language}
}
