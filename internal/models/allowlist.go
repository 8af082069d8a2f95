package models

// AllowlistEntry is a pre-approved email address. Membership is boolean
// presence; there are no roles and no expiry. Emails are stored lowercase.
type AllowlistEntry struct {
	Email string `json:"email"`
}
