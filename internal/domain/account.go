package domain

import "regexp"

// AccountField names the user column an account string resolves to.
type AccountField string

const (
	AccountMobile   AccountField = "mobile"
	AccountEmail    AccountField = "email"
	AccountUsername AccountField = "username"
)

// AccountCondition is a single-field user lookup produced by ClassifyAccount.
type AccountCondition struct {
	Field AccountField
	Value string
}

var (
	mobileRe = regexp.MustCompile(`^1\d{10}$`)
	emailRe  = regexp.MustCompile("^[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+(?:\\.[a-zA-Z0-9!#$%&'*+/=?^_`{|}~-]+)*@(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?\\.)+[a-zA-Z0-9](?:[a-zA-Z0-9-]*[a-zA-Z0-9])?$")
)

// ClassifyAccount decides whether an account string is a mobile number, an
// email address or a username, first match wins. Username is the catch-all,
// so every string classifies into exactly one field.
func ClassifyAccount(account string) AccountCondition {
	if mobileRe.MatchString(account) {
		return AccountCondition{Field: AccountMobile, Value: account}
	}
	if emailRe.MatchString(account) {
		return AccountCondition{Field: AccountEmail, Value: account}
	}
	return AccountCondition{Field: AccountUsername, Value: account}
}
