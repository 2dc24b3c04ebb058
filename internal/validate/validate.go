// Package validate holds the field rules shared by signup and profile forms.
package validate

import "regexp"

const MinPasswordLength = 6

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	otpRe   = regexp.MustCompile(`^[0-9]{6}$`)
	panRe   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstRe   = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

func Email(s string) bool { return emailRe.MatchString(s) }

// Phone accepts a bare 10-digit number.
func Phone(s string) bool { return phoneRe.MatchString(s) }

func OTP(s string) bool { return otpRe.MatchString(s) }

func Password(s string) bool { return len(s) >= MinPasswordLength }

func PAN(s string) bool { return panRe.MatchString(s) }

func GSTIN(s string) bool { return gstRe.MatchString(s) }
