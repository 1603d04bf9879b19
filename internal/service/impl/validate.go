package impl

import (
	"regexp"
	"strings"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

func validUsername(username string) bool {
	if len(username) < 3 || len(username) > 15 {
		return false
	}
	if strings.ContainsAny(username, " \t\n") {
		return false
	}
	return usernamePattern.MatchString(username)
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validPassword(password string) bool {
	return len(password) >= 8
}
