package validate

import (
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
)

const (
	// DateTimeLayout accepts unpadded month, day and clock fields like strptime does.
	DateTimeLayout = "2006-1-2 15:4:5"
	DateTimeHelp   = "Incorrect date_time format, should be YYYY-MM-DD HH:MM:SS"

	MsgUsernameShort = "Username has to be more than 3 characters long"
	MsgInvalidEmail  = "Please enter a valid email"
	MsgPasswordShort = "Password has to be more than 5 characters long"
)

// Prefix match only: "a@b.c d" is accepted.
var emailPattern = regexp.MustCompile(`^\w+@\w+\.\w+`)

// Datetime parses s as "YYYY-MM-DD HH:MM:SS" in UTC.
func Datetime(s string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return time.Time{}, apperr.FieldErrors(http.StatusOK, apperr.Fields{"date_time": DateTimeHelp})
	}
	return t, nil
}

func Email(s string) bool {
	return emailPattern.MatchString(s)
}

func Registration(username, email, password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(username)) <= 3 {
		return apperr.Validation(http.StatusOK, MsgUsernameShort)
	}
	if !Email(email) {
		return apperr.Validation(http.StatusOK, MsgInvalidEmail)
	}
	if utf8.RuneCountInString(password) <= 5 {
		return apperr.Validation(http.StatusOK, MsgPasswordShort)
	}
	return nil
}
