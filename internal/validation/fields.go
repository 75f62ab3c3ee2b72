// Package validation holds the form field rules and the mapping from known
// backend error strings to field-level helper texts. Validation always runs
// before any backend call; a failed validation never reaches the network.
package validation

import (
	"regexp"
	"unicode/utf8"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldErrors maps form field names to helper texts.
type FieldErrors map[string]string

// Any reports whether at least one field failed.
func (f FieldErrors) Any() bool {
	return len(f) > 0
}

// ValidEmail checks the address shape used across all forms.
func ValidEmail(v string) bool {
	return emailRe.MatchString(v)
}

// ValidateLogin checks the login form.
func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}
	if email == "" {
		errs["email"] = "이메일을 입력해주세요."
	} else if !ValidEmail(email) {
		errs["email"] = "이메일 형식이 올바르지 않습니다."
	}
	if password == "" {
		errs["password"] = "비밀번호를 입력해주세요."
	}
	return errs
}

// ValidateSignup checks the signup form.
func ValidateSignup(email, password, passwordCheck, nickname string) FieldErrors {
	errs := FieldErrors{}
	if email == "" {
		errs["email"] = "이메일을 입력해주세요."
	} else if !ValidEmail(email) {
		errs["email"] = "이메일 형식이 올바르지 않습니다."
	}
	if password == "" {
		errs["password"] = "비밀번호를 입력해주세요."
	} else if utf8.RuneCountInString(password) < 8 {
		errs["password"] = "비밀번호는 최소 8자 이상이어야 합니다."
	}
	if passwordCheck == "" {
		errs["passwordCheck"] = "비밀번호를 한 번 더 입력해주세요."
	} else if password != "" && password != passwordCheck {
		errs["passwordCheck"] = "비밀번호가 서로 일치하지 않습니다."
	}
	if nickname == "" {
		errs["nickname"] = "닉네임을 입력해주세요."
	} else if utf8.RuneCountInString(nickname) > 30 {
		errs["nickname"] = "닉네임은 최대 30자까지 가능합니다."
	}
	return errs
}

// ValidatePasswordChange checks the password-edit form.
func ValidatePasswordChange(current, password, passwordCheck string) FieldErrors {
	errs := FieldErrors{}
	if current == "" {
		errs["currentPassword"] = "현재 비밀번호를 입력해주세요."
	}
	if password == "" {
		errs["password"] = "새 비밀번호를 입력해주세요."
	} else if utf8.RuneCountInString(password) < 8 {
		errs["password"] = "비밀번호는 8자 이상이어야 합니다."
	}
	if passwordCheck == "" {
		errs["passwordCheck"] = "비밀번호 확인을 입력해주세요."
	} else if password != "" && password != passwordCheck {
		errs["passwordCheck"] = "비밀번호가 일치하지 않습니다."
	}
	return errs
}

// ValidateProfile checks the profile-edit form.
func ValidateProfile(nickname string) FieldErrors {
	errs := FieldErrors{}
	if nickname == "" {
		errs["nickname"] = "닉네임을 입력하세요."
	}
	return errs
}

// ValidatePost checks the post create/edit form. The title cap matches the
// board's 26-character limit.
func ValidatePost(title, content string) FieldErrors {
	errs := FieldErrors{}
	if title == "" {
		errs["title"] = "제목을 입력해주세요."
	} else if utf8.RuneCountInString(title) > 26 {
		errs["title"] = "제목은 최대 26자까지 가능합니다."
	}
	if content == "" {
		errs["content"] = "내용을 입력해주세요."
	}
	return errs
}

// MapLoginError maps a known backend message to a field helper. The second
// return is false for unrecognized messages, which the page surfaces as a
// blocking alert instead.
func MapLoginError(message string) (FieldErrors, bool) {
	switch message {
	case "invalid email format":
		return FieldErrors{"email": "이메일 형식이 올바르지 않습니다."}, true
	case "email is required":
		return FieldErrors{"email": "이메일을 입력해주세요."}, true
	case "password is required":
		return FieldErrors{"password": "비밀번호를 입력해주세요."}, true
	case "invalid credentials":
		return FieldErrors{"password": "이메일 또는 비밀번호가 올바르지 않습니다."}, true
	}
	return nil, false
}

// MapSignupError maps a known backend message to a field helper.
func MapSignupError(message string) (FieldErrors, bool) {
	switch message {
	case "invalid email format":
		return FieldErrors{"email": "이메일 형식이 올바르지 않습니다."}, true
	case "email is required":
		return FieldErrors{"email": "이메일을 입력해주세요."}, true
	case "password is required":
		return FieldErrors{"password": "비밀번호를 입력해주세요."}, true
	case "password_check is required":
		return FieldErrors{"passwordCheck": "비밀번호 확인을 입력해주세요."}, true
	case "nickname is required":
		return FieldErrors{"nickname": "닉네임을 입력해주세요."}, true
	case "password_mismatch":
		return FieldErrors{"passwordCheck": "비밀번호가 서로 일치하지 않습니다."}, true
	case "이메일이 이미 존재합니다.":
		return FieldErrors{"email": "이미 사용 중인 이메일입니다."}, true
	}
	return nil, false
}
