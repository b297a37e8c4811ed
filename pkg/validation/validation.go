package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// EmailRegex validates email format
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// IDRegex validates entity id format (uuid-ish: hex and dashes)
	IDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateEmail validates email address
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > 254 {
		return fmt.Errorf("email is too long (max 254 characters)")
	}
	if !EmailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername validates username
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return fmt.Errorf("username is too long (max 50 characters)")
	}
	if !regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(username) {
		return fmt.Errorf("username contains invalid characters (only letters, numbers, _, - allowed)")
	}
	return nil
}

// ValidatePassword validates password
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	if len(password) > 128 {
		return fmt.Errorf("password is too long (max 128 characters)")
	}
	return nil
}

// ValidateID validates an entity id
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if len(id) > 100 {
		return fmt.Errorf("id is too long (max 100 characters)")
	}
	if !IDRegex.MatchString(id) {
		return fmt.Errorf("invalid id format")
	}
	return nil
}

// ValidateProjectName validates project name
func ValidateProjectName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("project name is too long (max 100 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("project name contains invalid characters")
	}
	return nil
}

// ValidateBoardName validates board name
func ValidateBoardName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("board name is required")
	}
	if len(name) > 100 {
		return fmt.Errorf("board name is too long (max 100 characters)")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("board name contains invalid characters")
	}
	return nil
}

// ValidateTaskTitle validates task title
func ValidateTaskTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("task title is required")
	}
	if len(title) > 200 {
		return fmt.Errorf("task title is too long (max 200 characters)")
	}
	if !utf8.ValidString(title) {
		return fmt.Errorf("task title contains invalid characters")
	}
	return nil
}

// ValidateCommentContent validates comment content
func ValidateCommentContent(content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("comment content is required")
	}
	if len(content) > 5000 {
		return fmt.Errorf("comment is too long (max 5000 characters)")
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme (must be http or https)")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
