package promotion

import (
	"strings"
)

type Title struct {
	value string
}

func NewTitle(s string) (Title, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Title{}, ErrInvalidTitle
	}
	return Title{value: s}, nil
}

func (t Title) String() string {
	return t.value
}
