package cmd

import (
	"strconv"
	"strings"
	"time"
)

// newestFirst orders by creation time, records without one last
func newestFirst[T any](created func(T) *time.Time) func(a, b T) bool {
	return func(a, b T) bool {
		ta, tb := created(a), created(b)
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.After(*tb)
		}
	}
}

// oldestFirst is newestFirst reversed, records without a time still last
func oldestFirst[T any](created func(T) *time.Time) func(a, b T) bool {
	return func(a, b T) bool {
		ta, tb := created(a), created(b)
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.Before(*tb)
		}
	}
}

// byText orders case-insensitively
func byText[T any](get func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		return strings.ToLower(get(a)) < strings.ToLower(get(b))
	}
}

// byNumber orders numeric strings by value; non-numeric ones sort last
func byNumber[T any](get func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		na, errA := strconv.Atoi(get(a))
		nb, errB := strconv.Atoi(get(b))
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return na < nb
		}
	}
}
