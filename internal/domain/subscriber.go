// Package domain holds the parsed, already-validated values the
// subscription workflow operates on. A value of these types can only be
// obtained through its Parse function.
package domain

import (
	"strings"

	"bitwise74/newsletter-api/pkg/validators"
)

type SubscriberName struct {
	value string
}

func ParseSubscriberName(s string) (SubscriberName, error) {
	if err := validators.NameValidator(s); err != nil {
		return SubscriberName{}, err
	}

	return SubscriberName{value: s}, nil
}

func (n SubscriberName) String() string { return n.value }

type SubscriberEmail struct {
	value string
}

func ParseSubscriberEmail(s string) (SubscriberEmail, error) {
	s = strings.TrimSpace(s)
	if err := validators.EmailValidator(s); err != nil {
		return SubscriberEmail{}, err
	}

	return SubscriberEmail{value: s}, nil
}

func (e SubscriberEmail) String() string { return e.value }

// SubscribeForm is the raw signup form as posted by the browser.
type SubscribeForm struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required"`
}

type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// ParseNewSubscriber validates the name first, then the email, and
// returns the first failure as a *validators.ValidationError.
func ParseNewSubscriber(f SubscribeForm) (NewSubscriber, error) {
	name, err := ParseSubscriberName(f.Name)
	if err != nil {
		return NewSubscriber{}, err
	}

	email, err := ParseSubscriberEmail(f.Email)
	if err != nil {
		return NewSubscriber{}, err
	}

	return NewSubscriber{Name: name, Email: email}, nil
}
