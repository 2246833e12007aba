package kernel

import (
	"errors"
	"net/mail"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrContactIsNotConstructed = errs.NewValueIsRequiredError("contact must be created via NewContact")

// Contact identifies the customer behind a quote or an order.
type Contact struct { //nolint:recvcheck //using for validation
	name  string
	phone string
	email string
	guard guard.ConstructorGuard
}

// NewContact validates and trims the customer's details. Name and phone are
// required; email must be a bare address such as "a@b.kz".
func NewContact(name, phone, email string) (Contact, error) {
	c := Contact{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setName(name),
		c.setPhone(phone),
		c.setEmail(email),
	); err != nil {
		return Contact{}, err
	}

	return c, nil
}

func (c Contact) Validate() error {
	return c.guard.Validate(ErrContactIsNotConstructed)
}

func (c Contact) Name() string {
	return c.name
}

func (c Contact) Phone() string {
	return c.phone
}

func (c Contact) Email() string {
	return c.email
}

func (c *Contact) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("customer name")
	}
	c.name = name
	return nil
}

func (c *Contact) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("customer phone")
	}
	c.phone = phone
	return nil
}

func (c *Contact) setEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errs.NewValueIsRequiredError("customer email")
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return errs.NewValueIsInvalidErrorWithCause("customer email", errors.New("not a bare email address"))
	}
	c.email = email
	return nil
}
