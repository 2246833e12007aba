package order

import (
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrPackageIsNotConstructed = errs.NewValueIsRequiredError("package must be created via NewPackage")

// Package is the service package a customer selected (e.g. "2-room move").
type Package struct { //nolint:recvcheck //using for validation
	id        string
	name      string
	basePrice decimal.Decimal
	guard     guard.ConstructorGuard
}

func NewPackage(id, name string, basePrice decimal.Decimal) (Package, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Package{}, errs.NewValueIsRequiredError("package id")
	}
	if name == "" {
		return Package{}, errs.NewValueIsRequiredError("package name")
	}
	if err := kernel.ValidateAmount("package basePrice", basePrice); err != nil {
		return Package{}, err
	}

	return Package{id: id, name: name, basePrice: basePrice, guard: guard.NewConstructorGuard()}, nil
}

func (p Package) Validate() error {
	return p.guard.Validate(ErrPackageIsNotConstructed)
}

func (p Package) ID() string {
	return p.id
}

func (p Package) Name() string {
	return p.name
}

func (p Package) BasePrice() decimal.Decimal {
	return p.basePrice
}
