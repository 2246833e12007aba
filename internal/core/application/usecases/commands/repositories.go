// Package commands contains the operations that change dispatch state.
// Every handler follows the same shape: validate the command, open a unit of
// work, read-modify-write through the repositories, commit. A failed command
// leaves the store untouched.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work views narrowed to what each handler touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	QuoteRepoFactory interface {
		QuoteRepository() ports.QuoteRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	ScheduleRepoFactory interface {
		ScheduleRepository() ports.ScheduleRepository
	}

	// QuoteUoW is used by commands that only change quotes.
	QuoteUoW interface {
		TxManager
		QuoteRepoFactory
	}

	QuoteUoWFactory interface {
		Create() QuoteUoW
	}

	// DriverUoW is used by driver onboarding and status changes.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// VehicleUoW is used by vehicle onboarding and status changes.
	VehicleUoW interface {
		TxManager
		VehicleRepoFactory
	}

	VehicleUoWFactory interface {
		Create() VehicleUoW
	}

	// UoW spans every repository. Order commands use it because an order
	// change may touch its quote, its schedule entry and the resources.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orders := uow.OrderRepository()
	//   entries := uow.ScheduleRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		QuoteRepoFactory
		OrderRepoFactory
		DriverRepoFactory
		VehicleRepoFactory
		ScheduleRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)

// Function adapters, mainly for wrapping a ports.UnitOfWorkFactory:
//
//	commands.UoWFactoryFunc(func() commands.UoW { return factory.Create() })
type (
	UoWFactoryFunc        func() UoW
	QuoteUoWFactoryFunc   func() QuoteUoW
	DriverUoWFactoryFunc  func() DriverUoW
	VehicleUoWFactoryFunc func() VehicleUoW
)

func (f UoWFactoryFunc) Create() UoW {
	return f()
}

func (f QuoteUoWFactoryFunc) Create() QuoteUoW {
	return f()
}

func (f DriverUoWFactoryFunc) Create() DriverUoW {
	return f()
}

func (f VehicleUoWFactoryFunc) Create() VehicleUoW {
	return f()
}
