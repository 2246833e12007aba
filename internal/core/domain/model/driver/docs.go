// Package driver contains the Driver aggregate: a person the agency
// dispatches to orders.
//
// A driver is either on-duty or off-duty. Only on-duty drivers can take new
// assignments. The home vehicle is the one the driver usually works with; it
// is informational and does not reserve the vehicle.
package driver
