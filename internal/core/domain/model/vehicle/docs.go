// Package vehicle contains the Vehicle aggregate: a truck or van of the agency
// fleet.
//
// A vehicle is active or in maintenance. Vehicles in maintenance are never
// assigned. The maintenance dates drive the daily "due for maintenance" scan.
package vehicle
