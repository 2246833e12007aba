package kernel

// ResourceKind names the two kinds of resources an order is dispatched to.
type ResourceKind string

const (
	ResourceDriver  ResourceKind = "driver"
	ResourceVehicle ResourceKind = "vehicle"
)

func (k ResourceKind) String() string {
	return string(k)
}

// LockKey returns the key under which concurrent assignments of the resource
// are serialized.
func (k ResourceKind) LockKey(id UUID) string {
	return string(k) + ":" + id.String()
}
