package hugealloc

// Close unmaps every live segment and marks the allocator closed. All
// slices previously returned from the mapping path become invalid; slices
// from the system allocator are unaffected.
//
// Close is idempotent. Operations after Close return ErrClosed.
func (a *Allocator) Close() error {
	if a == nil {
		return nil
	}

	if a.closed.Swap(true) {
		return nil
	}

	a.reg.closeAll()

	return nil
}
