package store

import "errors"

// ErrInsufficientStock is returned by any operation that would drive
// an inventory cell negative. The operation mutates nothing.
var ErrInsufficientStock = errors.New("store: insufficient stock")

// ErrInsufficientRawMaterial is returned when a production batch asks
// for more raw material than the supplier's received-minus-consumed
// balance holds.
var ErrInsufficientRawMaterial = errors.New("store: insufficient raw material balance")

// ErrInvalidTransition is returned for a status change outside the
// forward-only shipment or purchase order state machine.
var ErrInvalidTransition = errors.New("store: invalid status transition")
