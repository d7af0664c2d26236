package slab

// FlagInUse marks a slot as currently holding a constructed T. It is the
// only defined flag bit, matching spec's tagged pointer (address + flags +
// counter): here flags live in TaggedPointer's own uint32, not packed into
// spare pointer bits (see DESIGN.md, "counter-as-arena-id trick").
const FlagInUse uint32 = 1 << 0

// TaggedPointer packs a slot address together with a small flag bitset and
// an unsigned counter used to record the owning arena's registry index.
// Unlike the reference implementation, the address here is a real,
// GC-traceable Go pointer: Go offers no supported way to steal bits from a
// heap pointer without breaking the garbage collector, so TaggedPointer
// keeps address and meta bits as separate struct fields instead of a single
// packed machine word. See DESIGN.md for why this does not weaken any of
// the invariants the packed representation existed to provide.
type TaggedPointer[T any] struct {
	addr    *T
	meta    uint32 // flag bits; bit 0: FlagInUse
	counter uint32
}

// NewTaggedPointer constructs a TaggedPointer over addr with flags and
// counter both zero.
func NewTaggedPointer[T any](addr *T) TaggedPointer[T] {
	return TaggedPointer[T]{addr: addr}
}

// Address returns the wrapped pointer, or nil for the null sentinel.
func (p TaggedPointer[T]) Address() *T { return p.addr }

// SetAddress replaces the wrapped pointer, leaving flags and counter
// untouched.
func (p *TaggedPointer[T]) SetAddress(addr *T) { p.addr = addr }

// TestFlag reports whether flag is set.
func (p TaggedPointer[T]) TestFlag(flag uint32) bool { return p.meta&flag != 0 }

// SetFlag sets flag.
func (p *TaggedPointer[T]) SetFlag(flag uint32) { p.meta |= flag }

// UnsetFlag clears flag.
func (p *TaggedPointer[T]) UnsetFlag(flag uint32) { p.meta &^= flag }

// Counter returns the counter field (the owning arena's registry index).
func (p TaggedPointer[T]) Counter() uint32 { return p.counter }

// SetCounter overwrites the counter field.
func (p *TaggedPointer[T]) SetCounter(c uint32) { p.counter = c }

// Equal reports whether p and native reference the same address, ignoring
// meta bits, matching the reference's "equality against a native pointer".
func (p TaggedPointer[T]) Equal(native *T) bool { return p.addr == native }

// Reset overwrites address, flags, and counter in one call.
func (p *TaggedPointer[T]) Reset(addr *T, flags, counter uint32) {
	p.addr = addr
	p.meta = flags
	p.counter = counter
}
