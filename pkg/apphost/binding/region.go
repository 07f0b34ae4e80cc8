package binding

// The placeholder is kept as two halves. No constant holding the joined value
// exists anywhere in the program, so the only copy of the full placeholder in
// a compiled host is the initializer of region below.
const (
	PlaceholderHi = "74e592c2fa383d4a3960714caef0c4f2"
	PlaceholderLo = "74e592c2fa383d4a3960714caef0c4f2"
)

const (
	// PlaceholderLen is the length of the unbound marker content.
	PlaceholderLen = len(PlaceholderHi) + len(PlaceholderLo)

	// Capacity is the size of the marker region, large enough for a
	// maximum-length module path plus its terminator.
	Capacity = max(PlaceholderLen, 1025)

	// MaxPathLen is the longest path the region can hold.
	MaxPathLen = Capacity - 1
)

// region is the patch target. It is a variable, not a constant, so it lands in
// the writable data section with its own storage; the build tool overwrites
// the placeholder bytes in the file image.
var region = [Capacity]byte{
	// hi
	'7', '4', 'e', '5', '9', '2', 'c', '2', 'f', 'a', '3', '8', '3', 'd', '4', 'a',
	'3', '9', '6', '0', '7', '1', '4', 'c', 'a', 'e', 'f', '0', 'c', '4', 'f', '2',
	// lo
	'7', '4', 'e', '5', '9', '2', 'c', '2', 'f', 'a', '3', '8', '3', 'd', '4', 'a',
	'3', '9', '6', '0', '7', '1', '4', 'c', 'a', 'e', 'f', '0', 'c', '4', 'f', '2',
}

type imageSource struct{}

// Image returns the marker region of the running executable.
func Image() Source { return imageSource{} }

func (imageSource) Len() int { return Capacity }

//go:noinline
func (imageSource) ByteAt(i int) byte { return region[i] }
