package condition

// Result is the three-valued outcome of a condition evaluation. The zero
// value is Unknown so that missing answers never read as a definite no.
type Result int8

const (
	// Unknown means the condition could not be answered for this user.
	Unknown Result = iota
	// False means the condition definitively does not hold.
	False
	// True means the condition definitively holds.
	True
)

func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Not flips True and False; Unknown stays Unknown.
func (r Result) Not() Result {
	switch r {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// resultOf lifts a definite boolean into a Result.
func resultOf(b bool) Result {
	if b {
		return True
	}
	return False
}
