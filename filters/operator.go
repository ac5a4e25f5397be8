package filters

// Operator is a binary comparison applied as Operator(attribute, reference).
type Operator string

const (
	OpEqual        Operator = "eq"
	OpNotEqual     Operator = "ne"
	OpLess         Operator = "lt"
	OpLessEqual    Operator = "le"
	OpGreater      Operator = "gt"
	OpGreaterEqual Operator = "ge"
)

// Apply evaluates left op right. Values that cannot be compared never satisfy
// any operator, including OpNotEqual.
func (op Operator) Apply(left, right Value) bool {
	c, ok := left.compare(right)
	if !ok {
		return false
	}

	switch op {
	case OpEqual:
		return c == 0
	case OpNotEqual:
		return c != 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	default:
		return false
	}
}
