package trait

import "github.com/milk9111/skirmish/condition"

// Conditional is embedded by instances whose activity follows a gating
// expression over the owner's conditions. The Set owning the instance is
// the only writer of the enabled flag.
type Conditional struct {
	requires *condition.Expr
	enabled  bool
}

func NewConditional(info *ConditionalInfo) Conditional {
	return Conditional{requires: info.Requires()}
}

// IsTraitEnabled reports the current activity.
func (c *Conditional) IsTraitEnabled() bool {
	return c.enabled
}

// RequiresCondition returns the gating expression.
func (c *Conditional) RequiresCondition() *condition.Expr {
	return c.requires
}

func (c *Conditional) conditionalBase() *Conditional {
	return c
}

type conditionalInstance interface {
	conditionalBase() *Conditional
}
