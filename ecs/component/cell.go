package component

import "strconv"

// CPos is a map cell coordinate.
type CPos struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (c CPos) String() string {
	return strconv.Itoa(c.X) + "," + strconv.Itoa(c.Y)
}

func (c CPos) IsZero() bool {
	return c.X == 0 && c.Y == 0
}
