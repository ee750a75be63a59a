package trait

import "gopkg.in/yaml.v3"

// AttackInfo marks an actor able to attack while enabled.
type AttackInfo struct {
	ConditionalInfo `yaml:",inline"`

	Weapon string `yaml:"weapon"`
}

func decodeAttack(node *yaml.Node) (Info, error) {
	info := &AttackInfo{}
	if err := DecodeInto(node, info); err != nil {
		return nil, err
	}
	return info, info.CompileConditions()
}

func (i *AttackInfo) TraitType() string        { return "attack" }
func (i *AttackInfo) Capabilities() Capability { return CapAttack }

func (i *AttackInfo) Create(*Init) Instance {
	return &Attack{Conditional: NewConditional(&i.ConditionalInfo), info: i}
}

type Attack struct {
	Conditional
	info *AttackInfo
}

func (a *Attack) TraitInfo() Info { return a.info }

// MobileInfo marks a ground unit. Movement itself is handled elsewhere; the
// info is consulted at the type level.
type MobileInfo struct {
	Speed int `yaml:"speed"`
}

func decodeMobile(node *yaml.Node) (Info, error) {
	info := &MobileInfo{Speed: 1}
	return info, DecodeInto(node, info)
}

func (i *MobileInfo) TraitType() string        { return "mobile" }
func (i *MobileInfo) Capabilities() Capability { return CapMobile }
func (i *MobileInfo) Create(*Init) Instance    { return nil }
