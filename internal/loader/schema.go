package loader

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of one model file.
type fileRoot struct {
	Models     []*modelBlock     `hcl:"model,block"`
	Components []*componentBlock `hcl:"component,block"`
}

type modelBlock struct {
	Name             string            `hcl:"name,label"`
	Meta             map[string]string `hcl:"meta,optional"`
	StateOrder       []string          `hcl:"state_order,optional"`
	Reserved         []string          `hcl:"reserved,optional"`
	ReservedPrefixes map[string]string `hcl:"reserved_prefixes,optional"`
	DeclRange        hcl.Range         `hcl:",def_range"`
}

type componentBlock struct {
	Name      string            `hcl:"name,label"`
	Meta      map[string]string `hcl:"meta,optional"`
	Aliases   []*aliasBlock     `hcl:"alias,block"`
	Variables []*variableBlock  `hcl:"variable,block"`
	DeclRange hcl.Range         `hcl:",def_range"`
}

type aliasBlock struct {
	Name      string         `hcl:"name,label"`
	Target    *hcl.Attribute `hcl:"target"`
	DeclRange hcl.Range      `hcl:",def_range"`
}

// variableBlock keeps rhs as a raw attribute; the expression is re-parsed
// from the file bytes so the model keeps the author's text.
type variableBlock struct {
	Name      string            `hcl:"name,label"`
	Unit      *string           `hcl:"unit,optional"`
	State     *float64          `hcl:"state,optional"`
	Bind      *string           `hcl:"bind,optional"`
	Label     *string           `hcl:"label,optional"`
	Meta      map[string]string `hcl:"meta,optional"`
	RHS       *hcl.Attribute    `hcl:"rhs,optional"`
	Variables []*variableBlock  `hcl:"variable,block"`
	DeclRange hcl.Range         `hcl:",def_range"`
}
