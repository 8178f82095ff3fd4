package models

// TypeDescriptor describes a type/class known to the symbol catalog.
type TypeDescriptor struct {
	// Name is the canonical type name, unique within the catalog
	// (e.g. "UGameplayStatics").
	Name string `json:"name" validate:"required,min=1"`

	// Path is the symbolic load path (e.g. "/Script/Engine.GameplayStatics").
	Path string `json:"path,omitempty"`

	// Parent names the immediate ancestor type; empty for roots.
	Parent string `json:"parent,omitempty"`
}

// ParamDescriptor describes one parameter or return value of a callable.
type ParamDescriptor struct {
	Name string   `json:"name" validate:"required,min=1"`
	Type PortType `json:"type"`
}

// CallableDescriptor describes an invocable function or method.
type CallableDescriptor struct {
	Name       string            `json:"name"  validate:"required,min=1"`
	OwnerType  string            `json:"owner" validate:"required,min=1"`
	Parameters []ParamDescriptor `json:"parameters,omitempty"`
	Returns    []ParamDescriptor `json:"returns,omitempty"`
}

// VariableDescriptor describes a variable declared on a type.
type VariableDescriptor struct {
	Name      string   `json:"name"  validate:"required,min=1"`
	OwnerType string   `json:"owner" validate:"required,min=1"`
	Type      PortType `json:"type"`
}
