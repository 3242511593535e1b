package models

// ChantType is one of the selectable chant labels. Custom is a sentinel for
// user-entered text.
type ChantType int

const (
	TypeNamuAmitabul ChantType = iota
	TypeNamuGwanseum
	TypeGwanseum
	TypeJijang
	TypeCustom
)

var chantLabels = map[ChantType]string{
	TypeNamuAmitabul: "나무 아미타불",
	TypeNamuGwanseum: "나무 관세음보살",
	TypeGwanseum:     "관세음보살",
	TypeJijang:       "지장보살",
	TypeCustom:       "직접 입력",
}

// Label returns the display label for the type.
func (t ChantType) Label() string {
	return chantLabels[t]
}

// IsCustom reports whether the type stands for user-entered text.
func (t ChantType) IsCustom() bool {
	return t == TypeCustom
}

// ChantTypes returns all selectable types in display order.
func ChantTypes() []ChantType {
	return []ChantType{TypeNamuAmitabul, TypeNamuGwanseum, TypeGwanseum, TypeJijang, TypeCustom}
}
