package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/signadot/tres/variant"
)

type Colorable struct {
	Type variant.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	TagColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
	RefColor
	CommentColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range variant.Types() {
		able := Colorable{Type: t, Attr: TagColor}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = CommentColor
		colors.Map[able] = color.BlueString
	}
	able := Colorable{Type: variant.NilType, Attr: FieldColor}
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Attr = ValueColor
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Type = variant.BoolType
	colors.Map[able] = color.CyanString
	able.Type = variant.IntType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = variant.FloatType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()
	able.Type = variant.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Type = variant.StringNameType
	colors.Map[able] = color.RGB(88, 158, 86).SprintfFunc()
	able.Type = variant.NodePathType
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()

	able = Colorable{Type: variant.ObjectType, Attr: RefColor}
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t variant.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t variant.Type, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
