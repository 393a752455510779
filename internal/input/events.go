package input

// MouseButton identifies a pointer button in an abstract event.
type MouseButton int

// Pointer buttons the engine reacts to.
const (
	ButtonLeft MouseButton = iota + 1
	ButtonMiddle
	ButtonRight
)

// Modifiers is the keyboard modifier state tracked across events.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Key is one abstract keyboard event. Named keys carry Name and a zero Rune;
// printable characters carry Rune and an empty Name.
type Key struct {
	Name string
	Rune rune
}

// Named keys delivered by the shell.
const (
	KeyNameShift     = "Shift"
	KeyNameCtrl      = "Ctrl"
	KeyNameAlt       = "Alt"
	KeyNameEscape    = "Escape"
	KeyNameReturn    = "Return"
	KeyNameBackspace = "Backspace"
	KeyNameSpace     = "Space"
	KeyNameDelete    = "Delete"
	KeyNameUp        = "Up"
	KeyNameDown      = "Down"
	KeyNameLeft      = "Left"
	KeyNameRight     = "Right"
	KeyNameHome      = "Home"
	KeyNameEnd       = "End"
	KeyNamePageUp    = "PageUp"
	KeyNamePageDown  = "PageDown"
	KeyNameTab       = "Tab"
)

// NamedKey builds a non-character key event.
func NamedKey(name string) Key { return Key{Name: name} }

// CharKey builds a printable-character key event.
func CharKey(r rune) Key { return Key{Rune: r} }

// IsChar reports whether the key is a printable character.
func (k Key) IsChar() bool { return k.Name == "" && k.Rune != 0 }

// IsModifier reports whether the key only changes modifier state.
func (k Key) IsModifier() bool {
	switch k.Name {
	case KeyNameShift, KeyNameCtrl, KeyNameAlt:
		return true
	}
	return false
}
