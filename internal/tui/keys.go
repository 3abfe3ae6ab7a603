package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Save    key.Binding
	Load    key.Binding
	Clear   key.Binding
	Copy    key.Binding
	Suspend key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^s", "save")),
		Load:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^o", "load")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("^k", "clear")),
		Copy:    key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^y", "copy")),
		Suspend: key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("^z", "suspend")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Save, k.Load, k.Clear, k.Copy, k.Quit}
}
