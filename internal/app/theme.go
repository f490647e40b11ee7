package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LedgerTheme tints the default theme with the ledger's green.
type LedgerTheme struct{}

var _ fyne.Theme = (*LedgerTheme)(nil)

func (t *LedgerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x2d, G: 0x7a, B: 0x4a, A: 0xff}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x2d, G: 0x7a, B: 0x4a, A: 0x40}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *LedgerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *LedgerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *LedgerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameInlineIcon:
		return 22 // toolbar tool icons
	default:
		return theme.DefaultTheme().Size(name)
	}
}
