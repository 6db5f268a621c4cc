// Package ui holds shared look-and-feel for the TUI.
package ui

import "github.com/gdamore/tcell/v2"

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor          tcell.Color
	FgColor          tcell.Color
	BorderColor      tcell.Color
	BorderFocusColor tcell.Color
	TableHeaderFg    tcell.Color
	TableCursorBg    tcell.Color
	TitleColor       tcell.Color
	OwnMessageColor  tcell.Color
	FlashErrColor    tcell.Color
}

// DefaultTheme returns the dark wolfpack theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:          tcell.ColorBlack,
		FgColor:          tcell.ColorLightGray,
		BorderColor:      tcell.ColorSteelBlue,
		BorderFocusColor: tcell.ColorLightSkyBlue,
		TableHeaderFg:    tcell.ColorWhite,
		TableCursorBg:    tcell.ColorAqua,
		TitleColor:       tcell.ColorOrange,
		OwnMessageColor:  tcell.ColorAqua,
		FlashErrColor:    tcell.ColorOrangeRed,
	}
}
