package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"
)

var (
	colorCrashBackground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	colorCrashText       = color.RGBA{A: 0xFF}
)

// recoverPanic turns a panic inside Step into a crash screen and a returned error.
// The app stops; later Step calls return hal.ErrQuit.
func (a *App) recoverPanic(errp *error) {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	a.state = StateStopped

	lines := []string{
		"digitpad panic:",
		fmt.Sprintf("panic: %v", v),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}
	for _, line := range lines {
		a.logf("%s", line)
	}
	a.drawCrash(lines)

	*errp = fmt.Errorf("app: panic: %v", v)
}

func (a *App) drawCrash(lines []string) {
	if a.surf == nil {
		return
	}
	face := a.fnt.Body
	_, lineH := face.Measure("Hg")
	if lineH <= 0 {
		lineH = 16
	}
	charW, _ := face.Measure("M")
	if charW <= 0 {
		charW = 8
	}

	b := a.surf.Bounds()
	cols := (b.Dx() - 2*labelInset) / charW
	if cols <= 0 {
		cols = 1
	}

	a.surf.Clear(colorCrashBackground)
	y := labelInset
	for _, line := range lines {
		for len(line) > 0 {
			if y+lineH > b.Max.Y {
				_ = a.surf.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			a.surf.DrawText(labelInset, y, chunk, face, colorCrashText)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = a.surf.Present()
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}
