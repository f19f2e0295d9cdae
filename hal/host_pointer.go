//go:build cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

func (p *hostPointer) poll() {
	x, y := ebiten.CursorPosition()
	var held PointerButton
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		held |= PointerPrimary
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		held |= PointerMiddle
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		held |= PointerSecondary
	}
	p.tr.sample(x, y, held, p.inject)
}
