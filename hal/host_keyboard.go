//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) inject(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

func (k *hostKeyboard) poll() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) ||
		ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight)

	if ctrl {
		emitCtrl := func(key ebiten.Key, r rune) {
			if inpututil.IsKeyJustPressed(key) {
				k.inject(KeyEvent{Press: true, Rune: r})
			}
		}
		emitCtrl(ebiten.KeyZ, 0x1A)
		emitCtrl(ebiten.KeyY, 0x19)
	} else {
		for _, r := range ebiten.AppendInputChars(nil) {
			k.inject(KeyEvent{Press: true, Rune: r})
		}
	}

	keys := [...]struct {
		key  ebiten.Key
		code KeyCode
	}{
		{ebiten.KeyEnter, KeyEnter},
		{ebiten.KeyEscape, KeyEscape},
		{ebiten.KeyBackspace, KeyBackspace},
		{ebiten.KeyDelete, KeyDelete},
	}
	for _, m := range keys {
		if inpututil.IsKeyJustPressed(m.key) {
			k.inject(KeyEvent{Code: m.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(m.key) {
			k.inject(KeyEvent{Code: m.code, Press: false})
		}
	}
}
