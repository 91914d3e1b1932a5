package xpong

import "testing"

func TestSwitchForKey(t *testing.T) {
	if sw, quit := switchForKey('7'); sw != 7 || quit {
		t.Fatalf(`switchForKey('7') = %d, %v`, sw, quit)
	}
	if sw, _ := switchForKey('q'); sw != int(LeftUpSwitch) {
		t.Fatalf(`switchForKey('q') = %d, expected %d`, sw, LeftUpSwitch)
	}
	if sw, _ := switchForKey('P'); sw != int(RightUpSwitch) {
		t.Fatalf(`switchForKey('P') = %d, expected %d`, sw, RightUpSwitch)
	}
	if _, quit := switchForKey('x'); !quit {
		t.Fatalf(`switchForKey('x') did not quit`)
	}
	if sw, quit := switchForKey('z'); sw != -1 || quit {
		t.Fatalf(`switchForKey('z') = %d, %v, expected no switch`, sw, quit)
	}
}
