package xpong_test

import (
	"testing"

	"github.com/guslan/xpong"
)

func TestDecodeSwitches(t *testing.T) {
	cases := []struct {
		sw   uint32
		want xpong.Input
	}{
		{0, xpong.Input{}},
		{1 << 9, xpong.Input{LeftUp: true}},
		{1, xpong.Input{RightUp: true}},
		{1<<9 | 1, xpong.Input{LeftUp: true, RightUp: true}},
		// the other switches mean nothing
		{0b0111111110, xpong.Input{}},
		// bits above the bank are not wired
		{1 << 10, xpong.Input{}},
	}

	for _, c := range cases {
		if got := xpong.DecodeSwitches(c.sw); got != c.want {
			t.Fatalf(`DecodeSwitches(%#b) = %+v, expected %+v`, c.sw, got, c.want)
		}
	}
}
