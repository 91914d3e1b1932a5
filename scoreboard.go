package xpong

// Seven-segment patterns for 0..9, active high, bit 0 is segment a
var digitSegments = [10]byte{
	0x3F, 0x06, 0x5B, 0x4F, 0x66,
	0x6D, 0x7D, 0x07, 0x7F, 0x6F,
}

// SegmentsBlank switches every segment and the decimal point off
const SegmentsBlank byte = 0xFF

// Display positions of the scores
const (
	LeftScoreDigit  = 5
	RightScoreDigit = 0
)

// EncodeDigit returns the active-low pattern for d, clamped into 0..9.
// The decimal point (bit 7) is always off.
func EncodeDigit(d int) byte {
	d = min(max(d, 0), 9)

	return (^digitSegments[d] & 0x7F) | 0x80
}

// DecodeDigit maps an active-low pattern back to its digit
func DecodeDigit(b byte) (int, bool) {
	ah := ^b & 0x7F
	for d, seg := range digitSegments {
		if seg == ah {
			return d, true
		}
	}

	return 0, false
}

// Scoreboard drives the seven-segment displays
type Scoreboard struct {
	p Peripherals
}

func NewScoreboard(p Peripherals) *Scoreboard {
	return &Scoreboard{p: p}
}

// Update shows both scores and blanks the other displays
func (sb *Scoreboard) Update(left, right int) {
	sb.show(LeftScoreDigit, EncodeDigit(left))
	sb.show(RightScoreDigit, EncodeDigit(right))

	for n := 0; n < HexCount; n++ {
		if n == LeftScoreDigit || n == RightScoreDigit {
			continue
		}
		sb.show(n, SegmentsBlank)
	}
}

// Blank turns every display off
func (sb *Scoreboard) Blank() {
	for n := 0; n < HexCount; n++ {
		sb.show(n, SegmentsBlank)
	}
}

func (sb *Scoreboard) show(n int, pattern byte) {
	if r, ok := HexRegister(n); ok {
		sb.p.Write(r, uint32(pattern))
	}
}
