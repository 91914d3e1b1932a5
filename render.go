package xpong

// Palette, RGB332
const (
	ColorBackground byte = 0x03
	ColorForeground byte = 0xFF
	ColorBall       byte = 0xE0
	ColorScore      byte = 0x7F

	ColorOverlayBorder byte = 0x00
	ColorOverlayFill   byte = 0xFF
)

// Game over overlay, in cells
const (
	overlayX, overlayY = 10, 8
	overlayW, overlayH = 12, 8
)

// Renderer redraws the whole frame buffer from a game state
type Renderer struct {
	fb *FrameBuffer
}

func NewRenderer(fb *FrameBuffer) *Renderer {
	return &Renderer{fb: fb}
}

func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Draw paints state into the frame buffer. Nothing is carried over from the previous frame.
func (r *Renderer) Draw(s *GameState) {
	fb := r.fb
	fb.Clear(ColorBackground)

	// dashed centre line
	for y := 0; y < Rows; y += 2 {
		fb.FillCell(Cols/2, y, ColorForeground)
	}

	fb.FillCellRect(s.Left.X, s.Left.Y, PaddleWidth, s.Left.Height, ColorForeground)
	fb.FillCellRect(s.Right.X, s.Right.Y, PaddleWidth, s.Right.Height, ColorForeground)

	fb.FillCell(s.Ball.X, s.Ball.Y, ColorBall)

	for i := 0; i < s.ScoreLeft; i++ {
		fb.FillCell(2+i, 0, ColorScore)
	}
	for i := 0; i < s.ScoreRight; i++ {
		fb.FillCell(Cols-3-i, 0, ColorScore)
	}

	if !s.Running {
		fb.FillCellRect(overlayX, overlayY, overlayW, overlayH, ColorOverlayBorder)
		fb.FillCellRect(overlayX+1, overlayY+1, overlayW-2, overlayH-2, ColorOverlayFill)
	}
}

// Render draws the state and flips the result onto the visible surface
func (r *Renderer) Render(s *GameState, p Peripherals) error {
	r.Draw(s)

	return p.Flip(r.fb.Frame())
}
