package xpong

// Gameplay runs on a grid of square cells
const (
	Cell = 10
	Cols = 320 / Cell
	Rows = 240 / Cell

	PaddleHeight = 5
	PaddleWidth  = 1
	LeftPaddleX  = 1
	RightPaddleX = Cols - 2

	WinScore = 5

	// BallDivisor is how many ticks pass between two ball advances
	BallDivisor = 3
)

// Ball position and velocity in cells
type Ball struct {
	X, Y   int
	Dx, Dy int
}

// Paddle has a fixed column and moves vertically
type Paddle struct {
	X, Y   int
	Height int
}

// Input sampled once per tick
type Input struct {
	LeftUp  bool
	RightUp bool
}

// GameState is the complete mutable state of a match
type GameState struct {
	Ball        Ball
	Left, Right Paddle

	ScoreLeft  int
	ScoreRight int

	// Running is cleared for good once a side reaches WinScore
	Running bool
	// ScoreDirty asks for a refresh of the seven-segment displays
	ScoreDirty bool

	ballTick int
}

func NewGameState() *GameState {
	s := &GameState{}
	s.Reset()

	return s
}

// Reset puts the match at its starting position
func (s *GameState) Reset() {
	s.ScoreLeft = 0
	s.ScoreRight = 0
	s.Running = true
	s.ballTick = 0

	s.Left = Paddle{X: LeftPaddleX, Y: (Rows - PaddleHeight) / 2, Height: PaddleHeight}
	s.Right = Paddle{X: RightPaddleX, Y: (Rows - PaddleHeight) / 2, Height: PaddleHeight}

	s.Ball = Ball{X: Cols / 2, Y: Rows / 2, Dx: 1, Dy: 1}
}

// BallTick is the number of ticks since the ball last moved
func (s GameState) BallTick() int {
	return s.ballTick
}

// IsOver reports whether the match has a winner
func (s GameState) IsOver() bool {
	return !s.Running
}

// Simulate advances the match by one tick. Once the match is over it does nothing.
func (s *GameState) Simulate(in Input) {
	if !s.Running {
		return
	}

	s.Left.move(in.LeftUp)
	s.Right.move(in.RightUp)

	s.Ball.collide(s.Left)
	s.Ball.collide(s.Right)

	s.ballTick++
	if s.ballTick >= BallDivisor {
		s.advanceBall()
		s.ballTick = 0
	}
}

func (p *Paddle) move(up bool) {
	if up {
		p.Y--
	} else {
		p.Y++
	}
	p.clamp()
}

func (p *Paddle) clamp() {
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y+p.Height > Rows {
		p.Y = Rows - p.Height
	}
}

// contains reports whether row y is covered by the paddle
func (p Paddle) contains(y int) bool {
	return y >= p.Y && y < p.Y+p.Height
}

func (p Paddle) isEdge(y int) bool {
	return y == p.Y || y == p.Y+p.Height-1
}

// collide bounces the ball back when its next column is the paddle's.
// Hitting the top or bottom cell of a paddle also flips the vertical direction.
func (b *Ball) collide(p Paddle) {
	if b.X+b.Dx != p.X || !p.contains(b.Y) {
		return
	}

	b.Dx = -b.Dx
	if p.isEdge(b.Y) {
		b.Dy = -b.Dy
	}
}

func (s *GameState) advanceBall() {
	b := &s.Ball
	b.X += b.Dx
	b.Y += b.Dy

	if b.Y <= 0 {
		b.Y = 0
		b.Dy = -b.Dy
	}
	if b.Y >= Rows-1 {
		b.Y = Rows - 1
		b.Dy = -b.Dy
	}

	if b.X <= 0 {
		s.ScoreRight++
		s.ScoreDirty = true
		b.reset(1)
	} else if b.X >= Cols-1 {
		s.ScoreLeft++
		s.ScoreDirty = true
		b.reset(-1)
	}

	if s.ScoreLeft >= WinScore || s.ScoreRight >= WinScore {
		s.Running = false
	}
}

// reset serves the ball from the centre towards dir
func (b *Ball) reset(dir int) {
	b.X = Cols / 2
	b.Y = Rows / 2
	b.Dx = dir
	if b.Dy == 0 {
		b.Dy = 1
	}
}
