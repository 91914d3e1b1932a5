package xpong_test

import (
	"testing"

	"github.com/guslan/xpong"
)

// simulateN runs n ticks with the same input
func simulateN(s *xpong.GameState, in xpong.Input, n int) {
	for i := 0; i < n; i++ {
		s.Simulate(in)
	}
}

func assertBallInGrid(t *testing.T, s *xpong.GameState) {
	t.Helper()
	if s.Ball.X < 0 || s.Ball.X >= xpong.Cols || s.Ball.Y < 0 || s.Ball.Y >= xpong.Rows {
		t.Fatalf(`ball = (%d, %d), expected it inside %dx%d`, s.Ball.X, s.Ball.Y, xpong.Cols, xpong.Rows)
	}
}

func assertPaddleInGrid(t *testing.T, name string, p xpong.Paddle) {
	t.Helper()
	if p.Y < 0 || p.Y > xpong.Rows-p.Height {
		t.Fatalf(`%s paddle y = %d, expected it in [0, %d]`, name, p.Y, xpong.Rows-p.Height)
	}
}

// TestInitialState checks the starting position of a match
func TestInitialState(t *testing.T) {
	s := xpong.NewGameState()

	wantY := (xpong.Rows - xpong.PaddleHeight) / 2
	if s.Left.Y != wantY || s.Right.Y != wantY {
		t.Fatalf(`paddles at y = %d and %d, expected both at %d`, s.Left.Y, s.Right.Y, wantY)
	}
	if s.Left.X != xpong.LeftPaddleX || s.Right.X != xpong.RightPaddleX {
		t.Fatalf(`paddles at x = %d and %d, expected %d and %d`, s.Left.X, s.Right.X, xpong.LeftPaddleX, xpong.RightPaddleX)
	}
	if s.Ball.X != xpong.Cols/2 || s.Ball.Y != xpong.Rows/2 {
		t.Fatalf(`ball = (%d, %d), expected the grid centre`, s.Ball.X, s.Ball.Y)
	}
	if s.ScoreLeft != 0 || s.ScoreRight != 0 {
		t.Fatalf(`scores = %d:%d, expected 0:0`, s.ScoreLeft, s.ScoreRight)
	}
	if !s.Running {
		t.Fatalf(`s.Running = false, expected true`)
	}
}

// TestPaddleClampsAtTop keeps pushing the left paddle up at the top row
func TestPaddleClampsAtTop(t *testing.T) {
	s := xpong.NewGameState()
	s.Left.Y = 0

	s.Simulate(xpong.Input{LeftUp: true})

	if s.Left.Y != 0 {
		t.Fatalf(`s.Left.Y = %d, expected 0`, s.Left.Y)
	}
}

func TestPaddleClampsAtBottom(t *testing.T) {
	s := xpong.NewGameState()

	simulateN(s, xpong.Input{}, 40)

	want := xpong.Rows - xpong.PaddleHeight
	if s.Left.Y != want || s.Right.Y != want {
		t.Fatalf(`paddles at y = %d and %d, expected both at %d`, s.Left.Y, s.Right.Y, want)
	}
}

// TestPaddlesMoveEveryTick checks paddle motion is not divided like the ball's
func TestPaddlesMoveEveryTick(t *testing.T) {
	s := xpong.NewGameState()
	startL, startR := s.Left.Y, s.Right.Y

	s.Simulate(xpong.Input{LeftUp: true, RightUp: false})

	if s.Left.Y != startL-1 {
		t.Fatalf(`s.Left.Y = %d, expected %d`, s.Left.Y, startL-1)
	}
	if s.Right.Y != startR+1 {
		t.Fatalf(`s.Right.Y = %d, expected %d`, s.Right.Y, startR+1)
	}
}

// TestBallMovesEveryThirdTick checks the ball only moves on the divisor tick
func TestBallMovesEveryThirdTick(t *testing.T) {
	s := xpong.NewGameState()
	start := s.Ball

	for i := 1; i < xpong.BallDivisor; i++ {
		s.Simulate(xpong.Input{})
		if s.Ball != start {
			t.Fatalf(`ball moved on tick %d, expected it to wait for tick %d`, i, xpong.BallDivisor)
		}
	}

	s.Simulate(xpong.Input{})
	if s.Ball.X != start.X+start.Dx || s.Ball.Y != start.Y+start.Dy {
		t.Fatalf(`ball = (%d, %d), expected (%d, %d)`, s.Ball.X, s.Ball.Y, start.X+start.Dx, start.Y+start.Dy)
	}
	if s.BallTick() != 0 {
		t.Fatalf(`s.BallTick() = %d, expected 0`, s.BallTick())
	}
}

// TestBallChangesAtMostOncePerWindow runs a long match and looks at every window of 3 ticks
func TestBallChangesAtMostOncePerWindow(t *testing.T) {
	s := xpong.NewGameState()

	var history []xpong.Ball
	for i := 0; i < 600 && s.Running; i++ {
		in := xpong.Input{LeftUp: i%7 < 3, RightUp: i%5 < 2}
		before := s.Ball
		s.Simulate(in)
		history = append(history, before)
		assertBallInGrid(t, s)
		assertPaddleInGrid(t, "left", s.Left)
		assertPaddleInGrid(t, "right", s.Right)
	}

	for i := 0; i+3 < len(history); i++ {
		moves := 0
		for j := i; j < i+3; j++ {
			a, b := history[j], history[j+1]
			if a.X != b.X || a.Y != b.Y {
				moves++
			}
		}
		if moves > 1 {
			t.Fatalf(`ball moved %d times in ticks %d..%d, expected at most once`, moves, i, i+2)
		}
	}
}

// TestScoreOnRightEdge places the ball on the last column heading right
func TestScoreOnRightEdge(t *testing.T) {
	s := xpong.NewGameState()
	s.Ball = xpong.Ball{X: xpong.Cols - 1, Y: 3, Dx: 1, Dy: -1}
	// keep the right paddle away from the ball's row
	s.Right.Y = xpong.Rows - xpong.PaddleHeight

	simulateN(s, xpong.Input{RightUp: false}, xpong.BallDivisor)

	if s.ScoreLeft != 1 {
		t.Fatalf(`s.ScoreLeft = %d, expected 1`, s.ScoreLeft)
	}
	if s.ScoreRight != 0 {
		t.Fatalf(`s.ScoreRight = %d, expected 0`, s.ScoreRight)
	}
	if s.Ball.X != xpong.Cols/2 || s.Ball.Y != xpong.Rows/2 {
		t.Fatalf(`ball = (%d, %d), expected the grid centre`, s.Ball.X, s.Ball.Y)
	}
	if s.Ball.Dx != -1 {
		t.Fatalf(`s.Ball.Dx = %d, expected -1`, s.Ball.Dx)
	}
	if s.Ball.Dy != -1 {
		t.Fatalf(`s.Ball.Dy = %d, expected the vertical direction to be kept`, s.Ball.Dy)
	}
	if !s.ScoreDirty {
		t.Fatalf(`s.ScoreDirty = false, expected true`)
	}
}

func TestScoreOnLeftEdge(t *testing.T) {
	s := xpong.NewGameState()
	s.Ball = xpong.Ball{X: 1, Y: 20, Dx: -1, Dy: 1}
	s.Left.Y = 0

	simulateN(s, xpong.Input{LeftUp: true}, xpong.BallDivisor)

	if s.ScoreRight != 1 || s.ScoreLeft != 0 {
		t.Fatalf(`scores = %d:%d, expected 0:1`, s.ScoreLeft, s.ScoreRight)
	}
	if s.Ball.Dx != 1 {
		t.Fatalf(`s.Ball.Dx = %d, expected 1`, s.Ball.Dx)
	}
}

// TestResetDefaultsVerticalDirection serves a ball that had no vertical speed
func TestResetDefaultsVerticalDirection(t *testing.T) {
	s := xpong.NewGameState()
	s.Ball = xpong.Ball{X: xpong.Cols - 2, Y: 3, Dx: 1, Dy: 0}
	s.Right.Y = xpong.Rows - xpong.PaddleHeight

	simulateN(s, xpong.Input{}, xpong.BallDivisor)

	if s.Ball.Dy != 1 {
		t.Fatalf(`s.Ball.Dy = %d, expected 1`, s.Ball.Dy)
	}
}

func TestBounceOnTopEdge(t *testing.T) {
	s := xpong.NewGameState()
	s.Ball = xpong.Ball{X: 10, Y: 1, Dx: 1, Dy: -1}

	simulateN(s, xpong.Input{}, xpong.BallDivisor)
	if s.Ball.Y != 0 || s.Ball.Dy != 1 {
		t.Fatalf(`ball y = %d dy = %d, expected y = 0 dy = 1`, s.Ball.Y, s.Ball.Dy)
	}

	simulateN(s, xpong.Input{}, xpong.BallDivisor)
	if s.Ball.Y != 1 {
		t.Fatalf(`s.Ball.Y = %d, expected 1 after bouncing`, s.Ball.Y)
	}
}

func TestBounceOnBottomEdge(t *testing.T) {
	s := xpong.NewGameState()
	s.Ball = xpong.Ball{X: 10, Y: xpong.Rows - 2, Dx: 1, Dy: 1}

	simulateN(s, xpong.Input{}, xpong.BallDivisor)
	if s.Ball.Y != xpong.Rows-1 || s.Ball.Dy != -1 {
		t.Fatalf(`ball y = %d dy = %d, expected y = %d dy = -1`, s.Ball.Y, s.Ball.Dy, xpong.Rows-1)
	}
}

// TestPaddleHitMiddle hits the right paddle away from its edge cells
func TestPaddleHitMiddle(t *testing.T) {
	s := xpong.NewGameState()
	// after this tick's move (down) the paddle spans 10..14
	s.Right.Y = 9
	s.Ball = xpong.Ball{X: xpong.RightPaddleX - 1, Y: 12, Dx: 1, Dy: 1}

	s.Simulate(xpong.Input{RightUp: false})

	if s.Ball.Dx != -1 {
		t.Fatalf(`s.Ball.Dx = %d, expected -1`, s.Ball.Dx)
	}
	if s.Ball.Dy != 1 {
		t.Fatalf(`s.Ball.Dy = %d, expected 1`, s.Ball.Dy)
	}
}

// TestPaddleHitEdge hits the top cell of the left paddle
func TestPaddleHitEdge(t *testing.T) {
	s := xpong.NewGameState()
	// after this tick's move (up) the paddle spans 5..9
	s.Left.Y = 6
	s.Ball = xpong.Ball{X: xpong.LeftPaddleX + 1, Y: 5, Dx: -1, Dy: 1}

	s.Simulate(xpong.Input{LeftUp: true})

	if s.Ball.Dx != 1 {
		t.Fatalf(`s.Ball.Dx = %d, expected 1`, s.Ball.Dx)
	}
	if s.Ball.Dy != -1 {
		t.Fatalf(`s.Ball.Dy = %d, expected -1`, s.Ball.Dy)
	}
}

func TestPaddleMiss(t *testing.T) {
	s := xpong.NewGameState()
	s.Left.Y = 15
	s.Ball = xpong.Ball{X: xpong.LeftPaddleX + 1, Y: 2, Dx: -1, Dy: 1}

	s.Simulate(xpong.Input{LeftUp: false})

	if s.Ball.Dx != -1 {
		t.Fatalf(`s.Ball.Dx = %d, expected the ball to keep going left`, s.Ball.Dx)
	}
}

// TestWinIsSticky plays a point that ends the match and keeps simulating
func TestWinIsSticky(t *testing.T) {
	s := xpong.NewGameState()
	s.ScoreLeft = xpong.WinScore - 1
	s.Ball = xpong.Ball{X: xpong.Cols - 1, Y: 3, Dx: 1, Dy: 1}
	s.Right.Y = xpong.Rows - xpong.PaddleHeight

	simulateN(s, xpong.Input{}, xpong.BallDivisor)

	if s.ScoreLeft != xpong.WinScore {
		t.Fatalf(`s.ScoreLeft = %d, expected %d`, s.ScoreLeft, xpong.WinScore)
	}
	if s.Running || !s.IsOver() {
		t.Fatalf(`s.Running = true, expected the match to be over`)
	}

	frozen := *s
	for i := 0; i < 50; i++ {
		s.Simulate(xpong.Input{LeftUp: i%2 == 0, RightUp: i%3 == 0})
	}

	if s.Running {
		t.Fatalf(`s.Running = true, expected it to stay false`)
	}
	if s.ScoreLeft != frozen.ScoreLeft || s.ScoreRight != frozen.ScoreRight {
		t.Fatalf(`scores = %d:%d, expected %d:%d`, s.ScoreLeft, s.ScoreRight, frozen.ScoreLeft, frozen.ScoreRight)
	}
	if s.Ball != frozen.Ball || s.Left != frozen.Left || s.Right != frozen.Right {
		t.Fatalf(`state changed after the match ended`)
	}
}

// TestScoringIsExclusive plays full matches and checks no tick scores twice
func TestScoringIsExclusive(t *testing.T) {
	s := xpong.NewGameState()

	for i := 0; i < 20000 && s.Running; i++ {
		l, r := s.ScoreLeft, s.ScoreRight
		s.Simulate(xpong.Input{LeftUp: i%11 < 5, RightUp: i%13 < 6})

		dl, dr := s.ScoreLeft-l, s.ScoreRight-r
		if dl < 0 || dr < 0 || dl+dr > 1 {
			t.Fatalf(`tick %d changed scores by %d:%d, expected at most one point`, i, dl, dr)
		}
	}
}
