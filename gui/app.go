package gui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/xpong"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	SegmentBarHeight = 70
	DigitWidth       = 30
	DigitHeight      = 50
	DigitGap         = 12
	SegmentThickness = 5

	SwitchBarHeight = 40
	SwitchWidth     = 40
	SwitchGap       = 4

	MessageBarGap   = 5
	MessageBarHeigh = 30
)

var SegmentOnColor = rl.Red
var SegmentOffColor = rl.NewColor(40, 0, 0, 255)
var SegmentBarBgColor = rl.Black
var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageWarning
	MessageError
)

type AppConfig struct {
	// RateHz of the board timer
	RateHz uint32
	// Scale of a VGA pixel in window pixels
	Scale int
}
type AppConfigCb func(config *AppConfig)

// App is a raylib window around a simulated board
type App struct {
	config AppConfig

	machine *xpong.Machine

	// screenMu guards screen and hex, both written from the interrupt context
	screenMu sync.Mutex
	screen   xpong.Frame
	hex      [xpong.HexCount]byte

	// ticks is published by an after-tick hook
	ticks atomic.Uint64

	texture rl.Texture2D
	pixels  []color.RGBA

	// Window width and height
	winW, winH int

	// Toolbar
	powerBtn bool

	lastMessage      string
	lastMessageColor color.RGBA
}

func NewApp(configs ...AppConfigCb) *App {
	config := &AppConfig{
		RateHz: xpong.DefaultRateHz,
		Scale:  2,
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &App{
		config: *config,
		screen: make(xpong.Frame, xpong.VGAScreen.Size()),
		pixels: make([]color.RGBA, xpong.VGAScreen.Size()),
	}
	for i := range app.hex {
		app.hex[i] = xpong.SegmentsBlank
	}

	app.machine = xpong.NewMachine([]xpong.Display{app}, func(mc *xpong.MachineConfig) {
		mc.RateHz = config.RateHz
		mc.Prepare = app.prepare
	})

	app.updateWindowSize()

	return app
}

func (app *App) updateWindowSize() {
	app.winW = max(xpong.VGAScreen.Width*app.config.Scale, xpong.SwitchCount*(SwitchWidth+SwitchGap)+SwitchGap)
	app.winH = ScreenPositionY + xpong.VGAScreen.Height*app.config.Scale + SegmentBarHeight + SwitchBarHeight + MessageBarHeigh
	slog.Info("Updating window size", slog.Int("width", app.winW), slog.Int("height", app.winH))
}

// prepare publishes the tick count and flip errors of a new console
func (app *App) prepare(console *xpong.Console) {
	app.ticks.Store(0)
	console.AddAfterTickHook(func(c *xpong.Console) {
		app.ticks.Store(uint64(c.Ticks()))
	})
	console.AddErrorHook(func(c *xpong.Console) {
		app.showMessage(c.LastError().Error(), MessageError)
	})
}

// PowerOn builds a fresh board and console and starts the board timer
func (app *App) PowerOn(ctx context.Context) error {
	return app.machine.PowerOn(ctx)
}

// PowerOff stops the board
func (app *App) PowerOff() {
	app.machine.PowerOff()
}

func (app *App) currentBoard() *xpong.Board {
	return app.machine.Board()
}

// Run powers the board on and runs the UI loop until the window closes
func (app *App) Run(ctx context.Context) error {
	rl.InitWindow(int32(app.winW), int32(app.winH), "xpong")
	defer rl.CloseWindow()

	img := rl.GenImageColor(xpong.VGAScreen.Width, xpong.VGAScreen.Height, ScreenBgColor)
	app.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(app.texture)

	if err := app.PowerOn(ctx); err != nil {
		return err
	}
	defer app.PowerOff()
	app.showMessage("Board powered on", MessageInfo)

	rl.SetTargetFPS(60)
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleActions(ctx)
		app.handleKeyPress()

		app.drawMessageBar()
		app.drawSwitches()
		app.drawSegments()
		app.drawScreen()
		app.drawToolbar()

		rl.EndDrawing()
	}

	return nil
}

func (app *App) handleActions(ctx context.Context) {
	if app.powerBtn {
		if err := app.machine.PowerCycle(ctx); err != nil {
			slog.Error("Error powering on", slog.Any("error", err))
			app.showMessage(err.Error(), MessageError)
			return
		}
		slog.Info("Power cycled the board")
		app.showMessage("Power cycled", MessageInfo)
	}
}

// keySwitches binds keys to the switch they toggle
var keySwitches = map[int32]uint{
	rl.KeyQ: xpong.LeftUpSwitch,
	rl.KeyP: xpong.RightUpSwitch,

	rl.KeyZero:  0,
	rl.KeyOne:   1,
	rl.KeyTwo:   2,
	rl.KeyThree: 3,
	rl.KeyFour:  4,
	rl.KeyFive:  5,
	rl.KeySix:   6,
	rl.KeySeven: 7,
	rl.KeyEight: 8,
	rl.KeyNine:  9,
}

func (app *App) handleKeyPress() {
	board := app.currentBoard()
	if board == nil {
		return
	}

	for key, sw := range keySwitches {
		if rl.IsKeyPressed(key) {
			board.ToggleSwitch(sw)
		}
	}
}

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.powerBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Power"),
	)

	status := "Off"
	if app.currentBoard() != nil {
		status = fmt.Sprintf("Tick %d", app.ticks.Load())
	}

	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth*2, ToolbarBtnHeight),
		status,
	)
	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-80, ToolbarGap, 80, ToolbarBtnHeight),
		fmt.Sprintf("%d Hz", app.config.RateHz),
	)
}

func (app *App) drawScreen() {
	app.screenMu.Lock()
	for i, c := range app.screen {
		app.pixels[i] = xpong.RGB332(c)
	}
	app.screenMu.Unlock()

	rl.UpdateTexture(app.texture, app.pixels)
	rl.DrawTextureEx(app.texture, rl.NewVector2(ScreenPositionX, ScreenPositionY), 0, float32(app.config.Scale), rl.White)
}

func (app *App) drawSegments() {
	top := int32(ScreenPositionY + xpong.VGAScreen.Height*app.config.Scale)
	rl.DrawRectangle(0, top, int32(app.winW), SegmentBarHeight, SegmentBarBgColor)

	app.screenMu.Lock()
	hex := app.hex
	app.screenMu.Unlock()

	total := xpong.HexCount*DigitWidth + (xpong.HexCount-1)*DigitGap
	x := float32(app.winW-total) / 2
	y := float32(top) + (SegmentBarHeight-DigitHeight)/2
	// HEX5 is leftmost
	for n := xpong.HexCount - 1; n >= 0; n-- {
		drawDigit(hex[n], x, y)
		x += DigitWidth + DigitGap
	}
}

func (app *App) drawSwitches() {
	board := app.currentBoard()
	if board == nil {
		return
	}

	top := float32(ScreenPositionY + xpong.VGAScreen.Height*app.config.Scale + SegmentBarHeight)
	sw := board.Switches()

	// SW9 is leftmost
	x := float32(SwitchGap)
	for n := xpong.SwitchCount - 1; n >= 0; n-- {
		on := sw&(1<<n) != 0
		active := gui.Toggle(
			rl.NewRectangle(x, top+SwitchGap, SwitchWidth, SwitchBarHeight-2*SwitchGap),
			fmt.Sprintf("SW%d", n),
			on,
		)
		if active != on {
			board.SetSwitch(uint(n), active)
		}
		x += SwitchWidth + SwitchGap
	}
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.screenMu.Lock()
	defer app.screenMu.Unlock()

	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	app.screenMu.Lock()
	msg, col := app.lastMessage, app.lastMessageColor
	app.screenMu.Unlock()

	rl.DrawText(
		msg,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		col,
	)
}
