package recognition

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"
	"time"

	"warscout/internal/config"
)

type recordedCall struct {
	binary string
	args   []string
	stdin  []byte
}

type fakeExecutor struct {
	calls  []recordedCall
	output []byte
	err    error
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string, stdin []byte) ([]byte, error) {
	f.calls = append(f.calls, recordedCall{binary: binary, args: args, stdin: stdin})
	return f.output, f.err
}

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestExecGrabberExpandsPlaceholders(t *testing.T) {
	exec := &fakeExecutor{output: samplePNG(t, 4, 3)}
	g, err := NewExecGrabber([]string{"grim", "-g", "{geometry}", "-t", "png", "-", "{x}:{y}:{w}:{h}"}, time.Second, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewExecGrabber failed: %v", err)
	}
	img, err := g.Grab(context.Background(), config.Rect{X: 10, Y: 20, Width: 4, Height: 3})
	if err != nil {
		t.Fatalf("Grab failed: %v", err)
	}
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	want := []string{"-g", "10,20 4x3", "-t", "png", "-", "10:20:4:3"}
	if exec.calls[0].binary != "grim" || !reflect.DeepEqual(exec.calls[0].args, want) {
		t.Fatalf("unexpected call %+v", exec.calls[0])
	}
}

func TestExecGrabberRejectsGarbage(t *testing.T) {
	g, err := NewExecGrabber([]string{"grab"}, 0, WithExecutor(&fakeExecutor{output: []byte("not an image")}))
	if err != nil {
		t.Fatalf("NewExecGrabber failed: %v", err)
	}
	if _, err := g.Grab(context.Background(), config.Rect{Width: 1, Height: 1}); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := NewExecGrabber(nil, 0); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"array", `[{"text":"吴大乔","confidence":0.9},{"text":"x"}]`, []string{"吴大乔", "x"}, false},
		{"json lines", "{\"text\":\"a\"}\n\n{\"text\":\"b\",\"box\":[1,2,3,4]}\n", []string{"a", "b"}, false},
		{"empty", "  \n", nil, false},
		{"broken array", `[{"text":`, nil, true},
		{"broken line", "{\"text\":\"a\"}\nnope", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := ParseTokens([]byte(tt.input))
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Fatalf("expected ErrParse, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTokens failed: %v", err)
			}
			var got []string
			for _, tok := range tokens {
				got = append(got, tok.Text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecRecognizerSendsPNG(t *testing.T) {
	exec := &fakeExecutor{output: []byte(`[{"text":"魏荀彧"}]`)}
	r, err := NewExecRecognizer([]string{"warscout-ocr", "--json"}, []string{"warscout-ocr", "--warmup"}, time.Second, WithExecutor(exec))
	if err != nil {
		t.Fatalf("NewExecRecognizer failed: %v", err)
	}
	if err := r.Warmup(context.Background()); err != nil {
		t.Fatalf("Warmup failed: %v", err)
	}
	tokens, err := r.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Text != "魏荀彧" {
		t.Fatalf("unexpected tokens %+v", tokens)
	}
	if len(exec.calls) != 2 || exec.calls[0].args[0] != "--warmup" {
		t.Fatalf("unexpected calls %+v", exec.calls)
	}
	if _, err := png.Decode(bytes.NewReader(exec.calls[1].stdin)); err != nil {
		t.Fatalf("recognizer stdin is not a png: %v", err)
	}
}

func TestUpscale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{R: 255, A: 255})
	out := Upscale(src, 2)
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if r, _, _, _ := out.At(5, 3).RGBA(); r == 0 {
		t.Fatal("expected bottom-right pixel to stay red")
	}
	if Upscale(src, 1) != image.Image(src) {
		t.Fatal("factor 1 must return the input")
	}
}

func TestUpscaleInterpolatesEdges(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.RGBA{A: 255})
	src.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	out := Upscale(src, 2)

	blended := false
	for x := 1; x <= 2; x++ {
		if r, _, _, _ := out.At(x, 0).RGBA(); r > 0 && r < 0xffff {
			blended = true
		}
	}
	if !blended {
		t.Fatal("expected interpolated pixels between the black and white source pixels")
	}
}

type stubGrabber struct {
	img  image.Image
	err  error
	last config.Rect
}

func (s *stubGrabber) Grab(_ context.Context, rect config.Rect) (image.Image, error) {
	s.last = rect
	return s.img, s.err
}

type stubRecognizer struct {
	tokens  []Token
	err     error
	warmErr error
	bounds  image.Rectangle
}

func (s *stubRecognizer) Recognize(_ context.Context, img image.Image) ([]Token, error) {
	s.bounds = img.Bounds()
	return s.tokens, s.err
}

func (s *stubRecognizer) Warmup(context.Context) error { return s.warmErr }

func startedEngine(t *testing.T, g Grabber, r Recognizer) *Engine {
	t.Helper()
	e := NewEngine(g, r, 2, nil)
	e.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Wait(ctx); err != nil {
		t.Fatalf("engine did not become ready: %v", err)
	}
	return e
}

func TestEngineOutcomes(t *testing.T) {
	region := config.Rect{Width: 2, Height: 2}
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	tests := []struct {
		name     string
		grabber  *stubGrabber
		recog    *stubRecognizer
		rect     config.Rect
		want     Outcome
		wantText string
	}{
		{"ok", &stubGrabber{img: img}, &stubRecognizer{tokens: []Token{{Text: "战报"}, {Text: " ＡＢ "}}}, region, OK, "战报AB"},
		{"no region", &stubGrabber{img: img}, &stubRecognizer{}, config.Rect{}, NoRegion, ""},
		{"capture failed", &stubGrabber{err: errors.New("no display")}, &stubRecognizer{}, region, CaptureFailed, ""},
		{"no text", &stubGrabber{img: img}, &stubRecognizer{tokens: []Token{{Text: "  "}}}, region, NoText, ""},
		{"recognize failed", &stubGrabber{img: img}, &stubRecognizer{err: errors.New("crash")}, region, RecognizeFailed, ""},
		{"parse failed", &stubGrabber{img: img}, &stubRecognizer{err: ErrParse}, region, ParseFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := startedEngine(t, tt.grabber, tt.recog)
			got := e.Read(context.Background(), tt.rect, false)
			if got.Outcome != tt.want {
				t.Fatalf("outcome %v, want %v (err=%v)", got.Outcome, tt.want, got.Err)
			}
			if got.Text != tt.wantText {
				t.Fatalf("text %q, want %q", got.Text, tt.wantText)
			}
			if got.Failed() != (got.Err != nil) {
				t.Fatalf("Failed()=%v but Err=%v", got.Failed(), got.Err)
			}
		})
	}
}

func TestEngineNotReadyBeforeStart(t *testing.T) {
	e := NewEngine(&stubGrabber{}, &stubRecognizer{}, 2, nil)
	if e.Ready() {
		t.Fatal("engine must not be ready before Start")
	}
	if got := e.Read(context.Background(), config.Rect{Width: 1, Height: 1}, false); got.Outcome != NotReady {
		t.Fatalf("expected NotReady, got %v", got.Outcome)
	}
}

func TestEngineUpscalesOnRequest(t *testing.T) {
	rec := &stubRecognizer{tokens: []Token{{Text: "a"}}}
	e := startedEngine(t, &stubGrabber{img: image.NewGray(image.Rect(0, 0, 3, 3))}, rec)
	e.Read(context.Background(), config.Rect{Width: 3, Height: 3}, true)
	if rec.bounds.Dx() != 6 {
		t.Fatalf("expected upscaled width 6, got %d", rec.bounds.Dx())
	}
}

func TestEngineReadyAfterFailedWarmup(t *testing.T) {
	e := startedEngine(t, &stubGrabber{}, &stubRecognizer{warmErr: errors.New("model missing")})
	if !e.Ready() {
		t.Fatal("engine must publish readiness after warmup")
	}
	if e.WarmupErr() == nil {
		t.Fatal("expected warmup error to be kept")
	}
}
