package device

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// fakeCommander records every invocation and answers via reply.
type fakeCommander struct {
	calls [][]string
	reply func(args []string) ([]byte, error)
}

func (f *fakeCommander) Command(args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	if f.reply != nil {
		return f.reply(args)
	}
	return nil, nil
}

func (f *fakeCommander) callLines() []string {
	lines := make([]string, len(f.calls))
	for i, c := range f.calls {
		lines[i] = strings.Join(c, " ")
	}
	return lines
}

func TestDevice_GetSetting(t *testing.T) {
	fake := &fakeCommander{reply: func(args []string) ([]byte, error) {
		return []byte("15000\n"), nil
	}}
	d := New(fake)

	got, err := d.GetSetting("system", "screen_off_timeout")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "15000" {
		t.Errorf("GetSetting = %q, want %q", got, "15000")
	}
	want := "shell settings get system screen_off_timeout"
	if lines := fake.callLines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("calls = %v, want [%q]", lines, want)
	}
}

func TestDevice_PutSetting(t *testing.T) {
	fake := &fakeCommander{}
	d := New(fake)

	if err := d.PutSetting("global", "stay_on_while_plugged_in", "3"); err != nil {
		t.Fatalf("PutSetting: %v", err)
	}
	want := "shell settings put global stay_on_while_plugged_in 3"
	if lines := fake.callLines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("calls = %v, want [%q]", lines, want)
	}
}

func TestDevice_Tap(t *testing.T) {
	fake := &fakeCommander{}
	d := New(fake)

	if err := d.Tap(100, 200); err != nil {
		t.Fatalf("Tap: %v", err)
	}
	want := "shell input tap 100 200"
	if lines := fake.callLines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("calls = %v, want [%q]", lines, want)
	}
}

func TestDevice_TapSequence(t *testing.T) {
	cases := []struct {
		name  string
		x, y  int
		count int
		delay time.Duration
		want  string
	}{
		{
			name: "single tap has no sleep",
			x:    540, y: 2046, count: 1, delay: time.Second,
			want: "input tap 540 2046",
		},
		{
			name: "double tap one second apart",
			x:    540, y: 2046, count: 2, delay: time.Second,
			want: "input tap 540 2046 && sleep 1 && input tap 540 2046",
		},
		{
			name: "fractional delay",
			x:    5, y: 6, count: 3, delay: 800 * time.Millisecond,
			want: "input tap 5 6 && sleep 0.8 && input tap 5 6 && sleep 0.8 && input tap 5 6",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCommander{}
			d := New(fake)
			if err := d.TapSequence(tc.x, tc.y, tc.count, tc.delay); err != nil {
				t.Fatalf("TapSequence: %v", err)
			}
			if len(fake.calls) != 1 {
				t.Fatalf("got %d adb invocations, want 1 batched call", len(fake.calls))
			}
			call := fake.calls[0]
			if call[0] != "shell" || len(call) != 2 {
				t.Fatalf("call = %v, want [shell <script>]", call)
			}
			if call[1] != tc.want {
				t.Errorf("script = %q, want %q", call[1], tc.want)
			}
		})
	}
}

func TestDevice_TapSequence_RejectsZeroCount(t *testing.T) {
	fake := &fakeCommander{}
	d := New(fake)

	if err := d.TapSequence(10, 20, 0, time.Second); err == nil {
		t.Fatal("TapSequence with count 0 should fail")
	}
	if len(fake.calls) != 0 {
		t.Errorf("no adb call expected, got %v", fake.callLines())
	}
}

func TestDevice_Snapshot(t *testing.T) {
	const payload = `<?xml version='1.0'?><hierarchy rotation="0"></hierarchy>`
	var localPath string
	fake := &fakeCommander{reply: func(args []string) ([]byte, error) {
		if args[0] == "pull" {
			localPath = args[2]
			if err := os.WriteFile(localPath, []byte(payload), 0o644); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}}
	d := New(fake)

	data, err := d.Snapshot("/sdcard/ui_dump.xml")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if string(data) != payload {
		t.Errorf("Snapshot = %q, want %q", data, payload)
	}

	lines := fake.callLines()
	if len(lines) != 2 {
		t.Fatalf("calls = %v, want dump then pull", lines)
	}
	if lines[0] != "shell uiautomator dump /sdcard/ui_dump.xml" {
		t.Errorf("first call = %q", lines[0])
	}
	if fake.calls[1][0] != "pull" || fake.calls[1][1] != "/sdcard/ui_dump.xml" {
		t.Errorf("second call = %v, want pull of remote dump", fake.calls[1])
	}
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Errorf("local temp file %s was not cleaned up", localPath)
	}
}

func TestDevice_Snapshot_DumpFailure(t *testing.T) {
	fake := &fakeCommander{reply: func(args []string) ([]byte, error) {
		return nil, errors.New("no devices/emulators found")
	}}
	d := New(fake)

	if _, err := d.Snapshot("/sdcard/ui_dump.xml"); err == nil {
		t.Fatal("Snapshot should fail when the dump fails")
	}
	if len(fake.calls) != 1 {
		t.Errorf("got %d calls, want dump only (no pull after failure)", len(fake.calls))
	}
}

func TestDevice_Screencap(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	fake := &fakeCommander{reply: func(args []string) ([]byte, error) {
		return png, nil
	}}
	d := New(fake)

	data, err := d.Screencap()
	if err != nil {
		t.Fatalf("Screencap: %v", err)
	}
	if string(data) != string(png) {
		t.Errorf("Screencap bytes = %v, want %v", data, png)
	}
	want := "exec-out screencap -p"
	if lines := fake.callLines(); len(lines) != 1 || lines[0] != want {
		t.Errorf("calls = %v, want [%q]", lines, want)
	}
}
