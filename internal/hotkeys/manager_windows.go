//go:build windows

package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32DLL = syscall.NewLazyDLL("user32.dll")
	kernelDLL = syscall.NewLazyDLL("kernel32.dll")

	procRegisterHotKey     = user32DLL.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32DLL.NewProc("UnregisterHotKey")
	procGetMessageW        = user32DLL.NewProc("GetMessageW")
	procTranslateMessage   = user32DLL.NewProc("TranslateMessage")
	procDispatchMessageW   = user32DLL.NewProc("DispatchMessageW")
	procPostThreadMessageW = user32DLL.NewProc("PostThreadMessageW")
	procPeekMessageW       = user32DLL.NewProc("PeekMessageW")
	procGetCurrentThreadID = kernelDLL.NewProc("GetCurrentThreadId")
)

const (
	wmHotkey   = 0x0312
	wmQuit     = 0x0012
	pmNoRemove = 0x0000

	// firstHotkeyID is the base for the application-defined hotkey IDs.
	// The four actions use firstHotkeyID..firstHotkeyID+3.
	firstHotkeyID int32 = 0x4000
)

// point mirrors the Win32 POINT struct.
type point struct {
	x int32
	y int32
}

// winMsg mirrors the Win32 MSG struct (tagMSG from winuser.h).
// Field order and types must not be changed -- the layout must match
// the Win32 binary layout on both 32-bit and 64-bit Windows.
type winMsg struct {
	hWnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32 // reserved by Windows; required for correct struct size
}

type loopReady struct {
	threadID uint32
	err      error
}

// activeLoop holds the state of the running hotkey message loop.
// When non-nil in Manager, all fields are valid and the loop goroutine is running.
type activeLoop struct {
	threadID uint32
	doneCh   chan struct{}
}

// Manager registers the fixed shortcut set as Win32 global hotkeys on a
// dedicated message-loop thread.
type Manager struct {
	mu     sync.Mutex
	active *activeLoop // nil when no hotkeys are registered
}

// NewManager creates a new hotkey manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start registers all four shortcut chords and invokes onAction with the
// fired action on every key press. Any registration failure unregisters the
// chords already registered and is returned to the caller.
func (m *Manager) Start(onAction func(Action)) error {
	if onAction == nil {
		return errors.New("onAction callback is required")
	}

	// Pre-check DLL availability so that failures produce clean errors
	// instead of panics from LazyProc.Call.
	if err := user32DLL.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	if err := kernelDLL.Load(); err != nil {
		return fmt.Errorf("kernel32.dll is unavailable: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stopLocked(); err != nil {
		return err
	}

	readyCh := make(chan loopReady, 1)
	doneCh := make(chan struct{})
	go runHotkeyLoop(onAction, readyCh, doneCh)

	ready := <-readyCh
	if ready.err != nil {
		return fmt.Errorf("global shortcut registration failed: %w", ready.err)
	}
	if ready.threadID == 0 {
		return errors.New("hotkey loop started but returned invalid thread ID 0")
	}

	m.active = &activeLoop{threadID: ready.threadID, doneCh: doneCh}
	return nil
}

// Stop unregisters every global hotkey and tears down the message loop.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

func (m *Manager) stopLocked() error {
	if m.active == nil {
		return nil
	}

	loop := m.active
	m.active = nil

	stopErr := postQuit(loop.threadID)

	timer := time.NewTimer(2 * time.Second)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-loop.doneCh:
		// Loop exited cleanly and unregistered its hotkeys.
	case <-timer.C:
		timeoutErr := fmt.Errorf("hotkey message loop stop timed out (threadID=%d)", loop.threadID)
		slog.Warn("[hotkey] message loop stop timed out, goroutine/thread may leak",
			"threadID", loop.threadID)
		stopErr = errors.Join(stopErr, timeoutErr)
	}

	return stopErr
}

func runHotkeyLoop(onAction func(Action), readyCh chan<- loopReady, doneCh chan struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(doneCh)

	threadID, err := getCurrentThreadID()
	if err != nil {
		readyCh <- loopReady{err: err}
		return
	}

	// PeekMessageW forces Windows to create the thread message queue so that
	// PostThreadMessageW in Stop() can deliver WM_QUIT. The return value is
	// intentionally not checked: queue creation is a side effect of the call
	// itself and returns 0 when no messages exist.
	var qmsg winMsg
	procPeekMessageW.Call(
		uintptr(unsafe.Pointer(&qmsg)),
		0,
		0,
		0,
		pmNoRemove,
	)

	// Register the whole chord set; WM_HOTKEY identifies the action by ID.
	actionsByID := make(map[int32]Action, len(Actions))
	var registered []int32
	for i, action := range Actions {
		chord := chords[action]
		id := firstHotkeyID + int32(i)
		if err := registerHotKey(id, chord.modifiers, chord.key); err != nil {
			for _, prev := range registered {
				if unregErr := unregisterHotKey(prev); unregErr != nil {
					slog.Warn("[hotkey] rollback unregister failed", "error", unregErr, "hotkeyID", prev)
				}
			}
			readyCh <- loopReady{err: fmt.Errorf("register %s: %w", action, err)}
			return
		}
		actionsByID[id] = action
		registered = append(registered, id)
	}
	defer func() {
		for _, id := range registered {
			if err := unregisterHotKey(id); err != nil {
				slog.Error("[hotkey] unregisterHotKey on loop exit failed (resource leak)",
					"error", err, "hotkeyID", id)
			}
		}
	}()

	readyCh <- loopReady{threadID: threadID}

	for {
		var msg winMsg
		ret, _, lastErr := procGetMessageW.Call(
			uintptr(unsafe.Pointer(&msg)),
			0,
			0,
			0,
		)
		switch int32(ret) {
		case -1:
			slog.Warn("[hotkey] GetMessageW returned error, exiting loop", "error", lastErr)
			return
		case 0:
			// WM_QUIT received -- normal shutdown path.
			slog.Info("[hotkey] message loop received WM_QUIT, exiting normally")
			return
		}

		if msg.message == wmHotkey {
			if action, ok := actionsByID[int32(msg.wParam)]; ok {
				// WM_HOTKEY is delivered on the key-press transition only,
				// so no pressed/released filtering is needed here.
				go onAction(action)
			}
			continue
		}

		// TranslateMessage and DispatchMessageW return values are informational
		// for a thread-level message loop without a window.
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
}

func registerHotKey(hotkeyID int32, modifiers uint32, key uint32) error {
	res, _, err := procRegisterHotKey.Call(
		0,
		uintptr(hotkeyID),
		uintptr(modifiers),
		uintptr(key),
	)
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("RegisterHotKey failed")
	}
	return err
}

func unregisterHotKey(hotkeyID int32) error {
	res, _, err := procUnregisterHotKey.Call(0, uintptr(hotkeyID))
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("UnregisterHotKey failed")
	}
	return err
}

func postQuit(threadID uint32) error {
	if threadID == 0 {
		return errors.New("cannot post WM_QUIT: threadID is 0")
	}
	res, _, err := procPostThreadMessageW.Call(
		uintptr(threadID),
		wmQuit,
		0,
		0,
	)
	if res != 0 {
		return nil
	}
	if err == syscall.Errno(0) {
		return errors.New("PostThreadMessageW failed")
	}
	return err
}

func getCurrentThreadID() (uint32, error) {
	tid, _, err := procGetCurrentThreadID.Call()
	if tid == 0 {
		return 0, fmt.Errorf("GetCurrentThreadId returned 0: %w", err)
	}
	return uint32(tid), nil
}
